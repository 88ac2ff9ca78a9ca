package parser

import (
	"strings"
	"testing"

	"badger/ast"
	"badger/lexer"
)

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	toks, lines := lexer.Tokenize(src)
	expr, err := New(toks, lines).ParseExpression()
	if err != nil {
		t.Fatalf("ParseExpression(%q): %v", src, err)
	}
	return expr
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "Binary(Number(1) + Binary(Number(2) * Number(3)))"},
		{"(1 + 2) * 3", "Binary(Group(Binary(Number(1) + Number(2))) * Number(3))"},
		{"1 - 2 - 3", "Binary(Binary(Number(1) - Number(2)) - Number(3))"},
		{"a % b / c", "Binary(Binary(Ident(a) % Ident(b)) / Ident(c))"},
		{"1 + 2 > 3", "Binary(Binary(Number(1) + Number(2)) > Number(3))"},
		{"1 < 2 == true", "Binary(Binary(Number(1) < Number(2)) == Bool(true))"},
		{"a == b and c != d", "Binary(Binary(Ident(a) == Ident(b)) and Binary(Ident(c) != Ident(d)))"},
		{"a or b and c", "Binary(Binary(Ident(a) or Ident(b)) and Ident(c))"},
		{"-x * 2", "Binary(Unary(- Ident(x)) * Number(2))"},
		{"!!ok", "Unary(! Unary(! Ident(ok)))"},
		{"a = b = 3", "Assign(a = Assign(b = Number(3)))"},
		{"x = 1 + 2", "Assign(x = Binary(Number(1) + Number(2)))"},
		{`"s" + 1.5`, `Binary(String("s") + Number(1.5))`},
		{"f(1, g(2))", "Call(Ident(f), [Number(1), Call(Ident(g), [Number(2)])])"},
		{"f()()", "Call(Call(Ident(f), []), [])"},
		{"-f(1)", "Unary(- Call(Ident(f), [Number(1)]))"},
		{"@self", "Symbol(@self)"},
		{"a & b || c", "Binary(Binary(Ident(a) and Ident(b)) or Ident(c))"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := parseExpr(t, tt.src).String(); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestDebugFormIsStable(t *testing.T) {
	expr := parseExpr(t, "a = (1 + b) * -c(d, \"e\")")
	first := expr.String()
	for i := 0; i < 3; i++ {
		if again := expr.String(); again != first {
			t.Fatalf("String() changed: %q then %q", first, again)
		}
	}
	if reparsed := parseExpr(t, "a = (1 + b) * -c(d, \"e\")").String(); reparsed != first {
		t.Errorf("reparse differs: %q vs %q", reparsed, first)
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"var decl", "num x = 5;", []string{"VarDecl(num x = Number(5))"}},
		{"num default", "num x;", []string{"VarDecl(num x = Number(0))"}},
		{"bool default", "bool b;", []string{"VarDecl(bool b = Bool(false))"}},
		{"str default", "str s;", []string{`VarDecl(str s = String(""))`}},
		{"var default", "var v;", []string{"VarDecl(var v = Number(0))"}},
		{"expr stmt", "println(1);", []string{"ExprStmt(Call(Ident(println), [Number(1)]))"}},
		{"return", "return 1;", []string{"Return(Number(1))"}},
		{"block", "{ num y = 1; y; }", []string{"Block([VarDecl(num y = Number(1)); ExprStmt(Ident(y))])"}},
		{"if", "if (a) b;", []string{"If(Ident(a), ExprStmt(Ident(b)))"}},
		{"if else", "if (a) { b; } else c;", []string{"If(Ident(a), Block([ExprStmt(Ident(b))]), else ExprStmt(Ident(c)))"}},
		{"while", "while (i < 3) i = i + 1;", []string{"While(Binary(Ident(i) < Number(3)), ExprStmt(Assign(i = Binary(Ident(i) + Number(1)))))"}},
		{"fxn", "fxn add(a, b) { return a + b; }", []string{"Fxn(add(a, b), [Return(Binary(Ident(a) + Ident(b)))])"}},
		{"fxn no params", "fxn f() { }", []string{"Fxn(f(), [])"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, _, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(stmts) != len(tt.want) {
				t.Fatalf("got %d statements, want %d", len(stmts), len(tt.want))
			}
			for i, s := range stmts {
				if s.String() != tt.want[i] {
					t.Errorf("stmt %d:\ngot  %s\nwant %s", i, s.String(), tt.want[i])
				}
			}
		})
	}
}

func TestOffsetsRecorded(t *testing.T) {
	stmts, _, err := Parse("num abc = 7;\nabc = 8;")
	if err != nil {
		t.Fatal(err)
	}
	decl := stmts[0].(*ast.VarDecl)
	if decl.Pos != 4 {
		t.Errorf("VarDecl offset = %d, want 4", decl.Pos)
	}
	if lit := decl.Init.(*ast.NumberLiteral); lit.Pos != 10 {
		t.Errorf("literal offset = %d, want 10", lit.Pos)
	}
	assign := stmts[1].(*ast.ExprStmt).Expr.(*ast.AssignExpr)
	if assign.Pos != 13 {
		t.Errorf("assign offset = %d, want 13", assign.Pos)
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"missing semicolon", "num x = 1", "Expected ';' after variable declaration at line 1, 9"},
		{"missing name", "num = 1;", "Expected variable name at line 1, 4"},
		{"missing expr", "x = ;", "Expected expression at line 1, 4"},
		{"bad target", "1 = 2;", "Invalid assignment target at line 1, 2"},
		{"grouped target", "(a) = 2;", "Invalid assignment target"},
		{"unclosed block", "{ num x = 1;", "Expected '}' after block"},
		{"if paren", "if a) b;", "Expected '(' after 'if'"},
		{"second line", "x;\ny = ;", "Expected expression at line 2, 5"},
		{"break unimplemented", "break;", "Expected expression"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.src)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("err = %q, want it to contain %q", err.Error(), tt.msg)
			}
		})
	}
}

func TestPanicModeRecovery(t *testing.T) {
	src := "num a = 1;\nnum b = ;\nnum c = 3;\nx = = 2; y = 4;\nif (a) { a; }"
	toks, lines := lexer.Tokenize(src)
	p := New(toks, lines)
	stmts, err := p.ParseProgram()
	if err == nil {
		t.Fatal("expected errors")
	}
	if len(p.Errors()) != 2 {
		t.Fatalf("errors = %v, want 2", p.Errors())
	}

	var got []string
	for _, s := range stmts {
		if s == nil {
			got = append(got, "<nil>")
			continue
		}
		got = append(got, s.NodeKind())
	}
	want := []string{"VarDecl", "<nil>", "VarDecl", "<nil>", "ExprStmt", "IfStmt"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("statements = %v, want %v", got, want)
	}
}

func TestRecoveryStopsAtStatementKeyword(t *testing.T) {
	stmts, _, err := Parse("x = ) ) ) while (false) {}")
	if err == nil {
		t.Fatal("expected error")
	}
	if len(stmts) != 2 || stmts[0] != nil {
		t.Fatalf("stmts = %v", stmts)
	}
	if _, ok := stmts[1].(*ast.WhileStmt); !ok {
		t.Errorf("stmts[1] = %T, want *ast.WhileStmt", stmts[1])
	}
}

func TestErrorInsideBlockKeepsBlock(t *testing.T) {
	stmts, _, err := Parse("{ num a = ; num b = 2; }")
	if err == nil {
		t.Fatal("expected error")
	}
	block, ok := stmts[0].(*ast.BlockStmt)
	if !ok {
		t.Fatalf("stmts[0] = %T", stmts[0])
	}
	if len(block.Body) != 1 || block.Body[0].String() != "VarDecl(num b = Number(2))" {
		t.Errorf("block = %s", block.String())
	}
}

func TestNewAtStartCursor(t *testing.T) {
	toks, lines := lexer.Tokenize("junk junk; num x = 1;")
	stmts, err := NewAt(toks, lines, 3).ParseProgram()
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 1 || stmts[0].NodeKind() != "VarDecl" {
		t.Errorf("stmts = %v", stmts)
	}
}

func TestMissingEOFIsTolerated(t *testing.T) {
	toks, lines := lexer.Tokenize("1;")
	toks = toks[:len(toks)-1]
	stmts, err := New(toks, lines).ParseProgram()
	if err != nil || len(stmts) != 1 {
		t.Fatalf("stmts = %v, err = %v", stmts, err)
	}
}
