package lower

import (
	"reflect"
	"strings"
	"testing"

	"badger/ast"
	"badger/parser"
)

func lowerSrc(t *testing.T, src string) []string {
	t.Helper()
	stmts, lines, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	code, err := Program(stmts, lines)
	if err != nil {
		t.Fatalf("Program(%q): %v", src, err)
	}
	return code
}

func TestProgram(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"empty", "", []string{"end"}},
		{"decl", "num x = 1 + 2 * 3;", []string{
			"t0 = 2 * 3",
			"t1 = 1 + t0",
			"new x",
			"x = t1",
			"end",
		}},
		{"comparison ops", "a == b != c;", []string{
			"t0 = a",
			"t1 = b",
			"t2 = t0 eq t1",
			"t3 = c",
			"t4 = t2 neq t3",
			"end",
		}},
		{"logic and unary", "!x and -y;", []string{
			"t0 = x",
			"t1 = invert t0",
			"t2 = y",
			"t3 = uneg t2",
			"t4 = t1 and t3",
			"end",
		}},
		{"assign", `s = "hi";`, []string{`s = "hi"`, "end"}},
		{"return", "return 5 >= 4;", []string{"t0 = 5 gte 4", "print t0", "ret t0", "end"}},
		{"call", "println(a + 1);", []string{
			"t0 = a",
			"t1 = t0 + 1",
			"param t1",
			"t2 = call println, 1",
			"end",
		}},
		{"if else", "if (c) x = 1; else x = 2;", []string{
			"t0 = c",
			"jne t0 L0",
			"x = 1",
			"jump L1",
			"label L0",
			"x = 2",
			"label L1",
			"end",
		}},
		{"if no else", "if (true) { x = 1; }", []string{
			"jne true L0",
			"x = 1",
			"label L0",
			"end",
		}},
		{"while", "while (i < 3) i = i + 1;", []string{
			"label L0",
			"t0 = i",
			"t1 = t0 lt 3",
			"jne t1 L1",
			"t2 = i",
			"t3 = t2 + 1",
			"i = t3",
			"jump L0",
			"label L1",
			"end",
		}},
		{"fxn", "fxn add(a, b) { return a + b; }", []string{
			"func add",
			"arg a",
			"arg b",
			"t0 = a",
			"t1 = b",
			"t2 = t0 + t1",
			"print t2",
			"ret t2",
			"endfunc",
			"end",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lowerSrc(t, tt.src); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(tt.want, "\n"))
			}
		})
	}
}

func TestProgramIsStableAndReadOnly(t *testing.T) {
	src := "num n = 0; fxn f(x) { if (x > 1) { return x * f(x - 1); } return 1; } while (n < 3) n = n + 1;"
	stmts, lines, err := parser.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	before := make([]string, len(stmts))
	for i, s := range stmts {
		before[i] = s.String()
	}

	first, err := Program(stmts, lines)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Program(stmts, lines)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("lowering the same tree twice differs")
	}
	for i, s := range stmts {
		if s.String() != before[i] {
			t.Errorf("stmt %d changed:\n%s\n%s", i, before[i], s.String())
		}
	}
}

func TestProgramSkipsNilStatements(t *testing.T) {
	stmts := []ast.Stmt{nil, &ast.ExprStmt{Expr: &ast.Identifier{Name: "a"}}}
	code, err := Program(stmts, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(code, []string{"t0 = a", "end"}) {
		t.Errorf("code = %v", code)
	}
}

func TestProgramErrors(t *testing.T) {
	stmts, lines, err := parser.Parse("fxn outer() {\n  fxn inner() { }\n}")
	if err != nil {
		t.Fatal(err)
	}
	_, err = Program(stmts, lines)
	if err == nil || !strings.Contains(err.Error(), "Cannot lower nested fxn inner at line 2") {
		t.Errorf("err = %v", err)
	}

	bad := []ast.Stmt{&ast.ExprStmt{Expr: &ast.BinaryExpr{
		Left:  &ast.NumberLiteral{Value: 1},
		Op:    ast.Operator{Pos: 2, Lexeme: "^"},
		Right: &ast.NumberLiteral{Value: 2},
	}}}
	if _, err := Program(bad, nil); err == nil || !strings.Contains(err.Error(), "Illegal binary operation at line 1, 2") {
		t.Errorf("err = %v", err)
	}
}
