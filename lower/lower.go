// Package lower flattens a parsed program into a linear, three-address style
// instruction listing. It never modifies the tree it reads.
package lower

import (
	"fmt"
	"strconv"

	"badger/ast"
	"badger/diag"
)

// binaryOps maps source operators to instruction mnemonics.
var binaryOps = map[string]string{
	"+":   "+",
	"-":   "-",
	"*":   "*",
	"/":   "/",
	"%":   "%",
	"and": "and",
	"or":  "or",
	"==":  "eq",
	"!=":  "neq",
	">":   "gt",
	">=":  "gte",
	"<":   "lt",
	"<=":  "lte",
}

type emitter struct {
	code   []string
	lines  []int
	temps  int
	labels int
	inFunc int
}

// Program lowers stmts, skipping nil entries left by syntax recovery. The
// listing always ends with "end".
func Program(stmts []ast.Stmt, lines []int) ([]string, error) {
	e := &emitter{lines: lines}
	for _, s := range stmts {
		if s == nil {
			continue
		}
		if err := e.stmt(s); err != nil {
			return nil, err
		}
	}
	e.emit("end")
	return e.code, nil
}

func (e *emitter) emit(format string, args ...any) {
	e.code = append(e.code, fmt.Sprintf(format, args...))
}

func (e *emitter) temp() string {
	t := "t" + strconv.Itoa(e.temps)
	e.temps++
	return t
}

func (e *emitter) label() string {
	l := "L" + strconv.Itoa(e.labels)
	e.labels++
	return l
}

func (e *emitter) unsupported(n ast.Node) error {
	kind := "<nil>"
	if n != nil {
		kind = n.NodeKind()
	}
	return diag.Errorf(ast.OffsetOf(n), e.lines, "Cannot lower %s", kind)
}

func (e *emitter) stmt(s ast.Stmt) error {
	switch st := s.(type) {
	case *ast.ExprStmt:
		_, err := e.expr(st.Expr)
		return err

	case *ast.ReturnStmt:
		v, err := e.expr(st.Value)
		if err != nil {
			return err
		}
		e.emit("print %s", v)
		e.emit("ret %s", v)
		return nil

	case *ast.VarDecl:
		v, err := e.expr(st.Init)
		if err != nil {
			return err
		}
		e.emit("new %s", st.Name)
		e.emit("%s = %s", st.Name, v)
		return nil

	case *ast.BlockStmt:
		return e.block(st.Body)

	case *ast.IfStmt:
		c, err := e.expr(st.Condition)
		if err != nil {
			return err
		}
		elseL := e.label()
		e.emit("jne %s %s", c, elseL)
		if err := e.stmt(st.Then); err != nil {
			return err
		}
		if st.Else == nil {
			e.emit("label %s", elseL)
			return nil
		}
		endL := e.label()
		e.emit("jump %s", endL)
		e.emit("label %s", elseL)
		if err := e.stmt(st.Else); err != nil {
			return err
		}
		e.emit("label %s", endL)
		return nil

	case *ast.WhileStmt:
		top, end := e.label(), e.label()
		e.emit("label %s", top)
		c, err := e.expr(st.Condition)
		if err != nil {
			return err
		}
		e.emit("jne %s %s", c, end)
		if err := e.stmt(st.Body); err != nil {
			return err
		}
		e.emit("jump %s", top)
		e.emit("label %s", end)
		return nil

	case *ast.FxnDecl:
		if e.inFunc > 0 {
			return diag.Errorf(st.Pos, e.lines, "Cannot lower nested fxn %s", st.Name)
		}
		e.inFunc++
		defer func() { e.inFunc-- }()
		e.emit("func %s", st.Name)
		for _, p := range st.Params {
			e.emit("arg %s", p)
		}
		if err := e.block(st.Body); err != nil {
			return err
		}
		e.emit("endfunc")
		return nil

	default:
		return e.unsupported(s)
	}
}

func (e *emitter) block(body []ast.Stmt) error {
	for _, s := range body {
		if s == nil {
			continue
		}
		if err := e.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

// expr emits the instructions computing x and returns the operand holding
// its value: a literal, a variable name or a temporary.
func (e *emitter) expr(x ast.Expr) (string, error) {
	switch ex := x.(type) {
	case *ast.NumberLiteral:
		return strconv.FormatFloat(ex.Value, 'f', -1, 64), nil

	case *ast.StringLiteral:
		return strconv.Quote(ex.Value), nil

	case *ast.BoolLiteral:
		return strconv.FormatBool(ex.Value), nil

	case *ast.Identifier:
		t := e.temp()
		e.emit("%s = %s", t, ex.Name)
		return t, nil

	case *ast.SpecialSymbol:
		t := e.temp()
		e.emit("%s = %s", t, ex.Name)
		return t, nil

	case *ast.GroupExpr:
		return e.expr(ex.Inner)

	case *ast.AssignExpr:
		v, err := e.expr(ex.Value)
		if err != nil {
			return "", err
		}
		e.emit("%s = %s", ex.Name, v)
		return v, nil

	case *ast.UnaryExpr:
		v, err := e.expr(ex.Right)
		if err != nil {
			return "", err
		}
		var op string
		switch ex.Op.Lexeme {
		case "!":
			op = "invert"
		case "-":
			op = "uneg"
		default:
			return "", diag.Errorf(ex.Op.Pos, e.lines, "Illegal unary operation")
		}
		t := e.temp()
		e.emit("%s = %s %s", t, op, v)
		return t, nil

	case *ast.BinaryExpr:
		l, err := e.expr(ex.Left)
		if err != nil {
			return "", err
		}
		r, err := e.expr(ex.Right)
		if err != nil {
			return "", err
		}
		op, ok := binaryOps[ex.Op.Lexeme]
		if !ok {
			return "", diag.Errorf(ex.Op.Pos, e.lines, "Illegal binary operation")
		}
		t := e.temp()
		e.emit("%s = %s %s %s", t, l, op, r)
		return t, nil

	case *ast.CallExpr:
		var callee string
		if id, ok := ex.Callee.(*ast.Identifier); ok {
			callee = id.Name
		} else {
			c, err := e.expr(ex.Callee)
			if err != nil {
				return "", err
			}
			callee = c
		}
		args := make([]string, 0, len(ex.Args))
		for _, a := range ex.Args {
			v, err := e.expr(a)
			if err != nil {
				return "", err
			}
			args = append(args, v)
		}
		for _, a := range args {
			e.emit("param %s", a)
		}
		t := e.temp()
		e.emit("%s = call %s, %d", t, callee, len(args))
		return t, nil

	default:
		return "", e.unsupported(x)
	}
}
