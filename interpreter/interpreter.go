// interpreter/interpreter.go
package interpreter

import (
	"fmt"
	"io"
	"os"

	"badger/ast"
	"badger/diag"
	"badger/lexer"
	"badger/parser"
)

// DefaultMaxCallDepth bounds nested fxn calls so runaway recursion surfaces as
// a diagnostic instead of a Go stack overflow.
const DefaultMaxCallDepth = 1024

// ReturnSignal unwinds blocks, ifs and loops up to the enclosing call or the
// top-level run.
type ReturnSignal struct{ Val Value }

func (r ReturnSignal) Error() string { return "return" }

type Interpreter struct {
	globals *Environment
	out     io.Writer

	src Chunk

	maxScopeDepth int
	maxCallDepth  int
	echoReturns   bool
	strictLexer   bool

	callStack []string
}

type Option func(*Interpreter)

// WithOutput redirects print, println and return echoes.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

func WithMaxScopeDepth(n int) Option {
	return func(i *Interpreter) {
		if n > 0 {
			i.maxScopeDepth = n
		}
	}
}

func WithMaxCallDepth(n int) Option {
	return func(i *Interpreter) {
		if n > 0 {
			i.maxCallDepth = n
		}
	}
}

// WithEchoReturns controls whether every executed return prints its value.
func WithEchoReturns(on bool) Option {
	return func(i *Interpreter) { i.echoReturns = on }
}

// WithStrictLexer makes Eval reject characters the lexer does not recognize.
func WithStrictLexer(on bool) Option {
	return func(i *Interpreter) { i.strictLexer = on }
}

func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		out:           os.Stdout,
		maxScopeDepth: DefaultMaxScopeDepth,
		maxCallDepth:  DefaultMaxCallDepth,
		echoReturns:   true,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.Reset()
	return i
}

// Reset discards every global binding and reinstalls the natives.
func (i *Interpreter) Reset() {
	g := NewEnvironment()
	g.maxDepth = i.maxScopeDepth
	for _, n := range natives {
		_ = g.Declare(n.Name, FunctionValue(n))
	}
	i.globals = g
	i.callStack = nil
}

// Eval lexes, parses and runs src against the persistent global scope.
// Syntax errors stop it before anything executes.
func (i *Interpreter) Eval(filename, src string) (Value, error) {
	var (
		toks  []lexer.Token
		lines []int
	)
	if i.strictLexer {
		var err error
		toks, lines, err = lexer.TokenizeStrict(src)
		if err != nil {
			return Value{}, err
		}
	} else {
		toks, lines = lexer.Tokenize(src)
	}
	stmts, err := parser.New(toks, lines).ParseProgram()
	if err != nil {
		return Value{}, err
	}
	i.SetSource(filename, src, lines)
	return i.Run(stmts)
}

// Run executes stmts in the global scope. Nil entries left by syntax
// recovery are skipped. A top-level return ends the run with its value.
func (i *Interpreter) Run(stmts []ast.Stmt) (Value, error) {
	last := Empty()
	for _, s := range stmts {
		if s == nil {
			continue
		}
		v, err := i.execStmt(s, i.globals)
		if err != nil {
			if rs, ok := err.(ReturnSignal); ok {
				return rs.Val, nil
			}
			return Value{}, err
		}
		last = v
	}
	return last, nil
}

// runtimeErr positions msg in the active source and records the fxn call
// stack, innermost first.
func (i *Interpreter) runtimeErr(offset int, format string, args ...any) error {
	return i.locate(diag.Errorf(offset, i.src.Lines, format, args...))
}

// fail positions an environment error. Errors that already carry a position
// pass through untouched.
func (i *Interpreter) fail(err error, offset int) error {
	if _, ok := err.(*diag.Error); ok {
		return err
	}
	if _, ok := err.(ReturnSignal); ok {
		return err
	}
	return i.locate(diag.Wrap(err, offset, i.src.Lines).(*diag.Error))
}

// locate stamps d with the chunk it was raised in and the active call stack.
func (i *Interpreter) locate(d *diag.Error) *diag.Error {
	d.File = i.src.File
	d.Source = i.src.Text
	d.Stack = i.stackTrace()
	return d
}

func (i *Interpreter) stackTrace() []string {
	if len(i.callStack) == 0 {
		return nil
	}
	stack := make([]string, 0, len(i.callStack))
	for idx := len(i.callStack) - 1; idx >= 0; idx-- {
		stack = append(stack, i.callStack[idx])
	}
	return stack
}

func (i *Interpreter) execStmt(s ast.Stmt, env *Environment) (Value, error) {
	switch stmt := s.(type) {
	case *ast.ExprStmt:
		return i.evalExpr(stmt.Expr, env)

	case *ast.ReturnStmt:
		val, err := i.evalExpr(stmt.Value, env)
		if err != nil {
			return Value{}, err
		}
		if i.echoReturns {
			fmt.Fprintln(i.out, val.ToString())
		}
		return val, ReturnSignal{Val: val}

	case *ast.BlockStmt:
		return i.execBlock(stmt.Body, NewEnclosed(env))

	case *ast.VarDecl:
		val, err := i.evalExpr(stmt.Init, env)
		if err != nil {
			return Value{}, err
		}
		if !acceptsType(stmt.Type, val) {
			return Value{}, i.runtimeErr(stmt.Pos, "Expression is not of expected type (%s)", val.TypeName())
		}
		if err := env.Declare(stmt.Name, val); err != nil {
			return Value{}, i.fail(err, stmt.Pos)
		}
		return Empty(), nil

	case *ast.IfStmt:
		cond, err := i.evalExpr(stmt.Condition, env)
		if err != nil {
			return Value{}, err
		}
		if cond.Truthy() {
			return i.execStmt(stmt.Then, env)
		}
		if stmt.Else != nil {
			return i.execStmt(stmt.Else, env)
		}
		return Empty(), nil

	case *ast.WhileStmt:
		last := Empty()
		for {
			cond, err := i.evalExpr(stmt.Condition, env)
			if err != nil {
				return Value{}, err
			}
			if !cond.Truthy() {
				return last, nil
			}
			v, err := i.execStmt(stmt.Body, env)
			if err != nil {
				return v, err
			}
			last = v
		}

	case *ast.FxnDecl:
		fn := newFunction(stmt, env, i.src)
		if err := env.Declare(stmt.Name, FunctionValue(fn)); err != nil {
			return Value{}, i.fail(err, stmt.Pos)
		}
		return Empty(), nil

	default:
		return Value{}, i.runtimeErr(s.Offset(), "Unsupported statement %s", s.NodeKind())
	}
}

// execBlock runs stmts in env; the block's value is its last statement's.
func (i *Interpreter) execBlock(stmts []ast.Stmt, env *Environment) (Value, error) {
	last := Empty()
	for _, s := range stmts {
		if s == nil {
			continue
		}
		v, err := i.execStmt(s, env)
		if err != nil {
			return v, err
		}
		last = v
	}
	return last, nil
}

func acceptsType(declared string, v Value) bool {
	switch declared {
	case ast.TypeNum:
		return v.Kind == ValNumber
	case ast.TypeStr:
		return v.Kind == ValString
	case ast.TypeBool:
		return v.Kind == ValBool
	default:
		return true
	}
}
