package interpreter

import (
	"fmt"

	"badger/ast"
)

type CallableKind int

const (
	CallNone CallableKind = iota
	CallNative
	CallCustom
)

type NativeFunc func(i *Interpreter, args []Value) (Value, error)

// Function is a user-defined fxn. Closure is the scope it was declared in;
// Src is the chunk its body came from, so errors inside it point there.
type Function struct {
	Name    string
	Params  []string
	Body    []ast.Stmt
	Closure *Environment
	Src     Chunk
}

type Callable struct {
	Kind   CallableKind
	Name   string
	Arity  int
	Native NativeFunc
	Fn     *Function
}

func (c Callable) String() string {
	switch c.Kind {
	case CallNative:
		return fmt.Sprintf("<native %s>", c.Name)
	case CallCustom:
		return fmt.Sprintf("<fxn %s>", c.Name)
	default:
		return "<none>"
	}
}

// newFunction copies the declaration's parameter list so later edits to the
// AST never leak into a live function value.
func newFunction(decl *ast.FxnDecl, closure *Environment, src Chunk) Callable {
	params := make([]string, len(decl.Params))
	copy(params, decl.Params)
	body := make([]ast.Stmt, len(decl.Body))
	copy(body, decl.Body)
	return Callable{
		Kind:  CallCustom,
		Name:  decl.Name,
		Arity: len(params),
		Fn: &Function{
			Name:    decl.Name,
			Params:  params,
			Body:    body,
			Closure: closure,
			Src:     src,
		},
	}
}

func native(name string, arity int, fn NativeFunc) Callable {
	return Callable{Kind: CallNative, Name: name, Arity: arity, Native: fn}
}

// natives are declared in every fresh global scope.
var natives = []Callable{
	native("print", 1, func(i *Interpreter, args []Value) (Value, error) {
		fmt.Fprint(i.out, args[0].ToString())
		return Empty(), nil
	}),
	native("println", 1, func(i *Interpreter, args []Value) (Value, error) {
		fmt.Fprintln(i.out, args[0].ToString())
		return Empty(), nil
	}),
}
