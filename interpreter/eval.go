package interpreter

import (
	"math"
	"strings"

	"badger/ast"
)

// maxRepeatLen caps the length of a string built by str * num.
const maxRepeatLen = 1 << 26

func (i *Interpreter) evalExpr(e ast.Expr, env *Environment) (Value, error) {
	switch expr := e.(type) {
	case *ast.NumberLiteral:
		return NumberValue(expr.Value), nil

	case *ast.StringLiteral:
		return StringValue(expr.Value), nil

	case *ast.BoolLiteral:
		return BoolValue(expr.Value), nil

	case *ast.Identifier:
		v, err := env.Get(expr.Name)
		if err != nil {
			return Value{}, i.fail(err, expr.Pos)
		}
		return v, nil

	case *ast.SpecialSymbol:
		v, err := env.Get(expr.Name)
		if err != nil {
			return Value{}, i.fail(err, expr.Pos)
		}
		return v, nil

	case *ast.GroupExpr:
		return i.evalExpr(expr.Inner, env)

	case *ast.AssignExpr:
		v, err := i.evalExpr(expr.Value, env)
		if err != nil {
			return Value{}, err
		}
		if err := env.Set(expr.Name, v); err != nil {
			return Value{}, i.fail(err, expr.Pos)
		}
		return v, nil

	case *ast.UnaryExpr:
		right, err := i.evalExpr(expr.Right, env)
		if err != nil {
			return Value{}, err
		}
		switch expr.Op.Lexeme {
		case "!":
			return BoolValue(!right.Truthy()), nil
		case "-":
			if right.Kind != ValNumber {
				return Value{}, i.runtimeErr(expr.Op.Pos, "Operation '-' is not defined for %s", right.TypeName())
			}
			return NumberValue(-right.Number), nil
		default:
			return Value{}, i.runtimeErr(expr.Op.Pos, "Unknown unary operator %q", expr.Op.Lexeme)
		}

	case *ast.BinaryExpr:
		left, err := i.evalExpr(expr.Left, env)
		if err != nil {
			return Value{}, err
		}
		right, err := i.evalExpr(expr.Right, env)
		if err != nil {
			return Value{}, err
		}
		return i.binary(expr.Op, left, right)

	case *ast.CallExpr:
		return i.evalCall(expr, env)

	default:
		return Value{}, i.runtimeErr(e.Offset(), "Unsupported expression %s", e.NodeKind())
	}
}

// binary applies op to two already-evaluated operands. Both sides are always
// evaluated first; 'and' and 'or' do not short-circuit.
func (i *Interpreter) binary(op ast.Operator, l, r Value) (Value, error) {
	undefined := func() (Value, error) {
		return Value{}, i.runtimeErr(op.Pos, "Operation '%s' is not defined for %s and %s", op.Lexeme, l.TypeName(), r.TypeName())
	}

	switch op.Lexeme {
	case "+":
		switch {
		case l.Kind == ValNumber && r.Kind == ValNumber:
			return NumberValue(l.Number + r.Number), nil
		case l.Kind == ValString && r.Kind != ValFunction,
			r.Kind == ValString && l.Kind == ValNumber:
			return StringValue(l.ToString() + r.ToString()), nil
		}
		return undefined()

	case "-", "/", "%":
		if l.Kind != ValNumber || r.Kind != ValNumber {
			return undefined()
		}
		switch op.Lexeme {
		case "-":
			return NumberValue(l.Number - r.Number), nil
		case "/":
			return NumberValue(l.Number / r.Number), nil
		default:
			return NumberValue(math.Mod(l.Number, r.Number)), nil
		}

	case "*":
		if l.Kind == ValNumber && r.Kind == ValNumber {
			return NumberValue(l.Number * r.Number), nil
		}
		if l.Kind == ValString && r.Kind == ValNumber {
			n := r.Number
			if n < 0 || n != math.Trunc(n) || math.IsInf(n, 0) {
				return Value{}, i.runtimeErr(op.Pos, "String repetition count must be a non-negative integer")
			}
			if l.Str == "" {
				return StringValue(""), nil
			}
			if n*float64(len(l.Str)) > maxRepeatLen {
				return Value{}, i.runtimeErr(op.Pos, "String repetition count is too large (result over %d bytes)", maxRepeatLen)
			}
			return StringValue(strings.Repeat(l.Str, int(n))), nil
		}
		return undefined()

	case "and", "or":
		if l.Kind != ValBool || r.Kind != ValBool {
			return undefined()
		}
		if op.Lexeme == "and" {
			return BoolValue(l.Bool && r.Bool), nil
		}
		return BoolValue(l.Bool || r.Bool), nil

	case "==", "!=":
		if l.Kind != r.Kind || l.Kind == ValFunction {
			return undefined()
		}
		eq := false
		switch l.Kind {
		case ValNumber:
			eq = l.Number == r.Number
		case ValString:
			eq = l.Str == r.Str
		case ValBool:
			eq = l.Bool == r.Bool
		}
		if op.Lexeme == "!=" {
			eq = !eq
		}
		return BoolValue(eq), nil

	case ">", ">=", "<", "<=":
		var c int
		switch {
		case l.Kind == ValNumber && r.Kind == ValNumber:
			switch {
			case l.Number < r.Number:
				c = -1
			case l.Number > r.Number:
				c = 1
			case l.Number == r.Number:
				c = 0
			default:
				// NaN compares false under every ordering
				return BoolValue(false), nil
			}
		case l.Kind == ValString && r.Kind == ValString:
			c = strings.Compare(l.Str, r.Str)
		default:
			return undefined()
		}
		switch op.Lexeme {
		case ">":
			return BoolValue(c > 0), nil
		case ">=":
			return BoolValue(c >= 0), nil
		case "<":
			return BoolValue(c < 0), nil
		default:
			return BoolValue(c <= 0), nil
		}
	}
	return undefined()
}

func (i *Interpreter) evalCall(call *ast.CallExpr, env *Environment) (Value, error) {
	callee, err := i.evalExpr(call.Callee, env)
	if err != nil {
		return Value{}, err
	}
	args := make([]Value, 0, len(call.Args))
	for _, a := range call.Args {
		v, err := i.evalExpr(a, env)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}
	if callee.Kind != ValFunction {
		return Value{}, i.runtimeErr(call.Paren, "Cannot treat this value as callable")
	}
	fn := callee.Fn
	if fn.Kind != CallNone && len(args) != fn.Arity {
		return Value{}, i.runtimeErr(call.Paren, "Expected %d arguments but got %d", fn.Arity, len(args))
	}
	return i.call(fn, args, call.Paren)
}

func (i *Interpreter) call(fn Callable, args []Value, at int) (Value, error) {
	switch fn.Kind {
	case CallNative:
		return fn.Native(i, args)
	case CallCustom:
		return i.callFunction(fn.Fn, args, at)
	default:
		return Empty(), nil
	}
}

// callFunction runs fn's body in a fresh child of its closure scope. The
// result is the returned value, else the last statement's value.
func (i *Interpreter) callFunction(fn *Function, args []Value, at int) (Value, error) {
	if len(i.callStack) >= i.maxCallDepth {
		return Value{}, i.runtimeErr(at, "Call stack depth exceeded")
	}

	local := NewEnclosed(fn.Closure)
	for idx, name := range fn.Params {
		if err := local.Declare(name, args[idx]); err != nil {
			return Value{}, i.fail(err, at)
		}
	}

	caller := i.src
	if fn.Src.Lines != nil {
		i.src = fn.Src
	}
	i.callStack = append(i.callStack, fn.Name)
	defer func() {
		i.callStack = i.callStack[:len(i.callStack)-1]
		i.src = caller
	}()

	v, err := i.execBlock(fn.Body, local)
	if rs, ok := err.(ReturnSignal); ok {
		return rs.Val, nil
	}
	if err != nil {
		return Value{}, err
	}
	return v, nil
}
