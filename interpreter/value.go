package interpreter

import (
	"strconv"
)

type ValueKind int

const (
	ValNumber ValueKind = iota
	ValString
	ValBool
	ValFunction
)

// Value is the runtime representation of every badger value. Only the field
// matching Kind is meaningful.
type Value struct {
	Kind   ValueKind
	Number float64
	Str    string
	Bool   bool
	Fn     Callable
}

func NumberValue(n float64) Value    { return Value{Kind: ValNumber, Number: n} }
func StringValue(s string) Value     { return Value{Kind: ValString, Str: s} }
func BoolValue(b bool) Value         { return Value{Kind: ValBool, Bool: b} }
func FunctionValue(c Callable) Value { return Value{Kind: ValFunction, Fn: c} }

// Empty is what statements, natives and bodiless functions produce when they
// have nothing better to return.
func Empty() Value { return NumberValue(0) }

// TypeName is the source-level name of v's tag.
func (v Value) TypeName() string {
	switch v.Kind {
	case ValNumber:
		return "num"
	case ValString:
		return "str"
	case ValBool:
		return "bool"
	default:
		return "fxn"
	}
}

func (v Value) ToString() string {
	switch v.Kind {
	case ValNumber:
		return formatNumber(v.Number)
	case ValString:
		return v.Str
	case ValBool:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return v.Fn.String()
	}
}

// Truthy converts any value to a boolean for conditions and '!'.
func (v Value) Truthy() bool {
	switch v.Kind {
	case ValNumber:
		return v.Number > 0
	case ValString:
		return v.Str != ""
	case ValBool:
		return v.Bool
	default:
		return v.Fn.Kind != CallNone
	}
}

// formatNumber prints the shortest decimal that round-trips: 1, 2.5, -0.125.
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
