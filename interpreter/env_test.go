package interpreter

import (
	"errors"
	"reflect"
	"testing"
)

func TestDeclareAndGet(t *testing.T) {
	env := NewEnvironment()
	if err := env.Declare("x", NumberValue(1)); err != nil {
		t.Fatal(err)
	}
	v, err := env.Get("x")
	if err != nil || v.Number != 1 {
		t.Fatalf("Get(x) = %v, %v", v, err)
	}

	err = env.Declare("x", NumberValue(2))
	if !errors.Is(err, ErrRedeclared) {
		t.Errorf("redeclare err = %v, want ErrRedeclared", err)
	}
	if _, err := env.Get("nope"); !errors.Is(err, ErrUndefined) {
		t.Errorf("Get(nope) err = %v, want ErrUndefined", err)
	}
}

func TestShadowingInChildScope(t *testing.T) {
	parent := NewEnvironment()
	_ = parent.Declare("x", NumberValue(1))

	child := NewEnclosed(parent)
	if err := child.Declare("x", StringValue("inner")); err != nil {
		t.Fatalf("shadowing declare: %v", err)
	}
	if v, _ := child.Get("x"); v.Str != "inner" {
		t.Errorf("child x = %v", v)
	}
	if v, _ := parent.Get("x"); v.Number != 1 {
		t.Errorf("parent x = %v after child scope", v)
	}
}

func TestSetVisibleToAllHolders(t *testing.T) {
	parent := NewEnvironment()
	_ = parent.Declare("n", NumberValue(1))
	a := NewEnclosed(parent)
	b := NewEnclosed(parent)

	if err := a.Set("n", NumberValue(9)); err != nil {
		t.Fatal(err)
	}
	if v, _ := b.Get("n"); v.Number != 9 {
		t.Errorf("sibling sees n = %v, want 9", v)
	}
	if len(a.Names()) != 0 {
		t.Errorf("Set declared in child: %v", a.Names())
	}
}

func TestSetTypeMismatch(t *testing.T) {
	fn := FunctionValue(native("f", 0, nil))
	tests := []struct {
		name string
		old  Value
		new  Value
	}{
		{"num to str", NumberValue(1), StringValue("s")},
		{"str to bool", StringValue("s"), BoolValue(true)},
		{"bool to num", BoolValue(false), NumberValue(0)},
		{"function target", fn, fn},
		{"function value", NumberValue(1), fn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := NewEnvironment()
			_ = env.Declare("x", tt.old)
			if err := env.Set("x", tt.new); !errors.Is(err, ErrTypeMismatch) {
				t.Errorf("Set err = %v, want ErrTypeMismatch", err)
			}
		})
	}

	env := NewEnvironment()
	_ = env.Declare("x", NumberValue(5))
	err := env.Set("x", StringValue("s"))
	if err == nil || err.Error() != `Cannot assign str to variable "x" of type num` {
		t.Errorf("message = %v", err)
	}
	if err := env.Set("missing", NumberValue(1)); !errors.Is(err, ErrUndefined) {
		t.Errorf("Set(missing) err = %v", err)
	}
}

func TestScopeDepthLimit(t *testing.T) {
	root := NewEnvironment()
	root.maxDepth = 4
	_ = root.Declare("x", NumberValue(1))

	env := root
	for n := 0; n < 4; n++ {
		env = NewEnclosed(env)
	}
	if _, err := env.Get("x"); err != nil {
		t.Fatalf("depth 4: %v", err)
	}
	env = NewEnclosed(env)
	if env.Depth() != 5 {
		t.Fatalf("Depth() = %d", env.Depth())
	}
	if _, err := env.Get("x"); !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("depth 5 err = %v, want ErrDepthExceeded", err)
	}
}

func TestNewEnclosedNilParent(t *testing.T) {
	env := NewEnclosed(nil)
	if env.Depth() != 0 || env.maxDepth != DefaultMaxScopeDepth {
		t.Fatalf("Depth() = %d, maxDepth = %d", env.Depth(), env.maxDepth)
	}
	if err := env.Declare("x", NumberValue(1)); err != nil {
		t.Fatal(err)
	}
	if v, err := env.Get("x"); err != nil || v.Number != 1 {
		t.Errorf("Get(x) = %v, %v", v, err)
	}
}

func TestNamesSorted(t *testing.T) {
	env := NewEnvironment()
	for _, n := range []string{"b", "c", "a"} {
		_ = env.Declare(n, NumberValue(0))
	}
	if got := env.Names(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Names() = %v", got)
	}
}
