package interpreter

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUndefined     = errors.New("symbol does not exist")
	ErrRedeclared    = errors.New("identifier already declared")
	ErrTypeMismatch  = errors.New("type mismatch")
	ErrDepthExceeded = errors.New("scope chain depth exceeded")
)

// DefaultMaxScopeDepth bounds how many enclosing scopes a lookup may walk.
const DefaultMaxScopeDepth = 256

// scopeError carries a user-facing message while still matching one of the
// sentinels above through errors.Is.
type scopeError struct {
	kind error
	msg  string
}

func (e *scopeError) Error() string { return e.msg }
func (e *scopeError) Unwrap() error { return e.kind }

func scopeErrorf(kind error, format string, args ...any) error {
	return &scopeError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Environment is one scope in the chain. Children point at their parent and
// never the other way round, so the chain is a tree shared by pointer.
type Environment struct {
	store    map[string]Value
	outer    *Environment
	maxDepth int
}

func NewEnvironment() *Environment {
	return &Environment{store: map[string]Value{}, maxDepth: DefaultMaxScopeDepth}
}

// NewEnclosed creates a child scope inheriting the parent's depth limit. A nil
// parent yields a fresh root scope.
func NewEnclosed(outer *Environment) *Environment {
	if outer == nil {
		return NewEnvironment()
	}
	return &Environment{store: map[string]Value{}, outer: outer, maxDepth: outer.maxDepth}
}

// Depth counts the scopes above e.
func (e *Environment) Depth() int {
	d := 0
	for env := e.outer; env != nil; env = env.outer {
		d++
	}
	return d
}

// Names lists the names declared directly in e.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.store))
	for k := range e.store {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (e *Environment) Declare(name string, v Value) error {
	if _, ok := e.store[name]; ok {
		return scopeErrorf(ErrRedeclared, "Identifier %q already declared in this scope", name)
	}
	e.store[name] = v
	return nil
}

func (e *Environment) Get(name string) (Value, error) {
	holder, err := e.resolve(name)
	if err != nil {
		return Value{}, err
	}
	return holder.store[name], nil
}

// Set replaces an existing binding in whichever scope holds it. The new value
// must carry the same tag as the old one, and functions are never rebound.
func (e *Environment) Set(name string, v Value) error {
	holder, err := e.resolve(name)
	if err != nil {
		return err
	}
	old := holder.store[name]
	if old.Kind == ValFunction || v.Kind == ValFunction || old.Kind != v.Kind {
		return scopeErrorf(ErrTypeMismatch, "Cannot assign %s to variable %q of type %s", v.TypeName(), name, old.TypeName())
	}
	holder.store[name] = v
	return nil
}

func (e *Environment) resolve(name string) (*Environment, error) {
	hops := 0
	for env := e; env != nil; env = env.outer {
		if hops > e.maxDepth {
			return nil, scopeErrorf(ErrDepthExceeded, "Scope chain depth exceeded hard limit of %d", e.maxDepth)
		}
		if _, ok := env.store[name]; ok {
			return env, nil
		}
		hops++
	}
	return nil, scopeErrorf(ErrUndefined, "Symbol %q does not exist", name)
}

// snapshot copies the bindings declared directly in e.
func (e *Environment) snapshot() map[string]Value {
	out := make(map[string]Value, len(e.store))
	for k, v := range e.store {
		out[k] = v
	}
	return out
}
