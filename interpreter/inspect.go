package interpreter

import "sort"

// Globals returns a copy of the global bindings, natives included.
func (i *Interpreter) Globals() map[string]Value {
	return i.globals.snapshot()
}

// FuncNames returns sorted names of user-defined functions in the global scope.
func (i *Interpreter) FuncNames() []string {
	names := []string{}
	for name, v := range i.globals.store {
		if v.Kind == ValFunction && v.Fn.Kind == CallCustom {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// VarNames returns sorted names of global bindings that are not functions.
func (i *Interpreter) VarNames() []string {
	names := []string{}
	for _, name := range i.globals.Names() {
		if i.globals.store[name].Kind != ValFunction {
			names = append(names, name)
		}
	}
	return names
}
