package eval

import "sort"

// Environment maps names to values. A name has exactly one binding, so it
// lives in exactly one domain.
type Environment struct {
	vars map[string]Value
}

// NewEnvironment returns an empty environment.
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]Value)}
}

// Get returns the binding of name.
func (e *Environment) Get(name string) (Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Set binds name to v, discarding any previous binding of any kind.
func (e *Environment) Set(name string, v Value) {
	e.vars[name] = v
}

// Delete removes the binding of name.
func (e *Environment) Delete(name string) {
	delete(e.vars, name)
}

// Len returns the number of bindings.
func (e *Environment) Len() int { return len(e.vars) }

// Names returns the bound names in sorted order.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns how many bindings have kind k.
func (e *Environment) Count(k Kind) int {
	n := 0
	for _, v := range e.vars {
		if v.Kind() == k {
			n++
		}
	}
	return n
}
