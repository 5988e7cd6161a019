package ioc

import (
	"reflect"
	"sync"
)

// TypeID returns the canonical abstract id for t: "pkgpath.Name", or
// "*pkgpath.Name" for a pointer to a named type. This is the module's
// substitute for loading a class by its bare string name (impossible in
// Go) — see DESIGN.md Open Question 2.
func TypeID(t reflect.Type) string {
	return formatType(t)
}

// typeIndex is the implicit id -> reflect.Type registry that makes
// TypeID-based autowiring possible: types registered through Bind/To with a
// ClassConcrete, Builder.RegisterType, or the generic Get[T] are recorded
// here, so a later Get(TypeID(t)) with no explicit Definition can still be
// synthesized as a ClassConcrete on demand. Constructor-parameter types are
// not recorded, so a dependency type that reached none of those paths is
// not autowired.
type typeIndex struct {
	mu    sync.RWMutex
	byID  map[string]reflect.Type
}

func newTypeIndex() *typeIndex {
	return &typeIndex{byID: make(map[string]reflect.Type)}
}

func (x *typeIndex) register(t reflect.Type) {
	if t == nil {
		return
	}
	id := formatType(t)
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.byID[id]; !ok {
		x.byID[id] = t
	}
}

func (x *typeIndex) lookup(id string) (reflect.Type, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	t, ok := x.byID[id]
	return t, ok
}

// Get is generic sugar over Container.Get that also registers T's type so
// later string-id based autowiring of T succeeds even if the caller only
// ever calls the generic form.
func Get[T any](c *Container) (T, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		t = reflect.TypeOf((*T)(nil)).Elem()
	}
	c.types.register(t)

	v, err := c.Get(TypeID(t))
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, &ContainerError{ID: TypeID(t), Message: "resolved value does not satisfy requested type"}
	}
	return out, nil
}

// MustGet panics if Get fails. Intended for program wiring code (main,
// init), not for request-path code.
func MustGet[T any](c *Container) T {
	v, err := Get[T](c)
	if err != nil {
		panic(err)
	}
	return v
}
