package ioc

import (
	"reflect"

	"github.com/relaydev/ioc/internal/graph"
)

// Container is the sealed, immutable facade produced by Builder.Seal. It
// implements Resolver so it can itself be injected as a factory/extender
// dependency (spec §4.4, §6.1).
type Container struct {
	config ContainerConfig
	store  *DefinitionStore
	scopes *ScopeRegistry
	types  *typeIndex
	engine *ResolutionEngine
	graph  *graph.DependencyGraph
}

var _ Resolver = (*Container)(nil)

// Get resolves id through the full FSM, reusing a cached singleton/scoped
// instance when one exists.
func (c *Container) Get(id string) (any, error) {
	rc := newRootContext(id, nil, nil, false)
	return c.engine.Resolve(rc)
}

// Has reports whether id is registered or autowireable, without resolving
// it.
func (c *Container) Has(id string) bool {
	if c.store.Has(id) {
		return true
	}
	_, ok := c.types.lookup(id)
	return ok
}

// Make always builds a fresh instance, bypassing the singleton/scoped cache
// and skipping storage afterward (spec §4.4: "Make bypasses the cache").
func (c *Container) Make(id string, overrides map[string]any) (any, error) {
	rc := newRootContext(id, nil, overrides, true)
	return c.engine.Resolve(rc)
}

// Instance is sugar for registering a pre-built singleton post-seal. Spec
// §4.1 scopes registration to the Builder, but instance overrides (test
// doubles, request-scoped seams) are common enough that the container
// exposes a narrow, explicitly-named escape hatch rather than forcing a
// caller to keep the Builder around.
func (c *Container) Instance(id string, value any) {
	c.scopes.SetSingleton(id, value)
	if !c.store.Has(id) {
		_ = c.store.Add(&Definition{ID: id, Concrete: ToInstance(value), Lifetime: Singleton})
	}
}

// InjectInto fills target's injected fields and calls its injected
// methods, without constructing target itself. target must be a pointer to
// a struct.
func (c *Container) InjectInto(target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return &ContainerError{Message: "InjectInto requires a pointer to a struct"}
	}
	t := v.Type()

	cc := ClassConcrete{Type: t}
	proto, err := c.engine.analyzer.AnalyzeReflectionFor(cc)
	if err != nil {
		return err
	}

	rc := newRootContext(TypeID(t), t, nil, true)
	rc.proto = proto
	rc.instance = target

	for _, prop := range proto.InjectedProperties {
		val, err := c.engine.resolveParam(rc, prop.ParameterPrototype)
		if err != nil {
			if prop.AllowsNull || prop.HasDefault {
				continue
			}
			return err
		}
		field := v.Elem().FieldByIndex(prop.FieldIndex)
		if field.CanSet() {
			field.Set(val)
		}
	}

	for _, m := range proto.InjectedMethods {
		method := v.Method(m.MethodIndex)
		args := make([]reflect.Value, len(m.Parameters))
		for i, p := range m.Parameters {
			val, err := c.engine.resolveParam(rc, p)
			if err != nil {
				return err
			}
			args[i] = val
		}
		out := method.Call(args)
		if len(out) == 1 && !out[0].IsNil() {
			if errVal, ok := out[0].Interface().(error); ok && errVal != nil {
				return errVal
			}
		}
	}
	return nil
}

// CanInject reports whether target's type has at least one injection point
// (tagged field or Inject* method) that InjectInto would act on.
func (c *Container) CanInject(target any) bool {
	t := reflect.TypeOf(target)
	if t == nil {
		return false
	}
	props, methods, err := c.engine.analyzer.discovery.Discover(t)
	if err != nil {
		return false
	}
	return len(props) > 0 || len(methods) > 0
}

// BeginScope pushes a new scope frame, per spec §4.3.
func (c *Container) BeginScope() string {
	return c.scopes.BeginScope()
}

// EndScope pops the current scope frame, running Terminate on every
// instance it held. The instances are visited in no particular order.
func (c *Container) EndScope() error {
	instances, err := c.scopes.EndScopeWithInstances()
	if err != nil {
		return err
	}
	for _, inst := range instances {
		terminate(inst)
	}
	return nil
}

func terminate(inst any) {
	v := reflect.ValueOf(inst)
	if !v.IsValid() {
		return
	}
	m := v.MethodByName(terminatorMethodName)
	if !m.IsValid() || m.Type().NumIn() != 0 {
		return
	}
	m.Call(nil)
}

// Tagged resolves every id registered under tag, in registration order.
func (c *Container) Tagged(tag string) ([]any, error) {
	ids := c.store.Tagged(tag)
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		v, err := c.Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// validateGraph eagerly resolves every registered definition's constructor
// dependency shape into internal/graph, surfacing a cycle at Seal time
// instead of at first Get, per ContainerConfig.Compile.
func (c *Container) validateGraph() error {
	if c.graph == nil {
		c.graph = graph.New()
	}
	for _, id := range c.store.IDs() {
		def, _ := c.store.Get(id)
		cc, ok := def.Concrete.(ClassConcrete)
		if !ok || !cc.Constructor.IsValid() {
			continue
		}
		proto, err := c.engine.analyzer.AnalyzeReflectionFor(cc)
		if err != nil {
			return err
		}
		deps := make([]string, 0, len(proto.Constructor))
		for _, p := range proto.Constructor {
			if !p.IsVariadic {
				deps = append(deps, TypeID(p.Type))
			}
		}
		if err := c.graph.AddEdges(id, deps); err != nil {
			if gerr, ok := err.(*graph.CircularDependencyError); ok {
				return &CircularDependencyError{Path: gerr.Path}
			}
			return err
		}
	}
	return nil
}
