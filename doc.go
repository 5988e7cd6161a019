// Package ioc implements the runtime core of a dependency-injection
// container: a definition store, a reflection-based prototype analyzer and
// cache, a scope registry, a policy guard, and a staged resolution engine
// that turns an abstract id into a fully wired instance.
//
// # Registration
//
// Use a Builder to register definitions, then Seal it into a Container:
//
//	b := ioc.NewBuilder(ioc.ContainerConfig{})
//	b.Singleton("logger", ioc.ToFactory(func(c ioc.Resolver) (any, error) {
//		return NewLogger(), nil
//	}))
//	b.Transient("greeter", ioc.ToClass(reflect.TypeOf(Greeter{}), reflect.ValueOf(NewGreeter)))
//	c, err := b.Seal()
//
// A sealed Container is safe for concurrent Get/Make/Call/InjectInto calls;
// the Builder it came from must not be mutated further.
//
// # Resolution
//
//	greeter, err := c.Get("greeter")
//
// Get performs a full resolution through the engine's stage pipeline
// (Guard, DefinitionLookup, ContextualRewrite, CacheHit, Analyze,
// Instantiate, PropertyInject, MethodInject, ExtenderApply, Store,
// Initialize). Make behaves like Get but always builds a fresh instance,
// bypassing the singleton/scoped cache.
//
// # Scopes
//
// BeginScope/EndScope push and pop a single nested scope stack owned by the
// Container (see ScopeRegistry); scopes are thread-affine — do not call
// BeginScope/EndScope in a goroutine other than the one driving resolution.
package ioc
