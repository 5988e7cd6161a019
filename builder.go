package ioc

import (
	"reflect"
)

// Builder collects bindings before Seal produces an immutable Container,
// per spec §6.1's two-phase configure-then-seal lifecycle.
type Builder struct {
	config  ContainerConfig
	store   *DefinitionStore
	types   *typeIndex
	passes  []CompilerPass
	sealed  bool
}

// NewBuilder starts a fresh Builder.
func NewBuilder(config ContainerConfig) *Builder {
	return &Builder{
		config: config,
		store:  NewDefinitionStore(),
		types:  newTypeIndex(),
	}
}

func (b *Builder) mustNotBeSealed() {
	if b.sealed {
		panic(ErrSealed)
	}
}

// Bind registers a definition directly. Most callers use the Singleton/
// Scoped/Instance sugar below instead.
func (b *Builder) Bind(id string, concrete Concrete, lifetime Lifetime) *BindingBuilder {
	b.mustNotBeSealed()
	if cc, ok := concrete.(ClassConcrete); ok {
		b.types.register(cc.Type)
	}
	def := &Definition{ID: id, Concrete: concrete, Lifetime: lifetime, Arguments: map[string]Argument{}}
	_ = b.store.Add(def)
	return &BindingBuilder{builder: b, def: def}
}

// Singleton registers id to be built once and reused forever.
func (b *Builder) Singleton(id string, concrete Concrete) *BindingBuilder {
	return b.Bind(id, concrete, Singleton)
}

// Scoped registers id to be built once per active scope.
func (b *Builder) Scoped(id string, concrete Concrete) *BindingBuilder {
	return b.Bind(id, concrete, Scoped)
}

// Transient registers id to be built fresh on every resolution.
func (b *Builder) Transient(id string, concrete Concrete) *BindingBuilder {
	return b.Bind(id, concrete, Transient)
}

// Instance registers a pre-built value under id, as a permanent singleton.
func (b *Builder) Instance(id string, value any) *BindingBuilder {
	return b.Bind(id, ToInstance(value), Singleton)
}

// Tag attaches tags to one or more already-registered ids at once — the
// Builder-level bulk form of BindingBuilder.Tag (spec §6.1).
func (b *Builder) Tag(ids []string, tags ...string) *Builder {
	b.mustNotBeSealed()
	for _, id := range ids {
		for _, tag := range tags {
			b.store.AddTag(id, tag)
		}
	}
	return b
}

// Extend registers an extender against id, or every id when id is "*".
func (b *Builder) Extend(id string, ext Extender) *Builder {
	b.mustNotBeSealed()
	b.store.AddExtender(id, ext)
	return b
}

// When starts a contextual binding rule scoped to consumer.
func (b *Builder) When(consumer string) *ContextualBuilder {
	b.mustNotBeSealed()
	return &ContextualBuilder{builder: b, consumer: consumer}
}

// AddCompilerPass queues a pass to run once during Seal, in registration
// order, before the store becomes immutable.
func (b *Builder) AddCompilerPass(pass CompilerPass) *Builder {
	b.mustNotBeSealed()
	b.passes = append(b.passes, pass)
	return b
}

// Store exposes the underlying DefinitionStore to a CompilerPass.
func (b *Builder) Store() *DefinitionStore {
	return b.store
}

// RegisterType records t in the implicit type index without binding a
// Definition, enabling autowired (unregistered) resolution by TypeID(t).
func (b *Builder) RegisterType(t reflect.Type) *Builder {
	b.mustNotBeSealed()
	b.types.register(t)
	return b
}

// Seal runs queued compiler passes, then returns an immutable Container. A
// second call to Seal returns an error rather than panicking, since it is
// a caller mistake reachable at runtime (not a programming error during
// configuration).
func (b *Builder) Seal() (*Container, error) {
	if b.sealed {
		return nil, ErrSealed
	}
	if err := runCompilerPasses(b, b.passes); err != nil {
		return nil, err
	}
	b.sealed = true

	scopes := NewScopeRegistry()
	discovery := DefaultDiscoveryStrategy
	var cache PrototypeCache
	if b.config.CacheDir != "" {
		cache = NewDiskPrototypeCache(b.config.CacheDir)
	} else {
		cache = NewMemoryPrototypeCache()
	}
	analyzer := NewTypeAnalyzer(discovery, cache)

	guard := b.config.guard(b.store.Has, func(id string) bool {
		_, ok := b.types.lookup(id)
		return ok
	})

	engine := NewResolutionEngine(b.store, scopes, analyzer, b.types, guard.Check, b.config.maxDepth(), b.config.observer())

	c := &Container{
		config: b.config,
		store:  b.store,
		scopes: scopes,
		types:  b.types,
		engine: engine,
	}

	if b.config.Compile {
		if err := c.validateGraph(); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// BindingBuilder refines a single Definition right after registration.
type BindingBuilder struct {
	builder *Builder
	def     *Definition
}

// Tag attaches one or more tags to this binding.
func (bb *BindingBuilder) Tag(tags ...string) *BindingBuilder {
	bb.builder.mustNotBeSealed()
	for _, tag := range tags {
		if !bb.def.hasTag(tag) {
			bb.def.Tags = append(bb.def.Tags, tag)
		}
		bb.builder.store.tagIndex[tag] = appendUnique(bb.builder.store.tagIndex[tag], bb.def.ID)
	}
	return bb
}

// To replaces this binding's concrete implementation, fluently.
func (bb *BindingBuilder) To(concrete Concrete) *BindingBuilder {
	bb.builder.mustNotBeSealed()
	if cc, ok := concrete.(ClassConcrete); ok {
		bb.builder.types.register(cc.Type)
	}
	bb.def.Concrete = concrete
	return bb
}

// WithArgument pins a literal or referenced value for a named constructor
// parameter, bypassing autowiring for that slot.
func (bb *BindingBuilder) WithArgument(name string, arg Argument) *BindingBuilder {
	bb.builder.mustNotBeSealed()
	if bb.def.Arguments == nil {
		bb.def.Arguments = map[string]Argument{}
	}
	bb.def.Arguments[name] = arg
	return bb
}

// WithArguments pins several constructor arguments at once — the bulk form
// of WithArgument.
func (bb *BindingBuilder) WithArguments(args map[string]Argument) *BindingBuilder {
	bb.builder.mustNotBeSealed()
	if bb.def.Arguments == nil {
		bb.def.Arguments = map[string]Argument{}
	}
	for name, arg := range args {
		bb.def.Arguments[name] = arg
	}
	return bb
}

// ContextualBuilder implements the When(consumer).Needs(id).Give(concrete)
// fluent chain spec §4.1 describes.
type ContextualBuilder struct {
	builder  *Builder
	consumer string
	needs    string
}

// Needs names the abstract id the consumer requires.
func (cb *ContextualBuilder) Needs(id string) *ContextualBuilder {
	cb.needs = id
	return cb
}

// Give completes the rule, binding concrete for (consumer, needs).
func (cb *ContextualBuilder) Give(concrete Concrete) *Builder {
	cb.builder.store.AddContextualRule(ContextualRule{Consumer: cb.consumer, Needs: cb.needs, Concrete: concrete})
	return cb.builder
}
