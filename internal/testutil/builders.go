package testutil

import (
	"reflect"
	"testing"

	"github.com/relaydev/ioc"
	"github.com/stretchr/testify/require"
)

// ContainerBuilder provides a fluent interface for assembling test
// containers, mirroring the registration sugar on ioc.Builder while
// asserting each step succeeds.
type ContainerBuilder struct {
	t       *testing.T
	builder *ioc.Builder
}

// NewContainerBuilder starts a ContainerBuilder with config.
func NewContainerBuilder(t *testing.T, config ioc.ContainerConfig) *ContainerBuilder {
	return &ContainerBuilder{t: t, builder: ioc.NewBuilder(config)}
}

// WithSingleton registers a class-backed singleton under TypeID(producedType).
func (b *ContainerBuilder) WithSingleton(producedType reflect.Type, constructor any) *ContainerBuilder {
	b.builder.Singleton(ioc.TypeID(producedType), ioc.ToClass(producedType, reflect.ValueOf(constructor)))
	return b
}

// WithScoped registers a class-backed scoped service under TypeID(producedType).
func (b *ContainerBuilder) WithScoped(producedType reflect.Type, constructor any) *ContainerBuilder {
	b.builder.Scoped(ioc.TypeID(producedType), ioc.ToClass(producedType, reflect.ValueOf(constructor)))
	return b
}

// WithInstance registers a pre-built value under id.
func (b *ContainerBuilder) WithInstance(id string, value any) *ContainerBuilder {
	b.builder.Instance(id, value)
	return b
}

// WithExtender registers an extender against id.
func (b *ContainerBuilder) WithExtender(id string, ext ioc.Extender) *ContainerBuilder {
	b.builder.Extend(id, ext)
	return b
}

// Raw exposes the underlying Builder for calls this fixture does not wrap
// (When/Needs/Give, AddCompilerPass, Tag).
func (b *ContainerBuilder) Raw() *ioc.Builder {
	return b.builder
}

// Seal builds the Container and fails the test if sealing errors.
func (b *ContainerBuilder) Seal() *ioc.Container {
	c, err := b.builder.Seal()
	require.NoError(b.t, err, "failed to seal container")
	return c
}

// SealWithScope seals the container and begins a scope, registering a
// cleanup that ends it.
func (b *ContainerBuilder) SealWithScope() *ioc.Container {
	c := b.Seal()
	c.BeginScope()
	b.t.Cleanup(func() {
		_ = c.EndScope()
	})
	return c
}
