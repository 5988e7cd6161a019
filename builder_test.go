package ioc

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bldLogger interface{ Log(string) }
type bldConsole struct{}

func (bldConsole) Log(string) {}

type bldController struct{ Logger bldLogger }

func newBldController(l bldLogger) *bldController { return &bldController{Logger: l} }

type bldSpecialLogger struct{ bldConsole }

func TestBuilderSealTwiceErrors(t *testing.T) {
	b := NewBuilder(ContainerConfig{})
	_, err := b.Seal()
	require.NoError(t, err)

	_, err = b.Seal()
	assert.ErrorIs(t, err, ErrSealed)
}

func TestBuilderMutationAfterSealPanics(t *testing.T) {
	b := NewBuilder(ContainerConfig{})
	_, err := b.Seal()
	require.NoError(t, err)

	assert.PanicsWithValue(t, ErrSealed, func() {
		b.Instance("x", 1)
	})
}

func TestBuilderContextualBindingOverridesDefault(t *testing.T) {
	b := NewBuilder(ContainerConfig{})
	loggerID := TypeID(reflect.TypeOf((*bldLogger)(nil)).Elem())
	controllerID := TypeID(reflect.TypeOf(&bldController{}))

	b.Instance(loggerID, bldConsole{})
	special := &bldSpecialLogger{}
	b.When(controllerID).Needs(loggerID).Give(ToInstance(special))
	b.Singleton(controllerID, ToClass(reflect.TypeOf(&bldController{}), reflect.ValueOf(newBldController)))

	c, err := b.Seal()
	require.NoError(t, err)

	v, err := c.Get(controllerID)
	require.NoError(t, err)
	ctrl := v.(*bldController)
	assert.Same(t, special, ctrl.Logger)
}

func TestBuilderCompilerPassRunsBeforeSeal(t *testing.T) {
	ran := false
	b := NewBuilder(ContainerConfig{})
	b.AddCompilerPass(func(bb *Builder) error {
		ran = true
		bb.Instance("Marker", 1)
		return nil
	})
	c, err := b.Seal()
	require.NoError(t, err)
	assert.True(t, ran)
	assert.True(t, c.Has("Marker"))
}

func TestBuilderCompileDetectsCycleAtSealTime(t *testing.T) {
	b2 := NewBuilder(ContainerConfig{Compile: true})
	aID := TypeID(reflect.TypeOf(&bldCycleA{}))
	bID := TypeID(reflect.TypeOf(&bldCycleB{}))
	b2.Singleton(aID, ToClass(reflect.TypeOf(&bldCycleA{}), reflect.ValueOf(newBldCycleA)))
	b2.Singleton(bID, ToClass(reflect.TypeOf(&bldCycleB{}), reflect.ValueOf(newBldCycleB)))

	_, err := b2.Seal()
	require.Error(t, err)
	assert.True(t, IsCircularDependency(err))
}

type bldCycleA struct{ B *bldCycleB }
type bldCycleB struct{ A *bldCycleA }

func newBldCycleA(bb *bldCycleB) *bldCycleA { return &bldCycleA{B: bb} }
func newBldCycleB(aa *bldCycleA) *bldCycleB { return &bldCycleB{A: aa} }
