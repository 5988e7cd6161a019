package ioc

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type callLogger interface{ Log(string) }
type callConsole struct{ lines []string }

func (c *callConsole) Log(s string) { c.lines = append(c.lines, s) }

type callHandler struct{ Logger callLogger }

func newCallHandler(l callLogger) *callHandler { return &callHandler{Logger: l} }

func (h *callHandler) Greet(name string) string {
	h.Logger.Log(name)
	return "hi " + name
}

func buildCallContainer(t *testing.T) *Container {
	t.Helper()
	b := NewBuilder(ContainerConfig{})
	loggerID := TypeID(reflect.TypeOf((*callLogger)(nil)).Elem())
	b.Instance(loggerID, &callConsole{})
	b.Singleton("Handler", ToClass(reflect.TypeOf(&callHandler{}), reflect.ValueOf(newCallHandler)))
	c, err := b.Seal()
	require.NoError(t, err)
	return c
}

func TestCallClosureAutowiresArgs(t *testing.T) {
	c := buildCallContainer(t)
	result, err := c.Call(func(l callLogger) string {
		l.Log("called")
		return "ok"
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
}

func TestCallClassAtMethod(t *testing.T) {
	c := buildCallContainer(t)
	result, err := c.Call("Handler@Greet", map[string]any{"a": "world"})
	require.NoError(t, err)
	assert.Equal(t, "hi world", result)
}

func TestCallTargetMethodPair(t *testing.T) {
	c := buildCallContainer(t)
	h := &callHandler{Logger: &callConsole{}}
	result, err := c.Call([2]any{h, "Greet"}, map[string]any{"a": "pair"})
	require.NoError(t, err)
	assert.Equal(t, "hi pair", result)
}

func TestCallRejectsUnknownShape(t *testing.T) {
	c := buildCallContainer(t)
	_, err := c.Call(42, nil)
	require.Error(t, err)
}
