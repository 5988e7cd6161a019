package ioc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeRegistrySingletonVisibleEverywhere(t *testing.T) {
	r := NewScopeRegistry()
	r.SetSingleton("x", 1)

	r.BeginScope()
	v, ok := r.Get("x")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestScopeRegistrySetScopedRequiresActiveScope(t *testing.T) {
	r := NewScopeRegistry()
	err := r.SetScoped("x", 1)
	assert.ErrorIs(t, err, ErrNoActiveScope)

	r.BeginScope()
	require.NoError(t, r.SetScoped("x", 1))
}

func TestScopeRegistryEndScopeRequiresActiveScope(t *testing.T) {
	r := NewScopeRegistry()
	assert.ErrorIs(t, r.EndScope(), ErrNoActiveScope)

	r.BeginScope()
	require.NoError(t, r.EndScope())
	assert.ErrorIs(t, r.EndScope(), ErrNoActiveScope)
}

func TestScopeRegistryScopedIsolation(t *testing.T) {
	r := NewScopeRegistry()

	r.BeginScope()
	require.NoError(t, r.SetScoped("x", "first"))
	v1, _ := r.Get("x")

	require.NoError(t, r.EndScope())
	r.BeginScope()
	_, ok := r.Get("x")
	assert.False(t, ok)

	require.NoError(t, r.SetScoped("x", "second"))
	v2, _ := r.Get("x")

	assert.NotEqual(t, v1, v2)
}

func TestScopeRegistryInnermostWins(t *testing.T) {
	r := NewScopeRegistry()
	r.SetSingleton("x", "root")

	r.BeginScope()
	require.NoError(t, r.SetScoped("x", "scoped"))

	v, _ := r.Get("x")
	assert.Equal(t, "scoped", v)
}

func TestScopeRegistryClear(t *testing.T) {
	r := NewScopeRegistry()
	r.SetSingleton("x", 1)
	r.BeginScope()

	r.Clear()
	assert.False(t, r.InScope())
	_, ok := r.Get("x")
	assert.False(t, ok)
}
