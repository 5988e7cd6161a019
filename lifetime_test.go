package ioc

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifetimeString(t *testing.T) {
	assert.Equal(t, "Transient", Transient.String())
	assert.Equal(t, "Scoped", Scoped.String())
	assert.Equal(t, "Singleton", Singleton.String())
	assert.Equal(t, "Unknown(999)", Lifetime(999).String())
}

func TestLifetimeIsValid(t *testing.T) {
	assert.True(t, Transient.IsValid())
	assert.True(t, Scoped.IsValid())
	assert.True(t, Singleton.IsValid())
	assert.False(t, Lifetime(-1).IsValid())
	assert.False(t, Lifetime(3).IsValid())
}

func TestLifetimeTextRoundTrip(t *testing.T) {
	for _, lt := range []Lifetime{Transient, Scoped, Singleton} {
		text, err := lt.MarshalText()
		require.NoError(t, err)

		var got Lifetime
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, lt, got)
	}

	var got Lifetime
	err := got.UnmarshalText([]byte("bogus"))
	require.Error(t, err)
	var lifetimeErr *LifetimeError
	assert.ErrorAs(t, err, &lifetimeErr)
}

func TestLifetimeJSONRoundTrip(t *testing.T) {
	for _, lt := range []Lifetime{Transient, Scoped, Singleton} {
		data, err := json.Marshal(lt)
		require.NoError(t, err)

		var got Lifetime
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, lt, got)
	}
}

func TestLifetimeUnmarshalJSONInvalid(t *testing.T) {
	var lt Lifetime
	assert.Error(t, lt.UnmarshalJSON([]byte(`"nope"`)))
	assert.Error(t, lt.UnmarshalJSON([]byte(`0`)))
}

func TestLifetimeZeroValueIsTransient(t *testing.T) {
	var lt Lifetime
	assert.Equal(t, Transient, lt)
}
