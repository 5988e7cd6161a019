package ioc

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cacheFixture struct{ Name string }

func TestMemoryPrototypeCacheRoundTrip(t *testing.T) {
	c := NewMemoryPrototypeCache()
	_, ok := c.Get("missing")
	assert.False(t, ok)

	w := &wirePrototype{Version: CacheFormatVersion, Class: "x.Y", Checksum: 42}
	require.NoError(t, c.Put("x.Y", w))

	got, ok := c.Get("x.Y")
	require.True(t, ok)
	assert.Equal(t, uint64(42), got.Checksum)

	require.NoError(t, c.Clear())
	_, ok = c.Get("x.Y")
	assert.False(t, ok)
}

func TestDiskPrototypeCachePersists(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskPrototypeCache(dir)

	w := &wirePrototype{Version: CacheFormatVersion, Class: "x.Y", Checksum: 7}
	require.NoError(t, c.Put("x.Y", w))

	reopened := NewDiskPrototypeCache(dir)
	got, ok := reopened.Get("x.Y")
	require.True(t, ok)
	assert.Equal(t, uint64(7), got.Checksum)

	_, err := filepathGlob(dir)
	require.NoError(t, err)
}

func TestDiskPrototypeCacheRejectsStaleVersion(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskPrototypeCache(dir)
	require.NoError(t, c.Put("x.Y", &wirePrototype{Version: CacheFormatVersion + 1, Class: "x.Y"}))

	reopened := NewDiskPrototypeCache(dir)
	_, ok := reopened.Get("x.Y")
	assert.False(t, ok, "a future/foreign format version must not be trusted")
}

func TestToWireFormatCarriesShape(t *testing.T) {
	proto := &ServicePrototype{
		Class:          reflect.TypeOf(cacheFixture{}),
		IsInstantiable: true,
		Constructor:    []ParameterPrototype{{Name: "a", Type: reflect.TypeOf("")}},
	}
	w := toWireFormat(proto)
	assert.Equal(t, CacheFormatVersion, w.Version)
	require.Len(t, w.Constructor, 1)
	assert.Equal(t, "string", w.Constructor[0].Type)
}

func filepathGlob(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, "*.json"))
}
