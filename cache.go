package ioc

import (
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
)

// CacheFormatVersion guards the on-disk wire format (spec §6.2): a mismatch
// forces re-analysis rather than misreading a stale or foreign file.
const CacheFormatVersion = 1

// wireParameter is the portable representation of a ParameterPrototype.
type wireParameter struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	AllowsNull bool   `json:"allowsNull"`
	HasDefault bool   `json:"hasDefault"`
	IsVariadic bool   `json:"isVariadic"`
}

// wireMethod is the portable representation of a MethodPrototype.
type wireMethod struct {
	Name       string          `json:"name"`
	Parameters []wireParameter `json:"parameters"`
}

// wirePrototype is the §6.2 on-disk representation of one ServicePrototype.
type wirePrototype struct {
	Version       int             `json:"version"`
	Class         string          `json:"class"`
	Checksum      uint64          `json:"checksum"`
	Instantiable  bool            `json:"instantiable"`
	Constructor   []wireParameter `json:"constructor"`
	Properties    []wireParameter `json:"properties"`
	Methods       []wireMethod    `json:"methods"`
	HasInitializer bool           `json:"hasInitializer"`
	HasTerminator  bool           `json:"hasTerminator"`
}

func toWireParam(p ParameterPrototype) wireParameter {
	typeName := "<nil>"
	if p.Type != nil {
		typeName = p.Type.String()
	}
	return wireParameter{
		Name:       p.Name,
		Type:       typeName,
		AllowsNull: p.AllowsNull,
		HasDefault: p.HasDefault,
		IsVariadic: p.IsVariadic,
	}
}

func toWireFormat(p *ServicePrototype) *wirePrototype {
	w := &wirePrototype{
		Version:        CacheFormatVersion,
		Class:          formatType(p.Class),
		Checksum:       p.fingerprint,
		Instantiable:   p.IsInstantiable,
		HasInitializer: p.HasInitializer,
		HasTerminator:  p.HasTerminator,
	}
	for _, c := range p.Constructor {
		w.Constructor = append(w.Constructor, toWireParam(c))
	}
	for _, prop := range p.InjectedProperties {
		w.Properties = append(w.Properties, toWireParam(prop.ParameterPrototype))
	}
	for _, m := range p.InjectedMethods {
		wm := wireMethod{Name: m.Name}
		for _, param := range m.Parameters {
			wm.Parameters = append(wm.Parameters, toWireParam(param))
		}
		w.Methods = append(w.Methods, wm)
	}
	return w
}

// PrototypeCache persists prototype wire-format snapshots, keyed by
// formatType(class). TypeAnalyzer.AnalyzeReflectionFor only writes to it;
// see there for why no snapshot is read back to build a ServicePrototype.
type PrototypeCache interface {
	Get(key string) (*wirePrototype, bool)
	Put(key string, p *wirePrototype) error
	Clear() error
}

// memoryPrototypeCache is the in-memory PrototypeCache used when
// ContainerConfig.CacheDir is empty.
type memoryPrototypeCache struct {
	mu    sync.RWMutex
	items map[string]*wirePrototype
}

// NewMemoryPrototypeCache builds an in-memory PrototypeCache.
func NewMemoryPrototypeCache() PrototypeCache {
	return &memoryPrototypeCache{items: make(map[string]*wirePrototype)}
}

func (c *memoryPrototypeCache) Get(key string) (*wirePrototype, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.items[key]
	return p, ok
}

func (c *memoryPrototypeCache) Put(key string, p *wirePrototype) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = p
	return nil
}

func (c *memoryPrototypeCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*wirePrototype)
	return nil
}

// diskPrototypeCache persists a single consolidated JSON file under dir
// (spec §6.2: "a single file per class is acceptable, or one consolidated
// file"). Reads/writes are best-effort per spec §5: a failed read falls
// back to live reflection, a failed write is ignored.
type diskPrototypeCache struct {
	mu   sync.Mutex
	dir  string
	file string
	mem  map[string]*wirePrototype
}

// NewDiskPrototypeCache builds a PrototypeCache backed by a consolidated
// "prototypes.json" file under dir, loading any existing contents eagerly.
func NewDiskPrototypeCache(dir string) PrototypeCache {
	c := &diskPrototypeCache{
		dir:  dir,
		file: filepath.Join(dir, "prototypes.json"),
		mem:  make(map[string]*wirePrototype),
	}
	c.load()
	return c
}

func (c *diskPrototypeCache) load() {
	data, err := os.ReadFile(c.file)
	if err != nil {
		return
	}
	var items map[string]*wirePrototype
	if err := json.Unmarshal(data, &items); err != nil {
		return
	}
	for k, v := range items {
		if v != nil && v.Version == CacheFormatVersion {
			c.mem[k] = v
		}
	}
}

func (c *diskPrototypeCache) Get(key string) (*wirePrototype, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.mem[key]
	return p, ok
}

func (c *diskPrototypeCache) Put(key string, p *wirePrototype) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mem[key] = p
	return c.flushLocked()
}

func (c *diskPrototypeCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mem = make(map[string]*wirePrototype)
	return c.flushLocked()
}

func (c *diskPrototypeCache) flushLocked() error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(c.mem)
	if err != nil {
		return err
	}
	tmp := c.file + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.file)
}
