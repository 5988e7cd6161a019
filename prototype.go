package ioc

import (
	"hash/fnv"
	"reflect"
	"sync"
)

// ServicePrototype is the cached reflection result for a class: what to
// build and what to inject.
type ServicePrototype struct {
	Class              reflect.Type
	IsInstantiable     bool
	Constructor        []ParameterPrototype
	InjectedProperties []PropertyPrototype
	InjectedMethods    []MethodPrototype
	HasInitializer     bool
	HasTerminator      bool

	// fingerprint is this module's Go-native substitute for "source file
	// checksum" (spec §4.2 step 1): an FNV-1a hash over the type's
	// reflected shape. See DESIGN.md Open Question 3.
	fingerprint uint64
}

const (
	initializerMethodName = "Initialize"
	terminatorMethodName  = "Terminate"
)

// TypeAnalyzer inspects a type once and caches the result, per spec §4.2.
type TypeAnalyzer struct {
	mu        sync.RWMutex
	memory    map[reflect.Type]*ServicePrototype
	discovery DiscoveryStrategy
	cache     PrototypeCache
}

// NewTypeAnalyzer builds a TypeAnalyzer. A nil discovery falls back to
// DefaultDiscoveryStrategy; a nil cache disables snapshot persistence, leaving
// only the in-process memo. (Builder.Seal always passes a cache: an in-memory
// one when ContainerConfig.CacheDir is "".)
func NewTypeAnalyzer(discovery DiscoveryStrategy, cache PrototypeCache) *TypeAnalyzer {
	if discovery == nil {
		discovery = DefaultDiscoveryStrategy
	}
	return &TypeAnalyzer{
		memory:    make(map[reflect.Type]*ServicePrototype),
		discovery: discovery,
		cache:     cache,
	}
}

// AnalyzeReflectionFor inspects concrete.Type (and, if present,
// concrete.Constructor) and returns its ServicePrototype, using the
// in-process memo first.
//
// Each newly analyzed type's wire-format snapshot (§6.2), fingerprint
// included, is written to the PrototypeCache, but the analyzer never reads
// the cache back and never compares a stored fingerprint: a live
// ServicePrototype carries real reflect.Type values, which Go cannot
// reconstruct from a cached string, so every process re-runs the (cheap,
// in-memory) reflection walk the first time it sees a type.
func (a *TypeAnalyzer) AnalyzeReflectionFor(concrete ClassConcrete) (*ServicePrototype, error) {
	a.mu.RLock()
	if p, ok := a.memory[concrete.Type]; ok {
		a.mu.RUnlock()
		return p, nil
	}
	a.mu.RUnlock()

	proto, err := a.analyze(concrete)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.memory[concrete.Type] = proto
	a.mu.Unlock()

	if a.cache != nil {
		_ = a.cache.Put(typeCacheKey(concrete.Type), toWireFormat(proto))
	}

	return proto, nil
}

func (a *TypeAnalyzer) analyze(concrete ClassConcrete) (*ServicePrototype, error) {
	t := concrete.Type

	proto := &ServicePrototype{
		Class:          t,
		IsInstantiable: isInstantiable(t, concrete.Constructor),
		fingerprint:    fingerprintOf(t, concrete.Constructor),
	}

	if !proto.IsInstantiable {
		return proto, nil
	}

	params, err := analyzeConstructor(t, concrete.Constructor)
	if err != nil {
		return nil, err
	}
	proto.Constructor = params

	props, methods, err := a.discovery.Discover(t)
	if err != nil {
		return nil, err
	}
	proto.InjectedProperties = props
	proto.InjectedMethods = methods

	proto.HasInitializer = hasLifecycleMethod(t, initializerMethodName)
	proto.HasTerminator = hasLifecycleMethod(t, terminatorMethodName)

	return proto, nil
}

func isInstantiable(t reflect.Type, constructor reflect.Value) bool {
	if constructor.IsValid() {
		return true
	}
	st := t
	for st.Kind() == reflect.Ptr {
		st = st.Elem()
	}
	return st.Kind() == reflect.Struct
}

func analyzeConstructor(t reflect.Type, constructor reflect.Value) ([]ParameterPrototype, error) {
	if !constructor.IsValid() {
		return nil, nil
	}
	if err := validateConstructor(constructor); err != nil {
		return nil, &ContainerError{ID: formatType(t), Message: err.Error()}
	}

	ft := constructor.Type()
	n := ft.NumIn()
	params := make([]ParameterPrototype, 0, n)
	for i := 0; i < n; i++ {
		pt := ft.In(i)
		variadic := ft.IsVariadic() && i == n-1
		params = append(params, ParameterPrototype{
			Name:       paramName(i),
			Type:       pt,
			AllowsNull: pt.Kind() == reflect.Ptr || pt.Kind() == reflect.Interface,
			IsVariadic: variadic,
		})
	}
	return params, nil
}

func paramName(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	if i < len(letters) {
		return string(letters[i])
	}
	return "p" + string(rune('0'+i))
}

func hasLifecycleMethod(t reflect.Type, name string) bool {
	m, ok := t.MethodByName(name)
	if !ok {
		return false
	}
	// must take no arguments beyond the receiver and return at most an error
	if m.Type.NumIn() != 1 {
		return false
	}
	switch m.Type.NumOut() {
	case 0:
		return true
	case 1:
		return m.Type.Out(0).Implements(errorType)
	default:
		return false
	}
}

func fingerprintOf(t reflect.Type, constructor reflect.Value) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(formatType(t)))

	if constructor.IsValid() {
		_, _ = h.Write([]byte(constructor.Type().String()))
	}

	st := t
	for st.Kind() == reflect.Ptr {
		st = st.Elem()
	}
	if st.Kind() == reflect.Struct {
		for i := 0; i < st.NumField(); i++ {
			f := st.Field(i)
			_, _ = h.Write([]byte(f.Name))
			_, _ = h.Write([]byte(f.Type.String()))
			_, _ = h.Write([]byte(f.Tag))
		}
	}
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		_, _ = h.Write([]byte(m.Name))
		_, _ = h.Write([]byte(m.Type.String()))
	}

	return h.Sum64()
}

func typeCacheKey(t reflect.Type) string {
	return formatType(t)
}
