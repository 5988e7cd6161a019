package ioc

import (
	"reflect"
)

const (
	stageGuard             = "Guard"
	stageDefinitionLookup  = "DefinitionLookup"
	stageContextualRewrite = "ContextualRewrite"
	stageCacheHit          = "CacheHit"
	stageAnalyze           = "Analyze"
	stageInstantiate       = "Instantiate"
	stagePropertyInject    = "PropertyInject"
	stageMethodInject      = "MethodInject"
	stageExtenderApply     = "ExtenderApply"
	stageStore             = "Store"
	stageInitialize        = "Initialize"
	stageDone              = ""
)

// stageFunc is one step of the resolution FSM (spec §4.5). It returns the
// next stage to run, or stageDone to stop.
type stageFunc func(e *ResolutionEngine, rc *resolutionContext) (next string, err error)

// ResolutionEngine drives a Definition through the Guard -> ... ->
// Initialize pipeline spec §4.5 specifies, resolving constructor, property
// and method dependencies recursively along the way.
type ResolutionEngine struct {
	store    *DefinitionStore
	scopes   *ScopeRegistry
	analyzer *TypeAnalyzer
	types    *typeIndex
	guardFn  func(id string) Decision
	maxDepth int
	observer Observer
	stages   map[string]stageFunc
}

// NewResolutionEngine wires a ResolutionEngine and builds its stage table.
func NewResolutionEngine(store *DefinitionStore, scopes *ScopeRegistry, analyzer *TypeAnalyzer, types *typeIndex, guardFn func(string) Decision, maxDepth int, observer Observer) *ResolutionEngine {
	if observer == nil {
		observer = NopObserver{}
	}
	e := &ResolutionEngine{
		store:    store,
		scopes:   scopes,
		analyzer: analyzer,
		types:    types,
		guardFn:  guardFn,
		maxDepth: maxDepth,
		observer: observer,
	}
	e.stages = map[string]stageFunc{
		stageGuard:             guardStage,
		stageDefinitionLookup:  definitionLookupStage,
		stageContextualRewrite: contextualRewriteStage,
		stageCacheHit:          cacheHitStage,
		stageAnalyze:           analyzeStage,
		stageInstantiate:       instantiateStage,
		stagePropertyInject:    propertyInjectStage,
		stageMethodInject:      methodInjectStage,
		stageExtenderApply:     extenderApplyStage,
		stageStore:             storeStage,
		stageInitialize:        initializeStage,
	}
	return e
}

// Resolve runs rc through the full FSM starting at Guard.
func (e *ResolutionEngine) Resolve(rc *resolutionContext) (any, error) {
	if rc.depth > e.maxDepth {
		return nil, &ResolutionError{ID: rc.id, Cause: ErrDepthExceeded, Trace: *rc.trace}
	}

	defer func() {
		if rc.heldLock != nil {
			rc.heldLock.Unlock()
			rc.heldLock = nil
		}
	}()

	stage := stageGuard
	for stage != stageDone {
		handler, ok := e.stages[stage]
		if !ok {
			return nil, ErrMissingStageHandler
		}
		e.observer.OnEvent(TraceEvent{Stage: stage, ID: rc.id})
		rc.record(stage, "")
		next, err := handler(e, rc)
		if err != nil {
			if _, isResErr := err.(*ResolutionError); isResErr {
				return nil, err
			}
			return nil, &ResolutionError{ID: rc.id, Cause: err, Trace: *rc.trace}
		}
		stage = next
	}
	return rc.instance, nil
}

func guardStage(e *ResolutionEngine, rc *resolutionContext) (string, error) {
	if e.guardFn == nil {
		return stageDefinitionLookup, nil
	}
	d := e.guardFn(rc.id)
	if !d.Allowed {
		return stageDone, &PolicyBlockedError{ID: rc.id, Reason: d.Reason, Code: d.Code}
	}
	return stageDefinitionLookup, nil
}

func definitionLookupStage(e *ResolutionEngine, rc *resolutionContext) (string, error) {
	if def, ok := e.store.Get(rc.id); ok {
		rc.def = def
		return stageContextualRewrite, nil
	}
	if t, ok := e.types.lookup(rc.id); ok {
		rc.def = &Definition{ID: rc.id, Concrete: ToClass(t, reflect.Value{}), Lifetime: Transient}
		return stageContextualRewrite, nil
	}
	return stageDone, ErrServiceNotFound
}

func contextualRewriteStage(e *ResolutionEngine, rc *resolutionContext) (string, error) {
	rc.concrete = rc.def.Concrete
	if rc.consumer != nil {
		consumerID := formatType(rc.consumer)
		if c, ok := e.store.MatchContextual(rc.consumer, consumerID, rc.id); ok {
			rc.concrete = c
		}
	}
	return stageCacheHit, nil
}

// cacheHitStage serves a cached Singleton/Scoped instance if one already
// exists. For those lifetimes it also acquires the id's per-id lock before
// re-checking the cache, per spec §5: two concurrent resolutions of the same
// id must not both miss and both construct. The lock is carried on rc and
// released by Resolve's deferred unlock once this chain reaches Store (or
// exits early on error), so it spans the whole Analyze->Store window.
func cacheHitStage(e *ResolutionEngine, rc *resolutionContext) (string, error) {
	if rc.fresh {
		return stageAnalyze, nil
	}
	switch rc.def.Lifetime {
	case Singleton, Scoped:
		if v, ok := e.scopes.Get(rc.id); ok {
			rc.instance = v
			return stageDone, nil
		}
		lock := e.scopes.lockFor(rc.id)
		lock.Lock()
		rc.heldLock = lock
		if v, ok := e.scopes.Get(rc.id); ok {
			rc.instance = v
			return stageDone, nil
		}
	}
	return stageAnalyze, nil
}

func analyzeStage(e *ResolutionEngine, rc *resolutionContext) (string, error) {
	if cc, ok := rc.concrete.(ClassConcrete); ok {
		proto, err := e.analyzer.AnalyzeReflectionFor(cc)
		if err != nil {
			return stageDone, err
		}
		rc.proto = proto
	}
	return stageInstantiate, nil
}

func instantiateStage(e *ResolutionEngine, rc *resolutionContext) (string, error) {
	switch c := rc.concrete.(type) {
	case InstanceConcrete:
		rc.instance = c.Value
		return stageExtenderApply, nil

	case FactoryConcrete:
		v, err := c.Fn(rc.resolverView(e))
		if err != nil {
			return stageDone, &ContainerError{ID: rc.id, Message: "factory returned an error: " + err.Error(), Cause: err}
		}
		rc.instance = v
		return stageExtenderApply, nil

	case ClassConcrete:
		if !rc.proto.IsInstantiable {
			return stageDone, &ContainerError{ID: rc.id, Message: "type is not instantiable"}
		}
		instance, err := e.construct(rc, c)
		if err != nil {
			return stageDone, err
		}
		rc.instance = instance
		return stagePropertyInject, nil

	default:
		return stageDone, &ContainerError{ID: rc.id, Message: "unknown concrete kind"}
	}
}

func (e *ResolutionEngine) construct(rc *resolutionContext, c ClassConcrete) (any, error) {
	if !c.Constructor.IsValid() {
		st := c.Type
		ptr := st.Kind() == reflect.Ptr
		if ptr {
			st = st.Elem()
		}
		v := reflect.New(st)
		if ptr {
			return v.Interface(), nil
		}
		return v.Elem().Interface(), nil
	}

	args := make([]reflect.Value, len(rc.proto.Constructor))
	for i, p := range rc.proto.Constructor {
		v, err := e.resolveParam(rc, p)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	out := c.Constructor.Call(args)
	if len(out) == 2 {
		if !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	}
	return out[0].Interface(), nil
}

// resolveParam resolves one constructor/property/method parameter,
// honoring Make() overrides, defaults and nullability before recursing into
// the engine for the parameter's own dependency id.
func (e *ResolutionEngine) resolveParam(rc *resolutionContext, p ParameterPrototype) (reflect.Value, error) {
	if rc.overrides != nil {
		if v, ok := rc.overrides[p.Name]; ok {
			return coerce(v, p.Type), nil
		}
	}

	if rc.def != nil && rc.def.Arguments != nil {
		if arg, ok := rc.def.Arguments[p.Name]; ok {
			if arg.IsReference() {
				consumer := p.Type
				if rc.proto != nil {
					consumer = rc.proto.Class
				}
				child, err := rc.child(arg.Ref.ID, consumer)
				if err != nil {
					return reflect.Value{}, err
				}
				v, err := e.Resolve(child)
				if err != nil {
					return reflect.Value{}, err
				}
				return coerce(v, p.Type), nil
			}
			return coerce(arg.Value, p.Type), nil
		}
	}

	if p.IsVariadic {
		return reflect.Zero(p.Type), nil
	}

	consumer := p.Type
	if rc.proto != nil {
		consumer = rc.proto.Class
	}
	childID := TypeID(p.Type)
	child, err := rc.child(childID, consumer)
	if err != nil {
		return reflect.Value{}, err
	}

	v, err := e.Resolve(child)
	if err != nil {
		if p.HasDefault {
			return coerce(p.DefaultValue, p.Type), nil
		}
		if p.AllowsNull && IsServiceNotFound(err) {
			return reflect.Zero(p.Type), nil
		}
		return reflect.Value{}, err
	}
	return coerce(v, p.Type), nil
}

func coerce(v any, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv
	}
	if rv.Type().ConvertibleTo(t) {
		return rv.Convert(t)
	}
	return reflect.Zero(t)
}

func propertyInjectStage(e *ResolutionEngine, rc *resolutionContext) (string, error) {
	if rc.proto == nil || len(rc.proto.InjectedProperties) == 0 {
		return stageMethodInject, nil
	}
	target := reflect.ValueOf(rc.instance)
	if target.Kind() != reflect.Ptr {
		return stageMethodInject, nil
	}
	elem := target.Elem()
	for _, prop := range rc.proto.InjectedProperties {
		v, err := e.resolveParam(rc, prop.ParameterPrototype)
		if err != nil {
			if prop.AllowsNull || prop.HasDefault {
				continue
			}
			return stageDone, err
		}
		field := elem.FieldByIndex(prop.FieldIndex)
		if field.CanSet() {
			field.Set(v)
		}
	}
	return stageMethodInject, nil
}

func methodInjectStage(e *ResolutionEngine, rc *resolutionContext) (string, error) {
	if rc.proto == nil || len(rc.proto.InjectedMethods) == 0 {
		return stageExtenderApply, nil
	}
	target := reflect.ValueOf(rc.instance)
	for _, m := range rc.proto.InjectedMethods {
		method := target.Method(m.MethodIndex)
		args := make([]reflect.Value, len(m.Parameters))
		for i, p := range m.Parameters {
			v, err := e.resolveParam(rc, p)
			if err != nil {
				return stageDone, err
			}
			args[i] = v
		}
		out := method.Call(args)
		if len(out) == 1 && !out[0].IsNil() {
			if errVal, ok := out[0].Interface().(error); ok && errVal != nil {
				return stageDone, errVal
			}
		}
	}
	return stageExtenderApply, nil
}

func extenderApplyStage(e *ResolutionEngine, rc *resolutionContext) (string, error) {
	for _, ext := range e.store.Extenders(rc.id) {
		v, err := ext(rc.instance, rc.resolverView(e))
		if err != nil {
			return stageDone, &ContainerError{ID: rc.id, Message: "extender returned an error: " + err.Error(), Cause: err}
		}
		rc.instance = v
	}
	return stageStore, nil
}

func storeStage(e *ResolutionEngine, rc *resolutionContext) (string, error) {
	if rc.fresh {
		return stageInitialize, nil
	}
	switch rc.def.Lifetime {
	case Singleton:
		e.scopes.SetSingleton(rc.id, rc.instance)
	case Scoped:
		if err := e.scopes.SetScoped(rc.id, rc.instance); err != nil {
			return stageDone, err
		}
	}
	return stageInitialize, nil
}

func initializeStage(e *ResolutionEngine, rc *resolutionContext) (string, error) {
	if rc.proto == nil || !rc.proto.HasInitializer {
		return stageDone, nil
	}
	target := reflect.ValueOf(rc.instance)
	method := target.MethodByName(initializerMethodName)
	if !method.IsValid() {
		return stageDone, nil
	}
	out := method.Call(nil)
	if len(out) == 1 && !out[0].IsNil() {
		if errVal, ok := out[0].Interface().(error); ok && errVal != nil {
			return stageDone, errVal
		}
	}
	return stageDone, nil
}

// resolverView adapts the engine, scoped to the current resolution chain's
// overrides, to the Resolver interface factories and extenders receive.
func (rc *resolutionContext) resolverView(e *ResolutionEngine) Resolver {
	return &engineResolver{engine: e, parent: rc}
}

type engineResolver struct {
	engine *ResolutionEngine
	parent *resolutionContext
}

func (r *engineResolver) Get(id string) (any, error) {
	child, err := r.parent.child(id, nil)
	if err != nil {
		return nil, err
	}
	return r.engine.Resolve(child)
}

func (r *engineResolver) Has(id string) bool {
	if r.engine.store.Has(id) {
		return true
	}
	_, ok := r.engine.types.lookup(id)
	return ok
}
