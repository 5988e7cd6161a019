package ioc

// TraceEvent records one resolution-engine stage transition, threaded
// through ResolutionContext.Trace and surfaced on failure via
// ResolutionError.Trace (spec §4.5, §7).
type TraceEvent struct {
	Stage string
	ID    string
	Note  string
}

// Observer receives a TraceEvent for every stage the engine executes while
// ContainerConfig.Debug is true. It is
// the module's substitute for the teacher's structured logger: spec scope
// excludes a metrics/observability surface, but ambient tracing still goes
// through one seam rather than bare fmt/log calls scattered through the
// engine.
type Observer interface {
	OnEvent(TraceEvent)
}

// NopObserver discards every event. It is the zero-value-safe default for
// ContainerConfig.Observer.
type NopObserver struct{}

func (NopObserver) OnEvent(TraceEvent) {}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(TraceEvent)

func (f ObserverFunc) OnEvent(e TraceEvent) { f(e) }
