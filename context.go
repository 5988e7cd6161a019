package ioc

import (
	"reflect"
	"sync"
)

// resolutionContext carries one resolution's working state through the
// engine's FSM stages (spec §4.5). It also doubles as the cycle-detection
// frame: resolving holds every id currently being built on this call stack.
type resolutionContext struct {
	id       string
	consumer reflect.Type // the class asking for id, for contextual rewriting
	parent   *resolutionContext
	depth    int
	resolving map[string]struct{}
	trace    *[]TraceEvent

	overrides map[string]any // explicit Make() arguments, by parameter name
	fresh     bool            // true for Make(): bypass scope cache entirely

	// working state, filled in by successive stages
	def      *Definition
	concrete Concrete
	proto    *ServicePrototype
	instance any

	// heldLock is the ScopeRegistry per-id lock acquired in cacheHitStage to
	// serialize the Analyze->Store window; Resolve releases it on every exit
	// path, success or error.
	heldLock *sync.Mutex
}

// newRootContext starts a resolution chain for id.
func newRootContext(id string, consumer reflect.Type, overrides map[string]any, fresh bool) *resolutionContext {
	trace := make([]TraceEvent, 0, 8)
	return &resolutionContext{
		id:        id,
		consumer:  consumer,
		depth:     0,
		resolving: map[string]struct{}{id: {}},
		trace:     &trace,
		overrides: overrides,
		fresh:     fresh,
	}
}

// child starts a nested resolution for a dependency of c, inheriting the
// trace buffer and the resolving set (cycle detection spans the whole
// chain, not just direct parent/child pairs).
func (c *resolutionContext) child(id string, consumer reflect.Type) (*resolutionContext, error) {
	if _, ok := c.resolving[id]; ok {
		return nil, c.circularError(id)
	}
	resolving := make(map[string]struct{}, len(c.resolving)+1)
	for k := range c.resolving {
		resolving[k] = struct{}{}
	}
	resolving[id] = struct{}{}

	return &resolutionContext{
		id:        id,
		consumer:  consumer,
		parent:    c,
		depth:     c.depth + 1,
		resolving: resolving,
		trace:     c.trace,
	}, nil
}

func (c *resolutionContext) circularError(id string) error {
	path := c.path()
	path = append(path, id)
	return &CircularDependencyError{Path: path}
}

// path returns the chain of ids from the root context down to c, in order.
func (c *resolutionContext) path() []string {
	var chain []string
	for cur := c; cur != nil; cur = cur.parent {
		chain = append([]string{cur.id}, chain...)
	}
	return chain
}

func (c *resolutionContext) record(stage, note string) {
	if c.trace == nil {
		return
	}
	*c.trace = append(*c.trace, TraceEvent{Stage: stage, ID: c.id, Note: note})
}
