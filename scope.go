package ioc

import (
	"sync"

	"github.com/google/uuid"
)

// scopeFrame is one level of the nested lifetime stack — spec's ScopeFrame.
type scopeFrame struct {
	id   string
	mu   sync.RWMutex
	data map[string]any
}

func newScopeFrame() *scopeFrame {
	return &scopeFrame{id: uuid.NewString(), data: make(map[string]any)}
}

// ScopeRegistry maintains the root (singleton) frame and a LIFO stack of
// scoped frames, per spec §4.3. See DESIGN.md Open Question 1: this is a
// single shared stack (`BeginScope` returns only the new frame's id for
// tracing, `EndScope` only an error) rather than a handle returned per caller —
// callers needing independent concurrent scopes must own separate
// Containers, since scopes are documented as thread-affine (spec §5).
type ScopeRegistry struct {
	mu      sync.Mutex
	frames  []*scopeFrame
	idLocks sync.Map // id -> *sync.Mutex, guards the Analyze->Store window
}

// NewScopeRegistry builds a registry with exactly the always-present root
// frame.
func NewScopeRegistry() *ScopeRegistry {
	return &ScopeRegistry{frames: []*scopeFrame{newScopeFrame()}}
}

// Get searches the innermost frame outward and returns the first match.
func (r *ScopeRegistry) Get(id string) (any, bool) {
	r.mu.Lock()
	frames := append([]*scopeFrame(nil), r.frames...)
	r.mu.Unlock()

	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		f.mu.RLock()
		v, ok := f.data[id]
		f.mu.RUnlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

// SetSingleton writes to the root frame.
func (r *ScopeRegistry) SetSingleton(id string, instance any) {
	r.mu.Lock()
	root := r.frames[0]
	r.mu.Unlock()

	root.mu.Lock()
	root.data[id] = instance
	root.mu.Unlock()
}

// SetScoped writes to the current top frame; fails if only the root frame
// exists.
func (r *ScopeRegistry) SetScoped(id string, instance any) error {
	r.mu.Lock()
	if len(r.frames) == 1 {
		r.mu.Unlock()
		return ErrNoActiveScope
	}
	top := r.frames[len(r.frames)-1]
	r.mu.Unlock()

	top.mu.Lock()
	top.data[id] = instance
	top.mu.Unlock()
	return nil
}

// BeginScope pushes a new empty frame and returns its id (for tracing).
func (r *ScopeRegistry) BeginScope() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := newScopeFrame()
	r.frames = append(r.frames, f)
	return f.id
}

// EndScope pops and discards the current top frame; fails if only the root
// frame remains.
func (r *ScopeRegistry) EndScope() error {
	_, err := r.EndScopeWithInstances()
	return err
}

// EndScopeWithInstances pops the current top frame and returns the
// instances it held, so the caller can run terminator lifecycle hooks
// before they are discarded (spec §4.6).
func (r *ScopeRegistry) EndScopeWithInstances() (map[string]any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 1 {
		return nil, ErrNoActiveScope
	}
	top := r.frames[len(r.frames)-1]
	r.frames = r.frames[:len(r.frames)-1]

	top.mu.RLock()
	defer top.mu.RUnlock()
	out := make(map[string]any, len(top.data))
	for k, v := range top.data {
		out[k] = v
	}
	return out, nil
}

// Clear resets the registry to a single empty root frame.
func (r *ScopeRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = []*scopeFrame{newScopeFrame()}
}

// InScope reports whether a non-root scope is currently active.
func (r *ScopeRegistry) InScope() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames) > 1
}

// lockFor returns a per-id mutex used to serialize the Analyze->Store
// window so concurrent Get calls for the same singleton/scoped id never
// double-construct (spec §5).
func (r *ScopeRegistry) lockFor(id string) *sync.Mutex {
	v, _ := r.idLocks.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}
