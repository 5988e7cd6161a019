package testutil

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Common errors fixture constructors return, for tests asserting a
// factory/constructor failure propagates as-is through the engine.
var (
	ErrConstructor = errors.New("constructor error")
	ErrDisposal    = errors.New("disposal error")
)

// IdentifiedService carries a uuid stamped at construction time, letting
// tests distinguish "same instance" from "equal-looking instance".
type IdentifiedService struct {
	ID        string
	CreatedAt time.Time
}

func NewIdentifiedService() *IdentifiedService {
	return &IdentifiedService{ID: uuid.NewString(), CreatedAt: time.Now()}
}

// FailingConstructor always errors, for testing that a constructor's error
// return reaches the caller via ResolutionError.
func FailingConstructor() (*IdentifiedService, error) {
	return nil, ErrConstructor
}

// CircularA and CircularB depend on each other through constructor
// parameters, for cycle-detection tests.
type CircularA struct{ B *CircularB }
type CircularB struct{ A *CircularA }

func NewCircularA(b *CircularB) *CircularA { return &CircularA{B: b} }
func NewCircularB(a *CircularA) *CircularB { return &CircularB{A: a} }

// Disposable records whether Terminate ran, for scope-teardown tests.
type Disposable struct {
	mu         sync.Mutex
	terminated bool
}

func NewDisposable() *Disposable { return &Disposable{} }

func (d *Disposable) Terminate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.terminated = true
}

func (d *Disposable) Terminated() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.terminated
}

// InitializingService records whether Initialize ran, for initializer-hook
// tests.
type InitializingService struct {
	initialized bool
}

func NewInitializingService() *InitializingService { return &InitializingService{} }

func (s *InitializingService) Initialize() error {
	s.initialized = true
	return nil
}

func (s *InitializingService) Initialized() bool { return s.initialized }

// MethodInjectedHandler exposes an Inject* method, for method-injection
// tests, rather than a tagged field.
type MethodInjectedHandler struct {
	logger Logger
}

func NewMethodInjectedHandler() *MethodInjectedHandler { return &MethodInjectedHandler{} }

func (h *MethodInjectedHandler) InjectDependencies(l Logger) {
	h.logger = l
}

func (h *MethodInjectedHandler) LoggerSet() bool { return h.logger != nil }

// PropertyInjectedHandler exposes a tagged field, for property-injection
// tests.
type PropertyInjectedHandler struct {
	Logger Logger `inject:"true"`
	Optional string `inject:"true" optional:"true"`
}

func NewPropertyInjectedHandler() *PropertyInjectedHandler { return &PropertyInjectedHandler{} }
