package ioc

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================

var (
	// ErrServiceNotFound is returned when an id has no definition and is not
	// an autowireable class.
	ErrServiceNotFound = errors.New("service not found")

	// ErrNoActiveScope is returned by scoped operations when only the root
	// frame is live.
	ErrNoActiveScope = errors.New("no active scope")

	// ErrDepthExceeded is returned when a resolution chain exceeds
	// ContainerConfig.MaxResolutionDepth.
	ErrDepthExceeded = errors.New("maximum resolution depth exceeded")

	// ErrSealed is the panic value of any builder mutation attempted after
	// Seal, and the error a second call to Seal returns.
	ErrSealed = errors.New("builder is sealed")

	// ErrNotSealed is returned by container operations attempted on a
	// builder that has not been sealed yet.
	ErrNotSealed = errors.New("builder has not been sealed")

	// ErrMissingStageHandler is a fatal, non-user-controllable engine error.
	ErrMissingStageHandler = errors.New("resolution engine: missing handler for stage")

	// ErrNilDefinition guards against registering a nil definition.
	ErrNilDefinition = errors.New("definition cannot be nil")

	// ErrEmptyID guards against registering an empty abstract id.
	ErrEmptyID = errors.New("abstract id cannot be empty")
)

// ========================================
// Typed Errors for Rich Context
// ========================================

// LifetimeError indicates an invalid lifetime text/JSON representation.
type LifetimeError struct {
	Value interface{}
}

func (e *LifetimeError) Error() string {
	return fmt.Sprintf("invalid lifetime: %v", e.Value)
}

// CircularDependencyError carries the full cycle path, e.g. [A, B, A].
type CircularDependencyError struct {
	Path []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Path, " -> "))
}

// ResolutionError wraps a generic failure while building an instance.
type ResolutionError struct {
	ID    string
	Cause error
	Trace []TraceEvent
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("unable to resolve %q: %v", e.ID, e.Cause)
}

func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// ContainerError is the wrapper for configuration/analysis failures and for
// any error a user factory or extender returns, kept as Cause. A panic
// raised inside a factory or extender is not recovered.
type ContainerError struct {
	ID      string
	Message string
	Cause   error
}

func (e *ContainerError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: %s", e.ID, e.Message)
	}
	return e.Message
}

func (e *ContainerError) Unwrap() error {
	return e.Cause
}

// PolicyBlockedError is returned by the Guard stage on denial.
type PolicyBlockedError struct {
	ID     string
	Reason string
	Code   string
}

func (e *PolicyBlockedError) Error() string {
	return fmt.Sprintf("policy blocked %q: %s", e.ID, e.Reason)
}

// ImmutablePropertyError indicates a property injection target cannot be
// written (unexported or otherwise unsettable).
type ImmutablePropertyError struct {
	Class string
	Field string
}

func (e *ImmutablePropertyError) Error() string {
	return fmt.Sprintf("%s.%s: cannot write injected property", e.Class, e.Field)
}

// BadlyConfiguredError is raised at analysis time, not resolution time, for
// an injection point with no resolvable type and no default.
type BadlyConfiguredError struct {
	Class  string
	Member string
}

func (e *BadlyConfiguredError) Error() string {
	return fmt.Sprintf("%s.%s: marked Inject but no resolvable type", e.Class, e.Member)
}

// ========================================
// Error Analysis Functions
// ========================================

// IsServiceNotFound reports whether err (or a wrapped cause) is ErrServiceNotFound.
func IsServiceNotFound(err error) bool {
	return errors.Is(err, ErrServiceNotFound)
}

// IsCircularDependency reports whether err is a *CircularDependencyError.
func IsCircularDependency(err error) bool {
	var circErr *CircularDependencyError
	return errors.As(err, &circErr)
}

// IsPolicyBlocked reports whether err is a *PolicyBlockedError.
func IsPolicyBlocked(err error) bool {
	var polErr *PolicyBlockedError
	return errors.As(err, &polErr)
}

// IsNoActiveScope reports whether err (or a wrapped cause) is ErrNoActiveScope.
func IsNoActiveScope(err error) bool {
	return errors.Is(err, ErrNoActiveScope)
}

// IsDepthExceeded reports whether err (or a wrapped cause) is ErrDepthExceeded.
func IsDepthExceeded(err error) bool {
	return errors.Is(err, ErrDepthExceeded)
}

// IsBadlyConfigured reports whether err is a *BadlyConfiguredError.
func IsBadlyConfigured(err error) bool {
	var bcErr *BadlyConfiguredError
	return errors.As(err, &bcErr)
}

// ========================================
// Type Formatting
// ========================================

// formatType formats a reflect.Type the way canonical abstract ids are
// derived from it: "pkgpath.Name", or "*pkgpath.Name" for pointer types.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	star := ""
	for t.Kind() == reflect.Ptr {
		star += "*"
		t = t.Elem()
	}

	if t.PkgPath() == "" {
		return star + t.String()
	}

	return fmt.Sprintf("%s%s.%s", star, t.PkgPath(), t.Name())
}
