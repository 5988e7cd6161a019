package ioc

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsServiceNotFoundUnwraps(t *testing.T) {
	wrapped := &ResolutionError{ID: "X", Cause: ErrServiceNotFound}
	assert.True(t, IsServiceNotFound(wrapped))
	assert.False(t, IsServiceNotFound(errors.New("other")))
}

func TestIsCircularDependency(t *testing.T) {
	err := &CircularDependencyError{Path: []string{"A", "B", "A"}}
	assert.True(t, IsCircularDependency(err))
	assert.Contains(t, err.Error(), "A -> B -> A")
}

func TestIsPolicyBlocked(t *testing.T) {
	err := &PolicyBlockedError{ID: "X", Reason: "nope", Code: PolicyBlockedCode}
	assert.True(t, IsPolicyBlocked(err))
	assert.Equal(t, PolicyBlockedCode, err.Code)
}

func TestIsBadlyConfigured(t *testing.T) {
	err := &BadlyConfiguredError{Class: "X", Member: "Field"}
	assert.True(t, IsBadlyConfigured(err))
}

func TestFormatTypePointerAndNamed(t *testing.T) {
	type localType struct{}
	id := formatType(reflect.TypeOf(&localType{}))
	assert.Contains(t, id, "*")
	assert.Contains(t, id, "localType")
}

func TestFormatTypeBuiltin(t *testing.T) {
	assert.Equal(t, "string", formatType(reflect.TypeOf("")))
}

func TestContainerErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &ContainerError{ID: "X", Message: "failed", Cause: cause}
	assert.ErrorIs(t, err, cause)
}
