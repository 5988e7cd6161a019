package testutil

import (
	"testing"

	"github.com/relaydev/ioc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertResolvable checks that id resolves to a non-nil value and returns it.
func AssertResolvable(t *testing.T, c *ioc.Container, id string) any {
	t.Helper()
	v, err := c.Get(id)
	require.NoError(t, err, "failed to resolve %q", id)
	require.NotNil(t, v, "resolved %q is nil", id)
	return v
}

// AssertServiceNotFound checks that resolving id fails with ErrServiceNotFound.
func AssertServiceNotFound(t *testing.T, c *ioc.Container, id string) {
	t.Helper()
	_, err := c.Get(id)
	assert.Error(t, err)
	assert.True(t, ioc.IsServiceNotFound(err), "expected service-not-found error, got: %v", err)
}

// AssertSameInstance verifies two resolved values are the same instance.
func AssertSameInstance(t *testing.T, expected, actual any, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Same(t, expected, actual, msgAndArgs...)
}

// AssertDifferentInstances verifies two resolved values are distinct instances.
func AssertDifferentInstances(t *testing.T, first, second any, msgAndArgs ...interface{}) {
	t.Helper()
	assert.NotSame(t, first, second, msgAndArgs...)
}

// AssertCircularDependency checks that err reports a circular dependency.
func AssertCircularDependency(t *testing.T, err error) {
	t.Helper()
	assert.Error(t, err)
	assert.True(t, ioc.IsCircularDependency(err), "expected circular dependency error, got: %v", err)
}

// AssertPolicyBlocked checks that err reports a policy denial, with the
// expected reason substring when one is given.
func AssertPolicyBlocked(t *testing.T, err error, reasonContains string) {
	t.Helper()
	assert.Error(t, err)
	require.True(t, ioc.IsPolicyBlocked(err), "expected policy-blocked error, got: %v", err)
	if reasonContains != "" {
		assert.Contains(t, err.Error(), reasonContains)
	}
}

// AssertDepthExceeded checks that err reports a resolution depth overrun.
func AssertDepthExceeded(t *testing.T, err error) {
	t.Helper()
	assert.Error(t, err)
	assert.True(t, ioc.IsDepthExceeded(err), "expected depth-exceeded error, got: %v", err)
}

// AssertErrorType asserts err (or a wrapped cause) is of type T and returns it.
func AssertErrorType[T error](t *testing.T, err error, msgAndArgs ...interface{}) T {
	t.Helper()
	var target T
	assert.ErrorAs(t, err, &target, msgAndArgs...)
	return target
}

// RequireNoError is sugar for require.NoError with a consistent call site
// across fixture helpers.
func RequireNoError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	require.NoError(t, err, msgAndArgs...)
}

// RequireError is sugar for require.Error with a consistent call site
// across fixture helpers.
func RequireError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	require.Error(t, err, msgAndArgs...)
}
