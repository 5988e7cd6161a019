package ioc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompositeGuardAllowsByDefault(t *testing.T) {
	g := NewCompositeGuard()
	d := g.Check("Anything")
	assert.True(t, d.Allowed)
}

func TestCompositeGuardShortCircuitsOnFirstDeny(t *testing.T) {
	calls := 0
	first := RuleFunc(func(string) Decision {
		calls++
		return Deny("no")
	})
	second := RuleFunc(func(string) Decision {
		calls++
		return Allow()
	})
	g := NewCompositeGuard(first, second)
	d := g.Check("x")
	assert.False(t, d.Allowed)
	assert.Equal(t, PolicyBlockedCode, d.Code)
	assert.Equal(t, 1, calls)
}

func TestStrictRuleBlocksUnregistered(t *testing.T) {
	r := StrictRule{
		Strict:          true,
		IsRegistered:    func(id string) bool { return id == "Known" },
		IsLoadableClass: func(string) bool { return false },
	}
	assert.False(t, r.Check("Missing.Class").Allowed)
	assert.True(t, r.Check("Known").Allowed)
}

func TestStrictRuleDisabledAllowsEverything(t *testing.T) {
	r := StrictRule{Strict: false}
	assert.True(t, r.Check("Anything").Allowed)
}

func TestAllowlistRulePrefixMatch(t *testing.T) {
	r := AllowlistRule{Prefixes: []string{"app/"}}
	assert.True(t, r.Check("app/Service").Allowed)
	assert.False(t, r.Check("vendor/Service").Allowed)
}

func TestDenylistRuleGlobMatch(t *testing.T) {
	r := DenylistRule{Patterns: []string{"internal/*"}}
	assert.False(t, r.Check("internal/Secret").Allowed)
	assert.True(t, r.Check("app/Service").Allowed)
}
