package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "laralint.dev/pkg/laralint/internal/model"
)

func testRule(id string, severity m.Severity) m.Rule {
	return m.Rule{
		ID:       id,
		Severity: severity,
		Check:    func(m.SourceUnit) []m.Violation { return nil },
	}
}

func TestRegistry_Register(t *testing.T) {
	t.Run("duplicate id fails and leaves registry unchanged", func(t *testing.T) {
		registry := NewRegistry()

		require.NoError(t, registry.Register(testRule("debug-call", m.SeverityError)))

		err := registry.Register(testRule("debug-call", m.SeverityWarning))

		var dup *m.DuplicateRuleError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "debug-call", dup.ID)
		assert.Equal(t, 1, registry.Len())

		rule, ok := registry.Get("debug-call")
		require.True(t, ok)
		assert.Equal(t, m.SeverityError, rule.Severity)
	})

	t.Run("empty id fails", func(t *testing.T) {
		registry := NewRegistry()
		assert.Error(t, registry.Register(testRule("", m.SeverityWarning)))
	})

	t.Run("rules come back in insertion order", func(t *testing.T) {
		registry := NewRegistry()

		for _, id := range []string{"zulu", "alpha", "mike"} {
			require.NoError(t, registry.Register(testRule(id, m.SeverityWarning)))
		}

		var ids []string
		for _, rule := range registry.Rules() {
			ids = append(ids, rule.ID)
		}

		assert.Equal(t, []string{"zulu", "alpha", "mike"}, ids)
	})
}

func TestRegistry_Enabled(t *testing.T) {
	newTestRegistry := func(t *testing.T) *Registry {
		t.Helper()

		registry := NewRegistry()
		require.NoError(t, registry.Register(testRule("env-direct-read", m.SeverityError)))
		require.NoError(t, registry.Register(testRule("query-in-loop", m.SeverityWarning)))
		require.NoError(t, registry.Register(testRule("debug-call", m.SeverityError)))

		return registry
	}

	t.Run("empty config selects every rule", func(t *testing.T) {
		rules, err := newTestRegistry(t).Enabled(RuleConfig{})
		require.NoError(t, err)
		assert.Len(t, rules, 3)
	})

	t.Run("enabled restricts to the listed ids", func(t *testing.T) {
		rules, err := newTestRegistry(t).Enabled(RuleConfig{Enabled: []string{"debug-call"}})
		require.NoError(t, err)
		require.Len(t, rules, 1)
		assert.Equal(t, "debug-call", rules[0].ID)
	})

	t.Run("disabled removes ids", func(t *testing.T) {
		rules, err := newTestRegistry(t).Enabled(RuleConfig{Disabled: []string{"query-in-loop"}})
		require.NoError(t, err)
		require.Len(t, rules, 2)

		for _, rule := range rules {
			assert.NotEqual(t, "query-in-loop", rule.ID)
		}
	})

	t.Run("severity override applies without mutating the registry", func(t *testing.T) {
		registry := newTestRegistry(t)

		rules, err := registry.Enabled(RuleConfig{Severity: map[string]string{"query-in-loop": "error"}})
		require.NoError(t, err)

		for _, rule := range rules {
			if rule.ID == "query-in-loop" {
				assert.Equal(t, m.SeverityError, rule.Severity)
			}
		}

		original, ok := registry.Get("query-in-loop")
		require.True(t, ok)
		assert.Equal(t, m.SeverityWarning, original.Severity)
	})

	t.Run("unknown ids are configuration errors", func(t *testing.T) {
		registry := newTestRegistry(t)

		tests := []struct {
			name    string
			cfg     RuleConfig
			wantKey string
		}{
			{"enabled", RuleConfig{Enabled: []string{"no-such-rule"}}, "rules.enabled"},
			{"disabled", RuleConfig{Disabled: []string{"no-such-rule"}}, "rules.disabled"},
			{"severity", RuleConfig{Severity: map[string]string{"no-such-rule": "error"}}, "rules.severity"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := registry.Enabled(tt.cfg)

				var cfgErr *m.ConfigurationError
				require.True(t, errors.As(err, &cfgErr))
				assert.Equal(t, tt.wantKey, cfgErr.Key)
				assert.Equal(t, "no-such-rule", cfgErr.ID)
			})
		}
	})

	t.Run("invalid severity value fails", func(t *testing.T) {
		_, err := newTestRegistry(t).Enabled(RuleConfig{Severity: map[string]string{"debug-call": "fatal"}})
		assert.Error(t, err)
	})
}
