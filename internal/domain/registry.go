// Package domain contains the core linting workflow and logic.
package domain

import (
	m "laralint.dev/pkg/laralint/internal/model"
)

// Registry holds the ordered set of rules for a run. It is populated during
// startup, passed explicitly to the analyzer, and frozen once analysis
// begins; rules are applied in insertion order.
type Registry struct {
	rules []m.Rule
	index map[string]int
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds a rule. Registering an id twice fails with
// DuplicateRuleError and leaves the registry unchanged.
func (r *Registry) Register(rule m.Rule) error {
	if rule.ID == "" {
		return &m.ConfigurationError{Key: "registry", ID: rule.ID}
	}

	if _, exists := r.index[rule.ID]; exists {
		return &m.DuplicateRuleError{ID: rule.ID}
	}

	r.index[rule.ID] = len(r.rules)
	r.rules = append(r.rules, rule)

	return nil
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	return len(r.rules)
}

// Get returns the rule with the given id.
func (r *Registry) Get(id string) (m.Rule, bool) {
	idx, ok := r.index[id]
	if !ok {
		return m.Rule{}, false
	}

	return r.rules[idx], true
}

// Rules returns all registered rules in insertion order.
func (r *Registry) Rules() []m.Rule {
	out := make([]m.Rule, len(r.rules))
	copy(out, r.rules)

	return out
}

// RuleConfig mirrors the rules.* configuration keys.
type RuleConfig struct {
	// Enabled restricts the run to the listed ids. Empty means all.
	Enabled []string
	// Disabled removes ids from the run after Enabled is applied.
	Disabled []string
	// Severity maps rule ids to "warning" or "error" overrides.
	Severity map[string]string
}

// Enabled returns the subset of registered rules selected by cfg, in
// insertion order, with severity overrides applied. Any reference to an
// unknown rule id is a ConfigurationError, fatal at startup.
func (r *Registry) Enabled(cfg RuleConfig) ([]m.Rule, error) {
	allow, err := r.idSet("rules.enabled", cfg.Enabled)
	if err != nil {
		return nil, err
	}

	deny, err := r.idSet("rules.disabled", cfg.Disabled)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]m.Severity, len(cfg.Severity))

	for id, value := range cfg.Severity {
		if _, ok := r.index[id]; !ok {
			return nil, &m.ConfigurationError{Key: "rules.severity", ID: id}
		}

		severity, err := m.ParseSeverity(value)
		if err != nil {
			return nil, err
		}

		overrides[id] = severity
	}

	var selected []m.Rule

	for _, rule := range r.rules {
		if len(allow) > 0 && !allow[rule.ID] {
			continue
		}

		if deny[rule.ID] {
			continue
		}

		if severity, ok := overrides[rule.ID]; ok {
			rule.Severity = severity
		}

		selected = append(selected, rule)
	}

	return selected, nil
}

func (r *Registry) idSet(key string, ids []string) (map[string]bool, error) {
	set := make(map[string]bool, len(ids))

	for _, id := range ids {
		if _, ok := r.index[id]; !ok {
			return nil, &m.ConfigurationError{Key: key, ID: id}
		}

		set[id] = true
	}

	return set, nil
}
