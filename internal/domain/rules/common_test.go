package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	m "laralint.dev/pkg/laralint/internal/model"
)

func TestAll_IDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)

	for _, rule := range All() {
		assert.NotEmpty(t, rule.ID)
		assert.False(t, seen[rule.ID], "duplicate rule id %s", rule.ID)
		assert.NotNil(t, rule.Check, "rule %s has no predicate", rule.ID)
		assert.NotEmpty(t, rule.Summary, "rule %s has no summary", rule.ID)
		seen[rule.ID] = true
	}

	assert.Len(t, seen, 17)
}

func TestIsQueryCall(t *testing.T) {
	tests := []struct {
		name string
		call m.CallNode
		want bool
	}{
		{"DB facade", m.CallNode{Kind: m.CallStatic, Receiver: "DB", Callee: "table"}, true},
		{"model static verb", m.CallNode{Kind: m.CallStatic, Receiver: "User", Callee: "where"}, true},
		{"model static non-verb", m.CallNode{Kind: m.CallStatic, Receiver: "User", Callee: "booted"}, false},
		{"chained builder verb", m.CallNode{Kind: m.CallMember, Receiver: "", Callee: "get"}, true},
		{"member on variable", m.CallNode{Kind: m.CallMember, Receiver: "$query", Callee: "where"}, false},
		{"plain function", m.CallNode{Kind: m.CallFunction, Callee: "view"}, false},
		{"static on lowercase receiver", m.CallNode{Kind: m.CallStatic, Receiver: "self", Callee: "where"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isQueryCall(tt.call))
		})
	}
}

func TestLooksPlural(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"Users", true},
		{"Orders", true},
		{"User", false},
		{"Status", false},
		{"Address", false},
		{"Analysis", false},
		{"News", false},
		{"Bus", false},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, looksPlural(tt.word))
		})
	}
}

// runRule is a shorthand for applying a single rule to a unit in tests.
func runRule(rule m.Rule, unit m.SourceUnit) []m.Violation {
	return rule.Check(unit)
}

func controllerUnit(class m.ClassNode) m.SourceUnit {
	return m.SourceUnit{
		ShortPath: "app/Http/Controllers/" + m.Path(class.Name) + ".php",
		Kind:      m.UnitController,
		Classes:   []m.ClassNode{class},
	}
}
