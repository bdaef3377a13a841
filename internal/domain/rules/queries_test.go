package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "laralint.dev/pkg/laralint/internal/model"
)

func TestQueryInControllerRule(t *testing.T) {
	rule := NewQueryInControllerRule()

	t.Run("flags query calls inside controller actions", func(t *testing.T) {
		unit := controllerUnit(m.ClassNode{
			Name: "ClientController",
			Methods: []m.MethodNode{{
				Name: "index",
				Calls: []m.CallNode{
					{Kind: m.CallStatic, Receiver: "Client", Callee: "where", Line: 12, Column: 20},
					{Kind: m.CallMember, Receiver: "", Callee: "get", Line: 12, Column: 48},
					{Kind: m.CallFunction, Callee: "view", Line: 14},
				},
			}},
		})

		violations := runRule(rule, unit)
		require.Len(t, violations, 2)
		assert.Equal(t, 12, violations[0].Line)
		assert.Contains(t, violations[0].Message, "where()")
		assert.Contains(t, violations[0].Message, "index")
	})

	t.Run("ignores non-controller units", func(t *testing.T) {
		unit := m.SourceUnit{
			Kind: m.UnitModel,
			Classes: []m.ClassNode{{
				Name: "Client",
				Methods: []m.MethodNode{{
					Name:  "verified",
					Calls: []m.CallNode{{Kind: m.CallStatic, Receiver: "Client", Callee: "where", Line: 5}},
				}},
			}},
		}

		assert.Empty(t, runRule(rule, unit))
	})

	t.Run("ignores top-level calls outside any method", func(t *testing.T) {
		unit := m.SourceUnit{
			Kind:  m.UnitController,
			Calls: []m.CallNode{{Kind: m.CallStatic, Receiver: "DB", Callee: "table", Line: 3}},
		}

		assert.Empty(t, runRule(rule, unit))
	})
}

func TestQueryInLoopRule(t *testing.T) {
	rule := NewQueryInLoopRule()

	unit := controllerUnit(m.ClassNode{
		Name: "ReportController",
		Methods: []m.MethodNode{{
			Name: "index",
			Calls: []m.CallNode{
				{Kind: m.CallStatic, Receiver: "Post", Callee: "where", Line: 8, LoopDepth: 1},
				{Kind: m.CallStatic, Receiver: "Post", Callee: "where", Line: 20, LoopDepth: 0},
				{Kind: m.CallFunction, Callee: "trans", Line: 9, LoopDepth: 1},
			},
		}},
	})

	violations := runRule(rule, unit)
	require.Len(t, violations, 1)
	assert.Equal(t, 8, violations[0].Line)
	assert.Contains(t, violations[0].Message, "N+1")
}

func TestValidationInControllerRule(t *testing.T) {
	rule := NewValidationInControllerRule()

	tests := []struct {
		name string
		call m.CallNode
		want int
	}{
		{"request validate", m.CallNode{Kind: m.CallMember, Receiver: "$request", Callee: "validate", Line: 4}, 1},
		{"validator make", m.CallNode{Kind: m.CallStatic, Receiver: "Validator", Callee: "make", Line: 4}, 1},
		{"validated is fine", m.CallNode{Kind: m.CallMember, Receiver: "$request", Callee: "validated", Line: 4}, 0},
		{"validate on another receiver", m.CallNode{Kind: m.CallMember, Receiver: "$form", Callee: "validate", Line: 4}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := controllerUnit(m.ClassNode{
				Name:    "ArticleController",
				Methods: []m.MethodNode{{Name: "store", Calls: []m.CallNode{tt.call}}},
			})

			assert.Len(t, runRule(rule, unit), tt.want)
		})
	}
}

func TestRawSQLRule(t *testing.T) {
	rule := NewRawSQLRule()

	tests := []struct {
		name string
		call m.CallNode
		want int
	}{
		{"DB raw", m.CallNode{Kind: m.CallStatic, Receiver: "DB", Callee: "raw", Line: 3}, 1},
		{"chained whereRaw", m.CallNode{Kind: m.CallMember, Receiver: "", Callee: "whereRaw", Line: 3}, 1},
		{"statement", m.CallNode{Kind: m.CallStatic, Receiver: "DB", Callee: "statement", Line: 3}, 1},
		{"raw on unrelated receiver", m.CallNode{Kind: m.CallMember, Receiver: "$markdown", Callee: "raw", Line: 3}, 0},
		{"plain function named raw", m.CallNode{Kind: m.CallFunction, Callee: "raw", Line: 3}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := m.SourceUnit{Kind: m.UnitPHP, Calls: []m.CallNode{tt.call}}
			assert.Len(t, runRule(rule, unit), tt.want)
		})
	}
}

func TestRequestAllRule(t *testing.T) {
	rule := NewRequestAllRule()

	unit := controllerUnit(m.ClassNode{
		Name: "UserController",
		Methods: []m.MethodNode{{
			Name: "store",
			Calls: []m.CallNode{
				{Kind: m.CallMember, Receiver: "$request", Callee: "all", Line: 6, Column: 22},
				{Kind: m.CallMember, Receiver: "$request", Callee: "validated", Line: 7},
				{Kind: m.CallStatic, Receiver: "User", Callee: "all", Line: 8},
			},
		}},
	})

	violations := runRule(rule, unit)
	require.Len(t, violations, 1)
	assert.Equal(t, 6, violations[0].Line)
	assert.Equal(t, 22, violations[0].Column)
}
