package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "laralint.dev/pkg/laralint/internal/model"
)

func newTestUI() (*SimpleUI, *bytes.Buffer) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	return NewSimpleUI(cmd, false), &buf
}

func testViolations() []m.Violation {
	return []m.Violation{
		{RuleID: "model-naming", Path: "app/Models/Orders.php", Line: 7, Severity: m.SeverityWarning, Message: "model class Orders is plural; models are singular"},
		{RuleID: "debug-call", Path: "app/User.php", Line: 3, Column: 9, Severity: m.SeverityError, Message: "debug call dd() left in code"},
	}
}

func TestSimpleUI_DisplayViolationsText(t *testing.T) {
	ui, buf := newTestUI()

	require.NoError(t, ui.DisplayViolations(context.Background(), testViolations(), FormatText))

	got := buf.String()
	assert.Contains(t, got, "app/Models/Orders.php:7: [warning] model-naming: model class Orders is plural")
	assert.Contains(t, got, "app/User.php:3: [error] debug-call: debug call dd() left in code")
}

func TestSimpleUI_DisplayViolationsJSON(t *testing.T) {
	ui, buf := newTestUI()

	require.NoError(t, ui.DisplayViolations(context.Background(), testViolations(), FormatJSON))

	var records []struct {
		Rule     string `json:"rule"`
		Path     string `json:"path"`
		Line     int    `json:"line"`
		Column   int    `json:"column"`
		Severity string `json:"severity"`
		Message  string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 2)

	assert.Equal(t, "debug-call", records[1].Rule)
	assert.Equal(t, "error", records[1].Severity)
	assert.Equal(t, 9, records[1].Column)
}

func TestSimpleUI_DisplayViolationsJSONEmpty(t *testing.T) {
	ui, buf := newTestUI()

	require.NoError(t, ui.DisplayViolations(context.Background(), nil, FormatJSON))

	var records []any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	assert.Empty(t, records)
}

func TestSimpleUI_DisplaySummary(t *testing.T) {
	ui, buf := newTestUI()

	summary := Summary{
		Files:    4,
		Warnings: 2,
		Errors:   1,
		PerRule:  map[string]int{"debug-call": 1, "model-naming": 2},
		Duration: 1234 * time.Millisecond,
	}

	require.NoError(t, ui.DisplaySummary(context.Background(), summary))

	got := buf.String()
	assert.Contains(t, got, "debug-call")
	assert.Contains(t, got, "model-naming")
	assert.Contains(t, got, "Files 4")
	assert.Contains(t, got, "1 error(s), 2 warning(s)")
}

func TestSimpleUI_DisplayRules(t *testing.T) {
	ui, buf := newTestUI()

	rules := []m.Rule{
		{ID: "env-direct-read", Severity: m.SeverityError, Summary: "Do not read env() outside config files; use config() instead"},
		{ID: "fat-method", Severity: m.SeverityWarning, Summary: "A method should do just one thing; split long methods"},
	}

	require.NoError(t, ui.DisplayRules(context.Background(), rules))

	got := buf.String()
	assert.Contains(t, got, "env-direct-read")
	assert.Contains(t, got, "error")
	assert.Contains(t, got, "fat-method")
	assert.Contains(t, got, "warning")
}

func TestSimpleUI_DisplayRuleDiff(t *testing.T) {
	ui, buf := newTestUI()

	rule := m.Rule{
		ID:      "model-naming",
		Summary: "Models are named as singular StudlyCase nouns",
		Bad:     "class Users extends Model {}",
		Good:    "class User extends Model {}",
	}

	require.NoError(t, ui.DisplayRuleDiff(context.Background(), rule))

	got := buf.String()
	assert.Contains(t, got, "model-naming:")
	assert.Contains(t, got, "--- bad")
	assert.Contains(t, got, "+++ good")
	assert.Contains(t, got, "-class Users extends Model {}")
	assert.Contains(t, got, "+class User extends Model {}")
}

func TestSimpleUI_DisplayWatchRun(t *testing.T) {
	ui, buf := newTestUI()

	ui.DisplayWatchRun(context.Background(), "")
	assert.Contains(t, buf.String(), "Watching for changes")

	buf.Reset()
	ui.DisplayWatchRun(context.Background(), "app/User.php")
	assert.Contains(t, buf.String(), "Change detected in app/User.php")
}

func TestSimpleUI_CancelledContext(t *testing.T) {
	ui, buf := newTestUI()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, ui.DisplayViolations(ctx, testViolations(), FormatText))
	assert.Error(t, ui.DisplaySummary(ctx, Summary{}))
	assert.Empty(t, buf.String())
}
