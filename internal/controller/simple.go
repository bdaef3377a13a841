package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	m "laralint.dev/pkg/laralint/internal/model"
)

const summaryDurationUnit = time.Millisecond

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// SimpleUI implements UI using the cobra Command's output stream.
type SimpleUI struct {
	cmd   *cobra.Command
	color bool
}

// NewSimpleUI creates a new SimpleUI. Severity coloring is applied only when
// color is true (stdout attached to a terminal).
func NewSimpleUI(cmd *cobra.Command, color bool) *SimpleUI {
	return &SimpleUI{cmd: cmd, color: color}
}

// DisplayViolations renders one record per violation in the given format.
func (s *SimpleUI) DisplayViolations(ctx context.Context, violations []m.Violation, format Format) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if format == FormatJSON {
		return s.displayJSON(violations)
	}

	for _, v := range violations {
		if s.color {
			s.printf("%s:%d: [%s] %s: %s\n",
				pathStyle.Render(string(v.Path)), v.Line,
				s.severityLabel(v.Severity), v.RuleID, v.Message)

			continue
		}

		s.printf("%s\n", v.String())
	}

	return nil
}

// violationJSON is the machine-readable record for one violation.
type violationJSON struct {
	Rule     string `json:"rule"`
	Path     string `json:"path"`
	Line     int    `json:"line"`
	Column   int    `json:"column,omitempty"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

func (s *SimpleUI) displayJSON(violations []m.Violation) error {
	records := make([]violationJSON, 0, len(violations))

	for _, v := range violations {
		records = append(records, violationJSON{
			Rule:     v.RuleID,
			Path:     string(v.Path),
			Line:     v.Line,
			Column:   v.Column,
			Severity: v.Severity.String(),
			Message:  v.Message,
		})
	}

	encoder := json.NewEncoder(s.cmd.OutOrStdout())
	encoder.SetIndent("", "  ")

	return encoder.Encode(records)
}

// DisplaySummary prints a per-rule violation table and the run totals.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ruleIDs := make([]string, 0, len(summary.PerRule))
	for id := range summary.PerRule {
		ruleIDs = append(ruleIDs, id)
	}

	sort.Strings(ruleIDs)

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Rule", "Violations"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, id := range ruleIDs {
		table.Append([]string{id, fmt.Sprintf("%d", summary.PerRule[id])})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Files %d", summary.Files),
		fmt.Sprintf("%d", summary.Warnings+summary.Errors),
	})

	table.Render()

	s.printf("\n%s", tableBuffer.String())
	s.printf("%d error(s), %d warning(s) in %s\n", summary.Errors, summary.Warnings, summary.Duration.Round(summaryDurationUnit))

	return nil
}

// DisplayRules prints the rule catalog as a table.
func (s *SimpleUI) DisplayRules(ctx context.Context, rules []m.Rule) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"ID", "Severity", "Summary"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})

	for _, rule := range rules {
		table.Append([]string{rule.ID, rule.Severity.String(), rule.Summary})
	}

	table.Render()

	s.printf("%s", tableBuffer.String())

	return nil
}

// DisplayRuleDiff renders the rule's bad example against its good example as
// a unified diff, the way the style guide presents conventions.
func (s *SimpleUI) DisplayRuleDiff(ctx context.Context, rule m.Rule) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(rule.Bad),
		B:        difflib.SplitLines(rule.Good),
		FromFile: "bad",
		ToFile:   "good",
		Context:  3,
	})
	if err != nil {
		return fmt.Errorf("render diff for %s: %w", rule.ID, err)
	}

	s.printf("%s: %s\n\n%s", rule.ID, rule.Summary, diff)

	return nil
}

// DisplayWatchRun announces a re-run triggered by a file change.
func (s *SimpleUI) DisplayWatchRun(ctx context.Context, trigger m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	if trigger == "" {
		s.printf("Watching for changes. Press Ctrl-C to stop.\n")
		return
	}

	s.printf("\nChange detected in %s, re-running checks...\n", trigger)
}

func (s *SimpleUI) severityLabel(severity m.Severity) string {
	if severity == m.SeverityError {
		return errorStyle.Render(severity.String())
	}

	return warningStyle.Render(severity.String())
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
