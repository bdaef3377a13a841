package controller

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	m "laralint.dev/pkg/laralint/internal/model"
)

// RuleLookup resolves a rule id to its full definition for detail display.
type RuleLookup func(id string) (m.Rule, bool)

// ReportBrowser displays a persisted report interactively with Bubble Tea.
type ReportBrowser struct {
	output io.Writer
	lookup RuleLookup
}

// NewReportBrowser creates a ReportBrowser writing to output.
func NewReportBrowser(output io.Writer, lookup RuleLookup) *ReportBrowser {
	return &ReportBrowser{output: output, lookup: lookup}
}

// Browse runs the interactive violation browser until the user quits.
func (b *ReportBrowser) Browse(ctx context.Context, report m.RunReport) error {
	if len(report.Violations) == 0 {
		_, err := fmt.Fprintln(b.output, "No violations in the last report.")
		return err
	}

	program := tea.NewProgram(
		newReportModel(report, b.lookup),
		tea.WithOutput(b.output),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("report browser: %w", err)
	}

	return nil
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12"))
	detailStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	helpStyle     = lipgloss.NewStyle().Faint(true)
	snippetStyle  = lipgloss.NewStyle().Faint(true)
)

const detailPaneHeight = 12

type reportModel struct {
	report   m.RunReport
	lookup   RuleLookup
	detail   viewport.Model
	cursor   int
	width    int
	height   int
	quitting bool
}

func newReportModel(report m.RunReport, lookup RuleLookup) reportModel {
	model := reportModel{
		report: report,
		lookup: lookup,
		detail: viewport.New(0, detailPaneHeight),
	}
	model.refreshDetail()

	return model
}

func (rm reportModel) Init() tea.Cmd {
	return nil
}

func (rm reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.width = msg.Width
		rm.height = msg.Height
		rm.detail.Width = msg.Width - 4
		rm.refreshDetail()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			rm.quitting = true
			return rm, tea.Quit

		case "up", "k":
			if rm.cursor > 0 {
				rm.cursor--
				rm.refreshDetail()
			}

		case "down", "j":
			if rm.cursor < len(rm.report.Violations)-1 {
				rm.cursor++
				rm.refreshDetail()
			}

		case "pgup":
			rm.detail.HalfViewUp()

		case "pgdown":
			rm.detail.HalfViewDown()
		}
	}

	return rm, nil
}

func (rm reportModel) View() string {
	if rm.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("laralint report: %d violation(s) across %d file(s)", len(rm.report.Violations), rm.report.Files)))
	b.WriteString("\n\n")

	listHeight := rm.listHeight()
	start, end := rm.window(listHeight)

	for i := start; i < end; i++ {
		line := rm.report.Violations[i].String()
		if rm.width > 4 {
			// Clip by display width, not bytes, so multibyte paths and
			// messages are never cut mid-rune.
			line = runewidth.Truncate(line, rm.width-2, "")
		}

		if i == rm.cursor {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(line)
		}

		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(detailStyle.Render(rm.detail.View()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("up/down: select  pgup/pgdown: scroll detail  q: quit"))

	return b.String()
}

func (rm reportModel) listHeight() int {
	height := rm.height - detailPaneHeight - 6
	if height < 3 {
		height = 3
	}

	return height
}

// window returns the slice of the violation list to render so the cursor
// stays visible.
func (rm reportModel) window(height int) (int, int) {
	total := len(rm.report.Violations)

	start := rm.cursor - height/2
	if start < 0 {
		start = 0
	}

	end := start + height
	if end > total {
		end = total
		start = end - height

		if start < 0 {
			start = 0
		}
	}

	return start, end
}

func (rm *reportModel) refreshDetail() {
	v := rm.report.Violations[rm.cursor]

	var b strings.Builder

	fmt.Fprintf(&b, "%s  (%s)\n", v.RuleID, v.Severity)
	fmt.Fprintf(&b, "%s:%d:%d\n\n", v.Path, v.Line, v.Column)
	b.WriteString(v.Message)
	b.WriteString("\n")

	if rule, ok := rm.lookup(v.RuleID); ok {
		b.WriteString("\n")
		b.WriteString(rule.Summary)

		if rule.Bad != "" {
			b.WriteString("\n\nBad:\n")
			b.WriteString(snippetStyle.Render(rule.Bad))
		}

		if rule.Good != "" {
			b.WriteString("\n\nGood:\n")
			b.WriteString(snippetStyle.Render(rule.Good))
		}
	}

	rm.detail.SetContent(b.String())
	rm.detail.GotoTop()
}
