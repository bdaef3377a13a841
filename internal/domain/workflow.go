package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"laralint.dev/pkg/laralint/internal/adapter"
	"laralint.dev/pkg/laralint/internal/controller"
	m "laralint.dev/pkg/laralint/internal/model"
	"laralint.dev/pkg/laralint/pkg"
)

// CheckArgs contains the arguments for one check run.
type CheckArgs struct {
	Paths       []m.Path
	Exclude     []string
	Rules       RuleConfig
	Format      controller.Format
	Threads     int
	Timeout     time.Duration // 0 disables the process-wide deadline
	Reports     m.Path
	ShardIndex  int
	TotalShards int
}

// ViewArgs contains the arguments for browsing a saved report.
type ViewArgs struct {
	Reports m.Path
}

// MergeArgs contains the arguments for merging shard reports.
type MergeArgs struct {
	Reports m.Path
}

// Workflow wires the builder, analyzer, store and UI into the user-facing
// operations.
type Workflow interface {
	Check(ctx context.Context, args CheckArgs) error
	Watch(ctx context.Context, args CheckArgs) error
	View(ctx context.Context, args ViewArgs) error
	Merge(ctx context.Context, args MergeArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ReportStore
	controller.UI
	Builder
	Analyzer
	registry *Registry
	browser  *controller.ReportBrowser
}

// NewWorkflow creates a Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	builder Builder,
	analyzer Analyzer,
	registry *Registry,
	browser *controller.ReportBrowser,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ReportStore:     reportStore,
		UI:              ui,
		Builder:         builder,
		Analyzer:        analyzer,
		registry:        registry,
		browser:         browser,
	}
}

// Check builds the source model, analyzes it and reports the outcome.
// It returns ErrViolationsFound when any error-severity violation remains
// after configuration overrides.
func (w *workflow) Check(ctx context.Context, args CheckArgs) error {
	started := time.Now()

	rules, err := w.registry.Enabled(args.Rules)
	if err != nil {
		return err
	}

	if args.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, args.Timeout)
		defer cancel()
	}

	units, violations, err := w.Build(ctx, BuildArgs{
		Paths:       args.Paths,
		Exclude:     args.Exclude,
		Threads:     args.Threads,
		ShardIndex:  args.ShardIndex,
		TotalShards: args.TotalShards,
	})
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("build source model: %w", err)
	}

	found, err := w.Analyze(ctx, units, rules, args.Threads)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	violations = append(violations, found...)
	m.SortViolations(violations)

	slog.Info("check finished",
		"files", len(units),
		"violations", len(violations),
		"duration", time.Since(started))

	if err := w.DisplayViolations(ctx, violations, args.Format); err != nil {
		return err
	}

	if args.Format == controller.FormatText {
		summary := controller.Summarize(len(units), violations, time.Since(started))
		if err := w.DisplaySummary(ctx, summary); err != nil {
			return err
		}
	}

	report := m.RunReport{
		GeneratedAt: time.Now().UTC(),
		Roots:       args.Paths,
		ShardIndex:  args.ShardIndex,
		TotalShards: args.TotalShards,
		Files:       len(units),
		Violations:  violations,
	}

	if err := w.Save(args.Reports, report); err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	if m.HasErrors(violations) {
		return m.ErrViolationsFound
	}

	return nil
}

// Watch runs Check, then re-runs it whenever a PHP file under the scanned
// roots changes, until ctx is cancelled.
func (w *workflow) Watch(ctx context.Context, args CheckArgs) error {
	roots := args.Paths
	if len(roots) == 0 {
		roots = []m.Path{"."}
	}

	events, err := w.WatchDirs(ctx, roots)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	if err := w.Check(ctx, args); err != nil && !errors.Is(err, m.ErrViolationsFound) {
		return err
	}

	w.DisplayWatchRun(ctx, "")

	for {
		select {
		case <-ctx.Done():
			return nil
		case trigger, ok := <-events:
			if !ok {
				return nil
			}

			drainEvents(events, watchDebounce)
			w.DisplayWatchRun(ctx, trigger)

			if err := w.Check(ctx, args); err != nil && !errors.Is(err, m.ErrViolationsFound) {
				return err
			}
		}
	}
}

const watchDebounce = 300 * time.Millisecond

// drainEvents swallows the burst of events editors emit for a single save.
func drainEvents(events <-chan m.Path, window time.Duration) {
	timer := time.NewTimer(window)
	defer timer.Stop()

	for {
		select {
		case <-events:
		case <-timer.C:
			return
		}
	}
}

// View loads the last saved report and opens the interactive browser.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	report, err := w.Load(args.Reports)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}

	return w.browser.Browse(ctx, report)
}

// Merge combines shard reports into a single report file. Violations are
// buffered through a file spill so arbitrarily many shards can be merged
// without holding every report in memory at once.
func (w *workflow) Merge(ctx context.Context, args MergeArgs) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	shards, err := w.ListShards(args.Reports)
	if err != nil {
		return fmt.Errorf("list shard reports: %w", err)
	}

	if len(shards) == 0 {
		return fmt.Errorf("no shard reports found in %s", args.Reports)
	}

	spill, err := pkg.NewFileSpill[m.Violation](os.TempDir(), "laralint-merge")
	if err != nil {
		return fmt.Errorf("create spill: %w", err)
	}

	defer func() {
		_ = spill.Close()
	}()

	merged := m.RunReport{GeneratedAt: time.Now().UTC()}

	for _, shard := range shards {
		report, err := w.LoadFile(shard)
		if err != nil {
			return err
		}

		if err := spill.AppendBatch(report.Violations); err != nil {
			return err
		}

		merged.Files += report.Files
		merged.Roots = appendMissingRoots(merged.Roots, report.Roots)
	}

	violations := make([]m.Violation, 0, spill.Len())

	err = spill.Range(func(_ uint64, v m.Violation) error {
		violations = append(violations, v)
		return nil
	})
	if err != nil {
		return err
	}

	m.SortViolations(violations)
	merged.Violations = violations

	if err := w.Save(args.Reports, merged); err != nil {
		return fmt.Errorf("save merged report: %w", err)
	}

	summary := controller.Summarize(merged.Files, violations, 0)

	return w.DisplaySummary(ctx, summary)
}

func appendMissingRoots(roots []m.Path, extra []m.Path) []m.Path {
	for _, candidate := range extra {
		seen := false

		for _, existing := range roots {
			if existing == candidate {
				seen = true
				break
			}
		}

		if !seen {
			roots = append(roots, candidate)
		}
	}

	return roots
}
