package domain

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	m "laralint.dev/pkg/laralint/internal/model"
)

// Analyzer applies every enabled rule to every source unit and collects the
// violations. Rules are pure and units independent, so evaluation fans out
// across a worker pool; the final list is normalized by (path, line, rule id)
// regardless of execution order.
type Analyzer interface {
	Analyze(ctx context.Context, units []m.SourceUnit, rules []m.Rule, threads int) ([]m.Violation, error)
}

type analyzer struct{}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer() Analyzer {
	return &analyzer{}
}

// Analyze evaluates the (unit, rule) matrix. When the context deadline fires
// mid-run, already-collected violations are returned together with a single
// timeout diagnostic instead of an error.
func (a *analyzer) Analyze(ctx context.Context, units []m.SourceUnit, rules []m.Rule, threads int) ([]m.Violation, error) {
	var (
		mu         sync.Mutex
		violations []m.Violation
	)

	group, groupCtx := errgroup.WithContext(ctx)
	if threads > 0 {
		group.SetLimit(threads)
	}

	for i := range units {
		unit := units[i]

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			found := applyRules(unit, rules)
			if len(found) == 0 {
				return nil
			}

			mu.Lock()
			violations = append(violations, found...)
			mu.Unlock()

			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			return nil, err
		}

		slog.Warn("analysis interrupted, reporting partial results", "collected", len(violations))
		violations = append(violations, timeoutViolation())
	}

	m.SortViolations(violations)

	return violations, nil
}

// applyRules runs each rule predicate against the unit and stamps the
// results with the rule identity. The stamped severity is the effective one,
// so configuration overrides propagate into every violation.
func applyRules(unit m.SourceUnit, rules []m.Rule) []m.Violation {
	var out []m.Violation

	for _, rule := range rules {
		for _, v := range rule.Check(unit) {
			if v.RuleID == "" {
				v.RuleID = rule.ID
			}

			if v.Path == "" {
				v.Path = unit.ShortPath
			}

			v.Severity = rule.Severity
			out = append(out, v)
		}
	}

	return out
}

func timeoutViolation() m.Violation {
	return m.Violation{
		RuleID:   m.RuleTimeout,
		Severity: m.SeverityError,
		Message:  "analysis timed out; results are partial",
	}
}
