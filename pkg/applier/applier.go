// Package applier makes the host registry reflect a rule set: it clears prior
// registrations when the host supports that, registers each rule in order and
// asks the host to refresh its views.
//
// No failure escapes. A rule the host refuses is skipped and the remaining
// rules are still registered.
package applier

import (
	"context"

	"github.com/arthur-debert/asprules/pkg/errors"
	"github.com/arthur-debert/asprules/pkg/logging"
	"github.com/arthur-debert/asprules/pkg/registry"
	"github.com/arthur-debert/asprules/pkg/rules"
	"github.com/rs/zerolog"
)

// RefreshFunc asks the host to re-render its file views.
type RefreshFunc func(ctx context.Context) error

// RuleFailure records a rule the host refused.
type RuleFailure struct {
	Index int
	Rule  rules.Rule
	Err   error
}

// Report summarizes one reconciliation.
type Report struct {
	Cleared    bool
	ClearErr   error
	Registered int
	Failed     []RuleFailure
	Refreshed  bool
	RefreshErr error
}

// Applier registers rule sets with a host registry.
type Applier struct {
	registry registry.Registry
	refresh  RefreshFunc
	logger   zerolog.Logger
}

// Option configures an Applier.
type Option func(*Applier)

// WithRefresh installs the host refresh hook.
func WithRefresh(fn RefreshFunc) Option {
	return func(a *Applier) { a.refresh = fn }
}

// WithLogger overrides the component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Applier) { a.logger = logger }
}

// New creates an applier. A nil registry makes every Apply a no-op.
func New(reg registry.Registry, opts ...Option) *Applier {
	a := &Applier{
		registry: reg,
		logger:   logging.GetLogger("applier"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply reconciles the registry with rs, discarding the report.
func (a *Applier) Apply(ctx context.Context, rs rules.RuleSet) {
	_ = a.Reconcile(ctx, rs)
}

// Reconcile reconciles the registry with rs and reports what happened.
func (a *Applier) Reconcile(ctx context.Context, rs rules.RuleSet) Report {
	var report Report
	if a == nil || a.registry == nil {
		return report
	}

	if clearer, ok := a.registry.(registry.Clearer); ok {
		report.ClearErr = guard(clearer.UnregisterAll)
		report.Cleared = report.ClearErr == nil
		if report.ClearErr != nil {
			a.logger.Warn().Err(report.ClearErr).Msg("Failed to clear previous registrations")
		}
	}

	for i, rule := range rs {
		r := rule
		err := guard(func() error { return a.registry.Register(r) })
		if err != nil {
			report.Failed = append(report.Failed, RuleFailure{Index: i, Rule: r, Err: err})
			a.logger.Warn().
				Err(err).
				Int("index", i).
				Strs("extensions", r.Extensions).
				Msg("Host refused rule")
			continue
		}
		report.Registered++
	}

	if a.refresh != nil {
		report.RefreshErr = guard(func() error { return a.refresh(ctx) })
		report.Refreshed = report.RefreshErr == nil
		if report.RefreshErr != nil {
			a.logger.Debug().Err(report.RefreshErr).Msg("Host refresh failed")
		}
	}

	a.logger.Debug().
		Int("rules", len(rs)).
		Int("registered", report.Registered).
		Int("failed", len(report.Failed)).
		Bool("refreshed", report.Refreshed).
		Msg("Applied rules")
	return report
}

// guard runs fn, turning a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.FromPanic(r)
		}
	}()
	return fn()
}
