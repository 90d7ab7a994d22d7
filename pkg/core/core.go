package core

import (
	"context"
	"time"

	"github.com/arthur-debert/asprules/pkg/applier"
	"github.com/arthur-debert/asprules/pkg/editor"
	"github.com/arthur-debert/asprules/pkg/errors"
	"github.com/arthur-debert/asprules/pkg/logging"
	"github.com/arthur-debert/asprules/pkg/notify"
	"github.com/arthur-debert/asprules/pkg/registry"
	"github.com/arthur-debert/asprules/pkg/rules"
	"github.com/arthur-debert/asprules/pkg/storage"
	"github.com/arthur-debert/asprules/pkg/store"
	"github.com/rs/zerolog"
)

// Notices sent when the host lacks a registry.
const (
	MissingRegistryMessage = "this host does not support the ASP (Additional Suffix Plugin) API, please upgrade it"
	MissingSettingsMessage = "this host does not support ASP settings (no suffix registry), please upgrade it"
)

// ErrCapabilityMissing is returned when the host has no suffix registry.
var ErrCapabilityMissing = errors.New(errors.ErrCapabilityMissing, "host has no suffix registry")

// Host holds the capabilities offered by the surrounding application.
type Host struct {
	Storage  storage.Storage
	Registry registry.Registry
	Refresh  applier.RefreshFunc
	Sink     notify.Sink
	Logger   *zerolog.Logger

	// Key overrides the storage key; empty means store.DefaultKey.
	Key string

	// Editor save notice durations; zero values use the notify defaults.
	OKDuration  time.Duration
	ErrDuration time.Duration
}

// Result describes one activation.
type Result struct {
	Rules rules.RuleSet
	Load  store.LoadReport
	Apply applier.Report
}

func (h Host) logger() zerolog.Logger {
	return logging.Or(h.Logger, "core")
}

// Store returns the rule store over the host storage.
func (h Host) Store() *store.Store {
	return store.New(h.Storage, store.WithKey(h.Key), store.WithLogger(h.logger()))
}

// Applier returns the rule applier over the host registry.
func (h Host) Applier() *applier.Applier {
	return applier.New(h.Registry, applier.WithRefresh(h.Refresh), applier.WithLogger(h.logger()))
}

func (h Host) requireRegistry(msg string) error {
	if h.Registry != nil {
		return nil
	}
	notify.Send(h.Sink, msg, notify.LevelErr, notify.DurationCapability)
	logger := h.logger()
	logger.Warn().Msg("Host has no suffix registry")
	return ErrCapabilityMissing
}

// Activate loads, normalizes and applies the stored rules.
func Activate(ctx context.Context, h Host) error {
	_, err := Run(ctx, h)
	return err
}

// Run is Activate with a report of what was loaded and applied.
func Run(ctx context.Context, h Host) (Result, error) {
	if err := h.requireRegistry(MissingRegistryMessage); err != nil {
		return Result{}, err
	}

	done := logging.LogOperationStart(h.logger(), "activate")
	defer done()

	st := h.Store()
	rs, report := st.LoadResult(ctx)
	st.Save(ctx, rs)
	applied := h.Applier().Reconcile(ctx, rs)

	return Result{Rules: rs, Load: report, Apply: applied}, nil
}

// OpenSettings returns an editor session pre-filled with the stored rules.
func OpenSettings(ctx context.Context, h Host) (*editor.Session, error) {
	if err := h.requireRegistry(MissingSettingsMessage); err != nil {
		return nil, err
	}

	st := h.Store()
	current := st.Load(ctx)
	return editor.NewSession(st, h.Applier(),
		editor.WithSink(h.Sink),
		editor.WithRows(editor.RowsFromRules(current)),
		editor.WithDurations(h.OKDuration, h.ErrDuration),
	), nil
}

// Deactivate is a no-op.
func Deactivate(context.Context) {}

// Reload loads the stored rules and applies them without writing back. It is
// used when storage changed underneath a running host.
func Reload(ctx context.Context, h Host) (Result, error) {
	if h.Registry == nil {
		return Result{}, ErrCapabilityMissing
	}

	rs, report := h.Store().LoadResult(ctx)
	applied := h.Applier().Reconcile(ctx, rs)
	return Result{Rules: rs, Load: report, Apply: applied}, nil
}
