// Package store persists the rule set under a single storage key and loads it
// back with a fallback to the built-in default rule.
//
// Load never fails: a missing key, a storage error, a payload that is not a
// list, or a list with no valid rule all yield rules.Default(). Save swallows
// and logs storage failures; SaveErr returns them for callers that want to
// surface the problem.
package store

import (
	"context"
	"fmt"

	"github.com/arthur-debert/asprules/pkg/errors"
	"github.com/arthur-debert/asprules/pkg/logging"
	"github.com/arthur-debert/asprules/pkg/rules"
	"github.com/arthur-debert/asprules/pkg/storage"
	"github.com/rs/zerolog"
)

// DefaultKey is the storage key the rule list lives under.
const DefaultKey = "asp:rules"

// Source tells where a loaded rule set came from.
type Source string

const (
	SourceStored   Source = "stored"
	SourceDefaults Source = "defaults"
)

// Reasons reported when Load falls back to the defaults.
const (
	ReasonMissing    = "missing"
	ReasonReadFailed = "read failed"
	ReasonNotList    = "not a list"
	ReasonNoValid    = "no valid rules"
)

// LoadReport describes the outcome of a load.
type LoadReport struct {
	Source  Source
	Reason  string
	Stored  int
	Dropped int
	Err     error
}

// Store reads and writes the rule set.
type Store struct {
	storage storage.Storage
	key     string
	logger  zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger overrides the component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates a store over the given storage capability.
func New(st storage.Storage, opts ...Option) *Store {
	s := &Store{
		storage: st,
		key:     DefaultKey,
		logger:  logging.GetLogger("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key in use.
func (s *Store) Key() string {
	return s.key
}

// Load returns the stored rules, or the defaults when nothing valid is stored.
func (s *Store) Load(ctx context.Context) rules.RuleSet {
	rs, _ := s.LoadResult(ctx)
	return rs
}

// LoadResult is Load plus a report of how the result was obtained.
func (s *Store) LoadResult(ctx context.Context) (rs rules.RuleSet, report LoadReport) {
	defer func() {
		if r := recover(); r != nil {
			rs = rules.Default()
			report = LoadReport{Source: SourceDefaults, Reason: ReasonReadFailed, Err: errors.FromPanic(r)}
			s.logger.Warn().Err(report.Err).Str("key", s.key).Msg("Rule load panicked, using defaults")
		}
	}()

	if s.storage == nil {
		return s.fallback(LoadReport{Reason: ReasonMissing})
	}

	raw, found, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("Failed to read rules, using defaults")
		return s.fallback(LoadReport{Reason: ReasonReadFailed, Err: err})
	}
	if !found || raw == nil {
		return s.fallback(LoadReport{Reason: ReasonMissing})
	}

	items, ok := rules.AsList(raw)
	if !ok {
		s.logger.Debug().Str("key", s.key).Str("type", fmt.Sprintf("%T", raw)).Msg("Stored rules are not a list")
		return s.fallback(LoadReport{Reason: ReasonNotList})
	}

	loaded, dropped := rules.SanitizeAll(items)
	if len(loaded) == 0 {
		return s.fallback(LoadReport{Reason: ReasonNoValid, Stored: len(items), Dropped: dropped})
	}

	s.logger.Debug().
		Str("key", s.key).
		Int("rules", len(loaded)).
		Int("dropped", dropped).
		Msg("Loaded rules")
	return loaded, LoadReport{Source: SourceStored, Stored: len(items), Dropped: dropped}
}

func (s *Store) fallback(report LoadReport) (rules.RuleSet, LoadReport) {
	report.Source = SourceDefaults
	s.logger.Debug().Str("key", s.key).Str("reason", report.Reason).Msg("Using default rules")
	return rules.Default(), report
}

// Save writes the rule set. Failures are logged and dropped.
func (s *Store) Save(ctx context.Context, rs rules.RuleSet) {
	if err := s.SaveErr(ctx, rs); err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("Failed to save rules")
	}
}

// SaveErr writes the rule set and returns any storage failure.
func (s *Store) SaveErr(ctx context.Context, rs rules.RuleSet) (err error) {
	if s.storage == nil {
		return errors.New(errors.ErrCapabilityMissing, "no storage available")
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.FromPanic(r)
		}
	}()

	if err := s.storage.Set(ctx, s.key, rs.Raw()); err != nil {
		return errors.Wrapf(err, errors.ErrStorageWrite, "write %s", s.key).
			WithDetail("rules", len(rs))
	}
	s.logger.Debug().Str("key", s.key).Int("rules", len(rs)).Msg("Saved rules")
	return nil
}
