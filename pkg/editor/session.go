package editor

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/arthur-debert/asprules/pkg/applier"
	"github.com/arthur-debert/asprules/pkg/errors"
	"github.com/arthur-debert/asprules/pkg/logging"
	"github.com/arthur-debert/asprules/pkg/notify"
	"github.com/arthur-debert/asprules/pkg/rules"
	"github.com/arthur-debert/asprules/pkg/store"
)

// Notice texts shown after a save.
const (
	SavedMessage      = "ASP rules saved and applied"
	SaveFailedMessage = "save failed: "
)

// Session is one open settings form.
type Session struct {
	store   *store.Store
	applier *applier.Applier
	sink    notify.Sink
	rows    []Row

	okDuration  time.Duration
	errDuration time.Duration
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSink sets where save notices go.
func WithSink(sink notify.Sink) SessionOption {
	return func(s *Session) { s.sink = sink }
}

// WithDurations overrides the success and failure notice durations.
func WithDurations(ok, err time.Duration) SessionOption {
	return func(s *Session) {
		if ok > 0 {
			s.okDuration = ok
		}
		if err > 0 {
			s.errDuration = err
		}
	}
}

// WithRows pre-populates the form.
func WithRows(rows []Row) SessionOption {
	return func(s *Session) { s.rows = append([]Row(nil), rows...) }
}

// NewSession creates a settings session over a store and applier.
func NewSession(st *store.Store, ap *applier.Applier, opts ...SessionOption) *Session {
	s := &Session{
		store:       st,
		applier:     ap,
		okDuration:  notify.DurationOK,
		errDuration: notify.DurationErr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rows returns a copy of the current form rows.
func (s *Session) Rows() []Row {
	return append([]Row(nil), s.rows...)
}

// SetRows replaces the form rows.
func (s *Session) SetRows(rows []Row) {
	s.rows = append([]Row(nil), rows...)
}

// AddRow appends a blank row and returns its index.
func (s *Session) AddRow() int {
	s.rows = append(s.rows, BlankRow())
	return len(s.rows) - 1
}

// RemoveRow deletes the row at i. Out of range indexes are ignored.
func (s *Session) RemoveRow(i int) {
	if i < 0 || i >= len(s.rows) {
		return
	}
	s.rows = append(s.rows[:i], s.rows[i+1:]...)
}

// RestoreDefaults replaces the form with the default rows. Nothing is
// persisted until Save.
func (s *Session) RestoreDefaults() {
	s.rows = DefaultRows()
}

// SaveCurrent saves the rows held by the session.
func (s *Session) SaveCurrent(ctx context.Context) error {
	return s.Save(ctx, s.rows)
}

// Save validates rows, then persists and applies them. A validation error
// leaves storage and the registry untouched and is reported through the sink
// as well as returned.
func (s *Session) Save(ctx context.Context, rows []Row) error {
	logger := logging.GetLogger("editor")

	rs, err := Build(rows)
	if err != nil {
		logger.Debug().Err(err).Int("rows", len(rows)).Msg("Rejected settings form")
		notify.Send(s.sink, SaveFailedMessage+message(err), notify.LevelErr, s.errDuration)
		return err
	}

	s.store.Save(ctx, rs)
	s.applier.Apply(ctx, rs)
	s.rows = RowsFromRules(rs)

	logger.Info().Int("rules", len(rs)).Msg("Saved settings form")
	notify.Send(s.sink, SavedMessage, notify.LevelOK, s.okDuration)
	return nil
}

// Rules returns the rules the current rows would save, or nil when they do
// not validate.
func (s *Session) Rules() rules.RuleSet {
	rs, err := Build(s.rows)
	if err != nil {
		return nil
	}
	return rs
}

func message(err error) string {
	var coded *errors.Error
	if stderrors.As(err, &coded) {
		return coded.Message
	}
	return err.Error()
}
