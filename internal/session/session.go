package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/weather-lookup/internal/forecast"
	"github.com/i474232898/weather-lookup/internal/prefs"
	"github.com/i474232898/weather-lookup/internal/weather"
)

var (
	// ErrNoResult is returned when a session has not completed a lookup yet.
	ErrNoResult    = errors.New("no lookup result for session")
	// ErrPreferences wraps failures to read or write persisted preferences.
	ErrPreferences = errors.New("preferences unavailable")
)

// Initial status shown before the first lookup.
const idleStatus = `Click "Use my location" or search a city to start.`

// Looker performs lookups; *weather.Service satisfies it.
type Looker interface {
	Lookup(ctx context.Context, q weather.Query, units weather.Units) (weather.Result, error)
}

// Session is the view state of one client: its last result, status line
// and last query. All access goes through its methods.
type Session struct {
	ID string

	mu         sync.Mutex
	prefs      *prefs.Preferences
	looker     Looker
	logger     *zap.Logger
	status     string
	result     *weather.Result
	lastQuery  weather.Query
	lastAccess atomic.Int64 // unix nanoseconds
}

// Snapshot is a consistent copy of a session's view state.
type Snapshot struct {
	ID     string          `json:"session"`
	Units  weather.Units   `json:"units"`
	Status string          `json:"status"`
	Result *weather.Result `json:"result,omitempty"`
}

func newSession(id string, p *prefs.Preferences, looker Looker, logger *zap.Logger, now time.Time) *Session {
	s := &Session{
		ID:     id,
		prefs:  p,
		looker: looker,
		logger: logger,
		status: idleStatus,
	}
	s.touch(now)
	return s
}

// Prefs exposes the session's persisted preferences.
func (s *Session) Prefs() *prefs.Preferences {
	return s.prefs
}

// Search looks up a city, or coordinates when q.Coords is set. On failure
// the previous result is kept and the status carries the error message.
func (s *Session) Search(ctx context.Context, q weather.Query) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case q.Coords != nil:
		s.status = "Loading weather for your location…"
	default:
		s.status = fmt.Sprintf("Searching %q…", q.City)
	}
	return s.lookupLocked(ctx, q)
}

// ToggleUnits switches unit systems, persists the choice and refreshes the
// last lookup when there is one.
func (s *Session) ToggleUnits(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	units, err := s.prefs.Units(ctx)
	if err != nil {
		return s.failLocked(ctx, fmt.Errorf("%w: read units: %w", ErrPreferences, err))
	}
	next := units.Toggle()
	if err := s.prefs.SetUnits(ctx, next); err != nil {
		return s.failLocked(ctx, fmt.Errorf("%w: save units: %w", ErrPreferences, err))
	}

	s.status = fmt.Sprintf("Units set to %s — refreshing data...", next.TempSymbol())

	if s.result == nil {
		return s.snapshotLocked(ctx), nil
	}

	// Refresh by the resolved coordinates when the provider returned them.
	q := s.lastQuery
	if q.Coords == nil && s.result.Current.Coords != (weather.Coordinates{}) {
		c := s.result.Current.Coords
		q = weather.Query{Coords: &c}
	}
	return s.lookupLocked(ctx, q)
}

// Snapshot returns the current view state.
func (s *Session) Snapshot(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(ctx)
}

// Chart returns the chart series of the last result.
func (s *Session) Chart() (forecast.Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result == nil {
		return forecast.Series{}, ErrNoResult
	}
	return s.result.Chart, nil
}

func (s *Session) lookupLocked(ctx context.Context, q weather.Query) (Snapshot, error) {
	units, err := s.prefs.Units(ctx)
	if err != nil {
		s.logger.Warn("read units preference", zap.String("session", s.ID), zap.Error(err))
	}

	res, err := s.looker.Lookup(ctx, q, units)
	if err != nil {
		return s.failLocked(ctx, err)
	}

	s.result = &res
	s.lastQuery = q
	s.status = "Loaded weather. ✓"

	if err := s.prefs.AddHistory(ctx, res.Current.Name); err != nil {
		s.logger.Warn("save history", zap.String("session", s.ID), zap.Error(err))
	}
	return s.snapshotLocked(ctx), nil
}

// failLocked records err in the status line and keeps the previous result.
func (s *Session) failLocked(ctx context.Context, err error) (Snapshot, error) {
	s.status = "Error: " + err.Error()
	s.logger.Warn("session request failed", zap.String("session", s.ID), zap.Error(err))
	return s.snapshotLocked(ctx), err
}

func (s *Session) snapshotLocked(ctx context.Context) Snapshot {
	units, _ := s.prefs.Units(ctx)
	snap := Snapshot{
		ID:     s.ID,
		Units:  units,
		Status: s.status,
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	return snap
}

func (s *Session) touch(now time.Time) {
	s.lastAccess.Store(now.UnixNano())
}

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastAccess.Load()))
}
