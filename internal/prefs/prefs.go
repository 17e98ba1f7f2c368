package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather"
)

// DefaultHistoryLimit is how many recent searches are kept.
const DefaultHistoryLimit = 6

const (
	unitsKey   = "weather_units"
	historyKey = "weather_history"
)

// Preferences persists the unit choice and search history of one owner
// (a session) in a KV store.
type Preferences struct {
	kv           store.KV
	owner        string
	defaultUnits weather.Units
	limit        int
}

// New returns Preferences namespaced under owner.
func New(kv store.KV, owner string, defaultUnits weather.Units, limit int) *Preferences {
	if !defaultUnits.Valid() {
		defaultUnits = weather.UnitsMetric
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &Preferences{
		kv:           kv,
		owner:        owner,
		defaultUnits: defaultUnits,
		limit:        limit,
	}
}

func (p *Preferences) key(name string) string {
	return p.owner + ":" + name
}

// Units returns the stored unit system, or the default when none is stored
// or the stored value is not recognized.
func (p *Preferences) Units(ctx context.Context) (weather.Units, error) {
	v, err := p.kv.Get(ctx, p.key(unitsKey))
	if errors.Is(err, store.ErrNotFound) {
		return p.defaultUnits, nil
	}
	if err != nil {
		return p.defaultUnits, err
	}
	u := weather.Units(v)
	if !u.Valid() {
		return p.defaultUnits, nil
	}
	return u, nil
}

func (p *Preferences) SetUnits(ctx context.Context, u weather.Units) error {
	if !u.Valid() {
		return fmt.Errorf("invalid units %q", u)
	}
	return p.kv.Set(ctx, p.key(unitsKey), string(u))
}

// History returns recent searches, most recent first.
func (p *Preferences) History(ctx context.Context) ([]string, error) {
	v, err := p.kv.Get(ctx, p.key(historyKey))
	if errors.Is(err, store.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	var history []string
	if err := json.Unmarshal([]byte(v), &history); err != nil {
		// A corrupt entry is replaced on the next successful search.
		return []string{}, nil
	}
	return history, nil
}

// AddHistory moves name to the front of the history, dropping any entry
// that differs only in case. Blank names are ignored.
func (p *Preferences) AddHistory(ctx context.Context, name string) error {
	n := strings.TrimSpace(name)
	if n == "" {
		return nil
	}

	history, err := p.History(ctx)
	if err != nil {
		return err
	}

	next := make([]string, 0, len(history)+1)
	next = append(next, n)
	for _, h := range history {
		if !strings.EqualFold(h, n) {
			next = append(next, h)
		}
	}
	if len(next) > p.limit {
		next = next[:p.limit]
	}

	b, err := json.Marshal(next)
	if err != nil {
		return err
	}
	return p.kv.Set(ctx, p.key(historyKey), string(b))
}

// Suggestion is one clickable entry offered while the user types.
type Suggestion struct {
	Label  string `json:"label"`
	Query  string `json:"query"`
	Action string `json:"action"` // "history" or "search"
}

// Suggestions returns recent searches followed by a search action for q.
// An empty q yields no suggestions.
func (p *Preferences) Suggestions(ctx context.Context, q string) ([]Suggestion, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []Suggestion{}, nil
	}

	history, err := p.History(ctx)
	if err != nil {
		return nil, err
	}
	if len(history) > DefaultHistoryLimit {
		history = history[:DefaultHistoryLimit]
	}

	out := make([]Suggestion, 0, len(history)+1)
	for _, h := range history {
		out = append(out, Suggestion{Label: h, Query: h, Action: "history"})
	}
	out = append(out, Suggestion{Label: fmt.Sprintf("Search %q", q), Query: q, Action: "search"})
	return out, nil
}
