// Package tidecache amortizes the cost of extrema search over many
// queries within the same UTC day by precomputing a rolling N-day
// window per station. It is the only place in the module where
// suspension is observable: a miss or stale entry computes through the
// harmonic engine while holding the cache's single mutex, which is what
// gives concurrent callers single-flight behavior per (station, day).
package tidecache

import (
	"sync"
	"time"

	"github.com/tedski/tidewatch/internal/harmonic"
)

// DefaultWindowDays is N, the size of the rolling extrema window.
const DefaultWindowDays = 7

// Stats is a per-station snapshot of cache state, taken under the
// cache's lock.
type Stats struct {
	StationID   string
	Count       int
	WindowStart time.Time
	WindowEnd   time.Time
	Valid       bool
}

type entry struct {
	extrema     []harmonic.Extremum
	createdDate string // UTC calendar date, "2006-01-02"
	windowStart time.Time
	windowEnd   time.Time
}

// Cache is a per-station, day-scoped store of precomputed extrema. The
// zero value is not usable; construct with New. A *Cache is safe for
// concurrent use by any number of goroutines.
type Cache struct {
	engine     *harmonic.Engine
	windowDays int

	mu      sync.Mutex
	entries map[string]*entry
}

// New builds a Cache backed by engine with a rolling window of
// windowDays (DefaultWindowDays if <= 0).
func New(engine *harmonic.Engine, windowDays int) *Cache {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &Cache{
		engine:     engine,
		windowDays: windowDays,
		entries:    make(map[string]*entry),
	}
}

func currentDateUTC() string {
	return time.Now().UTC().Format("2006-01-02")
}

func startOfTodayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// getOrBuild returns today's entry for stationID, computing it while
// holding the lock if missing or stale. The lock is held for the full
// computation so concurrent callers for the same station serialize
// behind a single computation pass rather than each recomputing.
func (c *Cache) getOrBuild(stationID string) (*entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	today := currentDateUTC()
	if e, ok := c.entries[stationID]; ok && e.createdDate == today {
		return e, nil
	}

	start := startOfTodayUTC()
	end := start.AddDate(0, 0, c.windowDays)

	extrema, err := c.engine.Extrema(stationID, start, end)
	if err != nil {
		return nil, err
	}

	e := &entry{
		extrema:     extrema,
		createdDate: today,
		windowStart: start,
		windowEnd:   end,
	}
	c.entries[stationID] = e
	return e, nil
}

// Prewarm ensures an entry exists for stationID for the current UTC day.
func (c *Cache) Prewarm(stationID string) error {
	_, err := c.getOrBuild(stationID)
	return err
}

// NextHigh returns the first cached High extremum strictly after t, or
// nil if none exists within the cached window (even if one would exist
// beyond it).
func (c *Cache) NextHigh(stationID string, t time.Time) (*harmonic.Extremum, error) {
	return c.next(stationID, t, harmonic.High)
}

// NextLow returns the first cached Low extremum strictly after t, or
// nil if none exists within the cached window.
func (c *Cache) NextLow(stationID string, t time.Time) (*harmonic.Extremum, error) {
	return c.next(stationID, t, harmonic.Low)
}

func (c *Cache) next(stationID string, t time.Time, want harmonic.ExtremumType) (*harmonic.Extremum, error) {
	e, err := c.getOrBuild(stationID)
	if err != nil {
		return nil, err
	}
	for i := range e.extrema {
		if e.extrema[i].Type == want && e.extrema[i].Time.After(t) {
			ext := e.extrema[i]
			return &ext, nil
		}
	}
	return nil, nil
}

// AllExtrema returns the full cached window, sorted ascending.
func (c *Cache) AllExtrema(stationID string) ([]harmonic.Extremum, error) {
	e, err := c.getOrBuild(stationID)
	if err != nil {
		return nil, err
	}
	out := make([]harmonic.Extremum, len(e.extrema))
	copy(out, e.extrema)
	return out, nil
}

// InRange returns cached extrema with t0 <= time <= t1 (inclusive on
// both boundaries); empty if t1 < t0.
func (c *Cache) InRange(stationID string, t0, t1 time.Time) ([]harmonic.Extremum, error) {
	if t1.Before(t0) {
		return nil, nil
	}
	e, err := c.getOrBuild(stationID)
	if err != nil {
		return nil, err
	}
	var out []harmonic.Extremum
	for _, ext := range e.extrema {
		if !ext.Time.Before(t0) && !ext.Time.After(t1) {
			out = append(out, ext)
		}
	}
	return out, nil
}

// Invalidate drops the cached entry for stationID, if any.
func (c *Cache) Invalidate(stationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, stationID)
}

// InvalidateAll drops every cached entry.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// InvalidateExpired drops only entries whose creation date is not the
// current UTC date.
func (c *Cache) InvalidateExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	today := currentDateUTC()
	for id, e := range c.entries {
		if e.createdDate != today {
			delete(c.entries, id)
		}
	}
}

// Stats returns a per-station summary, computing the entry first if
// it is missing or stale.
func (c *Cache) Stats(stationID string) (Stats, error) {
	e, err := c.getOrBuild(stationID)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		StationID:   stationID,
		Count:       len(e.extrema),
		WindowStart: e.windowStart,
		WindowEnd:   e.windowEnd,
		Valid:       e.createdDate == currentDateUTC(),
	}, nil
}
