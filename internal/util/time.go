package util

import (
	"fmt"
	"sync"
	"time"
)

// TimeProvider holds the time zone charts are drawn in. Tick boundaries, the
// data cutoff and tooltip dates are all computed in this zone.
type TimeProvider struct {
	mu       sync.RWMutex
	location *time.Location
	now      func() time.Time
}

var (
	globalTimeProvider *TimeProvider
	mu                 sync.Mutex
)

// LoadLocation resolves a zone name. "" and "Local" both mean the system zone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w\nValid examples: Local, UTC, Europe/Prague, America/New_York", timezone, err)
	}
	return loc, nil
}

// NewTimeProvider creates a provider for the named zone.
func NewTimeProvider(timezone string) (*TimeProvider, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &TimeProvider{location: loc, now: time.Now}, nil
}

// InitializeTimeProvider installs the global provider. On error the previous
// provider stays in place.
func InitializeTimeProvider(timezone string) error {
	provider, err := NewTimeProvider(timezone)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	globalTimeProvider = provider
	return nil
}

// GetTimeProvider returns the global provider, defaulting to the system zone.
func GetTimeProvider() *TimeProvider {
	mu.Lock()
	defer mu.Unlock()
	if globalTimeProvider == nil {
		globalTimeProvider = &TimeProvider{location: time.Local, now: time.Now}
	}
	return globalTimeProvider
}

// Location returns the configured zone.
func (tp *TimeProvider) Location() *time.Location {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return tp.location
}

// SetTimezone switches the provider to another zone.
func (tp *TimeProvider) SetTimezone(timezone string) error {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return err
	}
	tp.mu.Lock()
	defer tp.mu.Unlock()
	tp.location = loc
	return nil
}

// Now returns the current time in the configured zone.
func (tp *TimeProvider) Now() time.Time {
	return tp.In(tp.now())
}

// In converts t to the configured zone.
func (tp *TimeProvider) In(t time.Time) time.Time {
	return t.In(tp.Location())
}

// Midnight returns 00:00 of the given day in the configured zone.
func (tp *TimeProvider) Midnight(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, tp.Location())
}

// Format formats t in the configured zone.
func (tp *TimeProvider) Format(t time.Time, layout string) string {
	return tp.In(t).Format(layout)
}
