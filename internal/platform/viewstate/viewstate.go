package viewstate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ehr/calendar/internal/domain/calendar"
)

// Common errors returned by the view API.
var (
	ErrViewNotFound    = errors.New("calendar view not found")
	ErrDateNotInMonth  = errors.New("date is not a day of the displayed month")
	ErrViewChanged     = errors.New("calendar view changed month during the request")
	ErrMonthOutOfRange = errors.New("month must fall in years 1 through 9999")
)

type session struct {
	view    calendar.View
	touched time.Time
}

// Manager keeps the display state of open calendar views in memory. Views
// that are not touched for the configured TTL are swept.
type Manager struct {
	mu     sync.RWMutex
	views  map[uuid.UUID]*session
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// NewManager creates a Manager whose views expire after ttl of inactivity.
func NewManager(ttl time.Duration, logger zerolog.Logger) *Manager {
	return &Manager{
		views:  make(map[uuid.UUID]*session),
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// Create opens a view on month with nothing selected.
func (m *Manager) Create(month calendar.ReferenceMonth) (uuid.UUID, calendar.View) {
	id := uuid.New()
	v := calendar.NewView(month)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[id] = &session{view: *v, touched: m.now()}
	return id, *v
}

// Get returns a copy of the view.
func (m *Manager) Get(id uuid.UUID) (calendar.View, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.views[id]
	if !ok {
		return calendar.View{}, ErrViewNotFound
	}
	return s.view, nil
}

// Update applies fn to the stored view under the write lock. The view is left
// unchanged when fn returns an error.
func (m *Manager) Update(id uuid.UUID, fn func(v *calendar.View) error) (calendar.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.views[id]
	if !ok {
		return calendar.View{}, ErrViewNotFound
	}
	next := s.view
	if err := fn(&next); err != nil {
		return s.view, err
	}
	s.view = next
	s.touched = m.now()
	return next, nil
}

// Delete closes a view.
func (m *Manager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.views[id]; !ok {
		return ErrViewNotFound
	}
	delete(m.views, id)
	return nil
}

// Len returns the number of open views.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.views)
}

// Sweep drops views idle for longer than the TTL and returns how many went.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.ttl)
	removed := 0
	for id, s := range m.views {
		if s.touched.Before(cutoff) {
			delete(m.views, id)
			removed++
		}
	}
	return removed
}

// StartCleanup sweeps expired views every interval until ctx is done.
func (m *Manager) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.Sweep(); n > 0 {
					m.logger.Info().Int("expired", n).Msg("swept idle calendar views")
				}
			}
		}
	}()
}
