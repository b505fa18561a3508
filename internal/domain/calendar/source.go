package calendar

import (
	"context"
	"fmt"
	"sync"
)

// AppointmentSource produces index snapshots for a range of dates. Both
// bounds are inclusive date keys.
type AppointmentSource interface {
	ListRange(ctx context.Context, from, to string) (Index, error)
}

// MemorySource serves appointments from an in-process index.
type MemorySource struct {
	mu    sync.RWMutex
	index Index
}

// NewMemorySource copies index into a new source. Keys that are not valid
// date keys are rejected.
func NewMemorySource(index Index) (*MemorySource, error) {
	copied := make(Index, len(index))
	for key, appts := range index {
		if _, _, _, err := ParseDateKey(key); err != nil {
			return nil, fmt.Errorf("seed appointments: %w", err)
		}
		copied[key] = append([]Appointment(nil), appts...)
	}
	return &MemorySource{index: copied}, nil
}

func (s *MemorySource) ListRange(_ context.Context, from, to string) (Index, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(Index)
	for key, appts := range s.index {
		// Zero-padded keys order the same as the dates they name.
		if key < from || key > to {
			continue
		}
		out[key] = append([]Appointment(nil), appts...)
	}
	return out, nil
}

// SeedIndex returns the demo appointments the calendar ships with.
func SeedIndex() Index {
	return Index{
		"2024-05-10": {
			{ID: 1, Type: "Blood Test", Time: "10:00 AM", Doctor: "Dr. Emily Carter", Location: "Lab 2, East Wing"},
		},
		"2024-05-25": {
			{ID: 2, Type: "Pre-Op Consultation", Time: "2:30 PM", Doctor: "Dr. Mark Twain", Location: "Clinic Room 305"},
		},
	}
}
