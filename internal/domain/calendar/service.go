package calendar

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// MonthGrid is a built grid plus the header data a renderer needs.
type MonthGrid struct {
	Month         ReferenceMonth `json:"month"`
	Label         string         `json:"label"`
	Weekdays      []string       `json:"weekdays"`
	LeadingBlanks int            `json:"leading_blanks"`
	DaysInMonth   int            `json:"days_in_month"`
	Cells         []DayCell      `json:"cells"`
	Previous      ReferenceMonth `json:"previous"`
	Next          ReferenceMonth `json:"next"`
}

type Service struct {
	source AppointmentSource
	logger zerolog.Logger
}

func NewService(source AppointmentSource, logger zerolog.Logger) *Service {
	return &Service{source: source, logger: logger}
}

// Snapshot loads the appointments filed under the days of month.
func (s *Service) Snapshot(ctx context.Context, month ReferenceMonth) (Index, error) {
	n := month.Normalize()
	index, err := s.source.ListRange(ctx, n.FirstKey(), n.LastKey())
	if err != nil {
		return nil, fmt.Errorf("load appointments for %s: %w", n, err)
	}
	return index, nil
}

// Month builds the grid for month against a fresh snapshot and returns the
// snapshot alongside it.
func (s *Service) Month(ctx context.Context, month ReferenceMonth) (*MonthGrid, Index, error) {
	n := month.Normalize()
	index, err := s.Snapshot(ctx, n)
	if err != nil {
		return nil, nil, err
	}
	grid := NewMonthGrid(n, index)
	s.logger.Debug().
		Str("month", n.String()).
		Int("cells", len(grid.Cells)).
		Int("days_with_appointments", len(index)).
		Msg("built month grid")
	return grid, index, nil
}

// Day returns the appointments on one date.
func (s *Service) Day(ctx context.Context, dateKey string) ([]Appointment, error) {
	if _, _, _, err := ParseDateKey(dateKey); err != nil {
		return nil, err
	}
	index, err := s.source.ListRange(ctx, dateKey, dateKey)
	if err != nil {
		return nil, fmt.Errorf("load appointments for %s: %w", dateKey, err)
	}
	return LookupAppointments(dateKey, index), nil
}

// Range lists appointments between two inclusive date keys and returns one
// page of them with the total count.
func (s *Service) Range(ctx context.Context, from, to string, limit, offset int) ([]DatedAppointment, int, error) {
	if _, _, _, err := ParseDateKey(from); err != nil {
		return nil, 0, err
	}
	if _, _, _, err := ParseDateKey(to); err != nil {
		return nil, 0, err
	}
	if to < from {
		return nil, 0, fmt.Errorf("%w: range end %s is before start %s", ErrInvalidDateKey, to, from)
	}
	index, err := s.source.ListRange(ctx, from, to)
	if err != nil {
		return nil, 0, fmt.Errorf("load appointments %s..%s: %w", from, to, err)
	}
	all := index.Flatten()
	total := len(all)
	if offset >= total {
		return []DatedAppointment{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

// NewMonthGrid wraps BuildMonthGrid with header data.
func NewMonthGrid(month ReferenceMonth, index AppointmentIndex) *MonthGrid {
	n := month.Normalize()
	return &MonthGrid{
		Month:         n,
		Label:         n.Label(),
		Weekdays:      WeekdayHeaders,
		LeadingBlanks: LeadingBlanks(n),
		DaysInMonth:   n.DaysIn(),
		Cells:         BuildMonthGrid(n, index),
		Previous:      NavigateMonth(n, -1),
		Next:          NavigateMonth(n, 1),
	}
}
