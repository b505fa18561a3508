package calendar

import (
	"fmt"
	"time"
)

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Years outside MinYear..MaxYear have no four-digit date key.
const (
	MinYear = 1
	MaxYear = 9999
)

// ReferenceMonth identifies the displayed month. Month is zero-based.
type ReferenceMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// NewReferenceMonth builds a ReferenceMonth, rolling month values outside
// 0..11 into adjacent years.
func NewReferenceMonth(year, month int) ReferenceMonth {
	y, m := normalize(year, month)
	return ReferenceMonth{Year: y, Month: m}
}

// MonthOf returns the month containing t, read from t's own wall clock.
func MonthOf(t time.Time) ReferenceMonth {
	return ReferenceMonth{Year: t.Year(), Month: int(t.Month()) - 1}
}

// NavigateMonth moves current by delta months. It shares the normalization
// used by DaysIn, so NavigateMonth(NavigateMonth(x, 1), -1) == x for every
// normalized x.
func NavigateMonth(current ReferenceMonth, delta int) ReferenceMonth {
	return NewReferenceMonth(current.Year, current.Month+delta)
}

// Normalize folds Month into 0..11, carrying whole years into Year.
func (r ReferenceMonth) Normalize() ReferenceMonth {
	return NewReferenceMonth(r.Year, r.Month)
}

// InRange reports whether the normalized month falls in MinYear..MaxYear.
func (r ReferenceMonth) InRange() bool {
	n := r.Normalize()
	return n.Year >= MinYear && n.Year <= MaxYear
}

// DaysIn returns the number of days in the month.
func (r ReferenceMonth) DaysIn() int {
	return DaysIn(r.Year, r.Month)
}

// FirstKey returns the date key of day 1.
func (r ReferenceMonth) FirstKey() string {
	n := r.Normalize()
	return FormatDateKey(n.Year, n.Month, 1)
}

// LastKey returns the date key of the last day of the month.
func (r ReferenceMonth) LastKey() string {
	n := r.Normalize()
	return FormatDateKey(n.Year, n.Month, n.DaysIn())
}

// Contains reports whether dateKey names a day of this month.
func (r ReferenceMonth) Contains(dateKey string) bool {
	year, month, _, err := ParseDateKey(dateKey)
	if err != nil {
		return false
	}
	n := r.Normalize()
	return year == n.Year && month == n.Month
}

// Label renders the month the way the calendar header shows it, e.g.
// "May 2024".
func (r ReferenceMonth) Label() string {
	n := r.Normalize()
	return fmt.Sprintf("%s %d", monthNames[n.Month], n.Year)
}

func (r ReferenceMonth) String() string {
	n := r.Normalize()
	return fmt.Sprintf("%04d-%02d", n.Year, n.Month+1)
}
