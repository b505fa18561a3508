package calendar

import "encoding/json"

// WeekdayHeaders labels the seven grid columns, Monday first.
var WeekdayHeaders = []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

// DayCell is one grid cell. The zero value is the empty placeholder used for
// the blanks before day 1.
type DayCell struct {
	Day            int
	Date           string
	HasAppointment bool
}

// Empty reports whether the cell is a leading blank.
func (c DayCell) Empty() bool {
	return c.Day == 0
}

// MarshalJSON encodes blanks as {"day":null,"date":null}.
func (c DayCell) MarshalJSON() ([]byte, error) {
	if c.Empty() {
		return []byte(`{"day":null,"date":null}`), nil
	}
	return json.Marshal(struct {
		Day            int    `json:"day"`
		Date           string `json:"date"`
		HasAppointment bool   `json:"has_appointment"`
	}{c.Day, c.Date, c.HasAppointment})
}

// LeadingBlanks returns the number of empty cells before day 1 in a
// Monday-first layout: 0 when the month starts on a Monday, 6 when it starts
// on a Sunday.
func LeadingBlanks(month ReferenceMonth) int {
	n := month.Normalize()
	wd := WeekdayOf(n.Year, n.Month, 1)
	if wd == 0 {
		return 6
	}
	return wd - 1
}

// BuildMonthGrid lays out month as LeadingBlanks(month) empty cells followed
// by one populated cell per day in ascending order. A cell reports
// HasAppointment when index holds an entry for its date key. A nil index
// holds nothing. The result depends only on the arguments.
func BuildMonthGrid(month ReferenceMonth, index AppointmentIndex) []DayCell {
	n := month.Normalize()
	blanks := LeadingBlanks(n)
	days := n.DaysIn()

	cells := make([]DayCell, blanks, blanks+days)
	for day := 1; day <= days; day++ {
		key := FormatDateKey(n.Year, n.Month, day)
		cells = append(cells, DayCell{
			Day:            day,
			Date:           key,
			HasAppointment: index != nil && index.Has(key),
		})
	}
	return cells
}

// FindCell returns the populated cell carrying dateKey.
func FindCell(cells []DayCell, dateKey string) (DayCell, bool) {
	if dateKey == "" {
		return DayCell{}, false
	}
	for _, c := range cells {
		if c.Date == dateKey {
			return c, true
		}
	}
	return DayCell{}, false
}

// Weeks splits cells into rows of seven, padding the last row with blanks.
func Weeks(cells []DayCell) [][]DayCell {
	var rows [][]DayCell
	for start := 0; start < len(cells); start += 7 {
		row := make([]DayCell, 7)
		copy(row, cells[start:min(start+7, len(cells))])
		rows = append(rows, row)
	}
	return rows
}
