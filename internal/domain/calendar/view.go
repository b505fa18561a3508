package calendar

// SelectionState is the display state of a calendar view.
type SelectionState int

const (
	NoSelection SelectionState = iota
	SelectedWithAppointments
	SelectedEmpty
)

func (s SelectionState) String() string {
	switch s {
	case SelectedWithAppointments:
		return "selected"
	case SelectedEmpty:
		return "selected-empty"
	default:
		return "none"
	}
}

// View holds the display-layer state around a month grid: the month shown
// and the date the user picked, if any.
type View struct {
	Month    ReferenceMonth
	Selected string
}

// NewView starts a view on month with nothing selected.
func NewView(month ReferenceMonth) *View {
	return &View{Month: month.Normalize()}
}

// Select picks the date of a populated cell. Blank cells are not click
// targets and leave the selection untouched; Select reports whether the
// selection changed.
func (v *View) Select(cell DayCell) bool {
	if cell.Empty() {
		return false
	}
	v.Selected = cell.Date
	return true
}

// Navigate moves the view by delta months and clears the selection.
func (v *View) Navigate(delta int) ReferenceMonth {
	v.Month = NavigateMonth(v.Month, delta)
	v.Selected = ""
	return v.Month
}

// State classifies the view against index.
func (v *View) State(index AppointmentIndex) SelectionState {
	if v.Selected == "" {
		return NoSelection
	}
	if len(LookupAppointments(v.Selected, index)) == 0 {
		return SelectedEmpty
	}
	return SelectedWithAppointments
}

// Appointments returns the selected date's appointments, empty when nothing
// is selected.
func (v *View) Appointments(index AppointmentIndex) []Appointment {
	if v.Selected == "" {
		return []Appointment{}
	}
	return LookupAppointments(v.Selected, index)
}
