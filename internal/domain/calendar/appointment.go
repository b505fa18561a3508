package calendar

import "sort"

// Appointment is a single booked visit shown on the calendar.
type Appointment struct {
	ID       int    `json:"id"`
	Type     string `json:"type"`
	Time     string `json:"time"`
	Doctor   string `json:"doctor"`
	Location string `json:"location"`
}

// DatedAppointment pairs an appointment with the date key it is filed under.
type DatedAppointment struct {
	Date string `json:"date"`
	Appointment
}

// AppointmentIndex maps date keys to the appointments filed under them.
// Implementations are read by the grid builder and never written.
type AppointmentIndex interface {
	Has(dateKey string) bool
	Lookup(dateKey string) []Appointment
}

// Index is the map-backed AppointmentIndex.
type Index map[string][]Appointment

// Has reports whether any entry, even an empty one, is filed under dateKey.
func (ix Index) Has(dateKey string) bool {
	_, ok := ix[dateKey]
	return ok
}

// Lookup returns the stored slice for dateKey, nil on a miss.
func (ix Index) Lookup(dateKey string) []Appointment {
	return ix[dateKey]
}

// Keys returns the date keys in ascending order.
func (ix Index) Keys() []string {
	keys := make([]string, 0, len(ix))
	for k := range ix {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Flatten lists every appointment ordered by date key, keeping the stored
// order within a day.
func (ix Index) Flatten() []DatedAppointment {
	var out []DatedAppointment
	for _, k := range ix.Keys() {
		for _, a := range ix[k] {
			out = append(out, DatedAppointment{Date: k, Appointment: a})
		}
	}
	return out
}

// LookupAppointments returns the appointments filed under dateKey, or an
// empty slice when there are none. The returned slice is a copy.
func LookupAppointments(dateKey string, index AppointmentIndex) []Appointment {
	if index == nil {
		return []Appointment{}
	}
	found := index.Lookup(dateKey)
	out := make([]Appointment, len(found))
	copy(out, found)
	return out
}

var appointmentIcons = map[string]string{
	"Blood Test":          "🩸",
	"Pre-Op Consultation": "🏥",
	"Operation":           "⚕️",
	"Follow-up":           "📋",
	"Physical Therapy":    "🦿",
}

// DefaultIcon marks appointment types without a dedicated icon.
const DefaultIcon = "📅"

// IconFor returns the icon drawn in a day cell for an appointment type.
func IconFor(appointmentType string) string {
	if icon, ok := appointmentIcons[appointmentType]; ok {
		return icon
	}
	return DefaultIcon
}
