package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/ehr/calendar/internal/domain/calendar"
	"github.com/ehr/calendar/internal/platform/db"
)

const cellWidth = 5

// renderGrid prints the month header, the weekday row and one row per week.
// Days with appointments are marked with '*' and listed below the grid.
func renderGrid(w io.Writer, grid *calendar.MonthGrid, index calendar.AppointmentIndex) {
	fmt.Fprintln(w, grid.Label)
	for _, h := range grid.Weekdays {
		fmt.Fprintf(w, "%-*s", cellWidth, h)
	}
	fmt.Fprintln(w)

	var marked []calendar.DayCell
	for _, week := range calendar.Weeks(grid.Cells) {
		var row strings.Builder
		for _, cell := range week {
			switch {
			case cell.Empty():
				fmt.Fprintf(&row, "%-*s", cellWidth, "")
			case cell.HasAppointment:
				fmt.Fprintf(&row, "%-*s", cellWidth, fmt.Sprintf("%2d*", cell.Day))
				marked = append(marked, cell)
			default:
				fmt.Fprintf(&row, "%-*s", cellWidth, fmt.Sprintf("%2d", cell.Day))
			}
		}
		fmt.Fprintln(w, strings.TrimRight(row.String(), " "))
	}

	if len(marked) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, cell := range marked {
		for _, a := range calendar.LookupAppointments(cell.Date, index) {
			fmt.Fprintf(w, "%s %s %-8s %s, %s (%s)\n",
				cell.Date, calendar.IconFor(a.Type), a.Time, a.Type, a.Doctor, a.Location)
		}
	}
}

func printMigrationStatus(w io.Writer, statuses []db.MigrationStatus) {
	fmt.Fprintf(w, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	fmt.Fprintln(w, "---------- ---------------------------------------- ---------- --------------------")
	for _, s := range statuses {
		status := "pending"
		appliedAt := ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(w, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
	}
}
