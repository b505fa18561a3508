// Package export renders a month of appointments as downloadable calendar
// files: iCalendar, CSV and XLSX.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/ehr/calendar/internal/domain/calendar"
)

// Supported formats.
const (
	FormatICS  = "ics"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ICSProductID identifies this service in generated iCalendar files.
const ICSProductID = "-//EHR//Hospital Calendar//EN"

// ErrUnknownFormat is returned for formats other than ics, csv and xlsx.
var ErrUnknownFormat = errors.New("unknown export format")

// Document is the input to every writer.
type Document struct {
	Hospital string
	Month    calendar.ReferenceMonth
	Index    calendar.Index
	Stamp    time.Time
}

// ContentType returns the MIME type for format.
func ContentType(format string) (string, error) {
	switch format {
	case FormatICS:
		return "text/calendar; charset=utf-8", nil
	case FormatCSV:
		return "text/csv; charset=utf-8", nil
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Filename returns the attachment name for a month export.
func Filename(format string, month calendar.ReferenceMonth) string {
	return fmt.Sprintf("appointments_%s.%s", month.Normalize(), format)
}

// Write renders doc in format to w.
func Write(w io.Writer, format string, doc Document) error {
	switch format {
	case FormatICS:
		return WriteICS(w, doc)
	case FormatCSV:
		return WriteCSV(w, doc)
	case FormatXLSX:
		return WriteXLSX(w, doc)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// WriteICS writes one VEVENT per appointment. Appointment times are local
// wall-clock labels ("10:00 AM"); events without a parseable time become
// all-day events.
func WriteICS(w io.Writer, doc Document) error {
	var b strings.Builder
	line := func(format string, args ...interface{}) {
		b.WriteString(foldLine(fmt.Sprintf(format, args...)))
		b.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:%s", ICSProductID)
	line("CALSCALE:GREGORIAN")
	line("X-WR-CALNAME:%s", escapeText(doc.Hospital+" "+doc.Month.Label()))

	stamp := doc.Stamp.UTC().Format("20060102T150405Z")
	for _, a := range doc.Index.Flatten() {
		year, month, day, err := calendar.ParseDateKey(a.Date)
		if err != nil {
			continue
		}
		date := fmt.Sprintf("%04d%02d%02d", year, month+1, day)

		line("BEGIN:VEVENT")
		line("UID:%s-%d@%s", a.Date, a.ID, "calendar.ehr")
		line("DTSTAMP:%s", stamp)
		if hour, minute, ok := parseClock(a.Time); ok {
			line("DTSTART:%sT%02d%02d00", date, hour, minute)
		} else {
			nm, nd := month, day+1
			if nd > calendar.DaysIn(year, month) {
				nm, nd = month+1, 1
			}
			next := calendar.FormatDateKey(year, nm, nd)
			line("DTSTART;VALUE=DATE:%s", date)
			line("DTEND;VALUE=DATE:%s", strings.ReplaceAll(next, "-", ""))
		}
		line("SUMMARY:%s", escapeText(a.Type))
		line("DESCRIPTION:%s", escapeText(a.Type+" with "+a.Doctor))
		line("LOCATION:%s", escapeText(a.Location))
		line("END:VEVENT")
	}
	line("END:VCALENDAR")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteCSV writes a header row and one row per appointment.
func WriteCSV(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, a := range doc.Index.Flatten() {
		if err := cw.Write([]string{a.Date, a.Time, a.Type, a.Doctor, a.Location, strconv.Itoa(a.ID)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var csvHeader = []string{"date", "time", "type", "doctor", "location", "id"}

// WriteXLSX writes a workbook with two sheets: the month laid out as a
// Monday-first grid, and the appointment list.
func WriteXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	gridSheet := doc.Month.Label()
	if err := f.SetSheetName("Sheet1", gridSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for col, header := range calendar.WeekdayHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(gridSheet, cell, header); err != nil {
			return err
		}
	}
	cells := calendar.BuildMonthGrid(doc.Month, doc.Index)
	for r, week := range calendar.Weeks(cells) {
		for col, dc := range week {
			if dc.Empty() {
				continue
			}
			value := strconv.Itoa(dc.Day)
			for _, a := range calendar.LookupAppointments(dc.Date, doc.Index) {
				value += "\n" + calendar.IconFor(a.Type) + " " + a.Time + " " + a.Type
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			if err := f.SetCellValue(gridSheet, cell, value); err != nil {
				return err
			}
		}
	}

	const listSheet = "Appointments"
	if _, err := f.NewSheet(listSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	for col, header := range csvHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(listSheet, cell, header); err != nil {
			return err
		}
	}
	for i, a := range doc.Index.Flatten() {
		row := []interface{}{a.Date, a.Time, a.Type, a.Doctor, a.Location, a.ID}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(listSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// parseClock reads "10:00 AM" style labels.
func parseClock(s string) (hour, minute int, ok bool) {
	t, err := time.Parse("3:04 PM", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`, "\r", "")

func escapeText(s string) string {
	return icsEscaper.Replace(s)
}

// icsLineLimit is the content line length limit in octets, excluding CRLF.
const icsLineLimit = 75

// foldLine splits a content line into 75-octet pieces joined by CRLF plus a
// single space. Breaks never fall inside a UTF-8 sequence.
func foldLine(s string) string {
	if len(s) <= icsLineLimit {
		return s
	}
	var b strings.Builder
	width := 0
	for _, r := range s {
		n := utf8.RuneLen(r)
		if width+n > icsLineLimit {
			b.WriteString("\r\n ")
			width = 1
		}
		b.WriteRune(r)
		width += n
	}
	return b.String()
}
