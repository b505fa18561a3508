package calendar

// The routines in this file implement the proleptic Gregorian calendar on
// plain integers. Months are zero-based (0 = January) everywhere in this
// package. Nothing here consults a time zone or the host clock.

// IsLeapYear reports whether year is a leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in the given month. Out-of-range months
// roll into adjacent years first, so DaysIn(2024, -1) is the length of
// December 2023.
func DaysIn(year, month int) int {
	y, m := normalize(year, month)
	ny, nm := normalize(y, m+1)
	// Day 0 of the following month is the last day of this one.
	return daysFromCivil(ny, nm, 1) - daysFromCivil(y, m, 1)
}

// WeekdayOf returns the weekday of the given date with Sunday = 0 through
// Saturday = 6.
func WeekdayOf(year, month, day int) int {
	y, m := normalize(year, month)
	// 1970-01-01 was a Thursday.
	return floorMod(daysFromCivil(y, m, day)+4, 7)
}

// normalize folds a month index outside 0..11 into the neighbouring years.
func normalize(year, month int) (int, int) {
	return year + floorDiv(month, 12), floorMod(month, 12)
}

// daysFromCivil returns the number of days between 1970-01-01 and the given
// date. month must already be normalized; day may overflow or underflow and
// is counted linearly from day 1.
func daysFromCivil(year, month, day int) int {
	m := month + 1
	y := year
	if m <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	doy := (153*((m+9)%12)+2)/5 + day - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}
