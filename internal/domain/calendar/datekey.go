package calendar

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidDateKey is returned when a string is not a YYYY-MM-DD calendar date.
var ErrInvalidDateKey = errors.New("invalid date key")

// FormatDateKey renders a date as its canonical YYYY-MM-DD key. month is
// zero-based and rolls over like NewReferenceMonth; day is not normalized.
func FormatDateKey(year, month, day int) string {
	y, m := normalize(year, month)
	return fmt.Sprintf("%04d-%02d-%02d", y, m+1, day)
}

// ParseDateKey splits a YYYY-MM-DD key into year, zero-based month and day.
// The day must exist in that month.
func ParseDateKey(key string) (year, month, day int, err error) {
	if len(key) != 10 || key[4] != '-' || key[7] != '-' {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	year, err = parseDigits(key[0:4])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	m, err := parseDigits(key[5:7])
	if err != nil || m < 1 || m > 12 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	day, err = parseDigits(key[8:10])
	if err != nil || day < 1 || day > DaysIn(year, m-1) {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	return year, m - 1, day, nil
}

func parseDigits(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}
