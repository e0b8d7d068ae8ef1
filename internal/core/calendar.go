package core

import (
	"fmt"
	"time"
)

// MonthKey identifies a calendar month. Its canonical form is YYYY-MM.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthKeyOf returns the month containing t.
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// ParseMonthKey parses the YYYY-MM wire format.
func ParseMonthKey(s string) (MonthKey, error) {
	if len(s) != 7 || s[4] != '-' {
		return MonthKey{}, ErrInvalidMonth
	}
	var year, month int
	for i, r := range s {
		if i == 4 {
			continue
		}
		if r < '0' || r > '9' {
			return MonthKey{}, ErrInvalidMonth
		}
		if i < 4 {
			year = year*10 + int(r-'0')
		} else {
			month = month*10 + int(r-'0')
		}
	}
	k := MonthKey{Year: year, Month: time.Month(month)}
	if !k.Valid() {
		return MonthKey{}, ErrInvalidMonth
	}
	return k, nil
}

func (k MonthKey) Valid() bool {
	return k.Month >= time.January && k.Month <= time.December && k.Year >= 0 && k.Year <= 9999
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// AddMonths shifts the key by n months, rolling the year as needed.
func (k MonthKey) AddMonths(n int) MonthKey {
	idx := k.Year*12 + int(k.Month-1) + n
	return MonthKey{Year: floorDiv(idx, 12), Month: time.Month(idx-floorDiv(idx, 12)*12) + 1}
}

func (k MonthKey) Before(o MonthKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Month < o.Month
}

// Days returns the number of days in the month.
func (k MonthKey) Days() int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(k.Year, k.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Range returns the first day of the month and the first day of the next one.
func (k MonthKey) Range() (time.Time, time.Time) {
	start := time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func (k MonthKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *MonthKey) UnmarshalText(b []byte) error {
	parsed, err := ParseMonthKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// CurrentMonthKey returns the month containing now.
func CurrentMonthKey(now time.Time) MonthKey {
	return MonthKeyOf(now)
}

// MonthsBack returns the n months preceding now's month, newest first.
func MonthsBack(now time.Time, n int) []MonthKey {
	if n <= 0 {
		return []MonthKey{}
	}
	cur := MonthKeyOf(now)
	out := make([]MonthKey, n)
	for i := range out {
		out[i] = cur.AddMonths(-(i + 1))
	}
	return out
}

// RemainingDaysInMonth returns the days left in now's month after today.
func RemainingDaysInMonth(now time.Time) int {
	return max(0, MonthKeyOf(now).Days()-now.Day())
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
