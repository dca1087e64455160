package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/tartampluch/go-age/internal/config"
)

// ErrInvalidInput is returned when a birth date lies after the reference date,
// or when a boundary layer fails to parse a date string.
var ErrInvalidInput = errors.New(config.ErrInvalidInputMsg)

// Age is the decomposed difference between two calendar dates.
// Invariants: Years >= 0, Months in [0,11], Days in [0,30].
type Age struct {
	Years  int
	Months int
	Days   int
}

// TotalMonths returns the age expressed in whole months.
func (a Age) TotalMonths() int {
	return a.Years*config.MonthsPerYear + a.Months
}

// ApproximateTotalDays returns the age in days using a fixed 30-day month.
// It is a deliberate approximation, not a calendar-accurate count; callers
// must not treat it as exact.
func (a Age) ApproximateTotalDays() int {
	return a.TotalMonths()*config.ApproxDaysPerMonth + a.Days
}

// Format renders the age for display.
// Abbreviated: "34y 2m 5d". Long: "34 years, 2 months, 5 days".
func (a Age) Format(abbreviate bool) string {
	if abbreviate {
		return fmt.Sprintf(config.FormatAgeAbbrev, a.Years, a.Months, a.Days)
	}
	return fmt.Sprintf(config.FormatAgeLong, a.Years, a.Months, a.Days)
}

// ComputeAge decomposes the span from birth to ref into years, months and
// days. Only the calendar date of each argument is considered; time of day
// and timezone offsets are ignored.
//
// The day borrow uses the birth month's length, taken in the reference
// year: for ref 2024-05-14 and birth 1990-05-15 the result is 33 years,
// 11 months, 30 days (May has 31 days). The birth month always holds at
// least bd-1 days, so Days never goes negative, including day-31 births
// checked against early-February references.
func ComputeAge(birth, ref time.Time) (Age, error) {
	by, bm, bd := birth.Date()
	ry, rm, rd := ref.Date()

	if afterDate(by, bm, bd, ry, rm, rd) {
		return Age{}, ErrInvalidInput
	}

	years := ry - by
	months := int(rm) - int(bm)
	days := rd - bd

	if days < 0 {
		months--
		days += daysInMonth(ry, bm)
	}
	if months < 0 {
		years--
		months += config.MonthsPerYear
	}

	return Age{Years: years, Months: months, Days: days}, nil
}

// AgeInYears returns the number of whole years from birth to ref.
func AgeInYears(birth, ref time.Time) (int, error) {
	age, err := ComputeAge(birth, ref)
	if err != nil {
		return 0, err
	}
	return age.Years, nil
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// IsLeapYearBaby reports whether the birth date is February 29.
func IsLeapYearBaby(birth time.Time) bool {
	return birth.Month() == time.February && birth.Day() == 29
}

// NextBirthday returns the date of the birthday strictly after ref.
//
// A candidate is built in the reference year with the birth month and day;
// if it falls on or before the reference date it is advanced to the next
// year. A reference date equal to the birthday therefore rolls a full year
// forward. For Feb 29 births in non-leap years, time.Date normalizes the
// candidate to March 1.
func NextBirthday(birth, ref time.Time) time.Time {
	loc := ref.Location()
	ry, rm, rd := ref.Date()
	refStart := time.Date(ry, rm, rd, 0, 0, 0, 0, loc)

	candidate := time.Date(ry, birth.Month(), birth.Day(), 0, 0, 0, 0, loc)
	if !candidate.After(refStart) {
		candidate = time.Date(ry+1, birth.Month(), birth.Day(), 0, 0, 0, 0, loc)
	}
	return candidate
}

// DaysUntilNextBirthday returns the whole-day distance from ref to the next
// birthday. Because NextBirthday rolls an exact-match reference forward, the
// result on the birthday itself is 365 or 366, never 0.
func DaysUntilNextBirthday(birth, ref time.Time) int {
	next := NextBirthday(birth, ref)

	// Re-anchor both dates in UTC so DST transitions in local zones cannot
	// skew the 24h division.
	ry, rm, rd := ref.Date()
	ny, nm, nd := next.Date()
	from := time.Date(ry, rm, rd, 0, 0, 0, 0, time.UTC)
	to := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)

	return int(to.Sub(from) / (24 * time.Hour))
}

// ParseDate parses a strict YYYY-MM-DD input string.
// Failures wrap ErrInvalidInput so front ends can present a single message.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(config.DateFormatFullDash, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s %q: %w", config.ErrDateParse, value, ErrInvalidInput)
	}
	return t, nil
}

// daysInMonth returns the day count of the given month. Month zero is
// normalized by time.Date to December of the previous year.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// afterDate reports whether date a is strictly after date b.
func afterDate(ay int, am time.Month, ad, by int, bm time.Month, bd int) bool {
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad > bd
}
