package engine

import "time"

// PersonReport aggregates every derived fact for one person. It is the DTO
// handed to the CLI table, the GUI list, and the calendar renderer.
type PersonReport struct {
	// UID is a deterministic hash, stable across refreshes of the same
	// address book.
	UID string

	// Name is the display name (Formatted Name, else Structured Name).
	Name string

	// BirthDate is the parsed date of birth. For truncated vCard dates
	// (--MM-DD) the year is a leap-year placeholder and YearKnown is false.
	BirthDate time.Time
	YearKnown bool

	// Age is valid only when AgeKnown is true (YearKnown and not unborn).
	Age      Age
	AgeKnown bool

	Zodiac   Zodiac
	LeapBaby bool

	// NextBirthday is the next occurrence strictly after the reference date;
	// an exact-match reference rolls a full year forward.
	NextBirthday time.Time
	DaysUntil    int

	// AgeNext is the age the person turns at NextBirthday (0 if !YearKnown).
	AgeNext int
}

// buildReport derives all facts for one person at the given reference time.
func buildReport(now, birth time.Time, name string, yearKnown bool) PersonReport {
	rep := PersonReport{
		Name:         name,
		BirthDate:    birth,
		YearKnown:    yearKnown,
		Zodiac:       ZodiacFor(birth),
		LeapBaby:     IsLeapYearBaby(birth),
		NextBirthday: NextBirthday(birth, now),
	}
	rep.DaysUntil = DaysUntilNextBirthday(birth, now)

	if yearKnown {
		if age, err := ComputeAge(birth, now); err == nil {
			rep.Age = age
			rep.AgeKnown = true
		}
		rep.AgeNext = rep.NextBirthday.Year() - birth.Year()
	}
	return rep
}

// isBirthdayToday reports whether the birthday falls on the reference date
// itself. Feb 29 births are observed on March 1 in non-leap years, matching
// the time.Date normalization used everywhere else.
func isBirthdayToday(now, birth time.Time) bool {
	observed := time.Date(now.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, now.Location())
	oy, om, od := observed.Date()
	ny, nm, nd := now.Date()
	return oy == ny && om == nm && od == nd
}
