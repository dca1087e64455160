package engine

import "time"

// Clock abstracts time.Now() so that "today" can be pinned in tests and by
// the -ref flag.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant. The CLI uses it to honor an
// explicit reference date; tests use it to pin "today".
type FixedClock struct {
	Time time.Time
}

// Now returns the pinned instant.
func (c FixedClock) Now() time.Time {
	return c.Time
}

// Calculator bundles the pure engine functions with a Clock that supplies
// the default reference date when the caller does not provide one.
type Calculator struct {
	Clock Clock
}

// NewCalculator returns a Calculator on the real clock.
func NewCalculator() Calculator {
	return Calculator{Clock: RealClock{}}
}

func (c Calculator) now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock.Now()
}

// ComputeAge computes the age at the clock's current date.
func (c Calculator) ComputeAge(birth time.Time) (Age, error) {
	return ComputeAge(birth, c.now())
}

// AgeInYears returns the whole-year age at the clock's current date.
func (c Calculator) AgeInYears(birth time.Time) (int, error) {
	return AgeInYears(birth, c.now())
}

// NextBirthday returns the next birthday after the clock's current date.
func (c Calculator) NextBirthday(birth time.Time) time.Time {
	return NextBirthday(birth, c.now())
}

// DaysUntilNextBirthday counts the days to the next birthday from the
// clock's current date.
func (c Calculator) DaysUntilNextBirthday(birth time.Time) int {
	return DaysUntilNextBirthday(birth, c.now())
}
