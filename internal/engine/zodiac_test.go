package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-age/internal/engine"
)

// TestZodiacFor_Boundaries checks both inclusive ends of every bin, the
// Capricorn year wrap, and the Pisces remainder range.
func TestZodiacFor_Boundaries(t *testing.T) {
	tests := []struct {
		month time.Month
		day   int
		want  string
	}{
		{time.March, 21, "Aries"}, {time.April, 19, "Aries"},
		{time.April, 20, "Taurus"}, {time.May, 20, "Taurus"},
		{time.May, 21, "Gemini"}, {time.June, 20, "Gemini"},
		{time.June, 21, "Cancer"}, {time.July, 22, "Cancer"},
		{time.July, 23, "Leo"}, {time.August, 22, "Leo"},
		{time.August, 23, "Virgo"}, {time.September, 22, "Virgo"},
		{time.September, 23, "Libra"}, {time.October, 22, "Libra"},
		{time.October, 23, "Scorpio"}, {time.November, 21, "Scorpio"},
		{time.November, 22, "Sagittarius"}, {time.December, 21, "Sagittarius"},
		{time.December, 22, "Capricorn"}, {time.January, 19, "Capricorn"},
		{time.January, 20, "Aquarius"}, {time.February, 18, "Aquarius"},
		{time.February, 19, "Pisces"}, {time.March, 20, "Pisces"},
		{time.February, 29, "Pisces"},
	}

	for _, tt := range tests {
		got := engine.ZodiacFor(date(2000, tt.month, tt.day))
		assert.Equal(t, tt.want, got.Sign, "%v %d", tt.month, tt.day)
	}
}

// TestZodiacFor_KnownDates pins the examples used across the front ends.
func TestZodiacFor_KnownDates(t *testing.T) {
	taurus := engine.ZodiacFor(date(1990, 5, 15))
	assert.Equal(t, "Taurus", taurus.Sign)
	assert.Equal(t, "taurus", taurus.IconKey)
	assert.NotEmpty(t, taurus.Description)

	capricorn := engine.ZodiacFor(date(2000, 1, 1))
	assert.Equal(t, "Capricorn", capricorn.Sign)
}

// TestZodiacFor_Exhaustive walks an entire leap year: every day must match
// exactly one sign with a populated description and icon key.
func TestZodiacFor_Exhaustive(t *testing.T) {
	d := date(2024, time.January, 1)
	for d.Year() == 2024 {
		z := engine.ZodiacFor(d)
		assert.NotEmpty(t, z.Sign, "%s has no sign", d.Format("01-02"))
		assert.NotEmpty(t, z.Description, "%s has no description", d.Format("01-02"))
		assert.NotEmpty(t, z.IconKey, "%s has no icon key", d.Format("01-02"))
		d = d.AddDate(0, 0, 1)
	}
}
