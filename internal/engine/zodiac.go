package engine

import "time"

// Zodiac describes the Western tropical zodiac sign for a birth date.
// IconKey is a symbolic identifier; mapping it to an actual glyph is the
// presentation layer's job, never the engine's.
type Zodiac struct {
	Sign        string
	Description string
	IconKey     string
}

// zodiacBin is one inclusive date range of the tropical zodiac.
// Capricorn wraps the year boundary and is handled by the two December and
// January comparisons in ZodiacFor.
type zodiacBin struct {
	startMonth time.Month
	startDay   int
	endMonth   time.Month
	endDay     int
	result     Zodiac
}

// zodiacBins lists the eleven explicit ranges; Pisces (Feb 19 - Mar 20) is
// the remainder bin.
var zodiacBins = []zodiacBin{
	{time.March, 21, time.April, 19, Zodiac{"Aries", "Bold and ambitious, a natural leader.", "aries"}},
	{time.April, 20, time.May, 20, Zodiac{"Taurus", "Reliable and patient, devoted to comfort.", "taurus"}},
	{time.May, 21, time.June, 20, Zodiac{"Gemini", "Curious and adaptable, a quick communicator.", "gemini"}},
	{time.June, 21, time.July, 22, Zodiac{"Cancer", "Intuitive and protective, deeply loyal.", "cancer"}},
	{time.July, 23, time.August, 22, Zodiac{"Leo", "Confident and generous, born for the stage.", "leo"}},
	{time.August, 23, time.September, 22, Zodiac{"Virgo", "Practical and precise, a thoughtful helper.", "virgo"}},
	{time.September, 23, time.October, 22, Zodiac{"Libra", "Diplomatic and fair, a seeker of balance.", "libra"}},
	{time.October, 23, time.November, 21, Zodiac{"Scorpio", "Passionate and determined, never superficial.", "scorpio"}},
	{time.November, 22, time.December, 21, Zodiac{"Sagittarius", "Optimistic and freedom-loving, always exploring.", "sagittarius"}},
	{time.December, 22, time.January, 19, Zodiac{"Capricorn", "Disciplined and responsible, a patient climber.", "capricorn"}},
	{time.January, 20, time.February, 18, Zodiac{"Aquarius", "Original and independent, a humanitarian mind.", "aquarius"}},
}

// pisces covers the remaining dates (Feb 19 - Mar 20).
var pisces = Zodiac{"Pisces", "Compassionate and artistic, guided by intuition.", "pisces"}

// ZodiacFor returns the sign whose inclusive date range contains the birth
// date. The bins span the full year, so every valid date matches exactly one
// sign and there is no error case.
func ZodiacFor(birth time.Time) Zodiac {
	m, d := birth.Month(), birth.Day()
	for _, bin := range zodiacBins {
		if bin.contains(m, d) {
			return bin.result
		}
	}
	return pisces
}

// contains reports whether month/day falls in the bin, inclusive on both
// ends, accounting for the Capricorn year wrap.
func (b zodiacBin) contains(m time.Month, d int) bool {
	onOrAfterStart := m > b.startMonth || (m == b.startMonth && d >= b.startDay)
	onOrBeforeEnd := m < b.endMonth || (m == b.endMonth && d <= b.endDay)
	if b.startMonth <= b.endMonth {
		return onOrAfterStart && onOrBeforeEnd
	}
	return onOrAfterStart || onOrBeforeEnd
}
