package ui

import (
	"context"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-age/internal/config"
	"github.com/tartampluch/go-age/internal/engine"
)

// setupTestApp initializes a headless Fyne app with a fixed clock.
func setupTestApp(t *testing.T, now time.Time) *GoAgeApp {
	a := test.NewApp()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	app := NewGoAgeApp(a, ctx, engine.NewHTTPFetcher())
	app.Calc = engine.Calculator{Clock: engine.FixedClock{Time: now}}
	return app
}

func TestBuildResultView_Complete(t *testing.T) {
	app := setupTestApp(t, time.Date(2024, 5, 14, 9, 0, 0, 0, time.UTC))

	view, err := app.buildResultView("1990-05-15")
	require.NoError(t, err)

	assert.Equal(t, "♉", view.glyph)
	require.NotEmpty(t, view.lines)
	assert.Contains(t, view.lines[0], "33 years, 11 months, 30 days")

	joined := ""
	for _, l := range view.lines {
		joined += l + "\n"
	}
	assert.Contains(t, joined, "Taurus")
	assert.Contains(t, joined, "2024-05-15")
	assert.NotContains(t, joined, "leap-year baby")
}

func TestBuildResultView_LeapYearBaby(t *testing.T) {
	app := setupTestApp(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	view, err := app.buildResultView("2000-02-29")
	require.NoError(t, err)

	assert.Equal(t, "♓", view.glyph)
	joined := ""
	for _, l := range view.lines {
		joined += l + "\n"
	}
	assert.Contains(t, joined, "leap-year baby")
}

func TestBuildResultView_Errors(t *testing.T) {
	app := setupTestApp(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	// Whitespace around a valid date is tolerated.
	_, err := app.buildResultView("  1990-05-15  ")
	assert.NoError(t, err)

	_, err = app.buildResultView("garbage")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid date")

	_, err = app.buildResultView("2030-01-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "future")
}

func TestBatchRow_Formatting(t *testing.T) {
	app := setupTestApp(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	rep := engine.PersonReport{
		Name:         "Jane Roe",
		NextBirthday: time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC),
		Age:          engine.Age{Years: 28, Months: 9, Days: 12},
		AgeKnown:     true,
		Zodiac:       engine.Zodiac{Sign: "Leo", IconKey: "leo"},
		DaysUntil:    80,
	}

	row := app.batchRow(rep, app.dateLayout())
	assert.Contains(t, row, "♌")
	assert.Contains(t, row, "Jane Roe")
	assert.Contains(t, row, "2024-08-20")
	assert.Contains(t, row, "28y 9m 12d")
	assert.Contains(t, row, "80 days")
}

func TestBatchRow_UnknownAge(t *testing.T) {
	app := setupTestApp(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	rep := engine.PersonReport{
		Name:         "No Year",
		NextBirthday: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		Zodiac:       engine.Zodiac{Sign: "Cancer", IconKey: "cancer"},
	}

	row := app.batchRow(rep, app.dateLayout())
	assert.Contains(t, row, "(-)")
}

func TestSaveSource_PersistsPreferences(t *testing.T) {
	app := setupTestApp(t, time.Now())

	app.saveSource("https://dav.example.net/book.vcf", "", "")

	assert.Equal(t, "https://dav.example.net/book.vcf",
		app.Preferences.String(config.PrefSourceURL))
}
