package engine

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-age/internal/config"
)

// Source describes where the address book comes from.
type Source struct {
	LocalPath string // Absolute path to a .vcf file
	WebURL    string // CardDAV or WebDAV URL
	WebUser   string // HTTP Basic Auth username
	WebPass   string // HTTP Basic Auth password

	// ReminderTrigger is an optional ISO8601 duration (e.g. "-P1D") attached
	// to each calendar event as a DISPLAY alarm.
	ReminderTrigger string
}

// Reporter turns a vCard address book into per-person age reports and a
// next-birthday iCalendar.
type Reporter struct {
	Clock   Clock   // Interface for time mocking.
	Fetcher Fetcher // Interface for network abstraction.

	// FormatSummary lets the front end inject localized event summaries.
	FormatSummary func(name string, age int, yearKnown bool) string
}

// Run executes the fetch, parse and report pipeline. It returns the reports
// sorted by next occurrence, the rendered ICS bytes, and the number of
// birthdays falling on the reference date.
func (r *Reporter) Run(ctx context.Context, src Source) ([]PersonReport, []byte, int, error) {
	start := time.Now()
	log := slog.With(config.LogKeyComponent, config.CompEngine)
	log.InfoContext(ctx, config.MsgReportStarted)

	reader, err := r.acquireStream(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, 0, ctx.Err()
		}
		return nil, nil, 0, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	// Best effort close; errors closing a read-only stream are not actionable.
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, nil, 0, err
	}

	reports, today, err := r.decodeReports(ctx, reader)
	if err != nil {
		return nil, nil, 0, err
	}

	ics, err := renderCalendar(r.Clock.Now(), reports, src.ReminderTrigger, r.FormatSummary)
	if err != nil {
		return nil, nil, 0, err
	}

	log.Debug(config.MsgReportDone, config.LogKeyDuration, time.Since(start).Milliseconds())
	return reports, ics, today, nil
}

// acquireStream opens the configured data source.
func (r *Reporter) acquireStream(ctx context.Context, src Source) (io.ReadCloser, error) {
	switch {
	case src.LocalPath != "":
		return os.Open(src.LocalPath)
	case src.WebURL != "":
		if r.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return r.Fetcher.Fetch(ctx, src.WebURL, src.WebUser, src.WebPass)
	default:
		return nil, errors.New(config.ErrSourceMissing)
	}
}

// decodeReports walks the vCard stream and builds one report per contact
// with a usable birth date. Malformed cards are skipped, not fatal, to
// maximize data recovery.
func (r *Reporter) decodeReports(ctx context.Context, in io.Reader) ([]PersonReport, int, error) {
	now := r.Clock.Now()
	decoder := vcard.NewDecoder(in)
	stats := struct{ processed, withBday, today int }{}

	var reports []PersonReport

	for {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err)
			continue
		}

		stats.processed++
		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		birth, yearKnown, err := parseVCardDate(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyValue, bday.Value)
			continue
		}
		stats.withBday++

		// Name strategy: FN (Formatted) > N (Structured) > Fallback
		name := config.FallbackName
		if fn := card.Get(config.VCardFN); fn != nil {
			name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil {
			name = n.Value
		}

		rep := buildReport(now, birth, name, yearKnown)
		rep.UID = reportUID(name, birth)

		if isBirthdayToday(now, birth) {
			stats.today++
			slog.Info(config.MsgBdayToday,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, name,
				config.LogKeyDOB, birth.Format(config.DateFormatFullDash))
		}

		reports = append(reports, rep)
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].NextBirthday.Equal(reports[j].NextBirthday) {
			return reports[i].Name < reports[j].Name
		}
		return reports[i].NextBirthday.Before(reports[j].NextBirthday)
	})

	slog.Info(config.MsgReportDone,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.processed),
			slog.Int(config.LogKeyFound, stats.withBday),
			slog.Int(config.LogKeyToday, stats.today),
		),
	)
	return reports, stats.today, nil
}

// reportUID derives a stable identifier from the name and birth date.
func reportUID(name string, birth time.Time) string {
	input := fmt.Sprintf(config.FormatHashInput, name, birth.Format(time.RFC3339), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}

// parseVCardDate handles the date formats found in BDAY fields in the wild.
// Truncated forms (--MM-DD) carry no year; they are anchored to a leap year
// so Feb 29 stays representable, and yearKnown is false.
func parseVCardDate(value string) (time.Time, bool, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			safeDate := time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return safeDate, false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}
