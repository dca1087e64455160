package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/tartampluch/go-age/internal/config"
	"github.com/tartampluch/go-age/internal/engine"
	"github.com/tartampluch/go-age/internal/i18n"
	"github.com/zalando/go-keyring"
)

// App is the command-line front end. It owns presentation only; every
// calendar fact comes from the engine.
type App struct {
	Calc    engine.Calculator
	Fetcher engine.Fetcher
	T       *i18n.Translator

	In  io.Reader
	Out io.Writer

	// Abbreviate switches the age line to the short "34y 2m 5d" form.
	Abbreviate bool
}

// New wires a CLI app on the given clock and language.
func New(clock engine.Clock, lang string) *App {
	return &App{
		Calc:    engine.Calculator{Clock: clock},
		Fetcher: engine.NewHTTPFetcher(),
		T:       i18n.New(lang),
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// RunInteractive prompts for birth dates on stdin until EOF or 'q'.
// Invalid input prints a message and loops; it never kills the process.
func (a *App) RunInteractive(ctx context.Context) error {
	scanner := bufio.NewScanner(a.In)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		fmt.Fprint(a.Out, a.T.Msg(config.TKeyPromptDate))
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("%s: %w", config.ErrStdinRead, err)
			}
			fmt.Fprintln(a.Out)
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, config.PromptQuit) {
			return nil
		}

		if err := a.RunOnce(line); err != nil {
			slog.Debug(config.ErrDateParse,
				config.LogKeyComponent, config.CompCLI,
				config.LogKeyValue, line,
				config.LogKeyError, err)
		}
	}
}

// RunOnce parses one date string and prints the full report.
// The returned error is already presented to the user; callers only need it
// for exit codes and logging.
func (a *App) RunOnce(dateStr string) error {
	birth, err := engine.ParseDate(dateStr)
	if err != nil {
		fmt.Fprintln(a.Out, a.T.Msg(config.TKeyErrBadDate))
		return err
	}
	return a.printReport(birth)
}

// printReport writes the localized single-person report.
func (a *App) printReport(birth time.Time) error {
	age, err := a.Calc.ComputeAge(birth)
	if err != nil {
		fmt.Fprintln(a.Out, a.T.Msg(config.TKeyErrFuture))
		return err
	}

	fmt.Fprintln(a.Out, a.T.MsgData(config.TKeyReportAge,
		map[string]interface{}{"Formatted": age.Format(a.Abbreviate)}))
	fmt.Fprintln(a.Out, a.T.MsgData(config.TKeyReportMonths,
		map[string]interface{}{"Count": age.TotalMonths()}))
	fmt.Fprintln(a.Out, a.T.MsgData(config.TKeyReportDays,
		map[string]interface{}{"Count": age.ApproximateTotalDays()}))

	if engine.IsLeapYearBaby(birth) {
		fmt.Fprintln(a.Out, a.T.Msg(config.TKeyReportLeap))
	}

	z := engine.ZodiacFor(birth)
	fmt.Fprintln(a.Out, a.T.MsgData(config.TKeyReportZodiac,
		map[string]interface{}{"Sign": z.Sign, "Description": z.Description}))

	next := a.Calc.NextBirthday(birth)
	fmt.Fprintln(a.Out, a.T.MsgData(config.TKeyReportNext,
		map[string]interface{}{"Date": next.Format(a.dateLayout())}))
	fmt.Fprintln(a.Out, a.T.MsgCount(config.TKeyReportCount, a.Calc.DaysUntilNextBirthday(birth)))

	return nil
}

// RunBatch reports on every contact of a vCard source and optionally writes
// the next-birthday calendar to icsPath.
func (a *App) RunBatch(ctx context.Context, src engine.Source, icsPath string) error {
	if src.WebUser != "" && src.WebPass == "" {
		src.WebPass = a.lookupPassword(src.WebUser)
	}

	reporter := &engine.Reporter{
		Clock:         a.Calc.Clock,
		Fetcher:       a.Fetcher,
		FormatSummary: a.summaryFormatter(),
	}

	reports, ics, _, err := reporter.Run(ctx, src)
	if err != nil {
		return err
	}

	a.printBatchTable(reports)

	if icsPath != "" {
		if err := os.WriteFile(icsPath, ics, config.FilePermUserRW); err != nil {
			return fmt.Errorf("%s: %w", config.ErrICSWrite, err)
		}
		slog.Info(config.MsgICSWritten,
			config.LogKeyComponent, config.CompCLI,
			config.LogKeyFile, icsPath,
			config.LogKeySizeBytes, len(ics))
	}
	return nil
}

// printBatchTable renders the per-contact report sorted by next occurrence.
func (a *App) printBatchTable(reports []engine.PersonReport) {
	w := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	layout := a.dateLayout()
	unknown := a.T.Msg(config.TKeyAgeUnknown)

	for _, rep := range reports {
		age := unknown
		if rep.AgeKnown {
			age = rep.Age.Format(true)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			rep.Name,
			rep.NextBirthday.Format(layout),
			age,
			rep.Zodiac.Sign,
			a.T.MsgCount(config.TKeyReportCount, rep.DaysUntil),
		)
	}
	_ = w.Flush()
}

// summaryFormatter localizes iCalendar event summaries.
func (a *App) summaryFormatter() func(name string, age int, yearKnown bool) string {
	return func(name string, age int, yearKnown bool) string {
		if yearKnown {
			return a.T.MsgData(config.TKeyEvtSummaryAge,
				map[string]interface{}{"Name": name, "Age": age})
		}
		return a.T.MsgData(config.TKeyEvtSummary,
			map[string]interface{}{"Name": name})
	}
}

// lookupPassword resolves the web-source password from the OS keyring.
// A missing entry is not fatal; the request simply goes out without auth.
func (a *App) lookupPassword(user string) string {
	pass, err := keyring.Get(config.KeyringService, user)
	if err != nil {
		slog.Debug(config.MsgPassFail,
			config.LogKeyComponent, config.CompCLI,
			config.LogKeyUser, user,
			config.LogKeyError, err)
		return ""
	}
	return pass
}

// dateLayout returns the localized short date layout.
func (a *App) dateLayout() string {
	layout := a.T.Msg(config.TKeyFormatDate)
	if layout == config.TKeyFormatDate {
		layout = config.DateFormatFullDash
	}
	return layout
}
