package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-age/internal/config"
	"github.com/tartampluch/go-age/internal/engine"
	"github.com/tartampluch/go-age/internal/i18n"
	"github.com/zalando/go-keyring"
)

// zodiacGlyphs maps the engine's symbolic icon keys to display glyphs.
// Glyph resolution lives here so the engine never touches UI concerns.
var zodiacGlyphs = map[string]string{
	"aries":       "♈",
	"taurus":      "♉",
	"gemini":      "♊",
	"cancer":      "♋",
	"leo":         "♌",
	"virgo":       "♍",
	"libra":       "♎",
	"scorpio":     "♏",
	"sagittarius": "♐",
	"capricorn":   "♑",
	"aquarius":    "♒",
	"pisces":      "♓",
}

// resultView is the immutable snapshot rendered after each computation.
// The widgets only ever display a complete view; there is no partially
// mutated display state.
type resultView struct {
	glyph string
	lines []string
}

// GoAgeApp encapsulates the graphical calculator.
type GoAgeApp struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	T           *i18n.Translator
	Ctx         context.Context

	Calc    engine.Calculator
	Fetcher engine.Fetcher

	dateEntry   *DateEntry
	glyphLabel  *widget.Label
	resultLabel *widget.Label
	batchList   *widget.List
	batchRows   []string
}

// NewGoAgeApp constructs the application and wires dependencies.
func NewGoAgeApp(a fyne.App, ctx context.Context, fetcher engine.Fetcher) *GoAgeApp {
	prefs := a.Preferences()
	return &GoAgeApp{
		App:         a,
		Preferences: prefs,
		T:           i18n.New(prefs.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)),
		Ctx:         ctx,
		Calc:        engine.NewCalculator(),
		Fetcher:     fetcher,
	}
}

// Run builds the main window and enters the UI loop.
func (app *GoAgeApp) Run() {
	app.Window = app.App.NewWindow(app.T.Msg(config.TKeyWinTitle))
	app.Window.Resize(fyne.NewSize(config.MainWindowWidth, config.MainWindowHeight))

	app.Window.SetContent(app.buildContent())
	app.Window.ShowAndRun()
}

// buildContent assembles the calculator form, the result area, and the
// optional web address book section.
func (app *GoAgeApp) buildContent() fyne.CanvasObject {
	app.dateEntry = NewDateEntry()
	app.dateEntry.PlaceHolder = config.DateFormatFullDash
	app.dateEntry.Validator = func(s string) error {
		if s == "" {
			return nil
		}
		_, err := engine.ParseDate(s)
		return err
	}
	app.dateEntry.OnSubmitted = func(string) { app.compute() }

	btnCompute := widget.NewButton(app.T.Msg(config.TKeyBtnCompute), app.compute)
	btnCompute.Importance = widget.HighImportance

	app.glyphLabel = widget.NewLabel("")
	app.glyphLabel.Alignment = fyne.TextAlignCenter
	app.resultLabel = widget.NewLabel("")
	app.resultLabel.Wrapping = fyne.TextWrapWord

	langSelect := widget.NewSelect(config.SupportedLanguages, func(lang string) {
		app.Preferences.SetString(config.PrefLanguage, lang)
		app.T.SetLanguage(lang)
		slog.Info("Language changed",
			config.LogKeyComponent, config.CompUI,
			config.LogKeyLang, lang)
	})
	langSelect.SetSelected(app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))

	form := widget.NewForm(
		widget.NewFormItem(app.T.Msg(config.TKeyLblBirthDate), app.dateEntry),
		widget.NewFormItem(app.T.Msg(config.TKeyLblLanguage), langSelect),
	)

	calcCard := widget.NewCard(app.T.Msg(config.TKeyWinTitle), "",
		container.NewVBox(form, btnCompute, app.glyphLabel, app.resultLabel))

	return container.NewPadded(container.NewVBox(
		calcCard,
		app.buildBatchCard(),
	))
}

// compute runs the engine for the entered date and swaps in a fresh view.
func (app *GoAgeApp) compute() {
	view, err := app.buildResultView(app.dateEntry.Text)
	if err != nil {
		dialog.ShowError(err, app.Window)
		return
	}
	app.glyphLabel.SetText(view.glyph)
	app.resultLabel.SetText(strings.Join(view.lines, "\n"))
}

// buildResultView derives the complete display snapshot from the engine.
func (app *GoAgeApp) buildResultView(dateStr string) (resultView, error) {
	birth, err := engine.ParseDate(strings.TrimSpace(dateStr))
	if err != nil {
		return resultView{}, errors.New(app.T.Msg(config.TKeyErrBadDate))
	}

	age, err := app.Calc.ComputeAge(birth)
	if err != nil {
		return resultView{}, errors.New(app.T.Msg(config.TKeyErrFuture))
	}

	z := engine.ZodiacFor(birth)
	next := app.Calc.NextBirthday(birth)

	lines := []string{
		app.T.MsgData(config.TKeyReportAge, map[string]interface{}{"Formatted": age.Format(false)}),
		app.T.MsgData(config.TKeyReportMonths, map[string]interface{}{"Count": age.TotalMonths()}),
		app.T.MsgData(config.TKeyReportDays, map[string]interface{}{"Count": age.ApproximateTotalDays()}),
	}
	if engine.IsLeapYearBaby(birth) {
		lines = append(lines, app.T.Msg(config.TKeyReportLeap))
	}
	lines = append(lines,
		app.T.MsgData(config.TKeyReportZodiac, map[string]interface{}{"Sign": z.Sign, "Description": z.Description}),
		app.T.MsgData(config.TKeyReportNext, map[string]interface{}{"Date": next.Format(app.dateLayout())}),
		app.T.MsgCount(config.TKeyReportCount, app.Calc.DaysUntilNextBirthday(birth)),
	)

	return resultView{glyph: zodiacGlyphs[z.IconKey], lines: lines}, nil
}

// buildBatchCard assembles the web address book section: source fields with
// keyring-backed credentials, and a list of per-contact reports.
func (app *GoAgeApp) buildBatchCard() fyne.CanvasObject {
	urlEntry := widget.NewEntry()
	urlEntry.SetText(app.Preferences.String(config.PrefSourceURL))

	userEntry := widget.NewEntry()
	userEntry.SetText(app.Preferences.String(config.PrefUsername))

	passEntry := widget.NewPasswordEntry()
	if user := userEntry.Text; user != "" {
		if pwd, err := keyring.Get(config.KeyringService, user); err == nil {
			passEntry.SetText(pwd)
		}
	}

	app.batchList = widget.NewList(
		func() int { return len(app.batchRows) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			if id < len(app.batchRows) {
				o.(*widget.Label).SetText(app.batchRows[id])
			}
		},
	)

	btnFetch := widget.NewButton(app.T.Msg(config.TKeyBtnFetch), func() {
		app.saveSource(urlEntry.Text, userEntry.Text, passEntry.Text)
		go app.fetchBatch(engine.Source{
			WebURL:  urlEntry.Text,
			WebUser: userEntry.Text,
			WebPass: passEntry.Text,
		})
	})

	form := widget.NewForm(
		widget.NewFormItem(app.T.Msg(config.TKeyLblSourceURL), urlEntry),
		widget.NewFormItem(app.T.Msg(config.TKeyLblUser), userEntry),
		widget.NewFormItem(app.T.Msg(config.TKeyLblPass), passEntry),
	)

	listContainer := container.NewBorder(nil, nil, nil, nil, app.batchList)
	return widget.NewCard(app.T.Msg(config.TKeyBtnFetch), "",
		container.NewVBox(form, btnFetch, listContainer))
}

// saveSource persists the address book settings; the password goes to the
// OS keyring, never to preferences.
func (app *GoAgeApp) saveSource(url, user, pass string) {
	app.Preferences.SetString(config.PrefSourceURL, url)
	app.Preferences.SetString(config.PrefUsername, user)
	if user != "" && pass != "" {
		if err := keyring.Set(config.KeyringService, user, pass); err != nil {
			slog.Warn(config.MsgPassFail,
				config.LogKeyComponent, config.CompUI,
				config.LogKeyUser, user,
				config.LogKeyError, err)
		}
	}
}

// fetchBatch runs the reporter off the UI thread and refreshes the list.
func (app *GoAgeApp) fetchBatch(src engine.Source) {
	reporter := &engine.Reporter{
		Clock:   app.Calc.Clock,
		Fetcher: app.Fetcher,
		FormatSummary: func(name string, age int, yearKnown bool) string {
			if yearKnown {
				return app.T.MsgData(config.TKeyEvtSummaryAge,
					map[string]interface{}{"Name": name, "Age": age})
			}
			return app.T.MsgData(config.TKeyEvtSummary,
				map[string]interface{}{"Name": name})
		},
	}

	reports, _, _, err := reporter.Run(app.Ctx, src)
	if err != nil {
		fyne.Do(func() { dialog.ShowError(err, app.Window) })
		return
	}

	rows := make([]string, 0, len(reports))
	layout := app.dateLayout()
	for _, rep := range reports {
		rows = append(rows, app.batchRow(rep, layout))
	}

	fyne.Do(func() {
		app.batchRows = rows
		app.batchList.Refresh()
	})
}

// batchRow formats one contact line for the list view.
func (app *GoAgeApp) batchRow(rep engine.PersonReport, layout string) string {
	age := app.T.Msg(config.TKeyAgeUnknown)
	if rep.AgeKnown {
		age = rep.Age.Format(true)
	}
	return fmt.Sprintf("%s %s  %s (%s)  %s",
		zodiacGlyphs[rep.Zodiac.IconKey],
		rep.Name,
		rep.NextBirthday.Format(layout),
		age,
		app.T.MsgCount(config.TKeyReportCount, rep.DaysUntil),
	)
}

// dateLayout returns the localized short date layout.
func (app *GoAgeApp) dateLayout() string {
	layout := app.T.Msg(config.TKeyFormatDate)
	if layout == config.TKeyFormatDate {
		layout = config.DateFormatFullDash
	}
	return layout
}
