package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"syscall"

	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/go-age/internal/cli"
	"github.com/tartampluch/go-age/internal/config"
	"github.com/tartampluch/go-age/internal/engine"
	"github.com/tartampluch/go-age/internal/server"
	"github.com/tartampluch/go-age/internal/ui"
)

// main delegates to runMain so deferred cleanups (log file) run before the
// process exits; os.Exit skips defers.
func main() {
	os.Exit(runMain())
}

// runMain parses arguments, sets up logging and signals, and dispatches to
// the selected mode. Returns the process exit code.
func runMain() int {
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	guiMode := flag.Bool(config.FlagGUI, false, config.FlagDescGUI)
	serveMode := flag.Bool(config.FlagServe, false, config.FlagDescServe)
	dateStr := flag.String(config.FlagDate, "", config.FlagDescDate)
	refStr := flag.String(config.FlagRef, "", config.FlagDescRef)
	vcfPath := flag.String(config.FlagVCF, "", config.FlagDescVCF)
	webURL := flag.String(config.FlagURL, "", config.FlagDescURL)
	webUser := flag.String(config.FlagUser, "", config.FlagDescUser)
	icsPath := flag.String(config.FlagICS, "", config.FlagDescICS)
	port := flag.String(config.FlagPort, config.DefaultPort, config.FlagDescPort)
	lang := flag.String(config.FlagLang, config.DefaultLanguage, config.FlagDescLang)
	abbrev := flag.Bool(config.FlagAbbrev, false, config.FlagDescAbbrev)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	logCloser := setupLogging(*debugMode)
	if logCloser != nil {
		defer func() { _ = logCloser.Close() }()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	if err := validateFlags(*port, *lang); err != nil {
		slog.Error(config.ErrInvalidFlag,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err)
		return config.ExitCodeError
	}

	clock, err := buildClock(*refStr)
	if err != nil {
		slog.Error(config.ErrDateParse,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyValue, *refStr,
			config.LogKeyError, err)
		return config.ExitCodeError
	}

	opts := runOptions{
		clock:   clock,
		lang:    *lang,
		abbrev:  *abbrev,
		date:    *dateStr,
		source:  engine.Source{LocalPath: *vcfPath, WebURL: *webURL, WebUser: *webUser},
		icsPath: *icsPath,
		port:    *port,
		gui:     *guiMode,
		serve:   *serveMode,
	}

	if err := run(ctx, opts); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// runOptions carries everything the mode dispatch needs.
type runOptions struct {
	clock   engine.Clock
	lang    string
	abbrev  bool
	date    string
	source  engine.Source
	icsPath string
	port    string
	gui     bool
	serve   bool
}

// run dispatches to GUI, server, batch, one-shot, or interactive mode.
func run(ctx context.Context, opts runOptions) error {
	switch {
	case opts.gui:
		return runGUI(ctx)
	case opts.serve:
		return runServer(ctx, opts)
	default:
		app := cli.New(opts.clock, opts.lang)
		app.Abbreviate = opts.abbrev

		if opts.source.LocalPath != "" || opts.source.WebURL != "" {
			return app.RunBatch(ctx, opts.source, opts.icsPath)
		}
		if opts.date != "" {
			return app.RunOnce(opts.date)
		}
		return app.RunInteractive(ctx)
	}
}

// runGUI starts the Fyne calculator.
func runGUI(ctx context.Context) error {
	slog.Info(config.MsgGUIStart, config.LogKeyComponent, config.CompMain)

	a := app.NewWithID(config.AppID)
	a.Preferences().SetString(config.PrefLastRun, config.Version)

	gui := ui.NewGoAgeApp(a, ctx, engine.NewHTTPFetcher())

	// Quit the UI loop when the signal context fires.
	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		a.Quit()
	}()

	gui.Run()
	return nil
}

// runServer starts the localhost HTTP front end. When an address book
// source is given, the calendar feed is generated once at startup;
// /age works regardless.
func runServer(ctx context.Context, opts runOptions) error {
	srv := server.NewAgeServer(opts.port)
	srv.Clock = opts.clock

	if opts.source.LocalPath != "" || opts.source.WebURL != "" {
		reporter := &engine.Reporter{
			Clock:   opts.clock,
			Fetcher: engine.NewHTTPFetcher(),
		}
		_, ics, _, err := reporter.Run(ctx, opts.source)
		if err != nil {
			return err
		}
		srv.UpdateCalendar(ics)
	}

	return srv.Start(ctx)
}

// validateFlags rejects bad -port and -lang values before any mode starts.
func validateFlags(port, lang string) error {
	if err := validatePort(port); err != nil {
		return err
	}
	return validateLang(lang)
}

// validatePort checks the -port flag against the valid TCP range.
func validatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n < config.MinPort || n > config.MaxPort {
		return fmt.Errorf("%s: %q", config.ErrPortInvalid, port)
	}
	return nil
}

// validateLang checks the -lang flag against the embedded locales.
func validateLang(lang string) error {
	for _, l := range config.SupportedLanguages {
		if l == lang {
			return nil
		}
	}
	return fmt.Errorf("%s: %q", config.ErrLangUnsupported, lang)
}

// buildClock pins "today" when an explicit reference date is given.
func buildClock(refStr string) (engine.Clock, error) {
	if refStr == "" {
		return engine.RealClock{}, nil
	}
	ref, err := engine.ParseDate(refStr)
	if err != nil {
		return nil, err
	}
	return engine.FixedClock{Time: ref}, nil
}

// printVersion outputs the build information to stdout.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger: stderr always, plus a
// best-effort file in the user cache dir. Interactive output goes to stdout,
// so logs stay on stderr to keep the prompt clean.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stderr}
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelWarn
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
