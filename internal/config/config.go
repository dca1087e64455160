package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Age/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Age"
	AppID             = "com.github.tartampluch.go-age"
	KeyringService    = "com.github.tartampluch.go-age"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion = "version"
	FlagDebug   = "debug"
	FlagGUI     = "gui"
	FlagServe   = "serve"
	FlagDate    = "date"
	FlagRef     = "ref"
	FlagVCF     = "vcf"
	FlagURL     = "url"
	FlagUser    = "user"
	FlagICS     = "ics"
	FlagPort    = "port"
	FlagLang    = "lang"
	FlagAbbrev  = "short"

	FlagDescVersion = "Show application version and exit"
	FlagDescDebug   = "Enable debug logging (stderr and the cache-dir log file)"
	FlagDescGUI     = "Launch the graphical calculator"
	FlagDescServe   = "Serve the HTTP API and calendar on localhost"
	FlagDescDate    = "Birth date (YYYY-MM-DD); omit for interactive mode"
	FlagDescRef     = "Reference date (YYYY-MM-DD); defaults to today"
	FlagDescVCF     = "Path to a local .vcf address book for a batch report"
	FlagDescURL     = "CardDAV/WebDAV URL of a remote address book"
	FlagDescUser    = "Username for the remote address book (password from OS keyring)"
	FlagDescICS     = "Write the next-birthday calendar to this .ics file"
	FlagDescPort    = "TCP port for -serve"
	FlagDescLang    = "Output language (en, fr)"
	FlagDescAbbrev  = "Abbreviated age output (\"34y 2m 5d\")"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	MainWindowWidth  = 420
	MainWindowHeight = 380

	// Preference Keys
	PrefLanguage  = "language"
	PrefSourceURL = "source_url"
	PrefUsername  = "username"
	PrefLastRun   = "last_run_version"
)

// SupportedLanguages defines the list of available languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle      = "win_title"
	TKeyLblBirthDate  = "lbl_birth_date"
	TKeyLblLanguage   = "lbl_language"
	TKeyLblSourceURL  = "lbl_source_url"
	TKeyLblUser       = "lbl_user"
	TKeyLblPass       = "lbl_pass"
	TKeyBtnCompute    = "btn_compute"
	TKeyBtnFetch      = "btn_fetch"
	TKeyPromptDate    = "prompt_date"
	TKeyReportAge     = "report_age"           // requires Formatted
	TKeyReportMonths  = "report_total_months"  // requires Count
	TKeyReportDays    = "report_approx_days"   // requires Count
	TKeyReportNext    = "report_next_birthday" // requires Date
	TKeyReportCount   = "report_days_until"    // plural, requires Count
	TKeyReportZodiac  = "report_zodiac"        // requires Sign, Description
	TKeyReportLeap    = "report_leap_baby"
	TKeyErrBadDate    = "err_bad_date"
	TKeyErrFuture     = "err_future_date"
	TKeyEvtSummary    = "event_summary"     // requires Name
	TKeyEvtSummaryAge = "event_summary_age" // requires Name, Age
	TKeyFormatDate    = "format_date_short" // Go layout string, e.g. "2006-01-02"
	TKeyAgeUnknown    = "age_unknown"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultPort     = "18081"
	DefaultLanguage = "en"
	DefaultLeapYear = 2000 // Leap year fallback for truncated dates like --02-29
	UIDSalt         = "go-age-v1-"

	// ApproxDaysPerMonth is the deliberate 30-day-month approximation used by
	// Age.ApproximateTotalDays. It is NOT a calendar-accurate day count.
	ApproxDaysPerMonth = 30

	MonthsPerYear = 12

	// Age output formats (order: years, months, days).
	FormatAgeAbbrev = "%dy %dm %dd"
	FormatAgeLong   = "%d years, %d months, %d days"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Age//Engine//EN"
	ICalCalName   = "Next Birthdays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "goage"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	DefaultICalRefresh = 24 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & UID Generation
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing input and vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB; address books stay well below this
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteCalendar       = "/calendar.ics"
	RouteAge            = "/age"
	AddrSeparator       = ":"

	QueryBirth = "birth"
	QueryRef   = "ref"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"
	CacheControlNoStore = "no-store"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidInputMsg = "invalid input: birth date is after the reference date"
	ErrDateParse       = "unable to parse date"
	ErrFetcherMissing  = "internal error: network fetcher is not initialized"
	ErrSourceMissing   = "configuration error: no address book source given"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrPortInvalid     = "server port out of range"
	ErrInvalidFlag     = "invalid command-line flag"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrVCardParse      = "failed to parse vCard stream"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrICSWrite        = "failed to write calendar file"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app cache dir"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrLangUnsupported = "unsupported language"
	ErrStdinRead       = "failed to read standard input"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgMissingBirth = "missing 'birth' query parameter"
)

// -----------------------------------------------------------------------------
// Fallbacks & Defaults
// -----------------------------------------------------------------------------

const (
	FallbackSummary    = "Birthday: %s"
	FallbackSummaryAge = "Birthday: %s (%d)"
	FallbackName       = "Unknown"

	// StubVCalendar is the minimal valid iCalendar object used when no events
	// are found, so clients never see an invalid feed.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgAppStarting   = "Starting application"
	MsgAppStop       = "Application stopped gracefully"
	MsgCtxCancel     = "Context cancelled, shutting down"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgCacheUpdated  = "Calendar cache updated"
	MsgReportStarted = "Batch report started..."
	MsgReportDone    = "Batch report generated"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgSkippedDate   = "Skipping invalid date format"
	MsgBdayToday     = "Birthday found today"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgPassFail      = "Password retrieval failed (might be empty)"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgICSWritten    = "Calendar file written"
	MsgGUIStart      = "Launching graphical calculator"

	PromptQuit = "q"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyUser      = "user"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "birthdays_found"
	LogKeyToday     = "birthdays_today"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI      = "ui"
	CompEngine  = "engine"
	CompServer  = "server"
	CompFetcher = "fetcher"
	CompCLI     = "cli"
	CompMain    = "main"
	CompI18n    = "i18n"
)
