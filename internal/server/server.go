package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-age/internal/config"
	"github.com/tartampluch/go-age/internal/engine"
)

// calendarItem stores the rendered ICS bytes and HTTP caching metadata.
type calendarItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 as required by HTTP headers
}

// AgeServer exposes the engine over localhost HTTP: a cached next-birthday
// calendar feed and an on-demand JSON age endpoint.
type AgeServer struct {
	// calendar uses atomic.Pointer for lock-free reads; the feed is read
	// often and replaced rarely, so this avoids RWMutex contention on GET.
	calendar atomic.Pointer[calendarItem]

	Clock engine.Clock
	Port  string
}

// NewAgeServer creates a server bound to the given port on localhost.
func NewAgeServer(port string) *AgeServer {
	return &AgeServer{
		Clock: engine.RealClock{},
		Port:  port,
	}
}

// Start runs the HTTP server and blocks until the context is cancelled.
func (s *AgeServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteCalendar, s.handleCalendar)
	mux.HandleFunc(config.RouteAge, s.handleAge)

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      mux,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, 1)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// UpdateCalendar atomically replaces the served feed.
func (s *AgeServer) UpdateCalendar(data []byte) {
	hash := sha256.Sum256(data)
	item := &calendarItem{
		data:         data,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	}

	// Readers see either the old or the new complete item, never a mix.
	s.calendar.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, item.etag)
}

// handleCalendar serves the ICS feed with conditional-request support.
func (s *AgeServer) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r) {
		return
	}

	item := s.calendar.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err)
		}
	}
}

// ageResponse is the JSON body of the /age endpoint.
type ageResponse struct {
	BirthDate     string        `json:"birth_date"`
	ReferenceDate string        `json:"reference_date"`
	Years         int           `json:"years"`
	Months        int           `json:"months"`
	Days          int           `json:"days"`
	Formatted     string        `json:"formatted"`
	Abbreviated   string        `json:"abbreviated"`
	TotalMonths   int           `json:"total_months"`
	ApproxDays    int           `json:"approximate_total_days"`
	LeapYearBaby  bool          `json:"leap_year_baby"`
	Zodiac        zodiacPayload `json:"zodiac"`
	NextBirthday  string        `json:"next_birthday"`
	DaysUntil     int           `json:"days_until_next_birthday"`
}

type zodiacPayload struct {
	Sign        string `json:"sign"`
	Description string `json:"description"`
	IconKey     string `json:"icon_key"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleAge computes a full report from query parameters:
// /age?birth=YYYY-MM-DD[&ref=YYYY-MM-DD]
func (s *AgeServer) handleAge(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r) {
		return
	}

	birthParam := r.URL.Query().Get(config.QueryBirth)
	if birthParam == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: config.HTTPMsgMissingBirth})
		return
	}

	birth, err := engine.ParseDate(birthParam)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	ref := s.Clock.Now()
	if refParam := r.URL.Query().Get(config.QueryRef); refParam != "" {
		if ref, err = engine.ParseDate(refParam); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	}

	age, err := engine.ComputeAge(birth, ref)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	z := engine.ZodiacFor(birth)
	next := engine.NextBirthday(birth, ref)

	writeJSON(w, http.StatusOK, ageResponse{
		BirthDate:     birth.Format(config.DateFormatFullDash),
		ReferenceDate: ref.Format(config.DateFormatFullDash),
		Years:         age.Years,
		Months:        age.Months,
		Days:          age.Days,
		Formatted:     age.Format(false),
		Abbreviated:   age.Format(true),
		TotalMonths:   age.TotalMonths(),
		ApproxDays:    age.ApproximateTotalDays(),
		LeapYearBaby:  engine.IsLeapYearBaby(birth),
		Zodiac:        zodiacPayload{Sign: z.Sign, Description: z.Description, IconKey: z.IconKey},
		NextBirthday:  next.Format(config.DateFormatFullDash),
		DaysUntil:     engine.DaysUntilNextBirthday(birth, ref),
	})
}

// allowMethod filters to GET/HEAD, answering 405 otherwise.
func allowMethod(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// writeJSON renders a JSON body with no-store caching, since every /age
// response depends on "today".
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlNoStore)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err)
	}
}
