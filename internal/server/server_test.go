package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-age/internal/config"
	"github.com/tartampluch/go-age/internal/engine"
)

// -----------------------------------------------------------------------------
// Calendar Feed (White-Box Handler Tests)
// -----------------------------------------------------------------------------

func TestCalendarHandler_ServingContent(t *testing.T) {
	srv := NewAgeServer("0") // Port irrelevant for handler tests
	expectedICS := []byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR")
	srv.UpdateCalendar(expectedICS)

	req := httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil)
	w := httptest.NewRecorder()
	srv.handleCalendar(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))
	assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
	assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, expectedICS, body)
}

func TestCalendarHandler_ETagCaching(t *testing.T) {
	srv := NewAgeServer("0")
	srv.UpdateCalendar([]byte("DATA_VERSION_1"))

	req1 := httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil)
	w1 := httptest.NewRecorder()
	srv.handleCalendar(w1, req1)

	etag := w1.Result().Header.Get(config.HeaderETag)
	require.NotEmpty(t, etag, "Server must provide an ETag")

	req2 := httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil)
	req2.Header.Set(config.HeaderIfNoneMatch, etag)
	w2 := httptest.NewRecorder()
	srv.handleCalendar(w2, req2)

	resp2 := w2.Result()
	defer func() { _ = resp2.Body.Close() }()

	assert.Equal(t, http.StatusNotModified, resp2.StatusCode)
	body, _ := io.ReadAll(resp2.Body)
	assert.Empty(t, body, "Body must be empty on 304 Not Modified")
}

func TestCalendarHandler_Initializing(t *testing.T) {
	srv := NewAgeServer("0")
	// No UpdateCalendar call: the feed is not ready yet.

	req := httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil)
	w := httptest.NewRecorder()
	srv.handleCalendar(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))
}

func TestHandlers_MethodNotAllowed(t *testing.T) {
	srv := NewAgeServer("0")

	for _, route := range []string{config.RouteCalendar, config.RouteAge} {
		req := httptest.NewRequest(http.MethodPost, route, nil)
		w := httptest.NewRecorder()

		if route == config.RouteCalendar {
			srv.handleCalendar(w, req)
		} else {
			srv.handleAge(w, req)
		}

		resp := w.Result()
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, route)
		assert.NotEmpty(t, resp.Header.Get(config.HeaderAllow), route)
	}
}

// -----------------------------------------------------------------------------
// Age Endpoint
// -----------------------------------------------------------------------------

func TestAgeHandler_FullReport(t *testing.T) {
	srv := NewAgeServer("0")
	srv.Clock = engine.FixedClock{Time: time.Date(2024, 5, 14, 12, 0, 0, 0, time.UTC)}

	req := httptest.NewRequest(http.MethodGet, config.RouteAge+"?birth=1990-05-15", nil)
	w := httptest.NewRecorder()
	srv.handleAge(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeJSON, resp.Header.Get(config.HeaderContentType))
	assert.Equal(t, config.CacheControlNoStore, resp.Header.Get(config.HeaderCacheControl))

	var body ageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, 33, body.Years)
	assert.Equal(t, 11, body.Months)
	assert.Equal(t, 30, body.Days)
	assert.Equal(t, "33 years, 11 months, 30 days", body.Formatted)
	assert.Equal(t, "33y 11m 30d", body.Abbreviated)
	assert.Equal(t, 407, body.TotalMonths)
	assert.Equal(t, "Taurus", body.Zodiac.Sign)
	assert.Equal(t, "taurus", body.Zodiac.IconKey)
	assert.Equal(t, "2024-05-15", body.NextBirthday)
	assert.Equal(t, 1, body.DaysUntil)
	assert.False(t, body.LeapYearBaby)
}

func TestAgeHandler_ExplicitReference(t *testing.T) {
	srv := NewAgeServer("0")

	target := fmt.Sprintf("%s?birth=2000-02-29&ref=2024-02-29", config.RouteAge)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	srv.handleAge(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body ageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, 24, body.Years)
	assert.True(t, body.LeapYearBaby)
	// Exact birthday rolls forward; 2025 is not a leap year.
	assert.Equal(t, "2025-03-01", body.NextBirthday)
}

func TestAgeHandler_BadRequests(t *testing.T) {
	srv := NewAgeServer("0")
	srv.Clock = engine.FixedClock{Time: time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		name  string
		query string
	}{
		{"MissingBirth", ""},
		{"UnparsableBirth", "?birth=not-a-date"},
		{"UnparsableRef", "?birth=1990-05-15&ref=nope"},
		{"FutureBirth", "?birth=2030-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, config.RouteAge+tt.query, nil)
			w := httptest.NewRecorder()
			srv.handleAge(w, req)

			resp := w.Result()
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

// -----------------------------------------------------------------------------
// Concurrency (run with -race)
// -----------------------------------------------------------------------------

// TestServer_RaceCondition stresses the atomic calendar cache with
// concurrent writers and readers.
func TestServer_RaceCondition(t *testing.T) {
	srv := NewAgeServer("0")
	var wg sync.WaitGroup

	end := time.Now().Add(500 * time.Millisecond)

	for w := 0; w < 5; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			i := 0
			for time.Now().Before(end) {
				srv.UpdateCalendar([]byte(fmt.Sprintf("VERSION:%d-%d", id, i)))
				i++
				time.Sleep(1 * time.Microsecond)
			}
		}(w)
	}

	for r := 0; r < 20; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				req := httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil)
				w := httptest.NewRecorder()
				srv.handleCalendar(w, req)

				if w.Code != http.StatusOK && w.Code != http.StatusServiceUnavailable {
					t.Errorf("Unexpected status code during race test: %d", w.Code)
				}
			}
		}()
	}

	wg.Wait()
}

// -----------------------------------------------------------------------------
// Lifecycle (Real TCP)
// -----------------------------------------------------------------------------

func TestServer_Lifecycle(t *testing.T) {
	const port = "18098"

	srv := NewAgeServer(port)
	srv.Clock = engine.FixedClock{Time: time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC)}
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)

	go func() {
		errChan <- srv.Start(ctx)
	}()

	base := "http://" + config.LocalhostBindAddr + config.AddrSeparator + port

	require.Eventually(t, func() bool {
		resp, err := http.Get(base + config.RouteAge + "?birth=1990-05-15")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 50*time.Millisecond, "Server failed to bind/listen in time")

	// Feed starts empty: 503.
	resp, err := http.Get(base + config.RouteCalendar)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	srv.UpdateCalendar([]byte("BEGIN:VCALENDAR\nEND:VCALENDAR"))

	resp, err = http.Get(base + config.RouteCalendar)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.NoError(t, err)
	assert.Contains(t, string(body), "BEGIN:VCALENDAR")

	// The age endpoint works without any feed.
	resp, err = http.Get(base + config.RouteAge + "?birth=1990-05-15")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err, "Server should shutdown gracefully")
	case <-time.After(5 * time.Second):
		t.Fatal("Server shutdown timed out")
	}
}
