package api

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itus/internal/config"
	"itus/internal/departure"
	"itus/internal/departures"
	"itus/internal/journeyplanner"
	"itus/internal/telemetry"
)

type fakeBoards struct {
	result departures.Result
	err    error

	stopID  string
	quayIDs []string
	opts    departures.Options
}

func (f *fakeBoards) StopBoards(_ context.Context, stopID string, opts departures.Options) (departures.Result, error) {
	f.stopID, f.opts = stopID, opts
	return f.result, f.err
}

func (f *fakeBoards) QuayBoards(_ context.Context, quayIDs []string, opts departures.Options) (departures.Result, error) {
	f.quayIDs, f.opts = quayIDs, opts
	return f.result, f.err
}

var testNow = time.Date(2024, 3, 1, 14, 30, 0, 0, time.Local)

func sampleResult() departures.Result {
	return departures.Result{Boards: []departures.Board{{
		QuayID: "NSR:Quay:75708",
		Departures: []departure.Departure{{
			PlatformName:        "Gløshaugen",
			Realtime:            false,
			LineNr:              "3",
			LineName:            "Hallset via sentrum",
			AimedArrivalTime:    time.Date(2024, 3, 1, 14, 40, 0, 0, time.Local),
			ExpectedArrivalTime: time.Date(2024, 3, 1, 14, 43, 0, 0, time.Local),
		}},
	}}}
}

func newTestServer(service BoardService) (http.Handler, *prometheus.Registry) {
	registry := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(registry)
	s := NewServer(
		config.ServerConfig{Addr: ":0", AllowedOrigins: []string{"*"}},
		config.BoardConfig{NumDepartures: 5, TimeRange: "01:00"},
		service,
		registry,
		metrics,
		log.New(io.Discard, "", 0),
	)
	s.now = func() time.Time { return testNow }
	return s.Handler(), registry
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(&fakeBoards{})

	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestQuayBoard(t *testing.T) {
	fake := &fakeBoards{result: sampleResult()}
	h, _ := newTestServer(fake)

	rec := get(t, h, "/v1/quays/NSR:Quay:75708/board?n=3&time_range=00:30")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "| 3 Hallset via sentrum        c:a 13 min (14:43 / 14:40) |")
	assert.Empty(t, rec.Header().Get(unsupportedHeader))

	assert.Equal(t, []string{"NSR:Quay:75708"}, fake.quayIDs)
	assert.Equal(t, 3, fake.opts.NumDepartures)
	assert.Equal(t, 30*time.Minute, fake.opts.TimeRange)
}

func TestStopBoardDefaultsAndLineFilter(t *testing.T) {
	result := sampleResult()
	result.Unsupported = []error{departures.ErrLineFilterUnsupported}
	fake := &fakeBoards{result: result}
	h, _ := newTestServer(fake)

	rec := get(t, h, "/v1/stops/NSR:StopPlace:44085/board?line=3&line=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "line-filter", rec.Header().Get(unsupportedHeader))

	assert.Equal(t, "NSR:StopPlace:44085", fake.stopID)
	assert.Equal(t, 5, fake.opts.NumDepartures)
	assert.Equal(t, time.Hour, fake.opts.TimeRange)
	assert.Equal(t, []string{"3", "5"}, fake.opts.Lines)
}

func TestBoardEmpty(t *testing.T) {
	h, _ := newTestServer(&fakeBoards{result: departures.Result{Boards: []departures.Board{{QuayID: "Q"}}}})

	rec := get(t, h, "/v1/quays/Q/board")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestBoardBadParameters(t *testing.T) {
	testCases := []struct {
		name  string
		query string
	}{
		{"zero n", "n=0"},
		{"negative n", "n=-1"},
		{"non numeric n", "n=five"},
		{"bad time range", "time_range=90"},
		{"empty window", "time_range=00:00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeBoards{}
			h, _ := newTestServer(fake)

			rec := get(t, h, "/v1/quays/Q/board?"+tc.query)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, fake.quayIDs)
		})
	}
}

func TestBoardUpstreamErrors(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{"transport", &journeyplanner.TransportError{Op: "QuayDepartures", StatusCode: 503, Err: errors.New("Service Unavailable")}, http.StatusBadGateway},
		{"malformed", departure.Missing("aimedArrivalTime"), http.StatusBadGateway},
		{"other", context.Canceled, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newTestServer(&fakeBoards{err: tc.err})

			rec := get(t, h, "/v1/quays/Q/board")
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestServer(&fakeBoards{result: sampleResult()})

	get(t, h, "/v1/quays/Q/board")
	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "itus_departures_rendered_total 1"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	h, _ := newTestServer(&fakeBoards{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
