package api

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"itus/internal/config"
	"itus/internal/departure"
	"itus/internal/departures"
	"itus/internal/journeyplanner"
)

const unsupportedHeader = "X-Itus-Unsupported"

// returns the boards of every quay of a stop place as plain text.
// URL: GET /v1/stops/{stop_id}/board?n=5&time_range=01:00&line=3
// Example: /v1/stops/NSR:StopPlace:44085/board
func (s *Server) stopBoardHandler(w http.ResponseWriter, r *http.Request) {
	stopID := chi.URLParam(r, "stop_id")
	opts, err := s.boardOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.service.StopBoards(r.Context(), stopID, opts)
	s.writeBoards(w, result, err)
}

// returns the board of a single quay as plain text.
// URL: GET /v1/quays/{quay_id}/board?n=5&time_range=01:00
// Example: /v1/quays/NSR:Quay:75708/board
func (s *Server) quayBoardHandler(w http.ResponseWriter, r *http.Request) {
	quayID := chi.URLParam(r, "quay_id")
	opts, err := s.boardOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.service.QuayBoards(r.Context(), []string{quayID}, opts)
	s.writeBoards(w, result, err)
}

func (s *Server) boardOptions(r *http.Request) (departures.Options, error) {
	q := r.URL.Query()

	n := s.defaults.NumDepartures
	if raw := q.Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return departures.Options{}, errors.New("invalid 'n' parameter; expected a positive integer")
		}
		n = v
	}

	rawRange := s.defaults.TimeRange
	if raw := q.Get("time_range"); raw != "" {
		rawRange = raw
	}
	timeRange, err := config.ParseTimeRange(rawRange)
	if err != nil {
		return departures.Options{}, errors.New("invalid 'time_range' parameter; expected HH:MM")
	}

	return departures.Options{
		NumDepartures: n,
		TimeRange:     timeRange,
		Lines:         q["line"],
	}, nil
}

func (s *Server) writeBoards(w http.ResponseWriter, result departures.Result, err error) {
	if err != nil {
		var transport *journeyplanner.TransportError
		var malformed *departure.MalformedResponseError
		switch {
		case errors.As(err, &transport), errors.As(err, &malformed):
			s.logger.Printf("api: upstream failure: %v", err)
			http.Error(w, err.Error(), http.StatusBadGateway)
		default:
			s.logger.Printf("api: failed to build boards: %v", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	var buf bytes.Buffer
	if err := result.Render(&buf, s.now); err != nil {
		s.logger.Printf("api: failed to render boards: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	s.metrics.AddRendered(result.Departures())

	for _, u := range result.Unsupported {
		if errors.Is(u, departures.ErrLineFilterUnsupported) {
			w.Header().Add(unsupportedHeader, "line-filter")
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
