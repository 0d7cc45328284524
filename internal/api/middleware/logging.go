package middleware

import (
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"
)

const RequestIDHeader = "X-Request-ID"

var requestSeq atomic.Uint64

// StatusRecorder tracks the status and size of a response.
type StatusRecorder struct {
	http.ResponseWriter
	Status  int
	Written int64
	Start   time.Time
}

func (r *StatusRecorder) WriteHeader(status int) {
	if r.Status != 0 {
		return
	}
	r.Status = status
	r.ResponseWriter.Header().Set("X-Processing-Time", time.Since(r.Start).String())
	r.ResponseWriter.WriteHeader(status)
}

func (r *StatusRecorder) Write(b []byte) (int, error) {
	if r.Status == 0 {
		r.WriteHeader(http.StatusOK)
	}
	n, err := r.ResponseWriter.Write(b)
	r.Written += int64(n)
	return n, err
}

// Logging tags each request with an id (taken from X-Request-ID when the
// caller sent one), recovers handler panics and logs one line per request.
func Logging(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = fmt.Sprintf("req_%d_%d", start.Unix(), requestSeq.Add(1))
			}
			w.Header().Set(RequestIDHeader, requestID)

			rec := &StatusRecorder{ResponseWriter: w, Start: start}

			defer func() {
				if err := recover(); err != nil {
					logger.Printf("PANIC [%s] %s %s: %v", requestID, r.Method, r.URL.Path, err)
					http.Error(rec, "Internal Server Error", http.StatusInternalServerError)
				}
				logger.Printf("[%s] %s %s %d %d bytes %s",
					requestID, r.Method, r.URL.Path, rec.Status, rec.Written, time.Since(start))
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
