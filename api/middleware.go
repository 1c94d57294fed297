package api

import (
	"net/http"
	"time"

	"APAgingSuite/api/constants"
	"APAgingSuite/internal/logger"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs one line per request and turns handler panics into a 500.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		l := logger.L()

		defer func() {
			if p := recover(); p != nil {
				l.Error().Interface("panic", p).Str("path", r.URL.Path).Msg("handler panic")
				RespondWithError(rec, http.StatusInternalServerError, constants.ErrInternal)
			}
			l.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("request_id", r.Header.Get(constants.HeaderRequestID)).
				Int("status", rec.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		}()

		next.ServeHTTP(rec, r)
	})
}
