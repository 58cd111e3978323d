package middleware

import (
	"net/http"
	"time"
)

// Logging логирует каждый запрос с кодом ответа и длительностью
func Logging(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			requestID := RequestIDFromContext(r.Context())
			duration := time.Since(start)

			switch {
			case rec.status >= http.StatusInternalServerError:
				logger.Error("%s %s - status=%d duration=%s request_id=%s",
					r.Method, r.URL.Path, rec.status, duration, requestID)
			case rec.status >= http.StatusBadRequest:
				logger.Warn("%s %s - status=%d duration=%s request_id=%s",
					r.Method, r.URL.Path, rec.status, duration, requestID)
			default:
				logger.Info("%s %s - status=%d duration=%s request_id=%s",
					r.Method, r.URL.Path, rec.status, duration, requestID)
			}
		})
	}
}
