package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/fiftyhertz/agriapi/internal/response"
	"github.com/sirupsen/logrus"
)

// Recovery turns a panic in a handler into a 500 envelope.
func Recovery(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.WithFields(logrus.Fields{
						"panic":      rec,
						"request_id": RequestIDFromContext(r.Context()),
						"path":       r.URL.Path,
						"stack":      string(debug.Stack()),
					}).Error("Recovered from panic")
					response.Fail(w, http.StatusInternalServerError, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
