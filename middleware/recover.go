package middleware

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"agenteur.ai/web/httputil"
)

// Recover turns a handler panic into a 500 response, logs it and reports it
// to Sentry. It must run inside RequestID so the report carries the id, and
// inside the sentryhttp handler so the report goes to the request's hub.
func Recover(logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				requestID := GetRequestID(r.Context())
				logger.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.String("request_id", requestID),
					zap.Stack("stack"),
				)

				hub := sentry.GetHubFromContext(r.Context())
				if hub == nil {
					hub = sentry.CurrentHub().Clone()
				}
				hub.WithScope(func(scope *sentry.Scope) {
					scope.SetRequest(r)
					scope.SetTag("request_id", requestID)
					hub.RecoverWithContext(r.Context(), fmt.Errorf("panic: %v", rec))
				})

				_ = httputil.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
