package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"bouncely/pkg/auth"
	"bouncely/pkg/logger"
)

// Recovery converts a handler panic into a 500 JSON error. If the handler had
// already started its response, nothing more is written and the panic is only
// logged. http.ErrAbortHandler is re-raised so the server aborts the response.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w}
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					panic(p)
				}

				actor, _ := auth.ActorFromContext(r.Context())
				log.Error("Panic recovered",
					"request_id", RequestID(r.Context()),
					"actor_id", actor.UserID,
					"panic", fmt.Sprint(p),
					"method", r.Method,
					"path", r.URL.Path,
					"response_started", rw.written,
					"stack", string(debug.Stack()),
				)

				if !rw.written {
					writeJSONError(rw, http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
