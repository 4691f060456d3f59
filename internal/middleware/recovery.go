package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/felixp33/CloudGuardian/pkg/httpjson"
)

func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}

				logger.Error("panic recovered",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				w.Header().Set("X-Content-Type-Options", "nosniff")
				httpjson.WriteInternalServerError(w)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
