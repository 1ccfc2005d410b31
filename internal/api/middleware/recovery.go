package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/gstc/gstc/internal/api/response"
	"github.com/gstc/gstc/internal/domain"
)

// Recovery catches panics and answers with an IPC error.
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error().
						Str("request_id", GetRequestID(r.Context())).
						Str("panic", fmt.Sprint(err)).
						Bytes("stack", debug.Stack()).
						Msg("panic recovered")
					response.Write(w, nil, &domain.DomainError{
						Code:    domain.CodeIPCError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
