package middleware

import (
	"net/http"

	"github.com/google/uuid"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
)

const requestIDHeader = "X-Request-ID"

// RequestID propagates the caller's request ID or generates one, making
// it available to logging and to outgoing broker messages.
func (h *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		ctx := wrap.WithRequestID(r.Context(), id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
