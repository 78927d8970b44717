package middleware

import (
	"net/http"

	"github.com/google/uuid"

	appctx "github.com/mealmate/mealmate-api/internal/pkg/context"
)

const HeaderXRequestID = "X-Request-Id"

// RequestID honors an inbound X-Request-Id, minting one when absent,
// and echoes it on the response so callers can correlate logs.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderXRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderXRequestID, id)
		next.ServeHTTP(w, r.WithContext(appctx.WithRequestID(r.Context(), id)))
	})
}
