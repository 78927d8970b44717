package response

import (
	"net/http"

	appctx "github.com/mealmate/mealmate-api/internal/pkg/context"
)

// RequestIDFromRequest pulls the request id injected by the middleware.
func RequestIDFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	id, _ := appctx.RequestIDFromContext(r.Context())
	return id
}
