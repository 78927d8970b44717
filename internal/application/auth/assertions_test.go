package auth

import (
	"testing"

	"github.com/mealmate/mealmate-api/internal/domain"
)

// requireErrCode fails the test unless err carries the domain code.
func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	switch {
	case err == nil:
		t.Fatalf("want error code %q, got nil", code)
	case !domain.Is(err, code):
		t.Fatalf("want code %q, got: %v", code, err)
	}
}
