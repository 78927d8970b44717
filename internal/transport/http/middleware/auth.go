package middleware

import (
	"net/http"
	"strings"

	"github.com/mealmate/mealmate-api/internal/application/auth"
	"github.com/mealmate/mealmate-api/internal/domain"
)

type TokenVerifier interface {
	VerifySessionToken(token string) (auth.SessionClaims, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// bearerToken extracts the credential from an Authorization header.
// Absence and malformation are distinct failures so the client can
// tell "no token sent" apart from "token rejected".
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", domain.ErrTokenMissing()
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", domain.ErrTokenInvalid()
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrTokenInvalid()
	}
	return token, nil
}

// Auth verifies Authorization: Bearer <session token> and injects the
// caller's identity into the request context. Staged tokens are
// rejected by the verifier; they never grant API access.
func Auth(verifier TokenVerifier, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := bearerToken(r)
			if err != nil {
				writeErr(w, r, err)
				return
			}

			claims, err := verifier.VerifySessionToken(raw)
			if err != nil {
				writeErr(w, r, err)
				return
			}
			if strings.TrimSpace(claims.UserID) == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			ctx := WithUser(r.Context(), claims.UserID, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
