package http_handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mealmate/mealmate-api/internal/application/auth"
	"github.com/mealmate/mealmate-api/internal/application/meals"
	"github.com/mealmate/mealmate-api/internal/infrastructure/memory"
	"github.com/mealmate/mealmate-api/internal/infrastructure/security"
	"github.com/mealmate/mealmate-api/internal/logger"
	"github.com/mealmate/mealmate-api/internal/transport/http/middleware"
	"github.com/mealmate/mealmate-api/internal/transport/http/response"
	"github.com/mealmate/mealmate-api/internal/transport/http/router"
)

func init() {
	logger.InitWithWriter(io.Discard)
}

// testServer wires the real router, handlers and security primitives
// over in-memory stores, so tests exercise the full HTTP surface.
type testServer struct {
	http *httptest.Server

	users  *memory.UserRepo
	meals  *memory.MealRepo
	signer *security.JWTSigner
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	users := memory.NewUserRepo()
	mealRepo := memory.NewMealRepo()
	signer := security.NewJWTSigner("test-secret", "mealmate-api")
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	totp := security.NewTOTPProvider("MealMate")

	authSvc := auth.NewService(
		users, hasher, signer, totp,
		memory.NewReplayGuard(), memory.NewNoopPublisher(),
		auth.Config{},
	)
	mealSvc := meals.NewService(mealRepo)

	mux, err := router.New(router.Deps{
		Health:      NewHealthHandler(nil),
		Auth:        NewAuthHandler(authSvc),
		MFA:         NewMFAHandler(authSvc),
		Meals:       NewMealsHandler(mealSvc),
		RequestIDMW: middleware.RequestID,
		AuthMW:      middleware.Auth(signer, response.WriteError),
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &testServer{http: srv, users: users, meals: mealRepo, signer: signer}
}

// post sends a JSON body; a nil token omits the Authorization header.
func (s *testServer) post(t *testing.T, path, token string, body any) *http.Response {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(http.MethodPost, s.http.URL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := s.http.Client().Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	return res
}

func (s *testServer) get(t *testing.T, path, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, s.http.URL+path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := s.http.Client().Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	return res
}

func decodeBody(t *testing.T, res *http.Response, out any) {
	t.Helper()
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode json failed; body=%s err=%v", string(raw), err)
	}
}

// errCode extracts error.code from an error body.
func errCode(t *testing.T, res *http.Response) string {
	t.Helper()

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, res, &body)
	return body.Error.Code
}

func requireStatus(t *testing.T, res *http.Response, want int) {
	t.Helper()
	if res.StatusCode != want {
		t.Fatalf("status = %d, want %d", res.StatusCode, want)
	}
}

// registerAndLogin runs the happy path and returns a session token.
func (s *testServer) registerAndLogin(t *testing.T, email, password string) string {
	t.Helper()

	res := s.post(t, "/auth/register", "", map[string]string{
		"email": email, "password": password,
	})
	requireStatus(t, res, http.StatusOK)
	res.Body.Close()

	res = s.post(t, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	requireStatus(t, res, http.StatusOK)

	var login struct {
		MFARequired bool   `json:"mfa_required"`
		Token       string `json:"token"`
	}
	decodeBody(t, res, &login)
	if login.MFARequired || login.Token == "" {
		t.Fatalf("unexpected login reply: %+v", login)
	}
	return login.Token
}
