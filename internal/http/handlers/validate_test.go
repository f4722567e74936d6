package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soaresdev/userhub/internal/auth"
	"github.com/soaresdev/userhub/internal/http/handlers"
	"github.com/soaresdev/userhub/internal/repo/memory"
)

func newTestRouter(repo *memory.UsersRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()

	usersHandler := handlers.NewUsersHandler(repo, repo)
	authHandler := handlers.NewAuthHandler(repo, authTestManager())

	r.POST("/users", usersHandler.Create)
	r.POST("/auth/login", authHandler.Login)

	return r
}

func authTestManager() *auth.Manager {
	return auth.NewManager("test-secret-key", time.Hour)
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func mustUnmarshal(t *testing.T, data []byte, out interface{}) {
	t.Helper()

	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("failed to unmarshal json: %v body=%s", err, data)
	}
}

func decodeValidationError(t *testing.T, w *httptest.ResponseRecorder) handlers.ValidationError {
	t.Helper()

	var v handlers.ValidationError
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to unmarshal error body: %v body=%s", err, w.Body.String())
	}

	return v
}

func TestRegistrationValidation_FirstViolationWins(t *testing.T) {
	cases := []struct {
		name        string
		body        string
		wantMessage string
		wantPath    string
		wantType    string
	}{
		{
			name:        "email missing",
			body:        `{}`,
			wantMessage: `"email" is required`,
			wantPath:    "email",
			wantType:    "any.required",
		},
		{
			name:        "email malformed",
			body:        `{"email":"certainly not an address"}`,
			wantMessage: `"email" must be a valid email`,
			wantPath:    "email",
			wantType:    "string.email",
		},
		{
			name:        "password missing",
			body:        `{"email":"jane@example.com"}`,
			wantMessage: `"password" is required`,
			wantPath:    "password",
			wantType:    "any.required",
		},
		{
			name:        "password too short",
			body:        `{"email":"jane@example.com","password":"seven77"}`,
			wantMessage: `"password" length must be at least 8 characters long`,
			wantPath:    "password",
			wantType:    "string.min",
		},
		{
			name:        "confirmation mismatch beats missing name",
			body:        `{"email":"jane@example.com","password":"longenough","password_confirmation":"different1"}`,
			wantMessage: `"password_confirmation" must be [ref:password]`,
			wantPath:    "password_confirmation",
			wantType:    "any.only",
		},
		{
			name:        "name missing",
			body:        `{"email":"jane@example.com","password":"longenough","password_confirmation":"longenough"}`,
			wantMessage: `"name" is required`,
			wantPath:    "name",
			wantType:    "any.required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(memory.NewUsersRepo())

			w := doJSON(r, http.MethodPost, "/users", tc.body)

			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("got status %d, want 422, body=%s", w.Code, w.Body.String())
			}

			v := decodeValidationError(t, w)

			if v.Message != tc.wantMessage {
				t.Fatalf("message: got %q want %q", v.Message, tc.wantMessage)
			}
			if len(v.Path) != 1 || v.Path[0] != tc.wantPath {
				t.Fatalf("path: got %v want [%s]", v.Path, tc.wantPath)
			}
			if v.Type != tc.wantType {
				t.Fatalf("type: got %q want %q", v.Type, tc.wantType)
			}
			if v.Context["label"] != tc.wantPath || v.Context["key"] != tc.wantPath {
				t.Fatalf("context: got %v, want label/key %q", v.Context, tc.wantPath)
			}
		})
	}
}

func TestRegistrationValidation_MinLengthCarriesLimit(t *testing.T) {
	r := newTestRouter(memory.NewUsersRepo())

	w := doJSON(r, http.MethodPost, "/users", `{"email":"jane@example.com","password":"short"}`)

	v := decodeValidationError(t, w)

	limit, ok := v.Context["limit"].(float64)
	if !ok || int(limit) != 8 {
		t.Fatalf("context.limit: got %v, want 8", v.Context["limit"])
	}
}

func TestLoginValidation_EmptyBodyReportsMissingEmail(t *testing.T) {
	r := newTestRouter(memory.NewUsersRepo())

	// no body, no Content-Type; the schema still reports the first rule
	w := doJSON(r, http.MethodPost, "/auth/login", "")

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got status %d, want 422, body=%s", w.Code, w.Body.String())
	}

	v := decodeValidationError(t, w)

	if v.Message != `"email" is required` {
		t.Fatalf("message: got %q", v.Message)
	}
	if v.Type != "any.required" {
		t.Fatalf("type: got %q", v.Type)
	}
}

func TestLoginValidation_ShortPassword(t *testing.T) {
	r := newTestRouter(memory.NewUsersRepo())

	w := doJSON(r, http.MethodPost, "/auth/login", `{"email":"jane@example.com","password":"seven77"}`)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got status %d, want 422", w.Code)
	}

	v := decodeValidationError(t, w)

	if v.Message != `"password" length must be at least 8 characters long` {
		t.Fatalf("message: got %q", v.Message)
	}
}
