package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/soaresdev/userhub/internal/domain/user"
	"github.com/soaresdev/userhub/internal/repo/memory"
	"github.com/soaresdev/userhub/internal/security"
)

func seedUser(t *testing.T, repo *memory.UsersRepo, email, password string) user.User {
	t.Helper()

	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	u, err := repo.Create(context.Background(), user.CreateParams{
		Email:        email,
		Name:         "Seeded User",
		PasswordHash: hash,
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	return u
}

func TestLogin_Success(t *testing.T) {
	repo := memory.NewUsersRepo()
	r := newTestRouter(repo)

	u := seedUser(t, repo, "jane@example.com", "longenough")

	w := doJSON(r, http.MethodPost, "/auth/login", `{"email":"jane@example.com","password":"longenough"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
		Data    struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	mustUnmarshal(t, w.Body.Bytes(), &resp)

	if resp.Message != "User authenticated successfully" {
		t.Fatalf("message: got %q", resp.Message)
	}

	if resp.Data.Token == "" {
		t.Fatalf("expected a token in data")
	}

	claims, err := authTestManager().Verify(resp.Data.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}

	if claims.UserID != u.ID {
		t.Fatalf("token claim id %q, want authenticated user id %q", claims.UserID, u.ID)
	}
}

func TestLogin_EmailLookupIsCaseInsensitive(t *testing.T) {
	repo := memory.NewUsersRepo()
	r := newTestRouter(repo)

	seedUser(t, repo, "jane@example.com", "longenough")

	w := doJSON(r, http.MethodPost, "/auth/login", `{"email":"Jane@Example.COM","password":"longenough"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}
}

func TestLogin_FailureCausesAreIndistinguishable(t *testing.T) {
	repo := memory.NewUsersRepo()
	r := newTestRouter(repo)

	seedUser(t, repo, "jane@example.com", "longenough")

	unknownEmail := doJSON(r, http.MethodPost, "/auth/login", `{"email":"nobody@example.com","password":"longenough"}`)
	wrongPassword := doJSON(r, http.MethodPost, "/auth/login", `{"email":"jane@example.com","password":"wrongwrong"}`)

	if unknownEmail.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unknown email: got %d, want 422", unknownEmail.Code)
	}
	if wrongPassword.Code != http.StatusUnprocessableEntity {
		t.Fatalf("wrong password: got %d, want 422", wrongPassword.Code)
	}

	// byte-identical bodies: the caller must not learn which check failed
	if unknownEmail.Body.String() != wrongPassword.Body.String() {
		t.Fatalf("bodies differ:\n%s\n%s", unknownEmail.Body.String(), wrongPassword.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
	}
	mustUnmarshal(t, unknownEmail.Body.Bytes(), &resp)

	if resp.Message != "Email or password does not exist" {
		t.Fatalf("message: got %q", resp.Message)
	}
}
