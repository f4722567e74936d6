package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soaresdev/userhub/internal/config"
	"github.com/soaresdev/userhub/internal/domain/user"
	"github.com/soaresdev/userhub/internal/security"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, p user.CreateParams) (user.User, error)
}

type UsersHandler struct {
	readers UserReader
	writers UserWriter
}

func NewUsersHandler(readers UserReader, writers UserWriter) *UsersHandler {
	return &UsersHandler{
		readers: readers,
		writers: writers,
	}
}

// Field order matches the schema's rule order: with abort-on-first-violation
// semantics, a confirmation mismatch must win over a missing name.
type CreateUserRequest struct {
	Email                string `json:"email" binding:"required,email"`
	Password             string `json:"password" binding:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
	Name                 string `json:"name" binding:"required"`
}

func (h *UsersHandler) Create(ctx *gin.Context) {
	var req CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	email := user.NormalizeEmail(req.Email)

	// pre-check so the caller gets the structured uniqueness violation; the
	// storage unique index still closes the race below
	_, err := h.readers.GetByEmail(cctx, email)

	if err == nil {
		RespondUnprocessable(ctx, EmailInUse())
		return
	}

	if !errors.Is(err, user.ErrNotFound) {
		RespondInternal(ctx, "Could not create user")
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	_, err = h.writers.Create(cctx, user.CreateParams{
		Email:        email,
		Name:         req.Name,
		PasswordHash: hash,
	})

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			// lost a concurrent race for the same email
			RespondUnprocessable(ctx, EmailInUse())
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	// the new user's id and hash are never echoed back
	ctx.JSON(http.StatusCreated, gin.H{
		"message": "The user was created successfully",
	})
}

// Me is the guarded "current user" endpoint. The payload is an intentional
// placeholder; the guard has already resolved the identity onto the context.
func (h *UsersHandler) Me(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{})
}
