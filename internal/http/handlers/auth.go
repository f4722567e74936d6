package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soaresdev/userhub/internal/auth"
	"github.com/soaresdev/userhub/internal/config"
	"github.com/soaresdev/userhub/internal/domain/user"
	"github.com/soaresdev/userhub/internal/security"
)

type AuthHandler struct {
	users UserReader
	jwt   *auth.Manager
}

func NewAuthHandler(users UserReader, jwtManager *auth.Manager) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwtManager,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, user.NormalizeEmail(req.Email))

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondCredentialFailure(ctx)
			return
		}

		// storage trouble is not a credential problem
		RespondInternal(ctx, "Could not authenticate user")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondCredentialFailure(ctx)
		return
	}

	token, err := h.jwt.Generate(foundUser.ID)

	if err != nil {
		RespondInternal(ctx, "Could not generate token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "User authenticated successfully",
		"data": gin.H{
			"token": token,
		},
	})
}
