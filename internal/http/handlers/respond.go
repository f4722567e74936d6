package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Responses deliberately mirror the public contract: 422 bodies are the bare
// validation error object, success bodies are {message[, data]}.

func RespondUnprocessable(ctx *gin.Context, v ValidationError) {
	ctx.JSON(http.StatusUnprocessableEntity, v)
}

// RespondCredentialFailure merges "unknown email" and "wrong password" into
// one indistinguishable body.
func RespondCredentialFailure(ctx *gin.Context) {
	ctx.JSON(http.StatusUnprocessableEntity, gin.H{
		"message": "Email or password does not exist",
	})
}

func RespondInternal(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusInternalServerError, gin.H{
		"message": message,
	})
}
