package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The wire contract uses two flat shapes: resource errors carry an "error"
// key, auth flow results carry a "message" key.

func RespondError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}

func RespondMessage(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"message": message})
}

func RespondNotFound(ctx *gin.Context) {
	RespondError(ctx, http.StatusNotFound, "Not found")
}

func RespondNoResults(ctx *gin.Context) {
	RespondError(ctx, http.StatusNotFound, "No results found")
}
