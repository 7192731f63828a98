package middlewares

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Recovery turns panics into the uniform 500 body and logs them. Nothing
// internal propagates raw to the caller.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		defer func() {
			r := recover()

			if r == nil {
				return
			}

			message := "An unexpected error occurred on the server."

			if err, ok := r.(error); ok {
				message = err.Error()
			} else if s, ok := r.(string); ok {
				message = s
			}

			path := ctx.Request.URL.Path

			log.ErrorContext(ctx.Request.Context(), "panic recovered",
				"method", ctx.Request.Method,
				"path", path,
				"err", fmt.Sprint(r),
			)

			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success":   false,
				"error":     message,
				"status":    http.StatusInternalServerError,
				"path":      path,
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		}()

		ctx.Next()
	}
}
