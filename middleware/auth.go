package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"repairshop/common"
	"repairshop/internal/auth"
)

// RequireAuth validates the bearer token and places the viewer on the
// request context.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		send := c.MustGet("send").(Send)

		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			send(Response{
				Code:    http.StatusUnauthorized,
				Message: "Missing or invalid Authorization header",
				Error:   common.ErrUnauthenticated,
			})
			return
		}

		claims, err := auth.ParseToken(secret, tokenString)
		if err != nil {
			send(Response{
				Code:    http.StatusUnauthorized,
				Message: "Invalid or expired token",
				Error:   err,
			})
			return
		}

		viewer := auth.Viewer{Email: claims.Email, Roles: claims.Roles}
		c.Set("viewer", viewer)
		c.Request = c.Request.WithContext(auth.WithViewer(c.Request.Context(), viewer))
		c.Next()
	}
}
