package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andrelz/cryptowallet/internal/models"
	"github.com/andrelz/cryptowallet/internal/service"
)

// AuthMiddleware returns a Gin middleware for authentication.
//
// A missing credential is a 403; a present but expired, malformed or
// unknown-subject credential is a 401. Tokens are stateless and outlive
// account deletion, so the subject is re-resolved to a live user on every
// protected request.
func AuthMiddleware(svc service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get the bearer token from the Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Status:  "error",
				Code:    "MISSING_CREDENTIAL",
				Message: "Authentication required",
			})
			c.Abort()
			return
		}

		// Check if the Authorization header starts with "Bearer "
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Status:  "error",
				Code:    "MISSING_CREDENTIAL",
				Message: "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		// Verify the token
		userID, err := svc.VerifyToken(parts[1])
		if err != nil {
			status, code := errorStatus(err)
			c.JSON(status, models.ErrorResponse{
				Status:  "error",
				Code:    code,
				Message: err.Error(),
			})
			c.Abort()
			return
		}

		// Confirm the subject still resolves to a live user
		if _, err := svc.GetUser(c.Request.Context(), userID); err != nil {
			status, code := errorStatus(err)
			c.JSON(status, models.ErrorResponse{
				Status:  "error",
				Code:    code,
				Message: err.Error(),
			})
			c.Abort()
			return
		}

		// Set user ID in the context
		c.Set("userID", userID)
		c.Next()
	}
}
