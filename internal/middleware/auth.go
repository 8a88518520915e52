package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mystore/internal/auth"
	"mystore/internal/models"
	"mystore/internal/repository"
)

const userContextKey = "currentUser"

// Authenticate resolves the caller from a bearer token, if one is sent.
// Anonymous requests pass through untouched; whether anonymity is
// acceptable is decided by the Authorize middleware, not here. A token
// that is present but invalid is always a 401.
func Authenticate(tokens *auth.TokenIssuer, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token format (must be Bearer)"})
			c.Abort()
			return
		}

		userID, err := tokens.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated caller, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
