package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Level is the minimum role a capability requires.
type Level int

const (
	Public Level = iota
	Authenticated
	Admin
)

// Resource names a protected surface of the API.
type Resource string

const (
	ResourceProducts Resource = "products"
	ResourceOrders   Resource = "orders"
)

// capabilities is the single source of truth for who may do what:
// (resource, method) -> required level. Handlers never re-check roles.
var capabilities = map[Resource]map[string]Level{
	ResourceProducts: {
		http.MethodGet:    Public,
		http.MethodPost:   Admin,
		http.MethodPut:    Admin,
		http.MethodPatch:  Admin,
		http.MethodDelete: Admin,
	},
	ResourceOrders: {
		http.MethodGet:    Authenticated,
		http.MethodPost:   Authenticated,
		http.MethodPut:    Authenticated,
		http.MethodPatch:  Authenticated,
		http.MethodDelete: Authenticated,
	},
}

// RequiredLevel looks up the capability table. Unknown combinations
// default to Admin so a forgotten entry fails closed.
func RequiredLevel(resource Resource, method string) Level {
	if byMethod, ok := capabilities[resource]; ok {
		if level, ok := byMethod[method]; ok {
			return level
		}
	}
	return Admin
}

// Authorize enforces the capability table for one resource. It runs
// after Authenticate and before any handler logic, so a denied caller
// learns nothing about the resource it was after.
func Authorize(resource Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		level := RequiredLevel(resource, c.Request.Method)
		if level == Public {
			c.Next()
			return
		}

		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		if level == Admin && !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin privileges required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
