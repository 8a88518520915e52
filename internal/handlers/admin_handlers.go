package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mystore/internal/middleware"
	"mystore/internal/models"
	"mystore/internal/repository"
)

// --- Admin Auth ---

// AdminLogin is the handler for POST /admin-login.
// Credentials are checked first; a valid login without an elevated role
// is a 403, distinct from the generic 401 for bad credentials.
func (h *Handlers) AdminLogin(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	user, ok, err := h.checkCredentials(c, input.Email, input.Password)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "not an admin user"})
		return
	}

	token, err := h.Tokens.GenerateToken(user.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Admin login successful",
		"is_admin": true,
		"token":    token,
	})
}

// AdminStatus is the handler for GET /admin-login.
// It reports whether the authenticated caller is an admin.
func (h *Handlers) AdminStatus(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok || !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"is_admin": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_admin": true})
}

// --- Admin Registration ---

// AdminRegisterInput requires an invite code on top of the normal
// registration fields. Self-service admin signup without the code is
// refused; the code comes from configuration, never from the database.
type AdminRegisterInput struct {
	Username   string `json:"username" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	InviteCode string `json:"invite_code" binding:"required"`
}

// AdminRegister is the handler for POST /admin-register.
// The created account is always staff+superuser, regardless of anything
// else in the payload, and the caller is logged in immediately.
func (h *Handlers) AdminRegister(c *gin.Context) {
	var input AdminRegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	if h.Config.AdminInviteCode == "" ||
		subtle.ConstantTimeCompare([]byte(input.InviteCode), []byte(h.Config.AdminInviteCode)) != 1 {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid invite code"})
		return
	}

	var password models.Password
	if err := password.Set(input.Password); err != nil {
		h.serverError(c, err)
		return
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: password.Hash,
		IsStaff:      true,
		IsSuperuser:  true,
	}
	if err := h.Users.Create(c.Request.Context(), user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"username": "already taken"}})
		case errors.Is(err, repository.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"email": "already taken"}})
		default:
			h.serverError(c, err)
		}
		return
	}

	token, err := h.Tokens.GenerateToken(user.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Admin registered successfully",
		"is_admin": true,
		"username": user.Username,
		"token":    token,
	})
}
