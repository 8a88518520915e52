package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mystore/internal/models"
	"mystore/internal/repository"
)

// --- User Registration ---

// RegisterUserInput holds the fields we accept from the caller. It is
// separate from models.User so nobody can sneak in an id or a role.
type RegisterUserInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register is the handler for POST /register.
// It creates a non-privileged account and does not log the caller in.
func (h *Handlers) Register(c *gin.Context) {
	var input RegisterUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
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

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

// --- Login ---

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// checkCredentials looks the user up by email and verifies the
// password. The caller cannot tell a missing account from a wrong
// password; both come back as ok=false.
func (h *Handlers) checkCredentials(c *gin.Context, email, plaintext string) (*models.User, bool, error) {
	user, err := h.Users.GetByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(plaintext)
	if err != nil {
		return nil, false, err
	}
	return user, match, nil
}

// Login is the handler for POST /login.
func (h *Handlers) Login(c *gin.Context) {
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

	token, err := h.Tokens.GenerateToken(user.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Logged in successfully",
		"username": user.Username,
		"token":    token,
	})
}
