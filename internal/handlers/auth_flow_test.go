package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mystore/internal/models"
)

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/register", "", map[string]any{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, "User created successfully", body["message"])

	// no token in the plain registration path
	assert.NotContains(t, body, "token")

	// the account is not privileged, whatever the payload claims
	w = s.do(t, http.MethodPost, "/register", "", map[string]any{
		"username": "mallory",
		"email":    "mallory@example.com",
		"password": "supersecret",
		"is_staff": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var mallory models.User
	require.NoError(t, s.db.Where("username = ?", "mallory").First(&mallory).Error)
	assert.False(t, mallory.IsAdmin())
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	t.Run("field errors", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/register", "", map[string]any{
			"username": "alice",
			"email":    "not-an-email",
			"password": "short",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		var body struct {
			Error map[string]string `json:"error"`
		}
		decode(t, w, &body)
		assert.Contains(t, body.Error, "email")
		assert.Contains(t, body.Error, "password")
	})

	t.Run("duplicate username and email", func(t *testing.T) {
		payload := map[string]any{"username": "bob", "email": "bob@example.com", "password": "supersecret"}
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/register", "", payload).Code)

		w := s.do(t, http.MethodPost, "/register", "", map[string]any{
			"username": "bob", "email": "bob2@example.com", "password": "supersecret",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		var body struct {
			Error map[string]string `json:"error"`
		}
		decode(t, w, &body)
		assert.Contains(t, body.Error, "username")

		w = s.do(t, http.MethodPost, "/register", "", map[string]any{
			"username": "bob2", "email": "bob@example.com", "password": "supersecret",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		decode(t, w, &body)
		assert.Contains(t, body.Error, "email")
	})
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	s.createUser(t, "alice", "supersecret", false)

	w := s.do(t, http.MethodPost, "/login", "", map[string]any{
		"email": "alice@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, "alice", body["username"])
	require.Contains(t, body, "token")

	// the issued token authenticates order access
	token := body["token"].(string)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/order", token, nil).Code)
}

func TestLoginGenericErrors(t *testing.T) {
	s := newTestServer(t)
	s.createUser(t, "alice", "supersecret", false)

	wrongPassword := s.do(t, http.MethodPost, "/login", "", map[string]any{
		"email": "alice@example.com", "password": "wrong-password",
	})
	unknownEmail := s.do(t, http.MethodPost, "/login", "", map[string]any{
		"email": "nobody@example.com", "password": "supersecret",
	})

	// both failures must be indistinguishable
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestAdminLogin(t *testing.T) {
	s := newTestServer(t)
	s.createUser(t, "alice", "supersecret", false)
	s.createUser(t, "root", "supersecret", true)

	t.Run("invalid credentials", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/admin-login", "", map[string]any{
			"email": "root@example.com", "password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid credentials but not admin", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/admin-login", "", map[string]any{
			"email": "alice@example.com", "password": "supersecret",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/admin-login", "", map[string]any{
			"email": "root@example.com", "password": "supersecret",
		})
		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		decode(t, w, &body)
		assert.Equal(t, true, body["is_admin"])
		assert.Contains(t, body, "token")
	})
}

func TestAdminStatus(t *testing.T) {
	s := newTestServer(t)
	_, userToken := s.createUser(t, "alice", "supersecret", false)
	_, adminToken := s.createUser(t, "root", "supersecret", true)

	w := s.do(t, http.MethodGet, "/admin-login", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/admin-login", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, false, body["is_admin"])

	w = s.do(t, http.MethodGet, "/admin-login", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &body)
	assert.Equal(t, true, body["is_admin"])
}

func TestAdminRegister(t *testing.T) {
	s := newTestServer(t)

	t.Run("wrong invite code", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/admin-register", "", map[string]any{
			"username": "root", "email": "root@example.com", "password": "supersecret",
			"invite_code": "guess",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing invite code", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/admin-register", "", map[string]any{
			"username": "root", "email": "root@example.com", "password": "supersecret",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("valid invite code", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/admin-register", "", map[string]any{
			"username": "root", "email": "root@example.com", "password": "supersecret",
			"invite_code": testInviteCode,
			"is_staff":    false, // ignored: the account is always elevated
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var body map[string]any
		decode(t, w, &body)
		assert.Equal(t, true, body["is_admin"])
		assert.Equal(t, "root", body["username"])
		require.Contains(t, body, "token")

		var root models.User
		require.NoError(t, s.db.Where("username = ?", "root").First(&root).Error)
		assert.True(t, root.IsStaff)
		assert.True(t, root.IsSuperuser)

		// the session is established immediately
		token := body["token"].(string)
		assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/admin-login", token, nil).Code)
	})
}
