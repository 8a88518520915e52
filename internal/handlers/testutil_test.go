package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"mystore/internal/auth"
	"mystore/internal/config"
	"mystore/internal/handlers"
	"mystore/internal/models"
	"mystore/internal/repository"
	"mystore/internal/routes"
)

func init() { gin.SetMode(gin.TestMode) }

const testInviteCode = "sesame-open-up"

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *auth.TokenIssuer
}

// newTestServer builds the real router on top of an in-memory sqlite
// database, so requests go through authentication, the capability table
// and the handlers exactly as in production.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers-%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		JWTTTL:          time.Hour,
		PageSizeDefault: 10,
		PageSizeMax:     50,
		AdminInviteCode: testInviteCode,
	}
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	h := &handlers.Handlers{
		Users:    repository.NewUserRepository(db),
		Products: repository.NewProductRepository(db),
		Orders:   repository.NewOrderRepository(db),
		Tokens:   tokens,
		Config:   cfg,
		Logger:   zap.NewNop(),
	}
	return &testServer{router: routes.SetupRouter(h), db: db, tokens: tokens}
}

// do sends a JSON request; an empty token means anonymous.
func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target))
}

// createUser writes a user straight to the database and returns it with
// a valid token for it.
func (s *testServer) createUser(t *testing.T, username, password string, admin bool) (*models.User, string) {
	t.Helper()
	var p models.Password
	require.NoError(t, p.Set(password))
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: p.Hash,
		IsStaff:      admin,
	}
	require.NoError(t, s.db.Create(user).Error)
	token, err := s.tokens.GenerateToken(user.ID)
	require.NoError(t, err)
	return user, token
}

func (s *testServer) createProduct(t *testing.T, name string, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Slug: name, Price: price, Stock: stock}
	require.NoError(t, s.db.Create(p).Error)
	return p
}
