package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bookstore-next/internal/config"
	"github.com/bookstore-next/internal/constants"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"
	"github.com/bookstore-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

func newMiddlewareTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func newMiddlewareAuth(t *testing.T) (*service.AuthService, repository.UserRepository, *gorm.DB) {
	t.Helper()
	db := newMiddlewareTestDB(t)
	cfg := &config.Config{
		JWT: config.JWTConfig{
			SecretKey:           "middleware-test-secret-key",
			Issuer:              "bookstore-test",
			AccessExpireMinutes: 10,
			RefreshExpireHours:  1,
		},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8, MaxLength: 64},
		},
	}
	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(cfg, userRepo, repository.NewRefreshTokenRepository(db), service.NewCaptchaService(cfg.Captcha))
	return authService, userRepo, db
}

type envelope struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestUserJWTAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	authService, userRepo, _ := newMiddlewareAuth(t)

	r := gin.New()
	r.Use(UserJWTAuthMiddleware(authService, userRepo))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, 401, resp.StatusCode)
	assert.Equal(t, "AUTH_HEADER_MISSING", resp.ErrorCode)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, "AUTH_HEADER_INVALID", decodeEnvelope(t, w).ErrorCode)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(w, req)
	assert.Equal(t, "INVALID_TOKEN", decodeEnvelope(t, w).ErrorCode)
}

func TestUserJWTAuthMiddlewareInjectsCurrentRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	authService, userRepo, db := newMiddlewareAuth(t)

	user, err := authService.Signup(service.SignupInput{
		Email:    "reader@example.com",
		Password: "passw0rd!",
		Name:     "reader",
		Gender:   constants.GenderMale,
		Address:  "Busan",
	})
	require.NoError(t, err)
	_, tokens, err := authService.Login("reader@example.com", "passw0rd!", service.CaptchaVerifyPayload{})
	require.NoError(t, err)

	r := gin.New()
	r.Use(UserJWTAuthMiddleware(authService, userRepo))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetUint("user_id"),
			"role":    c.GetString("user_role"),
		})
	})

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("role", constants.RoleSeller).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	r.ServeHTTP(w, req)

	var resp struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, user.ID, resp.UserID)
	assert.Equal(t, constants.RoleSeller, resp.Role)

	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "TOKEN_REVOKED", decodeEnvelope(t, w).ErrorCode)
}

func TestOptionalUserJWTMiddlewareAllowsGuests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	authService, userRepo, _ := newMiddlewareAuth(t)

	r := gin.New()
	r.Use(OptionalUserJWTMiddleware(authService, userRepo))
	r.GET("/books/1", func(c *gin.Context) {
		_, exists := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"authenticated": exists})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/books/1", nil)
	req.Header.Set("Authorization", "Bearer broken")
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestRoleRBACMiddlewareRequiresRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RoleRBACMiddleware(nil))
	r.GET("/admin/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	assert.Equal(t, 401, decodeEnvelope(t, w).StatusCode)
}
