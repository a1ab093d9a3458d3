package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/projectstore/internal/config"
	"github.com/projectstore/internal/http/handlers"
	"github.com/projectstore/internal/models"
	"github.com/projectstore/internal/repository"
	"github.com/projectstore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
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
	if generated := strings.TrimSpace(w2.Header().Get(requestIDHeader)); generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
}

func setupAuthMiddlewareTest(t *testing.T, name string) (*service.AuthService, repository.UserRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "middleware-test-secret-key-0123456789"
	cfg.JWT.AccessExpireHours = 1
	cfg.JWT.RefreshExpireHours = 24
	userRepo := repository.NewUserRepository(db)
	return service.NewAuthService(cfg, userRepo), userRepo, db
}

func seedMiddlewareUser(t *testing.T, db *gorm.DB, email, role string, active bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     active,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return user
}

func protectedEngine(authSvc *service.AuthService, userRepo repository.UserRepository, adminOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/secure")
	group.Use(AuthRequired(authSvc, userRepo))
	if adminOnly {
		group.Use(AdminRequired())
	}
	group.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAuthRequiredRejectsMissingAndBadTokens(t *testing.T) {
	authSvc, userRepo, _ := setupAuthMiddlewareTest(t, "mw_auth_reject")
	r := protectedEngine(authSvc, userRepo, false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/secure/ping", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing header want 401 got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure/ping", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token want 401 got %d", w.Code)
	}
}

func TestAuthRequiredRejectsRefreshToken(t *testing.T) {
	authSvc, userRepo, db := setupAuthMiddlewareTest(t, "mw_auth_refresh")
	user := seedMiddlewareUser(t, db, "client@test.local", "client", true)

	refresh, _, err := authSvc.GenerateToken(user, service.TokenTypeRefresh, 24)
	if err != nil {
		t.Fatalf("generate refresh token failed: %v", err)
	}
	r := protectedEngine(authSvc, userRepo, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure/ping", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh token on protected route want 401 got %d", w.Code)
	}
}

func TestAuthRequiredRejectsDisabledUser(t *testing.T) {
	authSvc, userRepo, db := setupAuthMiddlewareTest(t, "mw_auth_disabled")
	user := seedMiddlewareUser(t, db, "blocked@test.local", "client", true)
	access, _, err := authSvc.GenerateToken(user, service.TokenTypeAccess, 1)
	if err != nil {
		t.Fatalf("generate access token failed: %v", err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}

	r := protectedEngine(authSvc, userRepo, false)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure/ping", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("disabled user want 401 got %d", w.Code)
	}
}

func TestAdminRequiredBlocksClientRole(t *testing.T) {
	authSvc, userRepo, db := setupAuthMiddlewareTest(t, "mw_admin_role")
	client := seedMiddlewareUser(t, db, "client@test.local", "client", true)
	admin := seedMiddlewareUser(t, db, "admin@test.local", "admin", true)

	clientToken, _, err := authSvc.GenerateToken(client, service.TokenTypeAccess, 1)
	if err != nil {
		t.Fatalf("generate client token failed: %v", err)
	}
	adminToken, _, err := authSvc.GenerateToken(admin, service.TokenTypeAccess, 1)
	if err != nil {
		t.Fatalf("generate admin token failed: %v", err)
	}

	r := protectedEngine(authSvc, userRepo, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure/ping", nil)
	req.Header.Set("Authorization", "Bearer "+clientToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("client on admin route want 403 got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/secure/ping", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("admin on admin route want 200 got %d", w.Code)
	}
}

func TestAuthOptionalPassesAnonymous(t *testing.T) {
	authSvc, userRepo, _ := setupAuthMiddlewareTest(t, "mw_auth_optional")
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthOptional(authSvc, userRepo))
	r.GET("/open", func(c *gin.Context) {
		_, exists := c.Get(handlers.ContextUserIDKey)
		c.JSON(http.StatusOK, gin.H{"authenticated": exists})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("anonymous want 200 got %d", w.Code)
	}
	var resp map[string]bool
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["authenticated"] {
		t.Fatalf("anonymous request should not be authenticated")
	}
}
