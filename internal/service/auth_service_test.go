package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/projectstore/internal/config"
	"github.com/projectstore/internal/constants"
	"github.com/projectstore/internal/models"
	"github.com/projectstore/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T, name string) (*AuthService, *gorm.DB) {
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
	cfg.JWT.SecretKey = "test-secret"
	cfg.JWT.AccessExpireHours = 1
	cfg.JWT.RefreshExpireHours = 24
	return NewAuthService(cfg, repository.NewUserRepository(db)), db
}

func TestRegisterLoginAndParseToken(t *testing.T) {
	svc, _ := setupAuthServiceTest(t, "auth_register_login")

	user, pair, err := svc.Register(RegisterInput{Email: "Ana@Example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Fatalf("email should be normalized, got %s", user.Email)
	}
	if user.Role != constants.RoleClient {
		t.Fatalf("registered role must be client, got %s", user.Role)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("token pair should be issued")
	}

	claims, err := svc.ParseToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != constants.RoleClient || claims.Type != "access" {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	if _, _, err := svc.Login("ana@example.com", "supersecret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, _, err := svc.Login("ana@example.com", "wrongpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login("nobody@example.com", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user should get same error, got %v", err)
	}
}

func TestRegisterGuards(t *testing.T) {
	svc, _ := setupAuthServiceTest(t, "auth_register_guards")

	if _, _, err := svc.Register(RegisterInput{Email: "not-an-email", Password: "supersecret"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, _, err := svc.Register(RegisterInput{Email: "a@b.com", Password: "short"}); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if _, _, err := svc.Register(RegisterInput{Email: "dup@b.com", Password: "supersecret"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, _, err := svc.Register(RegisterInput{Email: "dup@b.com", Password: "supersecret"}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestDisabledUserCannotLogin(t *testing.T) {
	svc, db := setupAuthServiceTest(t, "auth_disabled")
	user, _, err := svc.Register(RegisterInput{Email: "off@b.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, err := svc.Login("off@b.com", "supersecret"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _ := setupAuthServiceTest(t, "auth_refresh")
	_, pair, err := svc.Register(RegisterInput{Email: "ref@b.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := svc.Refresh(pair.AccessToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("access token must not refresh, got %v", err)
	}
	user, fresh, err := svc.Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if user == nil || fresh.AccessToken == "" {
		t.Fatalf("refresh should issue a new pair")
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := setupAuthServiceTest(t, "auth_change_pwd")
	user, _, err := svc.Register(RegisterInput{Email: "pwd@b.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.ChangePassword(user.ID, "wrong", "newsecret123"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "supersecret", "tiny"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "supersecret", "newsecret123"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, _, err := svc.Login("pwd@b.com", "newsecret123"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}
