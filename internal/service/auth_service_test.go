package service

import (
	"errors"
	"testing"

	"github.com/vip-affiliates/internal/config"
	"github.com/vip-affiliates/internal/constants"
	"github.com/vip-affiliates/internal/models"
	"github.com/vip-affiliates/internal/repository"
)

func newAuthTestConfig() *config.Config {
	return &config.Config{
		JWT:     config.JWTConfig{SecretKey: "admin-secret", ExpireHours: 1},
		UserJWT: config.JWTConfig{SecretKey: "user-secret", ExpireHours: 2},
	}
}

func TestAdminLoginIssuesToken(t *testing.T) {
	db := setupServiceTestDB(t)
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admin := &models.Admin{Username: "manager", PasswordHash: hash}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	svc := NewAuthService(newAuthTestConfig(), repository.NewAdminRepository(db))

	if _, _, _, err := svc.Login("manager", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, _, _, err := svc.Login("ghost", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown admin, got %v", err)
	}

	logged, token, _, err := svc.Login(" manager ", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.LastLoginAt == nil {
		t.Fatalf("last login should be recorded")
	}
	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Username != "manager" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	other := NewAuthService(&config.Config{JWT: config.JWTConfig{SecretKey: "other"}}, repository.NewAdminRepository(db))
	if _, err := other.ParseJWT(token); err == nil {
		t.Fatalf("token signed with another secret should be rejected")
	}
}

func TestUserAuthCreateAndLogin(t *testing.T) {
	db := setupServiceTestDB(t)
	userRepo := repository.NewUserRepository(db)
	svc := NewUserAuthService(newAuthTestConfig(), userRepo)

	if _, err := svc.CreateUser("not-an-email", "pw", ""); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected invalid email, got %v", err)
	}
	user, err := svc.CreateUser(" Leader@Example.com ", "pw", "")
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if user.Email != "leader@example.com" || user.DisplayName != "leader" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if _, err := svc.CreateUser("leader@example.com", "pw", ""); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected email exists, got %v", err)
	}

	_, token, _, err := svc.Login("LEADER@example.com", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse user token failed: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("claims user want %d got %d", user.ID, claims.UserID)
	}
	if _, err := NewAuthService(newAuthTestConfig(), nil).ParseJWT(token); err == nil {
		t.Fatalf("user token must not parse as admin token")
	}

	if err := userRepo.SetStatus(user.ID, constants.UserStatusDisabled); err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, _, err := svc.Login("leader@example.com", "pw"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected user disabled, got %v", err)
	}
}

func TestTokenAudienceSeparatesAdminAndUser(t *testing.T) {
	shared := &config.Config{
		JWT:     config.JWTConfig{SecretKey: "same-secret", ExpireHours: 1},
		UserJWT: config.JWTConfig{SecretKey: "same-secret", ExpireHours: 1},
	}
	adminSvc := NewAuthService(shared, nil)
	userSvc := NewUserAuthService(shared, nil)

	userToken, _, err := userSvc.GenerateUserJWT(&models.User{ID: 5, Email: "a@example.com"})
	if err != nil {
		t.Fatalf("generate user token failed: %v", err)
	}
	if _, err := adminSvc.ParseJWT(userToken); err == nil {
		t.Fatalf("user token must not pass admin audience check")
	}
	adminToken, _, err := adminSvc.GenerateJWT(&models.Admin{ID: 2, Username: "root"})
	if err != nil {
		t.Fatalf("generate admin token failed: %v", err)
	}
	if _, err := userSvc.ParseUserJWT(adminToken); err == nil {
		t.Fatalf("admin token must not pass user audience check")
	}
	claims, err := adminSvc.ParseJWT(adminToken)
	if err != nil || claims.Subject != "2" {
		t.Fatalf("admin token should round trip, claims=%+v err=%v", claims, err)
	}

	empty := NewAuthService(&config.Config{}, nil)
	if _, _, err := empty.GenerateJWT(&models.Admin{ID: 1}); err == nil {
		t.Fatalf("empty secret must not sign tokens")
	}
}
