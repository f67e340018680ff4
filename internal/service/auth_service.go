package service

import (
	"context"
	"time"

	"github.com/vip-affiliates/internal/cache"
	"github.com/vip-affiliates/internal/config"
	"github.com/vip-affiliates/internal/models"
	"github.com/vip-affiliates/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

const adminTokenFallbackHours = 24

// JWTClaims 管理员令牌声明，TokenVersion 与库中不一致时令牌作废
type JWTClaims struct {
	AdminID      uint   `json:"admin_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// AuthService 后台管理员登录与令牌签发
type AuthService struct {
	cfg       *config.Config
	adminRepo repository.AdminRepository
}

func NewAuthService(cfg *config.Config, adminRepo repository.AdminRepository) *AuthService {
	return &AuthService{cfg: cfg, adminRepo: adminRepo}
}

// GenerateJWT 签发管理员令牌，返回令牌与过期时间
func (s *AuthService) GenerateJWT(admin *models.Admin) (string, time.Time, error) {
	registered, expiresAt := registeredClaims(AudienceAdmin, admin.ID, tokenTTL(s.cfg.JWT, adminTokenFallbackHours))
	token, err := signToken(s.cfg.JWT.SecretKey, JWTClaims{
		AdminID:          admin.ID,
		Username:         admin.Username,
		TokenVersion:     admin.TokenVersion,
		RegisteredClaims: registered,
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ParseJWT 校验并解析管理员令牌
func (s *AuthService) ParseJWT(raw string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	if err := parseToken(s.cfg.JWT.SecretKey, AudienceAdmin, raw, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Login 用户名不存在与密码错误统一返回 ErrInvalidCredentials
func (s *AuthService) Login(username, password string) (*models.Admin, string, time.Time, error) {
	admin, err := s.adminRepo.GetByUsername(username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if admin == nil || VerifyPassword(admin.PasswordHash, password) != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(admin)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	now := time.Now()
	if err := s.adminRepo.TouchLastLogin(admin.ID, now); err != nil {
		return nil, "", time.Time{}, err
	}
	admin.LastLoginAt = &now
	_ = cache.StoreAuthState(context.Background(), cache.SubjectAdmin, cache.AdminState(admin))
	return admin, token, expiresAt, nil
}

// GetAdmin 不存在时返回 ErrNotFound
func (s *AuthService) GetAdmin(id uint) (*models.Admin, error) {
	admin, err := s.adminRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrNotFound
	}
	return admin, nil
}
