package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/vip-affiliates/internal/cache"
	"github.com/vip-affiliates/internal/config"
	"github.com/vip-affiliates/internal/constants"
	"github.com/vip-affiliates/internal/models"
	"github.com/vip-affiliates/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

const userTokenFallbackHours = 168

// UserJWTClaims 前台用户令牌声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// UserAuthService 前台用户（推广员）登录、开户与状态管理
type UserAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
}

func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository) *UserAuthService {
	return &UserAuthService{cfg: cfg, userRepo: userRepo}
}

// GenerateUserJWT 签发前台用户令牌，默认有效期 7 天
func (s *UserAuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	registered, expiresAt := registeredClaims(AudienceUser, user.ID, tokenTTL(s.cfg.UserJWT, userTokenFallbackHours))
	token, err := signToken(s.cfg.UserJWT.SecretKey, UserJWTClaims{
		UserID:           user.ID,
		Email:            user.Email,
		TokenVersion:     user.TokenVersion,
		RegisteredClaims: registered,
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ParseUserJWT 校验并解析前台用户令牌
func (s *UserAuthService) ParseUserJWT(raw string) (*UserJWTClaims, error) {
	claims := &UserJWTClaims{}
	if err := parseToken(s.cfg.UserJWT.SecretKey, AudienceUser, raw, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// CreateUser 创建前台用户（后台开户与初始化数据使用）
func (s *UserAuthService) CreateUser(email, password, displayName string) (*models.User, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}
	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExists
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = strings.Split(normalized, "@")[0]
	}
	user := &models.User{
		Email:        normalized,
		PasswordHash: hash,
		DisplayName:  displayName,
		Status:       constants.UserStatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 邮箱格式错误、用户不存在与密码错误统一返回 ErrInvalidCredentials；停用账号返回 ErrUserDisabled
func (s *UserAuthService) Login(email, password string) (*models.User, string, time.Time, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !strings.EqualFold(user.Status, constants.UserStatusActive) {
		return nil, "", time.Time{}, ErrUserDisabled
	}
	if VerifyPassword(user.PasswordHash, password) != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	now := time.Now()
	if err := s.userRepo.TouchLastLogin(user.ID, now); err != nil {
		return nil, "", time.Time{}, err
	}
	user.LastLoginAt = &now
	_ = cache.StoreAuthState(context.Background(), cache.SubjectUser, cache.UserState(user))
	return user, token, expiresAt, nil
}

// GetUserByID 获取用户
func (s *UserAuthService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// SetUserStatus 后台启用或停用用户，停用后已签发的令牌随即失效
func (s *UserAuthService) SetUserStatus(ctx context.Context, id uint, status string) (*models.User, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
		return nil, ErrInvalidUserStatus
	}
	if _, err := s.GetUserByID(id); err != nil {
		return nil, err
	}
	if err := s.userRepo.SetStatus(id, status); err != nil {
		return nil, err
	}
	_ = cache.InvalidateAuthState(ctx, cache.SubjectUser, id)
	return s.GetUserByID(id)
}

// NormalizeEmail 归一化并校验邮箱
func NormalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}
