package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/vip-affiliates/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// 管理员与前台用户令牌使用不同密钥，aud 再区分一次
const (
	AudienceAdmin = "vipaff-admin"
	AudienceUser  = "vipaff-user"
)

var errSigningKeyMissing = errors.New("jwt secret is empty")

// HashPassword 使用 bcrypt 生成密码哈希
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 校验密码与哈希是否匹配
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func tokenTTL(cfg config.JWTConfig, fallbackHours int) time.Duration {
	hours := cfg.ExpireHours
	if hours <= 0 {
		hours = fallbackHours
	}
	return time.Duration(hours) * time.Hour
}

func registeredClaims(audience string, subjectID uint, ttl time.Duration) (jwt.RegisteredClaims, time.Time) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	return jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(subjectID), 10),
		Audience:  jwt.ClaimStrings{audience},
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}, expiresAt
}

func signToken(secret string, claims jwt.Claims) (string, error) {
	if secret == "" {
		return "", errSigningKeyMissing
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// parseToken 只接受 HS256 且 aud 匹配的令牌，解析结果写入 claims
func parseToken(secret, audience, raw string, claims jwt.Claims) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
	)
	token, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
