package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/vip-affiliates/internal/models"
)

const authStateTTL = 10 * time.Minute

// AuthSubject 鉴权快照的主体类型
type AuthSubject string

const (
	SubjectAdmin AuthSubject = "admin"
	SubjectUser  AuthSubject = "user"
)

// AuthState 令牌校验所需的账号快照
type AuthState struct {
	ID           uint   `json:"id"`
	Status       string `json:"status,omitempty"`
	TokenVersion uint64 `json:"token_version"`
	IsSuper      bool   `json:"is_super,omitempty"`
}

// AdminState 管理员快照
func AdminState(admin *models.Admin) *AuthState {
	if admin == nil {
		return nil
	}
	return &AuthState{ID: admin.ID, TokenVersion: admin.TokenVersion, IsSuper: admin.IsSuper}
}

// UserState 前台用户快照
func UserState(user *models.User) *AuthState {
	if user == nil {
		return nil
	}
	return &AuthState{ID: user.ID, Status: user.Status, TokenVersion: user.TokenVersion}
}

func authStateKey(subject AuthSubject, id uint) string {
	return fmt.Sprintf("auth:%s:%d", subject, id)
}

// LoadAuthState 先读缓存，未命中或读取失败时调用 load 回源并回写
// load 返回 (nil, nil) 表示账号不存在
func LoadAuthState(ctx context.Context, subject AuthSubject, id uint, load func() (*AuthState, error)) (*AuthState, error) {
	if id == 0 {
		return nil, nil
	}
	var cached AuthState
	if hit, err := GetJSON(ctx, authStateKey(subject, id), &cached); err == nil && hit {
		return &cached, nil
	}
	state, err := load()
	if err != nil || state == nil {
		return nil, err
	}
	_ = StoreAuthState(ctx, subject, state)
	return state, nil
}

// StoreAuthState 登录成功后刷新快照
func StoreAuthState(ctx context.Context, subject AuthSubject, state *AuthState) error {
	if state == nil || state.ID == 0 {
		return nil
	}
	return SetJSON(ctx, authStateKey(subject, state.ID), state, authStateTTL)
}

// InvalidateAuthState 账号状态或令牌版本变化后删除快照
func InvalidateAuthState(ctx context.Context, subject AuthSubject, id uint) error {
	if id == 0 {
		return nil
	}
	return Del(ctx, authStateKey(subject, id))
}
