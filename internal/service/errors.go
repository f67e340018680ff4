package service

import (
	"errors"
	"fmt"
)

// 通用业务错误
var (
	ErrNotFound           = errors.New("资源不存在")
	ErrForbidden          = errors.New("没有权限")
	ErrInvalidCredentials = errors.New("账号或密码错误")
	ErrUserDisabled       = errors.New("账号已被禁用")
	ErrInvalidToken       = errors.New("无效的 token")
	ErrSlugExists         = errors.New("唯一标识已存在")
	ErrInvalidEmail       = errors.New("邮箱格式不正确")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrInvalidUserStatus  = errors.New("用户状态不合法")
)

// 页面相关错误
var (
	ErrInvalidPageSlug   = errors.New("页面标识不合法")
	ErrPageTitleRequired = errors.New("页面标题不能为空")
)

// 推广账号相关错误
var (
	ErrUserNotFound           = errors.New("用户不存在")
	ErrAffiliateExists        = errors.New("该用户已有推广账号")
	ErrInvalidAffiliateStatus = errors.New("推广账号状态不合法")
)

// VIP 元数据写入授权错误，均可用 errors.Is(err, ErrForbidden) 判定
var (
	ErrAdminContextRequired = fmt.Errorf("%w: 需要后台管理上下文", ErrForbidden)
	ErrCapabilityMissing    = fmt.Errorf("%w: 缺少 manage_affiliates 权限", ErrForbidden)
)
