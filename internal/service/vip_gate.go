package service

import (
	"context"
	"strconv"

	"github.com/vip-affiliates/internal/constants"
	"github.com/vip-affiliates/internal/hooks"
	"github.com/vip-affiliates/internal/logger"
	"github.com/vip-affiliates/internal/shortcode"
)

// AffiliateLookup 用户到推广账号的映射
type AffiliateLookup interface {
	AffiliateIDForUser(ctx context.Context, userID uint) (uint, bool, error)
}

// AffiliateMetaStore 推广账号单值元数据读写
type AffiliateMetaStore interface {
	GetAffiliateMeta(ctx context.Context, affiliateID uint, key string) (string, bool, error)
	SetAffiliateMeta(ctx context.Context, affiliateID uint, key, value string) error
}

// VIPFeatureFlags VIP 功能相关开关
type VIPFeatureFlags interface {
	IsVIPEnabled() (bool, error)
	IsDebugMode() bool
}

// ContentFilterApplier 内容过滤器执行入口
type ContentFilterApplier interface {
	ApplyContentFilter(ctx context.Context, hook, content string) (string, error)
}

// VIPStatus VIP 判定结果
type VIPStatus struct {
	AffiliateID uint `json:"affiliate_id"`
	IsVIP       bool `json:"is_vip"`
}

// VIPGateService VIP 判定与受限内容渲染
type VIPGateService struct {
	opts       VIPOptions
	affiliates AffiliateLookup
	meta       AffiliateMetaStore
	flags      VIPFeatureFlags
	filters    ContentFilterApplier
}

// NewVIPGateService 创建 VIP 判定服务
func NewVIPGateService(opts VIPOptions, affiliates AffiliateLookup, meta AffiliateMetaStore, flags VIPFeatureFlags, filters ContentFilterApplier) *VIPGateService {
	return &VIPGateService{
		opts:       opts,
		affiliates: affiliates,
		meta:       meta,
		flags:      flags,
		filters:    filters,
	}
}

// CheckAffiliateVIP 判定访客是否为 VIP 推广员
// 无推广账号、功能关闭、元数据缺失均返回非 VIP；仅基础设施故障返回 error
func (s *VIPGateService) CheckAffiliateVIP(ctx context.Context, viewer hooks.Viewer) (VIPStatus, error) {
	status := VIPStatus{}
	if viewer.Anonymous() {
		return status, nil
	}

	affiliateID, found, err := s.affiliates.AffiliateIDForUser(ctx, viewer.UserID)
	if err != nil {
		return status, err
	}
	if !found || affiliateID == 0 {
		s.debugw("vip_gate_no_affiliate", "user_id", viewer.UserID)
		return status, nil
	}
	status.AffiliateID = affiliateID

	enabled, err := s.flags.IsVIPEnabled()
	if err != nil {
		return status, err
	}
	if !enabled {
		s.debugw("vip_gate_feature_disabled", "user_id", viewer.UserID, "affiliate_id", affiliateID)
		return status, nil
	}

	value, exists, err := s.meta.GetAffiliateMeta(ctx, affiliateID, s.opts.GateMetaKey)
	if err != nil {
		return status, err
	}
	status.IsVIP = exists && value == constants.VIPValueYes
	s.debugw("vip_gate_decision",
		"user_id", viewer.UserID,
		"affiliate_id", affiliateID,
		"meta_key", s.opts.GateMetaKey,
		"meta_exists", exists,
		"is_vip", status.IsVIP,
	)
	return status, nil
}

// IsAffiliateVIP 判定访客是否为 VIP，故障按非 VIP 处理
func (s *VIPGateService) IsAffiliateVIP(ctx context.Context, viewer hooks.Viewer) bool {
	status, err := s.CheckAffiliateVIP(ctx, viewer)
	if err != nil {
		logger.Warnw("vip_gate_lookup_failed", "user_id", viewer.UserID, "error", err)
		return false
	}
	return status.IsVIP
}

// Render 对 VIP 访客返回经过内容过滤器的正文，否则返回 ok=false
// 同一次短代码展开内对同一访客只判定一次
func (s *VIPGateService) Render(ctx context.Context, viewer hooks.Viewer, content string) (string, bool) {
	isVIP := shortcode.Memo(ctx, "vip_gate:"+strconv.FormatUint(uint64(viewer.UserID), 10), func() bool {
		return s.IsAffiliateVIP(ctx, viewer)
	})
	if !isVIP {
		return "", false
	}
	if s.filters == nil {
		return content, true
	}
	filtered, err := s.filters.ApplyContentFilter(ctx, constants.HookVIPShortcodeContent, content)
	if err != nil {
		logger.Warnw("vip_content_filter_failed", "user_id", viewer.UserID, "error", err)
	}
	return filtered, true
}

// ShortcodeHandler 短代码处理函数
func (s *VIPGateService) ShortcodeHandler() shortcode.Handler {
	return func(ctx context.Context, call shortcode.Call) (string, bool) {
		return s.Render(ctx, call.Viewer, call.Content)
	}
}

// RegisterShortcode 向短代码注册表登记 VIP 内容标签
func (s *VIPGateService) RegisterShortcode(registry *shortcode.Registry) error {
	return registry.Register(s.opts.ShortcodeTag, s.ShortcodeHandler())
}

func (s *VIPGateService) debugw(message string, kv ...interface{}) {
	if s.flags == nil || !s.flags.IsDebugMode() {
		return
	}
	logger.VerboseDebugw(message, kv...)
}
