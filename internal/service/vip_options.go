package service

import (
	"strings"
	"time"

	"github.com/vip-affiliates/internal/config"
	"github.com/vip-affiliates/internal/constants"
)

const defaultVIPMetaCacheTTL = 5 * time.Minute

// VIPOptions VIP 功能的不可变运行参数，启动时构建一次
type VIPOptions struct {
	GateMetaKey   string
	EditorMetaKey string
	ShortcodeTag  string
	CacheTTL      time.Duration
}

// NewVIPOptions 从配置构建 VIP 参数，空值回退默认
func NewVIPOptions(cfg config.VIPConfig) VIPOptions {
	opts := VIPOptions{
		GateMetaKey:   strings.TrimSpace(cfg.GateMetaKey),
		EditorMetaKey: strings.TrimSpace(cfg.EditorMetaKey),
		ShortcodeTag:  strings.TrimSpace(cfg.ShortcodeTag),
		CacheTTL:      time.Duration(cfg.CacheTTLSeconds) * time.Second,
	}
	if opts.GateMetaKey == "" {
		opts.GateMetaKey = constants.MetaKeyAffiliateVIP
	}
	if opts.EditorMetaKey == "" {
		opts.EditorMetaKey = constants.MetaKeyVIPAffiliate
	}
	if opts.ShortcodeTag == "" {
		opts.ShortcodeTag = constants.ShortcodeVIPContent
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultVIPMetaCacheTTL
	}
	return opts
}

// DefaultVIPOptions 默认参数
func DefaultVIPOptions() VIPOptions {
	return NewVIPOptions(config.VIPConfig{})
}

// MetaKeysDiverge 判定读取键与写入键是否不同
// 不同时后台勾选不会影响短代码判定
func (o VIPOptions) MetaKeysDiverge() bool {
	return o.GateMetaKey != o.EditorMetaKey
}
