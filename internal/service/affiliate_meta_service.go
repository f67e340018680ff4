package service

import (
	"context"
	"strings"
	"time"

	"github.com/vip-affiliates/internal/cache"
	"github.com/vip-affiliates/internal/logger"
	"github.com/vip-affiliates/internal/models"
	"github.com/vip-affiliates/internal/repository"
)

// AffiliateMetaService 推广账号元数据读写，读路径走 Redis 旁路缓存
type AffiliateMetaService struct {
	repo repository.AffiliateMetaRepository
	ttl  time.Duration
}

// NewAffiliateMetaService 创建元数据服务
func NewAffiliateMetaService(repo repository.AffiliateMetaRepository, ttl time.Duration) *AffiliateMetaService {
	if ttl <= 0 {
		ttl = defaultVIPMetaCacheTTL
	}
	return &AffiliateMetaService{repo: repo, ttl: ttl}
}

// GetAffiliateMeta 读取单值元数据，exists=false 表示不存在
func (s *AffiliateMetaService) GetAffiliateMeta(ctx context.Context, affiliateID uint, key string) (string, bool, error) {
	key = strings.TrimSpace(key)
	if affiliateID == 0 || key == "" {
		return "", false, nil
	}

	// 版本号必须在读库之前取得，期间的写入会递增版本使本次回写作废
	lookup, cacheErr := cache.GetAffiliateMeta(ctx, affiliateID, key)
	if cacheErr != nil {
		logger.Warnw("affiliate_meta_cache_get_failed", "affiliate_id", affiliateID, "meta_key", key, "error", cacheErr)
	}
	if lookup.Entry != nil {
		return lookup.Entry.Value, lookup.Entry.Exists, nil
	}

	meta, err := s.repo.Get(affiliateID, key)
	if err != nil {
		return "", false, err
	}
	fresh := cache.AffiliateMetaEntry{}
	if meta != nil {
		fresh.Value = meta.MetaValue
		fresh.Exists = true
	}
	// 版本号未知时不回写
	if cacheErr != nil {
		return fresh.Value, fresh.Exists, nil
	}
	if err := cache.SetAffiliateMeta(ctx, affiliateID, lookup.Generation, key, fresh, s.ttl); err != nil {
		logger.Warnw("affiliate_meta_cache_set_failed", "affiliate_id", affiliateID, "meta_key", key, "error", err)
	}
	return fresh.Value, fresh.Exists, nil
}

// SetAffiliateMeta 覆盖写入单值元数据并失效缓存
func (s *AffiliateMetaService) SetAffiliateMeta(ctx context.Context, affiliateID uint, key, value string) error {
	key = strings.TrimSpace(key)
	if affiliateID == 0 || key == "" {
		return ErrNotFound
	}
	if err := s.repo.Upsert(affiliateID, key, value); err != nil {
		return err
	}
	s.Invalidate(ctx, affiliateID, key)
	return nil
}

// ListByAffiliate 列出推广账号全部元数据
func (s *AffiliateMetaService) ListByAffiliate(affiliateID uint) ([]models.AffiliateMeta, error) {
	if affiliateID == 0 {
		return []models.AffiliateMeta{}, nil
	}
	return s.repo.ListByAffiliate(affiliateID)
}

// Invalidate 失效缓存条目，失败仅记录日志
func (s *AffiliateMetaService) Invalidate(ctx context.Context, affiliateID uint, keys ...string) {
	if err := cache.DelAffiliateMeta(ctx, affiliateID, keys...); err != nil {
		logger.Warnw("affiliate_meta_cache_del_failed", "affiliate_id", affiliateID, "meta_keys", keys, "error", err)
	}
}
