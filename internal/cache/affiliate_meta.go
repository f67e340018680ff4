package cache

import (
	"context"
	"fmt"
	"time"
)

const defaultAffiliateMetaTTL = 5 * time.Minute

// AffiliateMetaEntry 推广账号元数据缓存条目
// Exists=false 表示数据库中没有该键（负缓存）
type AffiliateMetaEntry struct {
	Value  string `json:"value"`
	Exists bool   `json:"exists"`
}

// AffiliateMetaLookup 一次缓存读取的结果
// Generation 必须原样传回 SetAffiliateMeta，写入期间发生过变更时旧条目不会再被读到
type AffiliateMetaLookup struct {
	Entry      *AffiliateMetaEntry
	Generation int64
}

// AffiliateMetaKey 生成元数据缓存键，generation 为该推广账号的元数据版本
func AffiliateMetaKey(affiliateID uint, generation int64, metaKey string) string {
	return fmt.Sprintf("vip:meta:%d:g%d:%s", affiliateID, generation, metaKey)
}

func affiliateMetaGenerationKey(affiliateID uint) string {
	return fmt.Sprintf("vip:meta_gen:%d", affiliateID)
}

// GetAffiliateMeta 先读版本号再读条目；Entry 为 nil 表示未命中
func GetAffiliateMeta(ctx context.Context, affiliateID uint, metaKey string) (AffiliateMetaLookup, error) {
	lookup := AffiliateMetaLookup{}
	if affiliateID == 0 || metaKey == "" {
		return lookup, nil
	}
	generation, err := GetInt(ctx, affiliateMetaGenerationKey(affiliateID))
	if err != nil {
		return lookup, err
	}
	lookup.Generation = generation

	var entry AffiliateMetaEntry
	hit, err := GetJSON(ctx, AffiliateMetaKey(affiliateID, generation, metaKey), &entry)
	if err != nil || !hit {
		return lookup, err
	}
	lookup.Entry = &entry
	return lookup, nil
}

// SetAffiliateMeta 按读取时的版本写入条目，ttl<=0 时使用默认值
func SetAffiliateMeta(ctx context.Context, affiliateID uint, generation int64, metaKey string, entry AffiliateMetaEntry, ttl time.Duration) error {
	if affiliateID == 0 || metaKey == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultAffiliateMetaTTL
	}
	return SetJSON(ctx, AffiliateMetaKey(affiliateID, generation, metaKey), entry, ttl)
}

// DelAffiliateMeta 递增版本号使该推广账号的全部条目失效，并顺带删除旧版本下的指定条目
func DelAffiliateMeta(ctx context.Context, affiliateID uint, metaKeys ...string) error {
	if affiliateID == 0 {
		return nil
	}
	next, err := Incr(ctx, affiliateMetaGenerationKey(affiliateID))
	if err != nil || next == 0 {
		return err
	}
	keys := make([]string, 0, len(metaKeys))
	for _, metaKey := range metaKeys {
		if metaKey != "" {
			keys = append(keys, AffiliateMetaKey(affiliateID, next-1, metaKey))
		}
	}
	return Del(ctx, keys...)
}
