//go:build integration
// +build integration

package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// setupRedisIntegration 连接 TEST_REDIS_ADDR 指定的 Redis，使用独立前缀
func setupRedisIntegration(t *testing.T) {
	t.Helper()
	addr := strings.TrimSpace(os.Getenv("TEST_REDIS_ADDR"))
	if addr == "" {
		t.Skip("skip redis integration test: TEST_REDIS_ADDR is empty")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping redis failed: %v", err)
	}
	prefix := "vipaff_it_" + strings.ReplaceAll(t.Name(), "/", "_") + "_" + time.Now().Format("150405.000000")
	global.swap(client, prefix)
	t.Cleanup(func() {
		_ = Close()
	})
}

func TestAffiliateMetaStaleWriteBackIsUnreachable(t *testing.T) {
	setupRedisIntegration(t)
	ctx := context.Background()

	// 读者未命中，记下版本号后去读库
	before, err := GetAffiliateMeta(ctx, 7, "affiliate_vip")
	if err != nil || before.Entry != nil {
		t.Fatalf("expected initial miss, got %+v err=%v", before, err)
	}

	// 并发写入完成并失效
	if err := DelAffiliateMeta(ctx, 7, "affiliate_vip"); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}

	// 读者带着旧值回写
	stale := AffiliateMetaEntry{Exists: false}
	if err := SetAffiliateMeta(ctx, 7, before.Generation, "affiliate_vip", stale, time.Minute); err != nil {
		t.Fatalf("stale write back failed: %v", err)
	}

	after, err := GetAffiliateMeta(ctx, 7, "affiliate_vip")
	if err != nil {
		t.Fatalf("get after write failed: %v", err)
	}
	if after.Entry != nil {
		t.Fatalf("stale entry must not be served, got %+v", after)
	}
	if after.Generation != before.Generation+1 {
		t.Fatalf("generation want %d got %d", before.Generation+1, after.Generation)
	}

	fresh := AffiliateMetaEntry{Value: "yes", Exists: true}
	if err := SetAffiliateMeta(ctx, 7, after.Generation, "affiliate_vip", fresh, time.Minute); err != nil {
		t.Fatalf("fresh write failed: %v", err)
	}
	hit, err := GetAffiliateMeta(ctx, 7, "affiliate_vip")
	if err != nil || hit.Entry == nil || hit.Entry.Value != "yes" {
		t.Fatalf("fresh entry should be served, got %+v err=%v", hit, err)
	}
}
