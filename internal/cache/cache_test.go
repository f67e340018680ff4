package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func disableCache(t *testing.T) {
	t.Helper()
	global.swap(nil, defaultKeyPrefix)
}

func TestAffiliateMetaKey(t *testing.T) {
	if got := AffiliateMetaKey(42, 3, "affiliate_vip"); got != "vip:meta:42:g3:affiliate_vip" {
		t.Fatalf("unexpected meta key: %s", got)
	}
	if got := affiliateMetaGenerationKey(42); got != "vip:meta_gen:42" {
		t.Fatalf("unexpected generation key: %s", got)
	}
}

func TestDisabledCacheIsNoop(t *testing.T) {
	disableCache(t)
	ctx := context.Background()

	if Enabled() || Client() != nil {
		t.Fatalf("cache should be disabled")
	}
	if err := SetAffiliateMeta(ctx, 1, 0, "affiliate_vip", AffiliateMetaEntry{Value: "yes", Exists: true}, time.Minute); err != nil {
		t.Fatalf("set on disabled cache should be noop, got %v", err)
	}
	lookup, err := GetAffiliateMeta(ctx, 1, "affiliate_vip")
	if err != nil {
		t.Fatalf("get on disabled cache failed: %v", err)
	}
	if lookup.Entry != nil || lookup.Generation != 0 {
		t.Fatalf("disabled cache should always miss, got %+v", lookup)
	}
	if n, err := Incr(ctx, "counter"); err != nil || n != 0 {
		t.Fatalf("incr on disabled cache should be noop, got %d %v", n, err)
	}
	if err := DelAffiliateMeta(ctx, 1, "affiliate_vip", "vip_affiliate"); err != nil {
		t.Fatalf("del on disabled cache failed: %v", err)
	}
	if err := Ping(ctx); err != nil {
		t.Fatalf("ping on disabled cache failed: %v", err)
	}
	if err := Close(); err != nil {
		t.Fatalf("close on disabled cache failed: %v", err)
	}
}

func TestJoinKey(t *testing.T) {
	cases := []struct {
		prefix string
		key    string
		want   string
	}{
		{prefix: "vipaff", key: " vip:meta:1:affiliate_vip ", want: "vipaff:vip:meta:1:affiliate_vip"},
		{prefix: "vipaff", key: "", want: "vipaff"},
		{prefix: "site", key: "auth:user:3", want: "site:auth:user:3"},
	}
	for _, tc := range cases {
		if got := joinKey(tc.prefix, tc.key); got != tc.want {
			t.Fatalf("joinKey(%q, %q) want %s got %s", tc.prefix, tc.key, tc.want, got)
		}
	}
}

func TestLoadAuthStateFallsBackToLoader(t *testing.T) {
	disableCache(t)
	ctx := context.Background()

	calls := 0
	state, err := LoadAuthState(ctx, SubjectUser, 7, func() (*AuthState, error) {
		calls++
		return &AuthState{ID: 7, Status: "active", TokenVersion: 2}, nil
	})
	if err != nil {
		t.Fatalf("load auth state failed: %v", err)
	}
	if calls != 1 || state == nil || state.TokenVersion != 2 {
		t.Fatalf("unexpected load result calls=%d state=%+v", calls, state)
	}

	missing, err := LoadAuthState(ctx, SubjectAdmin, 8, func() (*AuthState, error) { return nil, nil })
	if err != nil || missing != nil {
		t.Fatalf("missing account should yield nil state, got %+v err=%v", missing, err)
	}

	boom := errors.New("db down")
	if _, err := LoadAuthState(ctx, SubjectAdmin, 9, func() (*AuthState, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("loader error should propagate, got %v", err)
	}

	zero, err := LoadAuthState(ctx, SubjectAdmin, 0, func() (*AuthState, error) {
		t.Fatalf("loader should not run for zero id")
		return nil, nil
	})
	if err != nil || zero != nil {
		t.Fatalf("zero id should yield nil, got %+v err=%v", zero, err)
	}
}

func TestAuthStateSnapshots(t *testing.T) {
	if AdminState(nil) != nil || UserState(nil) != nil {
		t.Fatalf("nil accounts should yield nil snapshots")
	}
	if key := authStateKey(SubjectUser, 5); key != "auth:user:5" {
		t.Fatalf("unexpected auth state key %s", key)
	}
}
