package hooks

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func appendFilter(suffix string) Filter[string] {
	return func(ctx context.Context, value string) (string, error) {
		return value + suffix, nil
	}
}

func TestFilterChainOrdersByPriorityThenRegistration(t *testing.T) {
	var chain FilterChain[string]
	mustAdd(t, chain.Add("late", 20, appendFilter("-late")))
	mustAdd(t, chain.Add("first", 10, appendFilter("-first")))
	mustAdd(t, chain.Add("second", 10, appendFilter("-second")))
	mustAdd(t, chain.Add("early", 1, appendFilter("-early")))

	got, err := chain.Apply(context.Background(), "x")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if got != "x-early-first-second-late" {
		t.Fatalf("unexpected filter order: %s", got)
	}
	wantNames := []string{"early", "first", "second", "late"}
	if names := chain.Names(); !reflect.DeepEqual(names, wantNames) {
		t.Fatalf("names want %v got %v", wantNames, names)
	}
}

func TestFilterChainSameNameReplaces(t *testing.T) {
	var chain FilterChain[string]
	mustAdd(t, chain.Add("a", 10, appendFilter("-a1")))
	mustAdd(t, chain.Add("b", 10, appendFilter("-b")))
	mustAdd(t, chain.Add("a", 10, appendFilter("-a2")))

	got, err := chain.Apply(context.Background(), "x")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if got != "x-a2-b" {
		t.Fatalf("replacement should keep registration slot, got %s", got)
	}
	if chain.Len() != 2 {
		t.Fatalf("expected 2 filters after replace, got %d", chain.Len())
	}
}

func TestFilterChainEmptyIsIdentity(t *testing.T) {
	var chain FilterChain[string]
	got, err := chain.Apply(context.Background(), "secret")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if got != "secret" {
		t.Fatalf("empty chain should be identity, got %s", got)
	}
}

func TestFilterChainErrorReturnsLastGoodValue(t *testing.T) {
	boom := errors.New("boom")
	var chain FilterChain[string]
	mustAdd(t, chain.Add("ok", 1, appendFilter("-ok")))
	mustAdd(t, chain.Add("bad", 2, func(ctx context.Context, value string) (string, error) {
		return "ignored", boom
	}))
	mustAdd(t, chain.Add("never", 3, appendFilter("-never")))

	got, err := chain.Apply(context.Background(), "x")
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom error, got %v", err)
	}
	if !strings.Contains(err.Error(), "bad") {
		t.Fatalf("error should name failing filter, got %v", err)
	}
	if got != "x-ok" {
		t.Fatalf("expected last good value, got %s", got)
	}
}

func TestFilterChainRejectsInvalidRegistration(t *testing.T) {
	var chain FilterChain[string]
	if err := chain.Add("  ", 1, appendFilter("x")); !errors.Is(err, ErrEmptyCallbackName) {
		t.Fatalf("expected empty name error, got %v", err)
	}
	if err := chain.Add("nil", 1, nil); !errors.Is(err, ErrNilCallback) {
		t.Fatalf("expected nil callback error, got %v", err)
	}
}

func TestFilterChainRemove(t *testing.T) {
	var chain FilterChain[string]
	mustAdd(t, chain.Add("a", 1, appendFilter("-a")))
	if !chain.Remove("a") {
		t.Fatalf("expected remove to report true")
	}
	if chain.Remove("a") {
		t.Fatalf("second remove should report false")
	}
	if chain.Len() != 0 {
		t.Fatalf("expected empty chain")
	}
}

func TestActionChainStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	var chain ActionChain[AffiliateEvent]
	calls := make([]string, 0)
	mustAdd(t, chain.Add("one", 1, func(ctx context.Context, payload AffiliateEvent) error {
		calls = append(calls, "one")
		return nil
	}))
	mustAdd(t, chain.Add("two", 2, func(ctx context.Context, payload AffiliateEvent) error {
		calls = append(calls, "two")
		return boom
	}))
	mustAdd(t, chain.Add("three", 3, func(ctx context.Context, payload AffiliateEvent) error {
		calls = append(calls, "three")
		return nil
	}))

	err := chain.Do(context.Background(), AffiliateEvent{AffiliateID: 1})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if !reflect.DeepEqual(calls, []string{"one", "two"}) {
		t.Fatalf("unexpected call sequence: %v", calls)
	}
}

func TestActionChainHonorsCancelledContext(t *testing.T) {
	var chain ActionChain[AffiliateEvent]
	called := false
	mustAdd(t, chain.Add("one", 1, func(ctx context.Context, payload AffiliateEvent) error {
		called = true
		return nil
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := chain.Do(ctx, AffiliateEvent{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	if called {
		t.Fatalf("action should not run on cancelled context")
	}
}

func mustAdd(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("register callback failed: %v", err)
	}
}
