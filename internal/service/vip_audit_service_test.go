package service

import (
	"context"
	"testing"

	"github.com/vip-affiliates/internal/constants"
	"github.com/vip-affiliates/internal/queue"
	"github.com/vip-affiliates/internal/repository"
)

type recordingInvalidator struct {
	calls []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, affiliateID uint, keys ...string) {
	for _, key := range keys {
		r.calls = append(r.calls, stubMetaKey(affiliateID, key))
	}
}

func TestVIPAuditHandleMetaChanged(t *testing.T) {
	db := setupServiceTestDB(t)
	invalidator := &recordingInvalidator{}
	svc := NewVIPAuditService(repository.NewVIPAuditLogRepository(db), invalidator)

	err := svc.HandleMetaChanged(context.Background(), VIPMetaChange{
		AffiliateID:     100,
		MetaKey:         constants.MetaKeyVIPAffiliate,
		Value:           "yes",
		OperatorAdminID: 1,
		RequestID:       "req-42",
	})
	if err != nil {
		t.Fatalf("handle change failed: %v", err)
	}
	if len(invalidator.calls) != 1 || invalidator.calls[0] != stubMetaKey(100, constants.MetaKeyVIPAffiliate) {
		t.Fatalf("cache should be invalidated: %v", invalidator.calls)
	}

	logs, total, err := svc.ListForAdmin(VIPAuditListInput{Page: 1, PageSize: 20, AffiliateID: 100})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(logs) != 1 {
		t.Fatalf("expected one audit log, got total=%d", total)
	}
	entry := logs[0]
	if entry.Action != constants.VIPAuditActionMetaUpdated || entry.MetaValue != "yes" || entry.RequestID != "req-42" || entry.OperatorAdminID != 1 {
		t.Fatalf("unexpected audit log: %+v", entry)
	}
	if entry.DetailJSON["source"] != "persist_vip_selection" {
		t.Fatalf("unexpected detail: %+v", entry.DetailJSON)
	}
}

func TestVIPAuditHandleMetaChangedFillsRequestID(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewVIPAuditService(repository.NewVIPAuditLogRepository(db), nil)

	if err := svc.HandleMetaChanged(context.Background(), VIPMetaChange{AffiliateID: 7, MetaKey: "vip_affiliate", Value: "no"}); err != nil {
		t.Fatalf("handle change failed: %v", err)
	}
	if err := svc.HandleMetaChanged(context.Background(), VIPMetaChange{MetaKey: "vip_affiliate", Value: "no"}); err != nil {
		t.Fatalf("zero affiliate should be skipped: %v", err)
	}
	logs, total, err := svc.ListForAdmin(VIPAuditListInput{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("zero affiliate must not be logged, total=%d", total)
	}
	if logs[0].RequestID == "" {
		t.Fatalf("request id should be generated")
	}
}

func TestVIPMetaChangePublisherFallsBackInline(t *testing.T) {
	db := setupServiceTestDB(t)
	audit := NewVIPAuditService(repository.NewVIPAuditLogRepository(db), nil)

	disabled, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	for _, client := range []*queue.Client{nil, disabled} {
		publisher := NewVIPMetaChangePublisher(client, audit)
		if err := publisher.NotifyVIPMetaChanged(context.Background(), VIPMetaChange{AffiliateID: 3, MetaKey: "vip_affiliate", Value: "yes"}); err != nil {
			t.Fatalf("inline notify failed: %v", err)
		}
	}
	_, total, err := audit.ListForAdmin(VIPAuditListInput{AffiliateID: 3})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected two inline audit logs, got %d", total)
	}
}
