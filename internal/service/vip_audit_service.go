package service

import (
	"context"
	"strings"
	"time"

	"github.com/vip-affiliates/internal/constants"
	"github.com/vip-affiliates/internal/logger"
	"github.com/vip-affiliates/internal/models"
	"github.com/vip-affiliates/internal/queue"
	"github.com/vip-affiliates/internal/repository"

	"github.com/google/uuid"
)

// AffiliateMetaInvalidator 元数据缓存失效
type AffiliateMetaInvalidator interface {
	Invalidate(ctx context.Context, affiliateID uint, keys ...string)
}

// VIPAuditService VIP 元数据变更的后续处理与审计查询
type VIPAuditService struct {
	repo       repository.VIPAuditLogRepository
	invalidate AffiliateMetaInvalidator
}

// NewVIPAuditService 创建审计服务
func NewVIPAuditService(repo repository.VIPAuditLogRepository, invalidate AffiliateMetaInvalidator) *VIPAuditService {
	return &VIPAuditService{repo: repo, invalidate: invalidate}
}

// VIPAuditListInput 审计日志查询条件
type VIPAuditListInput struct {
	Page            int
	PageSize        int
	AffiliateID     uint
	OperatorAdminID uint
	Action          string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}

// HandleMetaChanged 失效缓存并记录审计日志
func (s *VIPAuditService) HandleMetaChanged(ctx context.Context, change VIPMetaChange) error {
	if change.AffiliateID == 0 {
		return nil
	}
	if s.invalidate != nil {
		s.invalidate.Invalidate(ctx, change.AffiliateID, change.MetaKey)
	}

	requestID := strings.TrimSpace(change.RequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	entry := &models.VIPAuditLog{
		AffiliateID:     change.AffiliateID,
		OperatorAdminID: change.OperatorAdminID,
		Action:          constants.VIPAuditActionMetaUpdated,
		MetaKey:         change.MetaKey,
		MetaValue:       change.Value,
		RequestID:       requestID,
		DetailJSON: models.JSON{
			"source": "persist_vip_selection",
		},
	}
	if err := s.repo.Create(entry); err != nil {
		logger.Warnw("vip_audit_log_create_failed", "affiliate_id", change.AffiliateID, "request_id", requestID, "error", err)
		return err
	}
	return nil
}

// ListForAdmin 后台审计日志列表
func (s *VIPAuditService) ListForAdmin(input VIPAuditListInput) ([]models.VIPAuditLog, int64, error) {
	return s.repo.ListAdmin(repository.VIPAuditLogListFilter{
		Page:            input.Page,
		PageSize:        input.PageSize,
		AffiliateID:     input.AffiliateID,
		OperatorAdminID: input.OperatorAdminID,
		Action:          strings.TrimSpace(input.Action),
		CreatedFrom:     input.CreatedFrom,
		CreatedTo:       input.CreatedTo,
	})
}

// VIPMetaChangePublisher 将变更推送到异步队列，队列不可用时同步处理
type VIPMetaChangePublisher struct {
	queue  *queue.Client
	inline *VIPAuditService
}

// NewVIPMetaChangePublisher 创建变更发布器
func NewVIPMetaChangePublisher(queueClient *queue.Client, inline *VIPAuditService) *VIPMetaChangePublisher {
	return &VIPMetaChangePublisher{queue: queueClient, inline: inline}
}

// NotifyVIPMetaChanged 发布变更
func (p *VIPMetaChangePublisher) NotifyVIPMetaChanged(ctx context.Context, change VIPMetaChange) error {
	if p.queue.Enabled() {
		err := p.queue.EnqueueVIPMetaChanged(ctx, queue.AffiliateVIPMetaChangedPayload{
			AffiliateID:     change.AffiliateID,
			MetaKey:         change.MetaKey,
			Value:           change.Value,
			OperatorAdminID: change.OperatorAdminID,
			RequestID:       change.RequestID,
		})
		if err == nil {
			return nil
		}
		logger.Warnw("vip_meta_change_enqueue_failed", "affiliate_id", change.AffiliateID, "error", err)
	}
	if p.inline == nil {
		return nil
	}
	return p.inline.HandleMetaChanged(ctx, change)
}
