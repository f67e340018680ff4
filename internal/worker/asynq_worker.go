package worker

import (
	"context"

	"github.com/vip-affiliates/internal/logger"
	"github.com/vip-affiliates/internal/provider"
	"github.com/vip-affiliates/internal/queue"
	"github.com/vip-affiliates/internal/service"

	"github.com/hibiken/asynq"
)

type vipMetaChangeHandler interface {
	HandleMetaChanged(ctx context.Context, change service.VIPMetaChange) error
}

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
	vipChanges vipMetaChangeHandler
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	consumer := &Consumer{
		Container: c,
	}
	if c != nil && c.VIPAuditService != nil {
		consumer.vipChanges = c.VIPAuditService
	}
	return consumer
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskAffiliateVIPMetaChanged, c.handleAffiliateVIPMetaChanged)
}

func (c *Consumer) handleAffiliateVIPMetaChanged(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_vip_meta_changed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseAffiliateVIPMetaChangedPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_vip_meta_changed_unmarshal_failed", "error", err)
		return err
	}
	if payload.AffiliateID == 0 {
		logger.Debugw("worker_vip_meta_changed_skip_invalid_payload", "affiliate_id", payload.AffiliateID)
		return nil
	}
	if c.vipChanges == nil {
		logger.Warnw("worker_vip_meta_changed_skip_handler_nil", "affiliate_id", payload.AffiliateID)
		return nil
	}
	change := service.VIPMetaChange{
		AffiliateID:     payload.AffiliateID,
		MetaKey:         payload.MetaKey,
		Value:           payload.Value,
		OperatorAdminID: payload.OperatorAdminID,
		RequestID:       payload.RequestID,
	}
	if err := c.vipChanges.HandleMetaChanged(ctx, change); err != nil {
		logger.Warnw("worker_vip_meta_changed_failed",
			"affiliate_id", payload.AffiliateID,
			"meta_key", payload.MetaKey,
			"request_id", payload.RequestID,
			"error", err,
		)
		return err
	}
	return nil
}
