package queue

import (
	"encoding/json"

	"github.com/vip-affiliates/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskAffiliateVIPMetaChanged VIP 元数据变更后续处理任务
	TaskAffiliateVIPMetaChanged = constants.TaskAffiliateVIPMetaSync
)

// AffiliateVIPMetaChangedPayload VIP 元数据变更任务载荷
type AffiliateVIPMetaChangedPayload struct {
	AffiliateID     uint   `json:"affiliate_id"`
	MetaKey         string `json:"meta_key"`
	Value           string `json:"value"`
	OperatorAdminID uint   `json:"operator_admin_id"`
	RequestID       string `json:"request_id"`
}

// NewAffiliateVIPMetaChangedTask 创建 VIP 元数据变更任务
func NewAffiliateVIPMetaChangedTask(payload AffiliateVIPMetaChangedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAffiliateVIPMetaChanged, body), nil
}

// ParseAffiliateVIPMetaChangedPayload 解析任务载荷
func ParseAffiliateVIPMetaChangedPayload(body []byte) (AffiliateVIPMetaChangedPayload, error) {
	var payload AffiliateVIPMetaChangedPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return payload, err
	}
	return payload, nil
}
