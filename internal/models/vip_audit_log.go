package models

import "time"

// VIPAuditLog VIP 标记变更审计日志
// 说明：每次后台写入 VIP 元数据后由异步任务落库。
type VIPAuditLog struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	AffiliateID     uint      `gorm:"index;not null" json:"affiliate_id"`
	OperatorAdminID uint      `gorm:"index;not null;default:0" json:"operator_admin_id"`
	Action          string    `gorm:"type:varchar(50);index;not null" json:"action"`
	MetaKey         string    `gorm:"type:varchar(191);not null" json:"meta_key"`
	MetaValue       string    `gorm:"type:text;not null;default:''" json:"meta_value"`
	RequestID       string    `gorm:"type:varchar(64);index;not null;default:''" json:"request_id"`
	DetailJSON      JSON      `gorm:"type:json" json:"detail"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (VIPAuditLog) TableName() string {
	return "vip_audit_logs"
}
