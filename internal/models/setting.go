package models

import "time"

// Setting 设置分组，一行对应一个设置键（如 affwp_vip_affiliates、affwp_general）
// 分组内字段以 JSON 整体存储，新增字段不需要迁移
type Setting struct {
	Key       string    `gorm:"primarykey;size:64" json:"key"`
	ValueJSON JSON      `gorm:"type:json" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}
