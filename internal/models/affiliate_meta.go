package models

import "time"

// AffiliateMeta 推广账号元数据（单值模式：同一账号同一键只有一条记录）
type AffiliateMeta struct {
	ID uint `gorm:"primarykey" json:"id"`
	// AffiliateID 与 MetaKey 组成唯一索引
	AffiliateID uint      `gorm:"not null;uniqueIndex:idx_affiliate_meta_key,priority:1" json:"affiliate_id"`
	MetaKey     string    `gorm:"type:varchar(191);not null;uniqueIndex:idx_affiliate_meta_key,priority:2" json:"meta_key"`
	MetaValue   string    `gorm:"type:text;not null;default:''" json:"meta_value"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"index" json:"updated_at"`
}

// TableName 指定表名
func (AffiliateMeta) TableName() string {
	return "affiliate_meta"
}
