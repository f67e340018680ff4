package models

import "time"

// AffiliateProfile 推广账号
// 每个用户至多一个推广账号；删除为物理删除，元数据随之清理
type AffiliateProfile struct {
	ID        uint      `gorm:"primarykey" json:"id"`                          // 主键
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`           // 用户ID
	Status    string    `gorm:"type:varchar(20);not null;index" json:"status"` // 状态
	CreatedAt time.Time `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                       // 更新时间

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 用户信息
}

// TableName 指定表名
func (AffiliateProfile) TableName() string {
	return "affiliate_profiles"
}
