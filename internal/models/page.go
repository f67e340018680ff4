package models

import (
	"time"

	"gorm.io/gorm"
)

// Page 内容页面，正文中可包含短代码
type Page struct {
	ID          uint           `gorm:"primarykey" json:"id"`                    // 主键
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`        // 唯一标识
	Title       string         `gorm:"type:varchar(255);not null" json:"title"` // 标题
	Content     string         `gorm:"type:text" json:"content"`                // 正文（原始内容，未展开短代码）
	IsPublished bool           `gorm:"default:false;index" json:"is_published"` // 是否发布
	PublishedAt *time.Time     `gorm:"index" json:"published_at"`               // 发布时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                 // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                 // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                          // 软删除时间
}

// TableName 指定表名
func (Page) TableName() string {
	return "pages"
}
