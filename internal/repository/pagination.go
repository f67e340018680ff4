package repository

import "gorm.io/gorm"

// maxListPageSize 单页最多返回条数，避免后台列表一次拉全表
const maxListPageSize = 200

// paginate 返回分页 scope；pageSize<=0 表示不分页
func paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if pageSize > maxListPageSize {
			pageSize = maxListPageSize
		}
		if page < 1 {
			page = 1
		}
		return db.Limit(pageSize).Offset((page - 1) * pageSize)
	}
}
