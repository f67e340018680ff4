package repository

import (
	"github.com/vip-affiliates/internal/models"

	"gorm.io/gorm"
)

// PageRepository 页面数据访问接口
type PageRepository interface {
	List(filter PageListFilter) ([]models.Page, int64, error)
	GetBySlug(slug string, onlyPublished bool) (*models.Page, error)
	GetByID(id uint) (*models.Page, error)
	Create(page *models.Page) error
	Update(page *models.Page) error
	Delete(id uint) error
	CountBySlug(slug string, excludeID *uint) (int64, error)
}

// GormPageRepository GORM 实现
type GormPageRepository struct {
	db *gorm.DB
}

// NewPageRepository 创建页面仓库
func NewPageRepository(db *gorm.DB) *GormPageRepository {
	return &GormPageRepository{db: db}
}

// List 页面列表
func (r *GormPageRepository) List(filter PageListFilter) ([]models.Page, int64, error) {
	var pages []models.Page
	query := r.db.Model(&models.Page{})

	if filter.OnlyPublished {
		query = query.Where("is_published = ?", true)
	}
	query = query.Scopes(keywordMatch(filter.Search, "slug", "title"))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Scopes(paginate(filter.Page, filter.PageSize))

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at DESC"
	}

	if err := query.Order(orderBy).Find(&pages).Error; err != nil {
		return nil, 0, err
	}
	return pages, total, nil
}

// GetBySlug 根据 slug 获取页面
func (r *GormPageRepository) GetBySlug(slug string, onlyPublished bool) (*models.Page, error) {
	query := r.db.Where("slug = ?", slug)
	if onlyPublished {
		query = query.Where("is_published = ?", true)
	}
	return firstOrNil[models.Page](query)
}

// GetByID 根据 ID 获取页面
func (r *GormPageRepository) GetByID(id uint) (*models.Page, error) {
	if id == 0 {
		return nil, nil
	}
	return firstOrNil[models.Page](r.db, id)
}

// Create 创建页面
func (r *GormPageRepository) Create(page *models.Page) error {
	return r.db.Create(page).Error
}

// Update 更新页面
func (r *GormPageRepository) Update(page *models.Page) error {
	return r.db.Save(page).Error
}

// Delete 删除页面
func (r *GormPageRepository) Delete(id uint) error {
	return r.db.Delete(&models.Page{}, id).Error
}

// CountBySlug 统计 slug 数量
func (r *GormPageRepository) CountBySlug(slug string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Page{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
