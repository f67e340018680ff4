package repository

import (
	"strings"

	"github.com/vip-affiliates/internal/models"

	"gorm.io/gorm"
)

// AffiliateRepository 推广账号数据访问接口
type AffiliateRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) AffiliateRepository

	GetByID(id uint) (*models.AffiliateProfile, error)
	GetByUserID(userID uint) (*models.AffiliateProfile, error)
	Create(profile *models.AffiliateProfile) error
	Update(profile *models.AffiliateProfile) error
	Delete(id uint) error
	List(filter AffiliateListFilter) ([]models.AffiliateProfile, int64, error)
}

// GormAffiliateRepository GORM 推广账号仓储
type GormAffiliateRepository struct {
	db *gorm.DB
}

// NewAffiliateRepository 创建推广账号仓储
func NewAffiliateRepository(db *gorm.DB) *GormAffiliateRepository {
	return &GormAffiliateRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAffiliateRepository) WithTx(tx *gorm.DB) AffiliateRepository {
	if tx == nil {
		return r
	}
	return &GormAffiliateRepository{db: tx}
}

// Transaction 执行事务
func (r *GormAffiliateRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID 按ID获取推广账号
func (r *GormAffiliateRepository) GetByID(id uint) (*models.AffiliateProfile, error) {
	if id == 0 {
		return nil, nil
	}
	return firstOrNil[models.AffiliateProfile](r.db.Preload("User"), id)
}

// GetByUserID 按用户ID获取推广账号
func (r *GormAffiliateRepository) GetByUserID(userID uint) (*models.AffiliateProfile, error) {
	if userID == 0 {
		return nil, nil
	}
	return firstOrNil[models.AffiliateProfile](r.db.Where("user_id = ?", userID))
}

// Create 创建推广账号
func (r *GormAffiliateRepository) Create(profile *models.AffiliateProfile) error {
	return r.db.Omit("User").Create(profile).Error
}

// Update 更新推广账号
func (r *GormAffiliateRepository) Update(profile *models.AffiliateProfile) error {
	return r.db.Omit("User").Save(profile).Error
}

// Delete 删除推广账号
func (r *GormAffiliateRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.AffiliateProfile{}, id).Error
}

// List 推广账号列表
func (r *GormAffiliateRepository) List(filter AffiliateListFilter) ([]models.AffiliateProfile, int64, error) {
	query := r.db.Model(&models.AffiliateProfile{})
	if filter.UserID != 0 {
		query = query.Where("affiliate_profiles.user_id = ?", filter.UserID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("affiliate_profiles.status = ?", status)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		query = query.Joins("JOIN users ON users.id = affiliate_profiles.user_id").
			Scopes(keywordMatch(keyword, "users.email", "users.display_name"))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Scopes(paginate(filter.Page, filter.PageSize))

	profiles := make([]models.AffiliateProfile, 0)
	if err := query.Preload("User").Order("affiliate_profiles.id DESC").Find(&profiles).Error; err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}
