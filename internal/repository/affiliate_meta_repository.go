package repository

import (
	"errors"
	"time"

	"github.com/vip-affiliates/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AffiliateMetaRepository 推广账号元数据访问接口
type AffiliateMetaRepository interface {
	WithTx(tx *gorm.DB) AffiliateMetaRepository

	Get(affiliateID uint, key string) (*models.AffiliateMeta, error)
	Upsert(affiliateID uint, key, value string) error
	Delete(affiliateID uint, key string) error
	DeleteByAffiliate(affiliateID uint) error
	ListByAffiliate(affiliateID uint) ([]models.AffiliateMeta, error)
}

// GormAffiliateMetaRepository GORM 实现
type GormAffiliateMetaRepository struct {
	db *gorm.DB
}

// NewAffiliateMetaRepository 创建元数据仓库
func NewAffiliateMetaRepository(db *gorm.DB) *GormAffiliateMetaRepository {
	return &GormAffiliateMetaRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAffiliateMetaRepository) WithTx(tx *gorm.DB) AffiliateMetaRepository {
	if tx == nil {
		return r
	}
	return &GormAffiliateMetaRepository{db: tx}
}

// Get 获取单个元数据，不存在时返回 nil
func (r *GormAffiliateMetaRepository) Get(affiliateID uint, key string) (*models.AffiliateMeta, error) {
	if affiliateID == 0 || key == "" {
		return nil, nil
	}
	var meta models.AffiliateMeta
	err := r.db.Where("affiliate_id = ? AND meta_key = ?", affiliateID, key).First(&meta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meta, nil
}

// Upsert 写入元数据，已存在则覆盖值（同值重复写入结果不变）
func (r *GormAffiliateMetaRepository) Upsert(affiliateID uint, key, value string) error {
	if affiliateID == 0 || key == "" {
		return nil
	}
	now := time.Now()
	meta := models.AffiliateMeta{
		AffiliateID: affiliateID,
		MetaKey:     key,
		MetaValue:   value,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "affiliate_id"}, {Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value", "updated_at"}),
	}).Create(&meta).Error
}

// Delete 删除单个元数据
func (r *GormAffiliateMetaRepository) Delete(affiliateID uint, key string) error {
	if affiliateID == 0 || key == "" {
		return nil
	}
	return r.db.Where("affiliate_id = ? AND meta_key = ?", affiliateID, key).Delete(&models.AffiliateMeta{}).Error
}

// DeleteByAffiliate 删除推广账号的全部元数据
func (r *GormAffiliateMetaRepository) DeleteByAffiliate(affiliateID uint) error {
	if affiliateID == 0 {
		return nil
	}
	return r.db.Where("affiliate_id = ?", affiliateID).Delete(&models.AffiliateMeta{}).Error
}

// ListByAffiliate 列出推广账号的全部元数据
func (r *GormAffiliateMetaRepository) ListByAffiliate(affiliateID uint) ([]models.AffiliateMeta, error) {
	metas := make([]models.AffiliateMeta, 0)
	if affiliateID == 0 {
		return metas, nil
	}
	if err := r.db.Where("affiliate_id = ?", affiliateID).Order("meta_key ASC").Find(&metas).Error; err != nil {
		return nil, err
	}
	return metas, nil
}
