package repository

import (
	"github.com/vip-affiliates/internal/models"

	"gorm.io/gorm"
)

// VIPAuditLogRepository VIP 审计日志数据访问接口
type VIPAuditLogRepository interface {
	Create(log *models.VIPAuditLog) error
	ListAdmin(filter VIPAuditLogListFilter) ([]models.VIPAuditLog, int64, error)
}

// GormVIPAuditLogRepository GORM 实现
type GormVIPAuditLogRepository struct {
	db *gorm.DB
}

// NewVIPAuditLogRepository 创建 VIP 审计日志仓库
func NewVIPAuditLogRepository(db *gorm.DB) *GormVIPAuditLogRepository {
	return &GormVIPAuditLogRepository{db: db}
}

// Create 创建审计日志
func (r *GormVIPAuditLogRepository) Create(log *models.VIPAuditLog) error {
	if log == nil {
		return nil
	}
	return r.db.Create(log).Error
}

// ListAdmin 管理端查询审计日志
func (r *GormVIPAuditLogRepository) ListAdmin(filter VIPAuditLogListFilter) ([]models.VIPAuditLog, int64, error) {
	query := r.db.Model(&models.VIPAuditLog{})
	if filter.AffiliateID != 0 {
		query = query.Where("affiliate_id = ?", filter.AffiliateID)
	}
	if filter.OperatorAdminID != 0 {
		query = query.Where("operator_admin_id = ?", filter.OperatorAdminID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	query = applyCreatedRange(query, filter.CreatedFrom, filter.CreatedTo)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = query.Scopes(paginate(filter.Page, filter.PageSize))

	logs := make([]models.VIPAuditLog, 0)
	if err := query.Order("id DESC").Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
