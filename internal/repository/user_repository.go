package repository

import (
	"strings"
	"time"

	"github.com/vip-affiliates/internal/constants"
	"github.com/vip-affiliates/internal/models"

	"gorm.io/gorm"
)

// UserRepository 前台用户（推广员账号的登录主体）数据访问接口
type UserRepository interface {
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	Create(user *models.User) error
	SetStatus(id uint, status string) error
	TouchLastLogin(id uint, at time.Time) error
	List(filter UserListFilter) ([]models.User, int64, error)
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// GetByEmail 邮箱按小写比较
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	return firstOrNil[models.User](r.db.Where("email = ?", email))
}

func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, nil
	}
	return firstOrNil[models.User](r.db, id)
}

func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// SetStatus 变更账号状态；停用时递增 token_version 使已签发令牌失效
func (r *GormUserRepository) SetStatus(id uint, status string) error {
	updates := map[string]interface{}{"status": status}
	if status != constants.UserStatusActive {
		updates["token_version"] = gorm.Expr("token_version + 1")
	}
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
}

func (r *GormUserRepository) TouchLastLogin(id uint, at time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("last_login_at", at).Error
}

// List 后台用户列表，关键字匹配邮箱与昵称
func (r *GormUserRepository) List(filter UserListFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})
	query = query.Scopes(keywordMatch(filter.Keyword, "email", "display_name"))
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	query = applyCreatedRange(query, filter.CreatedFrom, filter.CreatedTo)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	users := make([]models.User, 0)
	if err := query.Scopes(paginate(filter.Page, filter.PageSize)).Order("id DESC").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
