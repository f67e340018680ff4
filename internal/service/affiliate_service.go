package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vip-affiliates/internal/constants"
	"github.com/vip-affiliates/internal/hooks"
	"github.com/vip-affiliates/internal/logger"
	"github.com/vip-affiliates/internal/models"
	"github.com/vip-affiliates/internal/repository"

	"gorm.io/gorm"
)

var allowedAffiliateStatuses = map[string]struct{}{
	constants.AffiliateStatusActive:   {},
	constants.AffiliateStatusInactive: {},
	constants.AffiliateStatusPending:  {},
	constants.AffiliateStatusRejected: {},
}

// AffiliateService 推广账号业务服务
type AffiliateService struct {
	repo       repository.AffiliateRepository
	metaRepo   repository.AffiliateMetaRepository
	userRepo   repository.UserRepository
	invalidate AffiliateMetaInvalidator
	dispatcher *hooks.Dispatcher
}

// NewAffiliateService 创建推广账号服务
func NewAffiliateService(
	repo repository.AffiliateRepository,
	metaRepo repository.AffiliateMetaRepository,
	userRepo repository.UserRepository,
	invalidate AffiliateMetaInvalidator,
	dispatcher *hooks.Dispatcher,
) *AffiliateService {
	if dispatcher == nil {
		dispatcher = hooks.NewDispatcher()
	}
	return &AffiliateService{
		repo:       repo,
		metaRepo:   metaRepo,
		userRepo:   userRepo,
		invalidate: invalidate,
		dispatcher: dispatcher,
	}
}

// CreateAffiliateInput 新建推广账号输入
// Form 为表单附加字段原值，随 affwp_insert_affiliate 动作透传
type CreateAffiliateInput struct {
	UserID uint
	Status string
	Form   map[string]string
}

// UpdateAffiliateInput 更新推广账号输入
type UpdateAffiliateInput struct {
	Status *string
	Form   map[string]string
}

// AffiliateListInput 推广账号列表查询
type AffiliateListInput struct {
	Page     int
	PageSize int
	UserID   uint
	Status   string
	Keyword  string
}

// Create 新建推广账号并触发新建动作
// 动作失败时账号保留，错误原样返回
func (s *AffiliateService) Create(ctx context.Context, actor hooks.Actor, input CreateAffiliateInput) (*models.AffiliateProfile, error) {
	status, err := normalizeAffiliateStatus(input.Status)
	if err != nil {
		return nil, err
	}
	if input.UserID == 0 {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	existing, err := s.repo.GetByUserID(input.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAffiliateExists
	}

	profile := &models.AffiliateProfile{
		UserID: input.UserID,
		Status: status,
	}
	if err := s.repo.Create(profile); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAffiliateExists
		}
		return nil, err
	}
	profile.User = *user

	event := hooks.AffiliateEvent{Actor: actor, AffiliateID: profile.ID, Form: input.Form}
	if err := s.dispatcher.AffiliateInserted.Do(ctx, event); err != nil {
		return profile, err
	}
	return profile, nil
}

// Update 更新推广账号并触发更新动作
func (s *AffiliateService) Update(ctx context.Context, actor hooks.Actor, id uint, input UpdateAffiliateInput) (*models.AffiliateProfile, error) {
	profile, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	status := profile.Status
	if input.Status != nil {
		if status, err = normalizeAffiliateStatus(*input.Status); err != nil {
			return nil, err
		}
	}

	// 更新动作先于落库执行，动作失败（如缺少权限）时不写入任何字段
	event := hooks.AffiliateEvent{Actor: actor, AffiliateID: profile.ID, Form: input.Form}
	if err := s.dispatcher.AffiliateUpdated.Do(ctx, event); err != nil {
		return profile, err
	}
	if status != profile.Status {
		profile.Status = status
		if err := s.repo.Update(profile); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

// Get 获取推广账号
func (s *AffiliateService) Get(id uint) (*models.AffiliateProfile, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	profile, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}

// GetByUserID 按用户获取推广账号
func (s *AffiliateService) GetByUserID(userID uint) (*models.AffiliateProfile, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	profile, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}

// AffiliateIDForUser 用户到推广账号的映射，无账号时 found=false
func (s *AffiliateService) AffiliateIDForUser(_ context.Context, userID uint) (uint, bool, error) {
	if userID == 0 {
		return 0, false, nil
	}
	profile, err := s.repo.GetByUserID(userID)
	if err != nil {
		return 0, false, err
	}
	if profile == nil {
		return 0, false, nil
	}
	return profile.ID, true, nil
}

// List 推广账号列表
func (s *AffiliateService) List(input AffiliateListInput) ([]models.AffiliateProfile, int64, error) {
	return s.repo.List(repository.AffiliateListFilter{
		Page:     input.Page,
		PageSize: input.PageSize,
		UserID:   input.UserID,
		Status:   strings.TrimSpace(input.Status),
		Keyword:  strings.TrimSpace(input.Keyword),
	})
}

// Delete 删除推广账号及其全部元数据
func (s *AffiliateService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	metas, err := s.metaRepo.ListByAffiliate(id)
	if err != nil {
		return err
	}

	err = s.repo.Transaction(func(tx *gorm.DB) error {
		if err := s.metaRepo.WithTx(tx).DeleteByAffiliate(id); err != nil {
			return fmt.Errorf("delete affiliate meta: %w", err)
		}
		return s.repo.WithTx(tx).Delete(id)
	})
	if err != nil {
		return err
	}

	if s.invalidate != nil && len(metas) > 0 {
		keys := make([]string, 0, len(metas))
		for _, meta := range metas {
			keys = append(keys, meta.MetaKey)
		}
		s.invalidate.Invalidate(ctx, id, keys...)
	}
	logger.Infow("affiliate_deleted", "affiliate_id", id, "meta_count", len(metas))
	return nil
}

// BuildForm 生成新建/编辑表单的附加字段
func (s *AffiliateService) BuildForm(ctx context.Context, mode string, affiliateID uint) (hooks.AffiliateForm, error) {
	form := hooks.AffiliateForm{
		Mode:        mode,
		AffiliateID: affiliateID,
		Fields:      []hooks.FormField{},
	}
	if mode != hooks.FormModeEdit {
		form.Mode = hooks.FormModeNew
		form.AffiliateID = 0
	}
	return s.dispatcher.AffiliateFormFields.Apply(ctx, form)
}

func normalizeAffiliateStatus(raw string) (string, error) {
	status := strings.ToLower(strings.TrimSpace(raw))
	if status == "" {
		return constants.AffiliateStatusActive, nil
	}
	if _, ok := allowedAffiliateStatuses[status]; !ok {
		return "", ErrInvalidAffiliateStatus
	}
	return status, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
