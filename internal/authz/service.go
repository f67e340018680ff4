package authz

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

// Service 基于 Casbin 的后台授权，路由策略与能力策略共用同一张 casbin_rule 表
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务并加载已有策略
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("authz db is nil")
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

func (s *Service) ready() error {
	if s == nil || s.enforcer == nil {
		return errUnavailable
	}
	return nil
}

// EnforceAdmin 判定管理员对路由的访问，obj 可带 /api/v1 前缀
func (s *Service) EnforceAdmin(adminID uint, obj, act string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	return s.enforcer.Enforce(SubjectForAdmin(adminID), NormalizeObject(obj), NormalizeAction(act))
}

// HasCapability 判定管理员是否持有能力（例如 manage_affiliates）
// 能力只认 USE 动作，/admin/* 之类的路由通配不会命中 /capabilities/ 对象
func (s *Service) HasCapability(adminID uint, capability string) (bool, error) {
	if adminID == 0 {
		return false, nil
	}
	object, err := CapabilityObject(capability)
	if err != nil {
		return false, err
	}
	return s.EnforceAdmin(adminID, object, ActionUseCapability)
}

// GrantRoleCapability 为角色授予能力
func (s *Service) GrantRoleCapability(role, capability string) error {
	object, err := CapabilityObject(capability)
	if err != nil {
		return err
	}
	return s.GrantRolePolicy(role, object, ActionUseCapability)
}

// RevokeRoleCapability 撤销角色能力
func (s *Service) RevokeRoleCapability(role, capability string) error {
	object, err := CapabilityObject(capability)
	if err != nil {
		return err
	}
	return s.RevokeRolePolicy(role, object, ActionUseCapability)
}

// GetAdminRoles 管理员直接与继承得到的可见角色，按名称排序
func (s *Service) GetAdminRoles(adminID uint) ([]string, error) {
	if adminID == 0 {
		return nil, fmt.Errorf("admin id is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	roles, err := s.enforcer.GetRolesForUser(SubjectForAdmin(adminID))
	if err != nil {
		return nil, fmt.Errorf("get admin roles failed: %w", err)
	}
	return sortedVisibleRoles(roles), nil
}

// SetAdminRoles 覆盖管理员角色，roles 为空即清空
func (s *Service) SetAdminRoles(adminID uint, roles []string) error {
	if adminID == 0 {
		return fmt.Errorf("admin id is required")
	}
	if err := s.ready(); err != nil {
		return err
	}
	subject := SubjectForAdmin(adminID)
	if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", 0, subject); err != nil {
		return fmt.Errorf("clear admin roles failed: %w", err)
	}
	for _, role := range roles {
		if strings.TrimSpace(role) == "" {
			continue
		}
		normalized, err := s.EnsureRole(role)
		if err != nil {
			return err
		}
		if _, err := s.enforcer.AddNamedGroupingPolicy("g", subject, normalized); err != nil {
			return fmt.Errorf("assign admin role failed: %w", err)
		}
	}
	return nil
}
