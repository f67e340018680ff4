package authz

import (
	"fmt"

	"github.com/vip-affiliates/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 预置角色：只读审计、推广账号管理、内容编辑
// content_editor 可以保存 VIP 开关，但不持有 manage_affiliates，无法写推广员 VIP 标记
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role:     "readonly_auditor",
			Policies: []Policy{{Object: "/admin/*", Action: "GET"}},
		},
		{
			Role:     "affiliate_manager",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/affiliates", Action: "*"},
				{Object: "/admin/affiliates/:id", Action: "*"},
				{Object: "/admin/affiliates/:id/vip", Action: "PUT"},
				{Object: "/admin/users/:id/status", Action: "PUT"},
				{Object: capabilityPrefix + constants.CapabilityManageAffiliates, Action: ActionUseCapability},
			},
		},
		{
			Role:     "content_editor",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/pages", Action: "*"},
				{Object: "/admin/pages/:id", Action: "*"},
				{Object: "/admin/settings/vip", Action: "PUT"},
			},
		},
	}
}

// BootstrapBuiltinRoles 幂等写入预置角色，已存在的规则不会重复添加
// 管理员后续对预置角色增删的策略不会被还原
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, seed := range BuiltinRoleSeeds() {
		if err := s.applySeed(seed); err != nil {
			return fmt.Errorf("bootstrap role %s: %w", seed.Role, err)
		}
	}
	return nil
}

func (s *Service) applySeed(seed RoleSeed) error {
	role, err := s.EnsureRole(seed.Role)
	if err != nil {
		return err
	}
	for _, parent := range seed.Inherits {
		parentRole, err := s.EnsureRole(parent)
		if err != nil {
			return err
		}
		if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
			return fmt.Errorf("link role inheritance failed: %w", err)
		}
	}
	for _, policy := range seed.Policies {
		if err := s.GrantRolePolicy(role, policy.Object, policy.Action); err != nil {
			return err
		}
	}
	return nil
}
