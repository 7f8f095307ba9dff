package authz

import (
	"fmt"

	"github.com/bookstore-next/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool
}

// BuiltinRoleSeeds 系统预置角色矩阵，ADMIN 继承 SELLER 的上架权限
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleSeller,
			Policies: []Policy{
				{Object: "/books", Action: "POST"},
				{Object: "/books/:id", Action: "PUT"},
				{Object: "/books/:id", Action: "PATCH"},
				{Object: "/books/:id", Action: "DELETE"},
			},
			Immutable: true,
		},
		{
			Role:     constants.RoleAdmin,
			Inherits: []string{constants.RoleSeller},
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
			Immutable: true,
		},
	}
}

// IsBuiltinRole 是否为不可删除的预置角色
func IsBuiltinRole(role string) bool {
	normalized, err := NormalizeRole(role)
	if err != nil {
		return false
	}
	for _, seed := range BuiltinRoleSeeds() {
		if seedRole, _ := NormalizeRole(seed.Role); seedRole == normalized {
			return seed.Immutable
		}
	}
	return false
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略，已存在的策略不重复写入
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		if _, err := s.enforcer.AddNamedGroupingPolicy(groupingPtype, role, roleAnchor); err != nil {
			return fmt.Errorf("create builtin role: %w", err)
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy(groupingPtype, role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			rule, err := buildRule(role, policy.Object, policy.Action)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddPolicy(rule...); err != nil {
				return fmt.Errorf("add builtin policy: %w", err)
			}
		}
	}
	return nil
}
