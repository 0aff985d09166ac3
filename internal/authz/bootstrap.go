package authz

import "fmt"

// 内置角色，与令牌中的 role 声明对应
const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 控制台预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: RoleViewer,
			Policies: []Policy{
				{Object: "/console/*", Action: "GET"},
				{Object: "/console/session", Action: "DELETE"},
				{Object: "/console/notifications/:id/dismiss", Action: "POST"},
				{Object: "/console/navigation/pop", Action: "POST"},
			},
		},
		{
			Role:     RoleEditor,
			Inherits: []string{RoleViewer},
			Policies: []Policy{
				{Object: "/console/product-forms", Action: "POST"},
				{Object: "/console/entity-forms/:entity", Action: "POST"},
				{Object: "/console/forms/:id", Action: "*"},
				{Object: "/console/forms/:id/*", Action: "*"},
				{Object: "/console/upload", Action: "POST"},
			},
		},
		{
			Role:     RoleAdmin,
			Inherits: []string{RoleEditor},
			Policies: []Policy{
				{Object: "/console/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略，可重复执行
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}
	for _, seed := range BuiltinRoleSeeds() {
		if _, err := s.EnsureRole(seed.Role); err != nil {
			return err
		}
		for _, parent := range seed.Inherits {
			if err := s.InheritRole(seed.Role, parent); err != nil {
				return err
			}
		}
		for _, policy := range seed.Policies {
			if NormalizeAction(policy.Action) == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if err := s.GrantRolePolicy(seed.Role, policy.Object, policy.Action); err != nil {
				return err
			}
		}
	}
	return nil
}
