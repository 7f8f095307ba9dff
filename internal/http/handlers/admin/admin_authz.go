package admin

import (
	"errors"
	"net/url"
	"strings"

	"github.com/bookstore-next/internal/authz"
	"github.com/bookstore-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

type authzRolePayload struct {
	Role string `json:"role" binding:"required"`
}

type authzPolicyPayload struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

type authzRoleView struct {
	Role    string `json:"role"`
	Builtin bool   `json:"builtin"`
}

// ListAuthzRoles 获取角色列表，标记预置角色
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.authz_failed", err)
		return
	}
	items := make([]authzRoleView, 0, len(roles))
	for _, role := range roles {
		items = append(items, authzRoleView{Role: role, Builtin: authz.IsBuiltinRole(role)})
	}
	response.Success(c, items)
}

// CreateAuthzRole 创建角色
func (h *Handler) CreateAuthzRole(c *gin.Context) {
	var req authzRolePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	role, err := h.AuthzService.EnsureRole(req.Role)
	if err != nil {
		respondAuthzError(c, "error.role_invalid", err)
		return
	}
	requestLog(c).Infow("admin_authz_role_created", "operator_id", currentAdminID(c), "role", role)
	response.Success(c, authzRoleView{Role: role, Builtin: authz.IsBuiltinRole(role)})
}

// DeleteAuthzRole 删除自定义角色
func (h *Handler) DeleteAuthzRole(c *gin.Context) {
	role, ok := roleParam(c)
	if !ok {
		return
	}
	if err := h.AuthzService.DeleteRole(role); err != nil {
		respondAuthzError(c, "error.role_invalid", err)
		return
	}
	requestLog(c).Infow("admin_authz_role_deleted", "operator_id", currentAdminID(c), "role", role)
	response.Success(c, nil)
}

// GetAuthzRolePolicies 获取角色策略
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role, ok := roleParam(c)
	if !ok {
		return
	}
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondAuthzError(c, "error.role_invalid", err)
		return
	}
	response.Success(c, policies)
}

// GrantAuthzPolicy 授予角色策略
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	h.changePolicy(c, "admin_authz_policy_granted", h.AuthzService.GrantRolePolicy)
}

// RevokeAuthzPolicy 撤销角色策略
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	h.changePolicy(c, "admin_authz_policy_revoked", h.AuthzService.RevokeRolePolicy)
}

func (h *Handler) changePolicy(c *gin.Context, event string, apply func(role, object, action string) error) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := apply(req.Role, req.Object, req.Action); err != nil {
		respondAuthzError(c, "error.policy_invalid", err)
		return
	}
	requestLog(c).Infow(event,
		"operator_id", currentAdminID(c),
		"role", req.Role,
		"object", req.Object,
		"action", req.Action,
	)
	response.Success(c, nil)
}

func respondAuthzError(c *gin.Context, invalidKey string, err error) {
	switch {
	case errors.Is(err, authz.ErrBuiltinRole):
		respondError(c, response.CodeForbidden, "error.builtin_role_readonly", nil)
	case errors.Is(err, authz.ErrUnavailable):
		respondError(c, response.CodeInternal, "error.authz_failed", err)
	default:
		respondError(c, response.CodeBadRequest, invalidKey, nil)
	}
}

func roleParam(c *gin.Context) (string, bool) {
	raw := c.Param("role")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		decoded = raw
	}
	role := strings.TrimSpace(decoded)
	if role == "" {
		respondError(c, response.CodeBadRequest, "error.role_invalid", nil)
		return "", false
	}
	return role, true
}
