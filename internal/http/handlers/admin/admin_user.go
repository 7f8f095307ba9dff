package admin

import (
	"strings"

	handlershared "github.com/bookstore-next/internal/http/handlers/shared"
	"github.com/bookstore-next/internal/http/response"
	"github.com/bookstore-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListUsers 用户列表，支持角色过滤与邮箱关键字
func (h *Handler) ListUsers(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)

	users, total, err := h.AdminService.ListUsers(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Role:     strings.ToUpper(strings.TrimSpace(c.Query("role"))),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondAdminUserError(c, err)
		return
	}

	response.SuccessWithPage(c, users, response.BuildPagination(page, pageSize, total))
}

type updateUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateUserRole 修改用户角色
func (h *Handler) UpdateUserRole(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.AdminService.UpdateUserRole(c.Request.Context(), userID, strings.ToUpper(strings.TrimSpace(req.Role)))
	if err != nil {
		respondAdminUserError(c, err)
		return
	}

	requestLog(c).Infow("admin_user_role_updated",
		"operator_id", currentAdminID(c),
		"user_id", user.ID,
		"role", user.Role,
	)
	response.Success(c, user)
}
