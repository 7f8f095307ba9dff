package shared

import (
	"github.com/bookstore-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CurrentUserID 读取认证中间件写入的用户 ID，缺失时响应 401。
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	id, ok := value.(uint)
	if !ok {
		RespondError(c, response.CodeInternal, "error.user_id_type_invalid", nil)
		return 0, false
	}
	if id == 0 {
		RespondError(c, response.CodeUnauthorized, "error.user_id_invalid", nil)
		return 0, false
	}
	return id, true
}

// OptionalUserID 读取可选登录场景的用户 ID，未登录返回 0。
func OptionalUserID(c *gin.Context) uint {
	value, exists := c.Get("user_id")
	if !exists {
		return 0
	}
	id, _ := value.(uint)
	return id
}

// CurrentUserRole 读取当前用户角色。
func CurrentUserRole(c *gin.Context) string {
	value, exists := c.Get("user_role")
	if !exists {
		return ""
	}
	role, _ := value.(string)
	return role
}
