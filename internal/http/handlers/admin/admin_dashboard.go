package admin

import (
	"github.com/bookstore-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetStats 平台统计概览
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.AdminService.GetStats()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_server_error", err)
		return
	}
	response.Success(c, stats)
}
