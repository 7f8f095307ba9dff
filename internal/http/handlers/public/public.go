package public

import (
	"time"

	"github.com/bookstore-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	name, version := "bookstore-api", ""
	if h.Config != nil {
		if h.Config.App.Name != "" {
			name = h.Config.App.Name
		}
		version = h.Config.App.Version
	}
	response.Success(c, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   name,
		"version":   version,
	})
}
