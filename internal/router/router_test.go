package router

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBuildPermissionCatalogCoversGuardedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	noop := func(c *gin.Context) {}

	r := gin.New()
	api := r.Group("/api/v1")
	api.GET("/books", noop)
	api.POST("/books", noop)
	api.PUT("/books/:id", noop)
	api.GET("/books/:id", noop)
	api.GET("/orders", noop)
	api.GET("/admin/stats", noop)
	api.PUT("/admin/orders/:id/status", noop)
	api.GET("/admin/authz/roles", noop)

	items := buildPermissionCatalog(r)
	permissions := make([]string, 0, len(items))
	modules := map[string]string{}
	for _, item := range items {
		permissions = append(permissions, item.Permission)
		modules[item.Permission] = item.Module
	}

	assert.ElementsMatch(t, []string{
		"POST:/books",
		"PUT:/books/:id",
		"GET:/admin/stats",
		"PUT:/admin/orders/:id/status",
		"GET:/admin/authz/roles",
	}, permissions)
	assert.Equal(t, "books", modules["POST:/books"])
	assert.Equal(t, "orders", modules["PUT:/admin/orders/:id/status"])
	assert.Equal(t, "authz", modules["GET:/admin/authz/roles"])
}

func TestBuildPermissionCatalogNilEngine(t *testing.T) {
	assert.Empty(t, buildPermissionCatalog(nil))
}
