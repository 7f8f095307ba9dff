package admin

import (
	handlershared "github.com/bookstore-next/internal/http/handlers/shared"
	"github.com/bookstore-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

func currentAdminID(c *gin.Context) uint {
	return handlershared.OptionalUserID(c)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, ok := handlershared.ParseUintParam(c, name)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.invalid_id", nil)
	}
	return id, ok
}
