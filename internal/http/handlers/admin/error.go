package admin

import (
	handlershared "github.com/bookstore-next/internal/http/handlers/shared"
	"github.com/bookstore-next/internal/http/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

var adminUserErrorRules = handlershared.ConcatMappedErrors(
	handlershared.AuthErrorRules,
	handlershared.UserErrorRules,
)

var adminOrderErrorRules = handlershared.ConcatMappedErrors(
	handlershared.CommonErrorRules,
	handlershared.OrderErrorRules,
)

var adminCouponErrorRules = handlershared.ConcatMappedErrors(
	handlershared.CouponErrorRules,
	handlershared.UserErrorRules,
)

func respondAdminUserError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, adminUserErrorRules, response.CodeInternal, "error.internal_server_error")
}

func respondAdminOrderError(c *gin.Context, err error, fallbackKey string) {
	handlershared.RespondMappedError(c, err, adminOrderErrorRules, response.CodeInternal, fallbackKey)
}

func respondAdminCouponError(c *gin.Context, err error, fallbackKey string) {
	handlershared.RespondMappedError(c, err, adminCouponErrorRules, response.CodeInternal, fallbackKey)
}
