package shared

import (
	"strings"

	"github.com/bookstore-next/internal/http/response"
	"github.com/bookstore-next/internal/i18n"
	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// ErrorCodeFromKey 由文案键推导机器可读错误码，例如 error.coupon_expired -> COUPON_EXPIRED。
func ErrorCodeFromKey(key string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(key), "error."))
}

// KeyedError 由文案键构造本地化的接口错误。
func KeyedError(c *gin.Context, code int, key string, err error) *response.AppError {
	locale := i18n.ResolveLocale(c)
	return response.NewAppError(code, ErrorCodeFromKey(key), i18n.T(locale, key), err)
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	appErr := KeyedError(c, code, key, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"error_code", appErr.ErrorCode,
			"path", c.FullPath(),
			"error", err,
		)
	}
	response.Fail(c, appErr)
}

// RespondBusinessError 返回已识别业务错误的响应，携带错误详情，不记录错误日志。
func RespondBusinessError(c *gin.Context, code int, key string, err error) {
	appErr := KeyedError(c, code, key, err)
	if policyKey, args, ok := service.PasswordPolicyMessage(err); ok {
		appErr.ErrorCode = ErrorCodeFromKey(policyKey)
		appErr.Message = i18n.Sprintf(i18n.ResolveLocale(c), policyKey, args...)
	}
	response.Fail(c, appErr.WithDetails(service.ErrorDetails(err)))
}
