package response

import "github.com/gin-gonic/gin"

// AppError 携带响应码、错误码与详情的接口错误
type AppError struct {
	Code      int
	ErrorCode string
	Message   string
	Details   map[string]interface{}
	Err       error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.ErrorCode + ": " + e.Message
	}
	return e.ErrorCode + ": " + e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError 构造接口错误
func NewAppError(code int, errorCode, message string, err error) *AppError {
	return &AppError{
		Code:      code,
		ErrorCode: errorCode,
		Message:   message,
		Err:       err,
	}
}

// WithDetails 附加错误详情，nil 或空 map 不改变原值
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	if len(details) > 0 {
		e.Details = details
	}
	return e
}

// Fail 按统一信封写出接口错误
func Fail(c *gin.Context, appErr *AppError) {
	if appErr == nil {
		Error(c, CodeInternal, "internal error")
		return
	}
	ErrorWithCode(c, appErr.Code, appErr.ErrorCode, appErr.Message, appErr.Details)
}
