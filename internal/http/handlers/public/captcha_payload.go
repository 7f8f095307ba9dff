package public

import handlershared "github.com/bookstore-next/internal/http/handlers/shared"

// CaptchaPayloadRequest 验证码请求载荷
// 未启用的场景允许空载荷，由 service 层根据配置判定是否必填
type CaptchaPayloadRequest = handlershared.CaptchaPayloadRequest
