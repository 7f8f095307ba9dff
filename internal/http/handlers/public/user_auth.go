package public

import (
	"strings"

	"github.com/bookstore-next/internal/http/response"
	"github.com/bookstore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SignupRequest 注册请求
type SignupRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	Name           string                `json:"name" binding:"required"`
	BirthDate      string                `json:"birth_date"`
	Gender         string                `json:"gender"`
	Address        string                `json:"address"`
	Role           string                `json:"role"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// Signup 用户注册
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	birthDate, err := parseOptionalDate(req.BirthDate)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_birth_date", nil)
		return
	}

	user, err := h.AuthService.Signup(service.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		BirthDate: birthDate,
		Gender:    req.Gender,
		Address:   req.Address,
		Role:      req.Role,
		Captcha:   req.CaptchaPayload.ToServicePayload(),
	})
	if err != nil {
		respondAuthError(c, err, "error.internal_server_error")
		return
	}

	response.Success(c, user)
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, tokens, err := h.AuthService.Login(req.Email, req.Password, req.CaptchaPayload.ToServicePayload())
	if err != nil {
		respondAuthError(c, err, "error.internal_server_error")
		return
	}

	response.Success(c, gin.H{
		"user":  user,
		"token": tokens,
	})
}

// RefreshTokenRequest 刷新/注销令牌请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshToken 使用刷新令牌换取新的访问令牌
func (h *Handler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	tokens, err := h.AuthService.Refresh(strings.TrimSpace(req.RefreshToken))
	if err != nil {
		respondAuthError(c, err, "error.internal_server_error")
		return
	}

	response.Success(c, tokens)
}

// Logout 注销刷新令牌，重复调用不报错
func (h *Handler) Logout(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthService.Logout(strings.TrimSpace(req.RefreshToken)); err != nil {
		respondAuthError(c, err, "error.internal_server_error")
		return
	}

	response.Success(c, gin.H{"logged_out": true})
}
