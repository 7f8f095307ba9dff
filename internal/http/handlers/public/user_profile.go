package public

import (
	"github.com/bookstore-next/internal/http/response"
	"github.com/bookstore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetMyProfile 获取当前用户资料
func (h *Handler) GetMyProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserService.GetProfile(uid)
	if err != nil {
		respondAuthError(c, err, "error.internal_server_error")
		return
	}

	response.Success(c, user)
}

// UpdateProfileRequest 更新资料请求
type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	BirthDate *string `json:"birth_date"`
	Gender    *string `json:"gender"`
	Address   *string `json:"address"`
	Password  *string `json:"password"`
}

// UpdateMyProfile 更新当前用户资料
func (h *Handler) UpdateMyProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	input := service.UpdateProfileInput{
		Name:     req.Name,
		Gender:   req.Gender,
		Address:  req.Address,
		Password: req.Password,
	}
	if req.BirthDate != nil {
		birthDate, err := parseOptionalDate(*req.BirthDate)
		if err != nil || birthDate == nil {
			respondError(c, response.CodeBadRequest, "error.invalid_birth_date", nil)
			return
		}
		input.BirthDate = birthDate
	}

	user, err := h.UserService.UpdateProfile(c.Request.Context(), uid, input)
	if err != nil {
		respondAuthError(c, err, "error.internal_server_error")
		return
	}

	response.Success(c, user)
}

// DeleteMyAccount 注销当前账号并删除全部关联数据
func (h *Handler) DeleteMyAccount(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	if err := h.UserService.DeleteAccount(c.Request.Context(), uid); err != nil {
		respondAuthError(c, err, "error.internal_server_error")
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
