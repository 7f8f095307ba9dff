package admin

import (
	"time"

	handlershared "github.com/bookstore-next/internal/http/handlers/shared"
	"github.com/bookstore-next/internal/http/response"
	"github.com/bookstore-next/internal/repository"
	"github.com/bookstore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListCoupons 优惠券列表（含发放与使用数量）
func (h *Handler) ListCoupons(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)

	filter := repository.CouponListFilter{Page: page, PageSize: pageSize}
	if raw := c.Query("is_active"); raw != "" {
		value := raw == "true" || raw == "1"
		filter.IsActive = &value
	}

	coupons, total, err := h.CouponAdminService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_server_error", err)
		return
	}

	response.SuccessWithPage(c, coupons, response.BuildPagination(page, pageSize, total))
}

type createCouponRequest struct {
	Name         string    `json:"name" binding:"required"`
	Description  string    `json:"description"`
	DiscountRate int       `json:"discount_rate"`
	StartAt      time.Time `json:"start_at" binding:"required"`
	EndAt        time.Time `json:"end_at" binding:"required"`
	IsActive     *bool     `json:"is_active"`
}

// CreateCoupon 创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req createCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	coupon, err := h.CouponAdminService.Create(service.CreateCouponInput{
		Name:         req.Name,
		Description:  req.Description,
		DiscountRate: req.DiscountRate,
		StartAt:      req.StartAt,
		EndAt:        req.EndAt,
		IsActive:     req.IsActive,
	})
	if err != nil {
		respondAdminCouponError(c, err, "error.coupon_create_failed")
		return
	}

	requestLog(c).Infow("admin_coupon_created",
		"operator_id", currentAdminID(c),
		"coupon_id", coupon.ID,
		"discount_rate", coupon.DiscountRate,
	)
	response.Success(c, coupon)
}

type issueCouponRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// IssueCoupon 向用户发放优惠券
func (h *Handler) IssueCoupon(c *gin.Context) {
	couponID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req issueCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	grant, err := h.CouponAdminService.Issue(couponID, req.UserID)
	if err != nil {
		respondAdminCouponError(c, err, "error.coupon_issue_failed")
		return
	}

	requestLog(c).Infow("admin_coupon_issued",
		"operator_id", currentAdminID(c),
		"coupon_id", couponID,
		"user_id", req.UserID,
	)
	response.Success(c, grant)
}
