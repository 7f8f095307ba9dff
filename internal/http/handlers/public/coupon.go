package public

import (
	"github.com/bookstore-next/internal/http/response"
	"github.com/bookstore-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListAvailableCoupons 当前有效的优惠券
func (h *Handler) ListAvailableCoupons(c *gin.Context) {
	page, pageSize := normalizePagination(queryInt(c, "page", 1), queryInt(c, "page_size", 20))

	coupons, total, err := h.CouponService.ListAvailable(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_server_error", err)
		return
	}

	response.SuccessWithPage(c, coupons, response.BuildPagination(page, pageSize, total))
}

// ListMyCoupons 我的优惠券，可按 is_used 过滤
func (h *Handler) ListMyCoupons(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := normalizePagination(queryInt(c, "page", 1), queryInt(c, "page_size", 20))

	grants, total, err := h.CouponService.ListMine(repository.UserCouponListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		IsUsed:   queryOptionalBool(c, "is_used"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_server_error", err)
		return
	}

	response.SuccessWithPage(c, grants, response.BuildPagination(page, pageSize, total))
}
