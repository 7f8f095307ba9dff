package admin

import (
	"strings"

	handlershared "github.com/bookstore-next/internal/http/handlers/shared"
	"github.com/bookstore-next/internal/http/response"
	"github.com/bookstore-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListOrders 全部订单，支持状态与用户过滤
func (h *Handler) ListOrders(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)

	orders, total, err := h.OrderService.ListOrdersForAdmin(repository.OrderListFilter{
		Page:      page,
		PageSize:  pageSize,
		UserID:    handlershared.QueryUint(c, "user_id"),
		Status:    strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		SortBy:    strings.TrimSpace(c.Query("sort_by")),
		SortOrder: strings.TrimSpace(c.Query("sort_order")),
	})
	if err != nil {
		respondAdminOrderError(c, err, "error.order_fetch_failed")
		return
	}

	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus 修改订单状态，按状态机校验
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.UpdateOrderStatus(orderID, strings.ToUpper(strings.TrimSpace(req.Status)))
	if err != nil {
		respondAdminOrderError(c, err, "error.order_update_failed")
		return
	}

	requestLog(c).Infow("admin_order_status_updated",
		"operator_id", currentAdminID(c),
		"order_id", order.ID,
		"status", order.Status,
	)
	response.Success(c, order)
}
