package service

import (
	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/queue"
)

// notifyStatusChange 订单状态变化后入队通知任务，入队失败只记录日志
func (s *OrderService) notifyStatusChange(order *models.Order, from, source string) {
	if s.queueClient == nil || order == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{
		OrderID: order.ID,
		UserID:  order.UserID,
		From:    from,
		Status:  order.Status,
		Source:  source,
	}); err != nil {
		logger.Warnw("order_enqueue_status_notify_failed",
			"order_id", order.ID,
			"status", order.Status,
			"source", source,
			"error", err,
		)
	}
}

// HandleStatusNotify 消费订单状态通知任务，记录状态变化供下游审计
func (s *OrderService) HandleStatusNotify(payload queue.OrderStatusNotifyPayload) error {
	order, err := s.orderRepo.GetByID(payload.OrderID)
	if err != nil {
		return err
	}
	if order == nil {
		logger.Warnw("order_status_notify_order_missing", "order_id", payload.OrderID)
		return nil
	}
	logger.Infow("order_status_notified",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"from", payload.From,
		"status", payload.Status,
		"current_status", order.Status,
		"source", payload.Source,
	)
	return nil
}
