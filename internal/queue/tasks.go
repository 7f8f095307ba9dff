package queue

import (
	"encoding/json"

	"github.com/bookstore-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusNotify 订单状态变更通知任务
	TaskOrderStatusNotify = constants.TaskOrderStatusNotify
	// TaskOrderTimeoutCancel 待确认订单超时取消任务
	TaskOrderTimeoutCancel = constants.TaskOrderTimeoutCancel
)

// OrderStatusNotifyPayload 订单状态通知载荷
type OrderStatusNotifyPayload struct {
	OrderID uint   `json:"order_id"`
	UserID  uint   `json:"user_id"`
	From    string `json:"from"`
	Status  string `json:"status"`
	Source  string `json:"source"`
}

// OrderTimeoutCancelPayload 超时取消任务载荷
type OrderTimeoutCancelPayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderStatusNotifyTask 创建订单状态通知任务
func NewOrderStatusNotifyTask(payload OrderStatusNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusNotify, body), nil
}

// NewOrderTimeoutCancelTask 创建超时取消任务
func NewOrderTimeoutCancelTask(payload OrderTimeoutCancelPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderTimeoutCancel, body), nil
}

// ParseOrderStatusNotifyPayload 解析订单状态通知载荷
func ParseOrderStatusNotifyPayload(task *asynq.Task) (OrderStatusNotifyPayload, error) {
	var payload OrderStatusNotifyPayload
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}

// ParseOrderTimeoutCancelPayload 解析超时取消载荷
func ParseOrderTimeoutCancelPayload(task *asynq.Task) (OrderTimeoutCancelPayload, error) {
	var payload OrderTimeoutCancelPayload
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
