package service

import (
	"strings"

	"github.com/bookstore-next/internal/constants"
)

// allowedTransitions 订单状态流转表，DELIVERED 与 CANCELLED 为终态
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusShipped:   true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
}

func normalizeOrderStatus(status string) string {
	return strings.ToUpper(strings.TrimSpace(status))
}

func isTransitionAllowed(current, target string) bool {
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

func isOrderCancelable(status string) bool {
	return isTransitionAllowed(status, constants.OrderStatusCancelled)
}

func isTerminalOrderStatus(status string) bool {
	_, ok := allowedTransitions[status]
	return !ok
}
