package service

import (
	"strings"

	"github.com/projectstore/internal/constants"
)

// allowedTransitions 订单状态机，键为当前状态，值为允许进入的状态集合
var allowedTransitions = map[string][]string{
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed,
		constants.OrderStatusCancelled,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusInTransit,
		constants.OrderStatusCancelled,
	},
	constants.OrderStatusInTransit: {
		constants.OrderStatusDelivered,
		constants.OrderStatusCancelled,
	},
	constants.OrderStatusDelivered: {},
	constants.OrderStatusCancelled: {},
}

// canTransition 判断状态变更是否合法
func canTransition(from, to string) bool {
	targets, ok := allowedTransitions[strings.ToLower(strings.TrimSpace(from))]
	if !ok {
		return false
	}
	normalized := strings.ToLower(strings.TrimSpace(to))
	for _, target := range targets {
		if target == normalized {
			return true
		}
	}
	return false
}
