package queue

import (
	"encoding/json"

	"github.com/projectstore/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderConfirmation 订单确认通知任务
	TaskOrderConfirmation = constants.TaskOrderConfirmation
	// TaskLowStockAlert 低库存告警任务
	TaskLowStockAlert = constants.TaskLowStockAlert
)

// OrderConfirmationPayload 订单确认任务载荷
type OrderConfirmationPayload struct {
	OrderID uint   `json:"order_id"`
	OrderNo string `json:"order_no"`
}

// LowStockAlertPayload 低库存告警任务载荷
type LowStockAlertPayload struct {
	ProductID uint `json:"product_id"`
	Stock     int  `json:"stock"`
	MinStock  int  `json:"min_stock"`
}

// NewOrderConfirmationTask 创建订单确认任务
func NewOrderConfirmationTask(payload OrderConfirmationPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmation, body), nil
}

// NewLowStockAlertTask 创建低库存告警任务
func NewLowStockAlertTask(payload LowStockAlertPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockAlert, body), nil
}
