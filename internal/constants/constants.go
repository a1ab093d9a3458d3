package constants

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusInTransit = "in_transit"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// 库存变动类型常量
const (
	StockMovementIn         = "in"
	StockMovementOut        = "out"
	StockMovementAdjustment = "adjustment"
	StockMovementSale       = "sale"
	StockMovementReturn     = "return"
)

// 库存变动关联类型常量
const (
	StockReferenceOrder = "order"
)

// 用户角色常量
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskOrderConfirmation = "notify:order_confirmation"
	TaskLowStockAlert     = "notify:low_stock"
)

// 默认值常量
const (
	DefaultDeliveryMethod = "Domicilio"
	DefaultMinStock       = 5
	DefaultCartExpireDays = 30
)

// OrderStatuses 全部合法订单状态
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusInTransit,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// StockMovementTypes 全部合法库存变动类型
var StockMovementTypes = []string{
	StockMovementIn,
	StockMovementOut,
	StockMovementAdjustment,
	StockMovementSale,
	StockMovementReturn,
}

// IsValidOrderStatus 判断订单状态是否合法
func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidStockMovementType 判断库存变动类型是否合法
func IsValidStockMovementType(movementType string) bool {
	for _, t := range StockMovementTypes {
		if t == movementType {
			return true
		}
	}
	return false
}
