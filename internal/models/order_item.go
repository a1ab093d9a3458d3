package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem 订单明细表，下单时快照商品信息
type OrderItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                  // 主键
	OrderID     uint      `gorm:"not null;index" json:"order_id"`                        // 订单ID
	ProductID   uint      `gorm:"not null;index" json:"product_id"`                      // 商品ID
	ProductName string    `gorm:"type:varchar(255);not null" json:"product_name"`        // 商品名称快照
	ProductImg  string    `json:"product_image,omitempty"`                               // 商品主图快照
	UnitPrice   Money     `gorm:"type:decimal(10,2);not null" json:"unit_price"`         // 成交单价（折后）
	Quantity    int       `gorm:"not null" json:"quantity"`                              // 数量
	Subtotal    Money     `gorm:"type:decimal(10,2);not null" json:"subtotal"`           // 小计
	CreatedAt   time.Time `json:"created_at"`                                            // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                            // 更新时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// ComputeSubtotal 用单价和数量计算小计
func ComputeSubtotal(unitPrice Money, quantity int) Money {
	return NewMoneyFromDecimal(unitPrice.Decimal.Mul(decimal.NewFromInt(int64(quantity))))
}
