package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem 购物车明细表，同一购物车内同一商品仅一行
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                    // 主键
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"cart_id"`    // 购物车ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"product_id"` // 商品ID
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`                      // 数量
	CreatedAt time.Time `json:"created_at"`                                              // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                              // 更新时间

	// 关联
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 商品信息
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}

// Subtotal 按商品当前折后价计算小计
func (i *CartItem) Subtotal() Money {
	qty := decimal.NewFromInt(int64(i.Quantity))
	return NewMoneyFromDecimal(i.Product.FinalPrice().Decimal.Mul(qty))
}
