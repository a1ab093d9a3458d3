package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/projectstore/internal/constants"
)

// Order 订单表
type Order struct {
	ID             uint      `gorm:"primarykey" json:"id"`                                             // 主键
	OrderNo        string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_no"`            // 订单号
	UserID         *uint     `gorm:"index" json:"user_id,omitempty"`                                   // 用户ID，游客单为空
	Status         string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`  // 状态
	Subtotal       Money     `gorm:"type:decimal(10,2);not null;default:0" json:"subtotal"`            // 商品小计
	Discount       Money     `gorm:"type:decimal(10,2);not null;default:0" json:"discount"`            // 折扣总额
	Total          Money     `gorm:"type:decimal(10,2);not null;default:0" json:"total"`               // 总额
	CustomerName   string    `gorm:"type:varchar(255);not null" json:"customer_name"`                  // 收件人
	CustomerPhone  string    `gorm:"type:varchar(50);not null" json:"customer_phone"`                  // 联系电话
	CustomerEmail  string    `gorm:"type:varchar(255)" json:"customer_email,omitempty"`                // 联系邮箱
	Address        string    `gorm:"type:varchar(500);not null" json:"address"`                        // 收货地址
	City           string    `gorm:"type:varchar(100)" json:"city,omitempty"`                          // 城市
	Department     string    `gorm:"type:varchar(100)" json:"department,omitempty"`                    // 省/州
	DeliveryMethod string    `gorm:"type:varchar(50);default:'Domicilio'" json:"delivery_method"`      // 配送方式
	Notes          string    `gorm:"type:varchar(500)" json:"notes,omitempty"`                         // 备注
	AdminNotes     string    `gorm:"type:varchar(500)" json:"admin_notes,omitempty"`                   // 管理员备注
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`                                          // 确认时间
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`                                          // 送达时间
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`                                          // 取消时间
	CreatedAt      time.Time `gorm:"index" json:"created_at"`                                          // 创建时间
	UpdatedAt      time.Time `json:"updated_at"`                                                       // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间

	// 关联
	User  User        `gorm:"foreignKey:UserID" json:"user,omitempty"` // 下单用户
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`         // 明细列表
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// IsTerminal 是否处于终态
func (o *Order) IsTerminal() bool {
	return o.Status == constants.OrderStatusDelivered || o.Status == constants.OrderStatusCancelled
}
