package models

import (
	"time"
)

// StockMovement 库存流水表，只追加不修改
type StockMovement struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                   // 主键
	ProductID     uint      `gorm:"not null;index" json:"product_id"`                       // 商品ID
	Type          string    `gorm:"type:varchar(20);not null;index" json:"type"`            // 流水类型 in/out/adjustment/sale/return
	Quantity      int       `gorm:"not null" json:"quantity"`                               // 变动数量（有符号）
	StockBefore   int       `gorm:"not null" json:"stock_before"`                           // 变动前库存
	StockAfter    int       `gorm:"not null" json:"stock_after"`                            // 变动后库存
	Reason        string    `gorm:"type:varchar(255)" json:"reason,omitempty"`              // 变动原因
	ReferenceType string    `gorm:"type:varchar(50);index" json:"reference_type,omitempty"` // 关联类型，如 order
	ReferenceID   *uint     `gorm:"index" json:"reference_id,omitempty"`                    // 关联ID
	CreatedBy     *uint     `gorm:"index" json:"created_by,omitempty"`                      // 操作人
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                                // 创建时间

	// 关联
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 商品信息
}

// TableName 指定表名
func (StockMovement) TableName() string {
	return "stock_movements"
}
