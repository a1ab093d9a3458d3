package models

import (
	"time"
)

// Review 商品评价表，同一用户对同一商品仅一条。
// 删除为物理删除，避免软删行占住唯一索引导致无法再评。
type Review struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                    // 主键
	ProductID  uint      `gorm:"not null;uniqueIndex:idx_product_user" json:"product_id"` // 商品ID
	UserID     uint      `gorm:"not null;uniqueIndex:idx_product_user" json:"user_id"`    // 用户ID
	UserName   string    `gorm:"type:varchar(255)" json:"user_name"`                      // 评价时用户名快照
	Rating     int       `gorm:"not null" json:"rating"`                                  // 评分 1-5
	Comment    string    `gorm:"type:varchar(2000)" json:"comment,omitempty"`             // 评价内容
	IsVerified bool      `gorm:"not null;default:false" json:"is_verified"`               // 是否购买过该商品
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt  time.Time `json:"updated_at"`                                              // 更新时间
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
