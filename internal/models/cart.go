package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Cart 购物车表，同一所有者同一时间只有一个活跃购物车
type Cart struct {
	ID           uint       `gorm:"primarykey" json:"id"`                              // 主键
	UserID       *uint      `gorm:"index" json:"user_id,omitempty"`                    // 用户ID（匿名车为空）
	SessionToken string     `gorm:"type:varchar(64);index" json:"-"`                   // 匿名会话标识
	OwnerKey     string     `gorm:"type:varchar(128);uniqueIndex;not null" json:"-"`   // 活跃唯一键，失活后改写加后缀
	IsActive     bool       `gorm:"default:true;index" json:"is_active"`               // 是否活跃
	ExpiresAt    *time.Time `gorm:"index" json:"expires_at,omitempty"`                 // 过期时间
	CreatedAt    time.Time  `json:"created_at"`                                        // 创建时间
	UpdatedAt    time.Time  `json:"updated_at"`                                        // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间

	// 关联
	Items []CartItem `gorm:"foreignKey:CartID" json:"items"` // 明细列表
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// UserOwnerKey 登录用户的活跃键
func UserOwnerKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// SessionOwnerKey 匿名会话的活跃键
func SessionOwnerKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// RetiredOwnerKey 失活后的改写键，保持唯一约束同时释放活跃位
func RetiredOwnerKey(ownerKey string, cartID uint) string {
	return fmt.Sprintf("%s#%d", ownerKey, cartID)
}

// IsExpired 是否已过期
func (c *Cart) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}
