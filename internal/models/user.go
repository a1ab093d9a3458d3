package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表（管理员与客户共用，以 role 区分）
type User struct {
	ID            uint           `gorm:"primarykey" json:"id"`                               // 主键
	Email         string         `gorm:"uniqueIndex;not null" json:"email"`                  // 邮箱（登录名）
	PasswordHash  string         `gorm:"not null" json:"-"`                                  // 密码哈希（不返回给前端）
	Role          string         `gorm:"type:varchar(20);not null;default:'client';index" json:"role"` // 角色（admin/client）
	Name          string         `gorm:"type:varchar(255)" json:"name"`                      // 姓名
	Phone         string         `gorm:"type:varchar(20)" json:"phone,omitempty"`            // 电话
	Address       string         `json:"address,omitempty"`                                  // 地址
	City          string         `gorm:"type:varchar(100)" json:"city,omitempty"`            // 城市
	Department    string         `gorm:"type:varchar(100)" json:"department,omitempty"`      // 省/州
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`                // 是否启用
	EmailVerified bool           `gorm:"default:false" json:"email_verified"`                // 邮箱是否已验证
	LastLoginAt   *time.Time     `json:"last_login_at"`                                      // 最后登录时间
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsAdmin 判断是否管理员
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == "admin"
}
