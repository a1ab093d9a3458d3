package models

import (
	"time"

	"gorm.io/gorm"
)

// Category 分类表（parent 自引用构成分类树）
type Category struct {
	ID           uint           `gorm:"primarykey" json:"id"`                    // 主键
	Name         string         `gorm:"type:varchar(100);not null" json:"name"`  // 名称
	Slug         string         `gorm:"uniqueIndex;not null" json:"slug"`        // 唯一标识
	Description  string         `json:"description,omitempty"`                   // 描述
	ImageURL     string         `json:"image_url,omitempty"`                     // 分类图片
	ParentID     *uint          `gorm:"index" json:"parent_id,omitempty"`        // 父分类ID（根分类为空）
	DisplayOrder int            `gorm:"default:0;index" json:"display_order"`    // 排序权重
	IsActive     bool           `gorm:"default:true;index" json:"is_active"`     // 是否启用
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                 // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                              // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                          // 软删除时间

	// 关联
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"` // 子分类
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
