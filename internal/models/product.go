package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint        `gorm:"primarykey" json:"id"`                                       // 主键
	CategoryID  uint        `gorm:"not null;index" json:"category_id"`                          // 分类ID
	Name        string      `gorm:"type:varchar(255);not null" json:"name"`                     // 名称
	Slug        string      `gorm:"uniqueIndex;not null" json:"slug"`                           // 唯一标识
	Description string      `json:"description"`                                                // 描述
	SKU         string      `gorm:"type:varchar(100);index" json:"sku,omitempty"`               // 货号
	Price       Money       `gorm:"type:decimal(10,2);not null;default:0" json:"price"`        // 价格
	Discount    Money       `gorm:"type:decimal(5,2);not null;default:0" json:"discount"`      // 折扣百分比（0-100）
	Stock       int         `gorm:"not null;default:0;index" json:"stock"`                      // 库存
	MinStock    int         `gorm:"not null;default:5" json:"min_stock"`                        // 低库存阈值
	Image       string      `json:"image,omitempty"`                                            // 主图
	Images      StringArray `gorm:"type:json" json:"images"`                                    // 图片数组
	Brand       string      `gorm:"type:varchar(100)" json:"brand,omitempty"`                   // 品牌
	Color       string      `gorm:"type:varchar(50)" json:"color,omitempty"`                    // 颜色
	Size        string      `gorm:"type:varchar(50)" json:"size,omitempty"`                     // 尺寸
	Material    string      `gorm:"type:varchar(100)" json:"material,omitempty"`                // 材质
	Weight      string      `gorm:"type:varchar(50)" json:"weight,omitempty"`                   // 重量
	Dimensions  string      `gorm:"type:varchar(100)" json:"dimensions,omitempty"`              // 尺寸规格
	Warranty    string      `gorm:"type:varchar(255)" json:"warranty,omitempty"`                // 保修说明
	Shipping    string      `gorm:"type:varchar(255)" json:"shipping,omitempty"`                // 配送说明
	Returns     string      `gorm:"type:varchar(255)" json:"returns,omitempty"`                 // 退换说明
	Features    StringArray `gorm:"type:json" json:"features"`                                  // 特性列表
	Tags        StringArray `gorm:"type:json" json:"tags"`                                      // 标签数组
	Active      bool        `gorm:"default:true;index" json:"active"`                           // 是否上架
	Featured    bool        `gorm:"default:false;index" json:"featured"`                        // 是否精选
	Recommended bool        `gorm:"default:false;index" json:"recommended"`                     // 是否推荐
	Rating      Money       `gorm:"type:decimal(3,2);not null;default:0" json:"rating"`        // 评分（0-5，评价派生）
	ReviewCount int         `gorm:"not null;default:0" json:"review_count"`                     // 评价数（派生）
	SalesCount  int         `gorm:"not null;default:0;index" json:"sales_count"`                // 销量
	ViewCount   int         `gorm:"not null;default:0" json:"view_count"`                       // 浏览量
	CreatedBy   *uint       `gorm:"index" json:"created_by,omitempty"`                          // 创建人
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt   time.Time   `json:"updated_at"`                                                 // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间

	// 关联
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// FinalPrice 折后价 = price * (1 - discount/100)，不为负
func (p *Product) FinalPrice() Money {
	price := p.Price.Decimal
	discount := p.Discount.Decimal
	final := price
	if discount.GreaterThan(decimal.Zero) {
		hundred := decimal.NewFromInt(100)
		final = price.Mul(hundred.Sub(discount)).Div(hundred)
	}
	if final.IsNegative() {
		final = decimal.Zero
	}
	return NewMoneyFromDecimal(final)
}

// IsLowStock 库存是否不高于阈值
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}
