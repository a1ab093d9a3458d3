package repository

import (
	"errors"
	"time"

	"github.com/projectstore/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetActiveByOwnerKey(ownerKey string) (*models.Cart, error)
	GetByID(id uint) (*models.Cart, error)
	CreateIfAbsent(cart *models.Cart) error
	Deactivate(cart *models.Cart) error
	TouchExpiry(cartID uint, expiresAt time.Time) error
	ListExpired(now time.Time, limit int) ([]models.Cart, error)
	GetItem(cartID, productID uint) (*models.CartItem, error)
	ListItems(cartID uint) ([]models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItemQuantity(itemID uint, quantity int) error
	DeleteItem(cartID, productID uint) error
	ClearItems(cartID uint) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// Transaction 执行事务
func (r *GormCartRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetActiveByOwnerKey 获取所有者当前活跃购物车
func (r *GormCartRepository) GetActiveByOwnerKey(ownerKey string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items.Product").
		Where("owner_key = ? AND is_active = ?", ownerKey, true).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetByID 根据 ID 获取购物车
func (r *GormCartRepository) GetByID(id uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Preload("Items.Product").First(&cart, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// CreateIfAbsent 创建活跃购物车，owner_key 冲突时静默跳过。
// 并发创建同一所有者的购物车时只有一条落库，调用方冲突后需重新查询。
func (r *GormCartRepository) CreateIfAbsent(cart *models.Cart) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_key"}},
		DoNothing: true,
	}).Create(cart).Error
}

// Deactivate 失活购物车并改写 owner_key 释放活跃位
func (r *GormCartRepository) Deactivate(cart *models.Cart) error {
	if cart == nil || cart.ID == 0 {
		return nil
	}
	return r.db.Model(&models.Cart{}).
		Where("id = ?", cart.ID).
		Updates(map[string]interface{}{
			"is_active": false,
			"owner_key": models.RetiredOwnerKey(cart.OwnerKey, cart.ID),
		}).Error
}

// TouchExpiry 刷新过期时间
func (r *GormCartRepository) TouchExpiry(cartID uint, expiresAt time.Time) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", cartID).Update("expires_at", expiresAt).Error
}

// ListExpired 列出已到期仍活跃的购物车
func (r *GormCartRepository) ListExpired(now time.Time, limit int) ([]models.Cart, error) {
	if limit <= 0 {
		limit = 100
	}
	var carts []models.Cart
	err := r.db.
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, now).
		Limit(limit).
		Find(&carts).Error
	if err != nil {
		return nil, err
	}
	return carts, nil
}

// GetItem 获取购物车内指定商品的明细
func (r *GormCartRepository) GetItem(cartID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListItems 获取购物车明细列表
func (r *GormCartRepository) ListItems(cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Preload("Product").Where("cart_id = ?", cartID).Order("created_at ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CreateItem 新增购物车明细
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// UpdateItemQuantity 更新明细数量
func (r *GormCartRepository) UpdateItemQuantity(itemID uint, quantity int) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", itemID).Update("quantity", quantity).Error
}

// DeleteItem 删除购物车明细
func (r *GormCartRepository) DeleteItem(cartID, productID uint) error {
	return r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).Delete(&models.CartItem{}).Error
}

// ClearItems 清空购物车明细
func (r *GormCartRepository) ClearItems(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}
