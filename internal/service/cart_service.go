package service

import (
	"strings"
	"time"

	"github.com/projectstore/internal/config"
	"github.com/projectstore/internal/constants"
	"github.com/projectstore/internal/logger"
	"github.com/projectstore/internal/models"
	"github.com/projectstore/internal/repository"

	"github.com/shopspring/decimal"
)

// CartOwner 购物车所有者，登录用户优先于匿名会话
type CartOwner struct {
	UserID       uint
	SessionToken string
}

// Key 生成所有者活跃键
func (o CartOwner) Key() (string, error) {
	if o.UserID > 0 {
		return models.UserOwnerKey(o.UserID), nil
	}
	if token := strings.TrimSpace(o.SessionToken); token != "" {
		return models.SessionOwnerKey(token), nil
	}
	return "", ErrCartOwnerRequired
}

// CartView 购物车视图，金额按商品当前折后价即时计算
type CartView struct {
	Cart      *models.Cart `json:"cart"`
	ItemCount int          `json:"item_count"`
	Subtotal  models.Money `json:"subtotal"`
}

// CartService 购物车业务服务
type CartService struct {
	cfg         *config.Config
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cfg *config.Config, cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cfg: cfg, cartRepo: cartRepo, productRepo: productRepo}
}

// GetOrCreate 获取所有者活跃购物车，不存在或已过期时新建
func (s *CartService) GetOrCreate(owner CartOwner) (*models.Cart, error) {
	ownerKey, err := owner.Key()
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetActiveByOwnerKey(ownerKey)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if cart != nil && cart.IsExpired(now) {
		// 惰性过期：访问时才失活并换新车
		if err := s.cartRepo.Deactivate(cart); err != nil {
			return nil, err
		}
		logger.Infow("cart_expired", "cart_id", cart.ID, "owner_key", ownerKey)
		cart = nil
	}
	if cart != nil {
		return cart, nil
	}

	expiresAt := now.Add(time.Duration(s.expireDays()) * 24 * time.Hour)
	fresh := &models.Cart{
		OwnerKey:  ownerKey,
		IsActive:  true,
		ExpiresAt: &expiresAt,
	}
	if owner.UserID > 0 {
		userID := owner.UserID
		fresh.UserID = &userID
	} else {
		fresh.SessionToken = strings.TrimSpace(owner.SessionToken)
	}
	if err := s.cartRepo.CreateIfAbsent(fresh); err != nil {
		return nil, err
	}
	// 并发冲突时本次插入可能被跳过，重新按键取回落库的那条
	cart, err = s.cartRepo.GetActiveByOwnerKey(ownerKey)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return fresh, nil
	}
	return cart, nil
}

// View 获取购物车视图
func (s *CartService) View(owner CartOwner) (*CartView, error) {
	cart, err := s.GetOrCreate(owner)
	if err != nil {
		return nil, err
	}
	items, err := s.cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return buildCartView(cart), nil
}

// AddItem 加入商品，同商品叠加数量
func (s *CartService) AddItem(owner CartOwner, productID uint, quantity int) (*CartView, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	if !product.Active {
		return nil, ErrProductInactive
	}

	cart, err := s.GetOrCreate(owner)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.GetItem(cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		item := &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}
		if err := s.cartRepo.CreateItem(item); err != nil {
			return nil, err
		}
	} else {
		if err := s.cartRepo.UpdateItemQuantity(existing.ID, existing.Quantity+quantity); err != nil {
			return nil, err
		}
	}

	return s.View(owner)
}

// UpdateItemQuantity 覆盖数量，数量降到 0 及以下时移除明细
func (s *CartService) UpdateItemQuantity(owner CartOwner, productID uint, quantity int) (*CartView, error) {
	cart, err := s.GetOrCreate(owner)
	if err != nil {
		return nil, err
	}
	existing, err := s.cartRepo.GetItem(cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCartItemNotFound
	}
	if quantity <= 0 {
		if err := s.cartRepo.DeleteItem(cart.ID, productID); err != nil {
			return nil, err
		}
	} else {
		if err := s.cartRepo.UpdateItemQuantity(existing.ID, quantity); err != nil {
			return nil, err
		}
	}
	return s.View(owner)
}

// RemoveItem 移除明细
func (s *CartService) RemoveItem(owner CartOwner, productID uint) (*CartView, error) {
	cart, err := s.GetOrCreate(owner)
	if err != nil {
		return nil, err
	}
	existing, err := s.cartRepo.GetItem(cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCartItemNotFound
	}
	if err := s.cartRepo.DeleteItem(cart.ID, productID); err != nil {
		return nil, err
	}
	return s.View(owner)
}

// Clear 清空购物车
func (s *CartService) Clear(owner CartOwner) (*CartView, error) {
	cart, err := s.GetOrCreate(owner)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.ClearItems(cart.ID); err != nil {
		return nil, err
	}
	return s.View(owner)
}

// MergeSessionCart 登录后把匿名购物车并入用户购物车
func (s *CartService) MergeSessionCart(userID uint, sessionToken string) error {
	token := strings.TrimSpace(sessionToken)
	if userID == 0 || token == "" {
		return nil
	}
	sessionCart, err := s.cartRepo.GetActiveByOwnerKey(models.SessionOwnerKey(token))
	if err != nil {
		return err
	}
	if sessionCart == nil {
		return nil
	}
	items, err := s.cartRepo.ListItems(sessionCart.ID)
	if err != nil {
		return err
	}

	owner := CartOwner{UserID: userID}
	for _, item := range items {
		if _, err := s.AddItem(owner, item.ProductID, item.Quantity); err != nil {
			// 商品下架等个别明细失败不阻断整体合并
			logger.Warnw("cart_merge_item_skipped",
				"session_cart_id", sessionCart.ID,
				"product_id", item.ProductID,
				"error", err,
			)
		}
	}
	if err := s.cartRepo.Deactivate(sessionCart); err != nil {
		return err
	}
	logger.Infow("cart_merged", "session_cart_id", sessionCart.ID, "user_id", userID)
	return nil
}

// SweepExpired 批量失活到期购物车，返回处理条数
func (s *CartService) SweepExpired(now time.Time, limit int) (int, error) {
	carts, err := s.cartRepo.ListExpired(now, limit)
	if err != nil {
		return 0, err
	}
	swept := 0
	for i := range carts {
		if err := s.cartRepo.Deactivate(&carts[i]); err != nil {
			logger.Warnw("cart_sweep_deactivate_failed", "cart_id", carts[i].ID, "error", err)
			continue
		}
		swept++
	}
	if swept > 0 {
		logger.Infow("cart_sweep_done", "swept", swept)
	}
	return swept, nil
}

func (s *CartService) expireDays() int {
	if s.cfg != nil && s.cfg.Cart.ExpireDays > 0 {
		return s.cfg.Cart.ExpireDays
	}
	return constants.DefaultCartExpireDays
}

func buildCartView(cart *models.Cart) *CartView {
	view := &CartView{Cart: cart, Subtotal: models.NewMoneyFromDecimal(decimal.Zero)}
	subtotal := decimal.Zero
	for i := range cart.Items {
		item := &cart.Items[i]
		view.ItemCount += item.Quantity
		subtotal = subtotal.Add(item.Subtotal().Decimal)
	}
	view.Subtotal = models.NewMoneyFromDecimal(subtotal)
	return view
}
