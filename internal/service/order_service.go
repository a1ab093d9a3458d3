package service

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/projectstore/internal/constants"
	"github.com/projectstore/internal/logger"
	"github.com/projectstore/internal/models"
	"github.com/projectstore/internal/queue"
	"github.com/projectstore/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单业务服务
type OrderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	cartRepo     repository.CartRepository
	movementRepo repository.StockMovementRepository
	queueClient  *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	movementRepo repository.StockMovementRepository,
	queueClient *queue.Client,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		cartRepo:     cartRepo,
		movementRepo: movementRepo,
		queueClient:  queueClient,
	}
}

// CheckoutInput 结算输入，金额一律以服务端当前价为准
type CheckoutInput struct {
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  string
	Address        string
	City           string
	Department     string
	DeliveryMethod string
	Notes          string
}

type lowStockHit struct {
	ProductID uint
	Stock     int
	MinStock  int
}

// Checkout 把活跃购物车结算为订单。
// 事务内按当前折后价重新计价、条件扣减库存并记 sale 流水，
// 任意一件库存不足则整单回滚。
func (s *OrderService) Checkout(userID uint, owner CartOwner, input CheckoutInput) (*models.Order, error) {
	ownerKey, err := owner.Key()
	if err != nil {
		return nil, err
	}
	cart, err := s.cartRepo.GetActiveByOwnerKey(ownerKey)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartEmpty
	}
	items, err := s.cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}
	if strings.TrimSpace(input.CustomerName) == "" || strings.TrimSpace(input.CustomerPhone) == "" || strings.TrimSpace(input.Address) == "" {
		return nil, ErrInvalidOrderItem
	}

	deliveryMethod := strings.TrimSpace(input.DeliveryMethod)
	if deliveryMethod == "" {
		deliveryMethod = constants.DefaultDeliveryMethod
	}

	// userID 为 0 表示游客单，仅凭会话购物车下单
	var actor *uint
	if userID > 0 {
		actor = &userID
	}

	order := &models.Order{
		OrderNo:        generateOrderNo(),
		UserID:         actor,
		Status:         constants.OrderStatusPending,
		CustomerName:   strings.TrimSpace(input.CustomerName),
		CustomerPhone:  strings.TrimSpace(input.CustomerPhone),
		CustomerEmail:  strings.TrimSpace(input.CustomerEmail),
		Address:        strings.TrimSpace(input.Address),
		City:           strings.TrimSpace(input.City),
		Department:     strings.TrimSpace(input.Department),
		DeliveryMethod: deliveryMethod,
		Notes:          strings.TrimSpace(input.Notes),
	}

	var lowStockHits []lowStockHit
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		movementRepo := s.movementRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		// 先落订单头，明细与库存流水直接引用订单ID
		if err := orderRepo.Create(order); err != nil {
			return err
		}

		subtotal := decimal.Zero
		discountTotal := decimal.Zero
		for _, item := range items {
			if item.Quantity <= 0 {
				return ErrInvalidOrderItem
			}
			product, err := productRepo.GetByID(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil || !product.Active {
				return ErrProductInactive
			}

			affected, err := productRepo.DecrementStock(product.ID, item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrInsufficientStock
			}

			stockAfter := product.Stock - item.Quantity
			movement := &models.StockMovement{
				ProductID:     product.ID,
				Type:          constants.StockMovementSale,
				Quantity:      -item.Quantity,
				StockBefore:   product.Stock,
				StockAfter:    stockAfter,
				Reason:        "order " + order.OrderNo,
				ReferenceType: constants.StockReferenceOrder,
				ReferenceID:   &order.ID,
				CreatedBy:     actor,
			}
			if err := movementRepo.Create(movement); err != nil {
				return err
			}
			if err := productRepo.IncrementSalesCount(product.ID, item.Quantity); err != nil {
				return err
			}
			if stockAfter <= product.MinStock {
				lowStockHits = append(lowStockHits, lowStockHit{
					ProductID: product.ID,
					Stock:     stockAfter,
					MinStock:  product.MinStock,
				})
			}

			unitPrice := product.FinalPrice()
			lineSubtotal := models.ComputeSubtotal(unitPrice, item.Quantity)
			subtotal = subtotal.Add(lineSubtotal.Decimal)
			lineDiscount := product.Price.Decimal.Sub(unitPrice.Decimal).Mul(decimal.NewFromInt(int64(item.Quantity)))
			if lineDiscount.IsPositive() {
				discountTotal = discountTotal.Add(lineDiscount)
			}
			order.Items = append(order.Items, models.OrderItem{
				OrderID:     order.ID,
				ProductID:   product.ID,
				ProductName: product.Name,
				ProductImg:  product.Image,
				UnitPrice:   unitPrice,
				Quantity:    item.Quantity,
				Subtotal:    lineSubtotal,
			})
		}

		if err := orderRepo.CreateItems(order.Items); err != nil {
			return err
		}

		order.Subtotal = models.NewMoneyFromDecimal(subtotal)
		order.Discount = models.NewMoneyFromDecimal(discountTotal)
		order.Total = models.NewMoneyFromDecimal(subtotal)

		if err := orderRepo.Update(order); err != nil {
			return err
		}
		if err := cartRepo.ClearItems(cart.ID); err != nil {
			return err
		}
		return cartRepo.Deactivate(cart)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", userID,
		"total", order.Total.String(),
	)

	if err := s.queueClient.EnqueueOrderConfirmation(queue.OrderConfirmationPayload{
		OrderID: order.ID,
		OrderNo: order.OrderNo,
	}); err != nil {
		logger.Warnw("order_confirmation_enqueue_failed", "order_id", order.ID, "error", err)
	}
	for _, hit := range lowStockHits {
		if err := s.queueClient.EnqueueLowStockAlert(queue.LowStockAlertPayload{
			ProductID: hit.ProductID,
			Stock:     hit.Stock,
			MinStock:  hit.MinStock,
		}); err != nil {
			logger.Warnw("low_stock_enqueue_failed", "product_id", hit.ProductID, "error", err)
		}
	}

	return order, nil
}

// Get 获取订单，客户只能看自己的
func (s *OrderService) Get(id uint, requesterID uint, isAdmin bool) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	if !isAdmin && !ownedBy(order, requesterID) {
		return nil, ErrNotFound
	}
	return order, nil
}

// GetByOrderNo 按订单号获取订单
func (s *OrderService) GetByOrderNo(orderNo string, requesterID uint, isAdmin bool) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(strings.TrimSpace(orderNo))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	if !isAdmin && !ownedBy(order, requesterID) {
		return nil, ErrNotFound
	}
	return order, nil
}

// ownedBy 游客单不归属任何登录用户
func ownedBy(order *models.Order, requesterID uint) bool {
	return order.UserID != nil && *order.UserID == requesterID
}

// List 订单列表，客户视角强制过滤到本人
func (s *OrderService) List(filter repository.OrderListFilter, requesterID uint, isAdmin bool) ([]models.Order, int64, error) {
	if !isAdmin {
		filter.UserID = requesterID
	}
	return s.orderRepo.List(filter)
}

// UpdateStatus 管理员推进订单状态，取消时回补库存
func (s *OrderService) UpdateStatus(id uint, newStatus string, operatorID uint) (*models.Order, error) {
	normalized := strings.ToLower(strings.TrimSpace(newStatus))
	if !constants.IsValidOrderStatus(normalized) {
		return nil, ErrOrderStatusInvalid
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	if order.IsTerminal() {
		return nil, ErrOrderTerminal
	}
	if !canTransition(order.Status, normalized) {
		return nil, ErrOrderTransitionDenied
	}

	if normalized == constants.OrderStatusCancelled {
		return s.cancel(order, operatorID)
	}

	now := time.Now()
	order.Status = normalized
	switch normalized {
	case constants.OrderStatusConfirmed:
		order.ConfirmedAt = &now
	case constants.OrderStatusDelivered:
		order.DeliveredAt = &now
	}
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	logger.Infow("order_status_updated", "order_id", order.ID, "status", normalized)
	return order, nil
}

// UpdateAdminNotes 管理员更新订单内部备注
func (s *OrderService) UpdateAdminNotes(id uint, notes string, operatorID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	order.AdminNotes = strings.TrimSpace(notes)
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	logger.Infow("order_admin_notes_updated", "order_id", order.ID, "operator_id", operatorID)
	return order, nil
}

// Cancel 客户取消本人的待处理订单
func (s *OrderService) Cancel(id uint, requesterID uint, isAdmin bool) (*models.Order, error) {
	order, err := s.Get(id, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}
	if order.IsTerminal() {
		return nil, ErrOrderTerminal
	}
	// 客户只能在未确认前取消，管理员可在任何非终态取消
	if !isAdmin && order.Status != constants.OrderStatusPending {
		return nil, ErrOrderTransitionDenied
	}
	return s.cancel(order, requesterID)
}

// cancel 取消订单并按明细回补库存，记 return 流水
func (s *OrderService) cancel(order *models.Order, operatorID uint) (*models.Order, error) {
	now := time.Now()
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		movementRepo := s.movementRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		for _, item := range order.Items {
			product, err := productRepo.GetByID(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				continue
			}
			if _, err := productRepo.IncrementStock(product.ID, item.Quantity); err != nil {
				return err
			}
			orderID := order.ID
			movement := &models.StockMovement{
				ProductID:     product.ID,
				Type:          constants.StockMovementReturn,
				Quantity:      item.Quantity,
				StockBefore:   product.Stock,
				StockAfter:    product.Stock + item.Quantity,
				Reason:        "cancel order " + order.OrderNo,
				ReferenceType: constants.StockReferenceOrder,
				ReferenceID:   &orderID,
				CreatedBy:     &operatorID,
			}
			if err := movementRepo.Create(movement); err != nil {
				return err
			}
		}

		order.Status = constants.OrderStatusCancelled
		order.CancelledAt = &now
		return orderRepo.Update(order)
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("order_cancelled", "order_id", order.ID, "order_no", order.OrderNo)
	return order, nil
}

// generateOrderNo 生成订单号：ORD-UTC时间戳-6位随机数字
func generateOrderNo() string {
	return "ORD-" + time.Now().UTC().Format("20060102150405") + "-" + randNumeric(6)
}

func randNumeric(length int) string {
	const digits = "0123456789"
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			buf[i] = '0'
			continue
		}
		buf[i] = digits[n.Int64()]
	}
	return string(buf)
}
