package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/projectstore/internal/config"
	"github.com/projectstore/internal/constants"
	"github.com/projectstore/internal/models"
	"github.com/projectstore/internal/queue"
	"github.com/projectstore/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type orderServiceFixture struct {
	db           *gorm.DB
	cfg          *config.Config
	orderService *OrderService
	cartService  *CartService
	productRepo  *repository.GormProductRepository
	movementRepo *repository.GormStockMovementRepository
	orderRepo    *repository.GormOrderRepository
	cartRepo     *repository.GormCartRepository
}

func setupOrderServiceTest(t *testing.T, name string) *orderServiceFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{}, &models.StockMovement{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Cart.ExpireDays = 30
	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}

	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)

	return &orderServiceFixture{
		db:           db,
		cfg:          cfg,
		orderService: NewOrderService(orderRepo, productRepo, cartRepo, movementRepo, queueClient),
		cartService:  NewCartService(cfg, cartRepo, productRepo),
		productRepo:  productRepo,
		movementRepo: movementRepo,
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
	}
}

func seedProduct(t *testing.T, fx *orderServiceFixture, slug string, price int64, discount int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID: 1,
		Name:       "Product " + slug,
		Slug:       slug,
		Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		Discount:   models.NewMoneyFromDecimal(decimal.NewFromInt(discount)),
		Stock:      stock,
		MinStock:   5,
		Active:     true,
	}
	if err := fx.productRepo.Create(product); err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	return product
}

func checkoutInput() CheckoutInput {
	return CheckoutInput{
		CustomerName:  "Ana Pérez",
		CustomerPhone: "3001234567",
		Address:       "Calle 1 # 2-3",
		City:          "Bogotá",
	}
}

func TestCheckoutPricesServerSideAndDecrementsStock(t *testing.T) {
	fx := setupOrderServiceTest(t, "checkout_reprice")
	product := seedProduct(t, fx, "priced", 100, 10, 20)

	owner := CartOwner{UserID: 1}
	if _, err := fx.cartService.AddItem(owner, product.ID, 3); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	order, err := fx.orderService.Checkout(1, owner, checkoutInput())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if len(order.Items) != 1 {
		t.Fatalf("order items want 1 got %d", len(order.Items))
	}
	// 单价取折后价 100*(1-10/100)=90，总额 270
	if order.Items[0].UnitPrice.String() != "90" {
		t.Fatalf("unit price want 90 got %s", order.Items[0].UnitPrice.String())
	}
	if !order.Total.Decimal.Equal(decimal.NewFromInt(270)) {
		t.Fatalf("total want 270 got %s", order.Total.String())
	}
	// 折扣总额 = (100-90)*3
	if !order.Discount.Decimal.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("discount want 30 got %s", order.Discount.String())
	}
	if !strings.HasPrefix(order.OrderNo, "ORD-") {
		t.Fatalf("order no should start with ORD-, got %s", order.OrderNo)
	}

	var got models.Product
	if err := fx.db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.Stock != 17 {
		t.Fatalf("stock want 17 got %d", got.Stock)
	}
	if got.SalesCount != 3 {
		t.Fatalf("sales count want 3 got %d", got.SalesCount)
	}

	movements, total, err := fx.movementRepo.List(repository.StockMovementListFilter{ProductID: product.ID})
	if err != nil {
		t.Fatalf("list movements failed: %v", err)
	}
	if total != 1 || movements[0].Type != constants.StockMovementSale {
		t.Fatalf("expected one sale movement, got total=%d", total)
	}
	if movements[0].Quantity != -3 || movements[0].StockAfter != 17 {
		t.Fatalf("sale movement mismatch: %+v", movements[0])
	}
	// sale 流水在事务内直接带订单引用
	if movements[0].ReferenceID == nil || *movements[0].ReferenceID != order.ID {
		t.Fatalf("sale movement should reference order %d, got %+v", order.ID, movements[0].ReferenceID)
	}

	// 结算后购物车失活，再取会得到新的空车
	view, err := fx.cartService.View(owner)
	if err != nil {
		t.Fatalf("view cart failed: %v", err)
	}
	if view.ItemCount != 0 {
		t.Fatalf("cart should be empty after checkout, got %d items", view.ItemCount)
	}
}

func TestGuestCheckoutWithSessionCart(t *testing.T) {
	fx := setupOrderServiceTest(t, "checkout_guest")
	product := seedProduct(t, fx, "guest-item", 40, 0, 8)

	owner := CartOwner{SessionToken: "guest-session-token"}
	if _, err := fx.cartService.AddItem(owner, product.ID, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	order, err := fx.orderService.Checkout(0, owner, checkoutInput())
	if err != nil {
		t.Fatalf("guest checkout failed: %v", err)
	}
	if order.UserID != nil {
		t.Fatalf("guest order should have no user, got %v", *order.UserID)
	}
	if !order.Total.Decimal.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("total want 80 got %s", order.Total.String())
	}

	var got models.Product
	if err := fx.db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.Stock != 6 {
		t.Fatalf("stock want 6 got %d", got.Stock)
	}

	// 游客单不出现在任何登录用户的列表里，管理员可见
	_, total, err := fx.orderService.List(repository.OrderListFilter{Page: 1, PageSize: 10}, 7, false)
	if err != nil {
		t.Fatalf("client list failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("guest order leaked into client list, total=%d", total)
	}
	if _, err := fx.orderService.Get(order.ID, 7, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("guest order should be hidden from clients, got %v", err)
	}
	if _, err := fx.orderService.Get(order.ID, 1, true); err != nil {
		t.Fatalf("admin should see guest order: %v", err)
	}
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	fx := setupOrderServiceTest(t, "checkout_rollback")
	plenty := seedProduct(t, fx, "plenty", 50, 0, 10)
	scarce := seedProduct(t, fx, "scarce", 30, 0, 1)

	owner := CartOwner{UserID: 2}
	if _, err := fx.cartService.AddItem(owner, plenty.ID, 2); err != nil {
		t.Fatalf("add plenty failed: %v", err)
	}
	if _, err := fx.cartService.AddItem(owner, scarce.ID, 5); err != nil {
		t.Fatalf("add scarce failed: %v", err)
	}

	_, err := fx.orderService.Checkout(2, owner, checkoutInput())
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// 整单回滚：两个商品库存都不变，无订单无流水
	var gotPlenty, gotScarce models.Product
	if err := fx.db.First(&gotPlenty, plenty.ID).Error; err != nil {
		t.Fatalf("reload plenty failed: %v", err)
	}
	if err := fx.db.First(&gotScarce, scarce.ID).Error; err != nil {
		t.Fatalf("reload scarce failed: %v", err)
	}
	if gotPlenty.Stock != 10 || gotScarce.Stock != 1 {
		t.Fatalf("stocks should be untouched, got %d/%d", gotPlenty.Stock, gotScarce.Stock)
	}
	var orderCount int64
	if err := fx.db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("order count want 0 got %d", orderCount)
	}
	var movementCount int64
	if err := fx.db.Model(&models.StockMovement{}).Count(&movementCount).Error; err != nil {
		t.Fatalf("count movements failed: %v", err)
	}
	if movementCount != 0 {
		t.Fatalf("movement count want 0 got %d", movementCount)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	fx := setupOrderServiceTest(t, "checkout_empty")
	owner := CartOwner{UserID: 3}
	if _, err := fx.cartService.GetOrCreate(owner); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if _, err := fx.orderService.Checkout(3, owner, checkoutInput()); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
}

func TestLastUnitOnlyOneCheckoutSucceeds(t *testing.T) {
	fx := setupOrderServiceTest(t, "checkout_last_unit")
	product := seedProduct(t, fx, "last-unit", 10, 0, 1)

	first := CartOwner{UserID: 10}
	second := CartOwner{UserID: 11}
	if _, err := fx.cartService.AddItem(first, product.ID, 1); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if _, err := fx.cartService.AddItem(second, product.ID, 1); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if _, err := fx.orderService.Checkout(10, first, checkoutInput()); err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}
	if _, err := fx.orderService.Checkout(11, second, checkoutInput()); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock for second buyer, got %v", err)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	fx := setupOrderServiceTest(t, "order_fsm")
	product := seedProduct(t, fx, "fsm", 20, 0, 10)
	owner := CartOwner{UserID: 5}
	if _, err := fx.cartService.AddItem(owner, product.ID, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	order, err := fx.orderService.Checkout(5, owner, checkoutInput())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	// pending 不能直接 delivered
	if _, err := fx.orderService.UpdateStatus(order.ID, constants.OrderStatusDelivered, 1); !errors.Is(err, ErrOrderTransitionDenied) {
		t.Fatalf("expected transition denied, got %v", err)
	}

	updated, err := fx.orderService.UpdateStatus(order.ID, constants.OrderStatusConfirmed, 1)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if updated.ConfirmedAt == nil {
		t.Fatalf("confirmed_at should be set")
	}
	if _, err := fx.orderService.UpdateStatus(order.ID, constants.OrderStatusInTransit, 1); err != nil {
		t.Fatalf("in_transit failed: %v", err)
	}
	updated, err = fx.orderService.UpdateStatus(order.ID, constants.OrderStatusDelivered, 1)
	if err != nil {
		t.Fatalf("delivered failed: %v", err)
	}
	if updated.DeliveredAt == nil {
		t.Fatalf("delivered_at should be set")
	}

	// 终态后拒绝任何变更
	if _, err := fx.orderService.UpdateStatus(order.ID, constants.OrderStatusCancelled, 1); !errors.Is(err, ErrOrderTerminal) {
		t.Fatalf("expected ErrOrderTerminal, got %v", err)
	}
}

func TestCancelRestoresStockWithReturnMovement(t *testing.T) {
	fx := setupOrderServiceTest(t, "order_cancel")
	product := seedProduct(t, fx, "cancelable", 20, 0, 10)
	owner := CartOwner{UserID: 6}
	if _, err := fx.cartService.AddItem(owner, product.ID, 4); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	order, err := fx.orderService.Checkout(6, owner, checkoutInput())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	cancelled, err := fx.orderService.Cancel(order.ID, 6, false)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled || cancelled.CancelledAt == nil {
		t.Fatalf("order should be cancelled, got %+v", cancelled.Status)
	}

	var got models.Product
	if err := fx.db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.Stock != 10 {
		t.Fatalf("stock should be restored to 10, got %d", got.Stock)
	}

	movements, _, err := fx.movementRepo.List(repository.StockMovementListFilter{
		ProductID: product.ID,
		Type:      constants.StockMovementReturn,
	})
	if err != nil {
		t.Fatalf("list return movements failed: %v", err)
	}
	if len(movements) != 1 || movements[0].Quantity != 4 {
		t.Fatalf("expected one return movement of 4, got %+v", movements)
	}

	// 已确认订单客户不可取消
	product2 := seedProduct(t, fx, "confirmed-order", 20, 0, 10)
	if _, err := fx.cartService.AddItem(owner, product2.ID, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	order2, err := fx.orderService.Checkout(6, owner, checkoutInput())
	if err != nil {
		t.Fatalf("second checkout failed: %v", err)
	}
	if _, err := fx.orderService.UpdateStatus(order2.ID, constants.OrderStatusConfirmed, 1); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if _, err := fx.orderService.Cancel(order2.ID, 6, false); !errors.Is(err, ErrOrderTransitionDenied) {
		t.Fatalf("expected transition denied for client cancel after confirm, got %v", err)
	}
	// 管理员仍可取消
	if _, err := fx.orderService.Cancel(order2.ID, 1, true); err != nil {
		t.Fatalf("admin cancel failed: %v", err)
	}
}

func TestOrderListScopedToRequester(t *testing.T) {
	fx := setupOrderServiceTest(t, "order_scope")
	product := seedProduct(t, fx, "scoped", 20, 0, 50)

	for _, userID := range []uint{21, 22} {
		owner := CartOwner{UserID: userID}
		if _, err := fx.cartService.AddItem(owner, product.ID, 1); err != nil {
			t.Fatalf("add item failed: %v", err)
		}
		if _, err := fx.orderService.Checkout(userID, owner, checkoutInput()); err != nil {
			t.Fatalf("checkout failed: %v", err)
		}
	}

	orders, total, err := fx.orderService.List(repository.OrderListFilter{Page: 1, PageSize: 10}, 21, false)
	if err != nil {
		t.Fatalf("client list failed: %v", err)
	}
	if total != 1 || orders[0].UserID == nil || *orders[0].UserID != 21 {
		t.Fatalf("client should only see own orders, total=%d", total)
	}

	_, total, err = fx.orderService.List(repository.OrderListFilter{Page: 1, PageSize: 10}, 1, true)
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("admin should see all orders, total=%d", total)
	}

	// 他人订单按不存在处理
	other, _, err := fx.orderService.List(repository.OrderListFilter{Page: 1, PageSize: 10}, 22, false)
	if err != nil {
		t.Fatalf("other list failed: %v", err)
	}
	if _, err := fx.orderService.Get(other[0].ID, 21, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign order, got %v", err)
	}
}

func TestUpdateAdminNotes(t *testing.T) {
	fx := setupOrderServiceTest(t, "order_admin_notes")
	product := seedProduct(t, fx, "noted", 30, 0, 10)

	owner := CartOwner{UserID: 31}
	if _, err := fx.cartService.AddItem(owner, product.ID, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	order, err := fx.orderService.Checkout(31, owner, checkoutInput())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	updated, err := fx.orderService.UpdateAdminNotes(order.ID, "  llamar antes de entregar ", 1)
	if err != nil {
		t.Fatalf("update admin notes failed: %v", err)
	}
	if updated.AdminNotes != "llamar antes de entregar" {
		t.Fatalf("unexpected admin notes: %q", updated.AdminNotes)
	}

	if _, err := fx.orderService.UpdateAdminNotes(order.ID+100, "x", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing order, got %v", err)
	}
}

func TestCanTransitionTable(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{constants.OrderStatusPending, constants.OrderStatusConfirmed, true},
		{constants.OrderStatusPending, constants.OrderStatusCancelled, true},
		{constants.OrderStatusPending, constants.OrderStatusDelivered, false},
		{constants.OrderStatusConfirmed, constants.OrderStatusInTransit, true},
		{constants.OrderStatusInTransit, constants.OrderStatusDelivered, true},
		{constants.OrderStatusDelivered, constants.OrderStatusCancelled, false},
		{constants.OrderStatusCancelled, constants.OrderStatusPending, false},
		{"unknown", constants.OrderStatusPending, false},
	}
	for _, tc := range cases {
		if got := canTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("canTransition(%s, %s) want %v got %v", tc.from, tc.to, tc.want, got)
		}
	}
}
