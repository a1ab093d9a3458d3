package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/projectstore/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCartRepositoryTest(t *testing.T) (*GormCartRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:cart_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Cart{}, &models.CartItem{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewCartRepository(db), db
}

func TestCreateIfAbsentKeepsSingleActiveCart(t *testing.T) {
	repo, db := setupCartRepositoryTest(t)
	ownerKey := models.UserOwnerKey(42)
	userID := uint(42)

	first := &models.Cart{UserID: &userID, OwnerKey: ownerKey, IsActive: true}
	if err := repo.CreateIfAbsent(first); err != nil {
		t.Fatalf("create first cart failed: %v", err)
	}
	second := &models.Cart{UserID: &userID, OwnerKey: ownerKey, IsActive: true}
	if err := repo.CreateIfAbsent(second); err != nil {
		t.Fatalf("conflicting create should not error: %v", err)
	}

	var count int64
	if err := db.Model(&models.Cart{}).Where("owner_key = ?", ownerKey).Count(&count).Error; err != nil {
		t.Fatalf("count carts failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("active cart count want 1 got %d", count)
	}
}

func TestDeactivateRewritesOwnerKey(t *testing.T) {
	repo, db := setupCartRepositoryTest(t)
	ownerKey := models.SessionOwnerKey("abc123")

	cart := &models.Cart{SessionToken: "abc123", OwnerKey: ownerKey, IsActive: true}
	if err := repo.CreateIfAbsent(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if err := repo.Deactivate(cart); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	var got models.Cart
	if err := db.First(&got, cart.ID).Error; err != nil {
		t.Fatalf("reload cart failed: %v", err)
	}
	if got.IsActive {
		t.Fatalf("cart should be inactive")
	}
	if got.OwnerKey != models.RetiredOwnerKey(ownerKey, cart.ID) {
		t.Fatalf("owner key not rewritten: %s", got.OwnerKey)
	}

	// 活跃位已释放，同所有者可再开新车
	replacement := &models.Cart{SessionToken: "abc123", OwnerKey: ownerKey, IsActive: true}
	if err := repo.CreateIfAbsent(replacement); err != nil {
		t.Fatalf("create replacement cart failed: %v", err)
	}
	active, err := repo.GetActiveByOwnerKey(ownerKey)
	if err != nil {
		t.Fatalf("get active cart failed: %v", err)
	}
	if active == nil || active.ID == cart.ID {
		t.Fatalf("expected fresh active cart, got %+v", active)
	}
}

func TestCartItemLifecycle(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)
	cart := &models.Cart{OwnerKey: models.SessionOwnerKey("items"), IsActive: true}
	if err := repo.CreateIfAbsent(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}

	item := &models.CartItem{CartID: cart.ID, ProductID: 7, Quantity: 2}
	if err := repo.CreateItem(item); err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	if err := repo.UpdateItemQuantity(item.ID, 5); err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}

	got, err := repo.GetItem(cart.ID, 7)
	if err != nil {
		t.Fatalf("get item failed: %v", err)
	}
	if got == nil || got.Quantity != 5 {
		t.Fatalf("item quantity want 5 got %+v", got)
	}

	if err := repo.DeleteItem(cart.ID, 7); err != nil {
		t.Fatalf("delete item failed: %v", err)
	}
	got, err = repo.GetItem(cart.ID, 7)
	if err != nil {
		t.Fatalf("get deleted item failed: %v", err)
	}
	if got != nil {
		t.Fatalf("item should be gone, got %+v", got)
	}
}
