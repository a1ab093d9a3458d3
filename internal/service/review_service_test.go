package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/projectstore/internal/models"
	"github.com/projectstore/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type reviewServiceFixture struct {
	db          *gorm.DB
	svc         *ReviewService
	productRepo *repository.GormProductRepository
	userRepo    *repository.GormUserRepository
}

func setupReviewServiceTest(t *testing.T, name string) *reviewServiceFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Review{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	productRepo := repository.NewProductRepository(db)
	userRepo := repository.NewUserRepository(db)
	svc := NewReviewService(
		repository.NewReviewRepository(db),
		productRepo,
		userRepo,
		repository.NewOrderRepository(db),
	)
	return &reviewServiceFixture{db: db, svc: svc, productRepo: productRepo, userRepo: userRepo}
}

func seedReviewProduct(t *testing.T, fx *reviewServiceFixture, slug string) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID: 1,
		Name:       "Product " + slug,
		Slug:       slug,
		Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		Stock:      10,
		MinStock:   5,
		Active:     true,
	}
	if err := fx.productRepo.Create(product); err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	return product
}

func seedReviewUser(t *testing.T, fx *reviewServiceFixture, id uint, name string) {
	t.Helper()
	user := &models.User{
		ID:           id,
		Email:        fmt.Sprintf("user%d@example.com", id),
		PasswordHash: "x",
		Name:         name,
		Role:         "client",
		IsActive:     true,
	}
	if err := fx.db.Create(user).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
}

func TestCreateReviewRecomputesProductRating(t *testing.T) {
	fx := setupReviewServiceTest(t, "review_rating")
	product := seedReviewProduct(t, fx, "rated")
	seedReviewUser(t, fx, 1, "Ana")
	seedReviewUser(t, fx, 2, "Luis")

	if _, err := fx.svc.Create(1, ReviewInput{ProductID: product.ID, Rating: 5, Comment: "excelente"}); err != nil {
		t.Fatalf("first review failed: %v", err)
	}
	if _, err := fx.svc.Create(2, ReviewInput{ProductID: product.ID, Rating: 4}); err != nil {
		t.Fatalf("second review failed: %v", err)
	}

	var got models.Product
	if err := fx.db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.ReviewCount != 2 {
		t.Fatalf("review count want 2 got %d", got.ReviewCount)
	}
	if !got.Rating.Decimal.Equal(decimal.NewFromFloat(4.5)) {
		t.Fatalf("rating want 4.5 got %s", got.Rating.String())
	}
}

func TestDuplicateReviewRejected(t *testing.T) {
	fx := setupReviewServiceTest(t, "review_dup")
	product := seedReviewProduct(t, fx, "once-only")
	seedReviewUser(t, fx, 1, "Ana")

	if _, err := fx.svc.Create(1, ReviewInput{ProductID: product.ID, Rating: 3}); err != nil {
		t.Fatalf("first review failed: %v", err)
	}
	if _, err := fx.svc.Create(1, ReviewInput{ProductID: product.ID, Rating: 5}); !errors.Is(err, ErrReviewExists) {
		t.Fatalf("expected ErrReviewExists, got %v", err)
	}
}

func TestReviewRatingBounds(t *testing.T) {
	fx := setupReviewServiceTest(t, "review_bounds")
	product := seedReviewProduct(t, fx, "bounded")
	seedReviewUser(t, fx, 1, "Ana")

	if _, err := fx.svc.Create(1, ReviewInput{ProductID: product.ID, Rating: 0}); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("rating 0 should be rejected, got %v", err)
	}
	if _, err := fx.svc.Create(1, ReviewInput{ProductID: product.ID, Rating: 6}); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("rating 6 should be rejected, got %v", err)
	}
}

func TestDeleteReviewRecomputesAndChecksOwnership(t *testing.T) {
	fx := setupReviewServiceTest(t, "review_delete")
	product := seedReviewProduct(t, fx, "deletable")
	seedReviewUser(t, fx, 1, "Ana")
	seedReviewUser(t, fx, 2, "Luis")

	review, err := fx.svc.Create(1, ReviewInput{ProductID: product.ID, Rating: 5})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if _, err := fx.svc.Create(2, ReviewInput{ProductID: product.ID, Rating: 1}); err != nil {
		t.Fatalf("second review failed: %v", err)
	}

	// 非本人非管理员不可删
	if err := fx.svc.Delete(review.ID, 2, false); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if err := fx.svc.Delete(review.ID, 1, false); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}

	var got models.Product
	if err := fx.db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.ReviewCount != 1 || !got.Rating.Decimal.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("rating should be recomputed to 1, got %s count %d", got.Rating.String(), got.ReviewCount)
	}
}

func TestReviewAfterDeleteAllowed(t *testing.T) {
	fx := setupReviewServiceTest(t, "review_redo")
	product := seedReviewProduct(t, fx, "redoable")
	seedReviewUser(t, fx, 1, "Ana")

	review, err := fx.svc.Create(1, ReviewInput{ProductID: product.ID, Rating: 2})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if err := fx.svc.Delete(review.ID, 1, false); err != nil {
		t.Fatalf("delete review failed: %v", err)
	}

	// 删除释放唯一槽位，可重新评价
	again, err := fx.svc.Create(1, ReviewInput{ProductID: product.ID, Rating: 4})
	if err != nil {
		t.Fatalf("re-review after delete failed: %v", err)
	}
	if again.Rating != 4 {
		t.Fatalf("new rating want 4 got %d", again.Rating)
	}

	var got models.Product
	if err := fx.db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.ReviewCount != 1 || !got.Rating.Decimal.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("aggregate want 4/1, got %s count %d", got.Rating.String(), got.ReviewCount)
	}
}

func TestReviewSnapshotsUserNameAndPurchase(t *testing.T) {
	fx := setupReviewServiceTest(t, "review_snapshot")
	product := seedReviewProduct(t, fx, "snapshotted")
	seedReviewUser(t, fx, 1, "Ana")
	seedReviewUser(t, fx, 2, "Luis")

	// 用户1有含该商品的订单，用户2没有
	userID := uint(1)
	order := &models.Order{
		OrderNo:      "ORD-20260101000000-000001",
		UserID:       &userID,
		Status:       "delivered",
		CustomerName: "Ana",
		Address:      "Calle 1",
		Items: []models.OrderItem{
			{ProductID: product.ID, ProductName: product.Name, Quantity: 1},
		},
	}
	if err := fx.db.Create(order).Error; err != nil {
		t.Fatalf("seed order failed: %v", err)
	}

	verified, err := fx.svc.Create(1, ReviewInput{ProductID: product.ID, Rating: 5})
	if err != nil {
		t.Fatalf("verified review failed: %v", err)
	}
	if verified.UserName != "Ana" || !verified.IsVerified {
		t.Fatalf("want verified snapshot for Ana, got name=%q verified=%v", verified.UserName, verified.IsVerified)
	}

	unverified, err := fx.svc.Create(2, ReviewInput{ProductID: product.ID, Rating: 3})
	if err != nil {
		t.Fatalf("unverified review failed: %v", err)
	}
	if unverified.IsVerified {
		t.Fatalf("user 2 never purchased, review should not be verified")
	}

	// 改名不影响历史评价的名字快照
	if err := fx.db.Model(&models.User{}).Where("id = ?", 1).Update("name", "Ana María").Error; err != nil {
		t.Fatalf("rename user failed: %v", err)
	}
	var got models.Review
	if err := fx.db.First(&got, verified.ID).Error; err != nil {
		t.Fatalf("reload review failed: %v", err)
	}
	if got.UserName != "Ana" {
		t.Fatalf("snapshot should keep Ana, got %q", got.UserName)
	}
}

func TestAdminCanUpdateAnyReview(t *testing.T) {
	fx := setupReviewServiceTest(t, "review_admin_edit")
	product := seedReviewProduct(t, fx, "moderated")
	seedReviewUser(t, fx, 1, "Ana")

	review, err := fx.svc.Create(1, ReviewInput{ProductID: product.ID, Rating: 5, Comment: "spam"})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}

	// 非本人非管理员不可改
	if _, err := fx.svc.Update(review.ID, 2, false, ReviewInput{Rating: 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign update, got %v", err)
	}

	updated, err := fx.svc.Update(review.ID, 99, true, ReviewInput{Rating: 1, Comment: "moderado"})
	if err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if updated.Rating != 1 || updated.Comment != "moderado" {
		t.Fatalf("admin update not applied: %+v", updated)
	}

	var got models.Product
	if err := fx.db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if !got.Rating.Decimal.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("rating should be recomputed to 1, got %s", got.Rating.String())
	}
}
