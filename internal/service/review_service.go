package service

import (
	"strings"

	"github.com/projectstore/internal/logger"
	"github.com/projectstore/internal/models"
	"github.com/projectstore/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReviewService 评价业务服务
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	orderRepo   repository.OrderRepository
}

// NewReviewService 创建评价服务
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		orderRepo:   orderRepo,
	}
}

// ReviewInput 创建/更新评价输入
type ReviewInput struct {
	ProductID uint
	Rating    int
	Comment   string
}

// List 评价列表
func (s *ReviewService) List(filter repository.ReviewListFilter) ([]models.Review, int64, error) {
	return s.reviewRepo.List(filter)
}

// Create 创建评价，同一用户同一商品只允许一条，并回写商品评分
func (s *ReviewService) Create(userID uint, input ReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.Active {
		return nil, ErrNotFound
	}

	existing, err := s.reviewRepo.GetByProductAndUser(input.ProductID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewExists
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	verified, err := s.orderRepo.HasPurchased(userID, input.ProductID)
	if err != nil {
		return nil, err
	}

	// 用户名落快照，之后改名不影响历史评价
	review := &models.Review{
		ProductID:  input.ProductID,
		UserID:     userID,
		UserName:   strings.TrimSpace(user.Name),
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
		IsVerified: verified,
	}
	err = s.productRepo.Transaction(func(tx *gorm.DB) error {
		reviewRepo := s.reviewRepo.WithTx(tx)
		if err := reviewRepo.Create(review); err != nil {
			return err
		}
		return s.recomputeRating(tx, input.ProductID)
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("review_created", "review_id", review.ID, "product_id", input.ProductID, "rating", input.Rating)
	return review, nil
}

// Update 更新评价并重算商品评分，本人或管理员可改
func (s *ReviewService) Update(id, requesterID uint, isAdmin bool, input ReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrNotFound
	}
	if !isAdmin && review.UserID != requesterID {
		return nil, ErrNotFound
	}

	review.Rating = input.Rating
	review.Comment = strings.TrimSpace(input.Comment)
	err = s.productRepo.Transaction(func(tx *gorm.DB) error {
		reviewRepo := s.reviewRepo.WithTx(tx)
		if err := reviewRepo.Update(review); err != nil {
			return err
		}
		return s.recomputeRating(tx, review.ProductID)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// Delete 删除评价，本人或管理员可删，删后重算商品评分
func (s *ReviewService) Delete(id, requesterID uint, isAdmin bool) error {
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrNotFound
	}
	if !isAdmin && review.UserID != requesterID {
		return ErrPermissionDenied
	}
	return s.productRepo.Transaction(func(tx *gorm.DB) error {
		reviewRepo := s.reviewRepo.WithTx(tx)
		if err := reviewRepo.Delete(id); err != nil {
			return err
		}
		return s.recomputeRating(tx, review.ProductID)
	})
}

// recomputeRating 用评价聚合重算商品评分与评价数
func (s *ReviewService) recomputeRating(tx *gorm.DB, productID uint) error {
	reviewRepo := s.reviewRepo.WithTx(tx)
	productRepo := s.productRepo.WithTx(tx)

	agg, err := reviewRepo.Aggregate(productID)
	if err != nil {
		return err
	}
	rating := decimal.Zero
	if agg.Count > 0 {
		rating = decimal.NewFromFloat(agg.Average).Round(2)
	}
	return productRepo.UpdateRating(productID, models.NewMoneyFromDecimal(rating), int(agg.Count))
}
