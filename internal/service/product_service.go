package service

import (
	"strings"

	"github.com/projectstore/internal/constants"
	"github.com/projectstore/internal/logger"
	"github.com/projectstore/internal/models"
	"github.com/projectstore/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品业务服务
type ProductService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{repo: repo, categoryRepo: categoryRepo}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	CategoryID  uint
	Name        string
	Slug        string
	Description string
	SKU         string
	Price       models.Money
	Discount    models.Money
	Stock       *int
	MinStock    *int
	Image       string
	Images      []string
	Brand       string
	Color       string
	Size        string
	Material    string
	Weight      string
	Dimensions  string
	Warranty    string
	Shipping    string
	Returns     string
	Features    []string
	Tags        []string
	Active      *bool
	Featured    *bool
	Recommended *bool
}

// List 商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.repo.List(filter)
}

// Get 商品详情，公开访问时只返回上架商品并累计浏览量
func (s *ProductService) Get(id uint, publicView bool) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	if publicView {
		if !product.Active {
			return nil, ErrNotFound
		}
		if err := s.repo.IncrementViewCount(product.ID); err != nil {
			logger.Warnw("product_view_count_failed", "product_id", product.ID, "error", err)
		} else {
			product.ViewCount++
		}
	}
	return product, nil
}

// GetBySlug 按 slug 获取商品详情
func (s *ProductService) GetBySlug(slug string, publicView bool) (*models.Product, error) {
	product, err := s.repo.GetBySlug(strings.TrimSpace(slug), publicView)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	if publicView {
		if err := s.repo.IncrementViewCount(product.ID); err != nil {
			logger.Warnw("product_view_count_failed", "product_id", product.ID, "error", err)
		} else {
			product.ViewCount++
		}
	}
	return product, nil
}

// validatePricing 价格不为负，折扣限定在 0-100
func validatePricing(price, discount models.Money) error {
	if price.Decimal.IsNegative() {
		return ErrInvalidPrice
	}
	hundred := decimal.NewFromInt(100)
	if discount.Decimal.IsNegative() || discount.Decimal.GreaterThan(hundred) {
		return ErrInvalidPrice
	}
	return nil
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput, createdBy *uint) (*models.Product, error) {
	if err := validatePricing(input.Price, input.Discount); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}

	count, err := s.repo.CountBySlug(input.Slug, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	product := models.Product{
		CategoryID:  input.CategoryID,
		Name:        strings.TrimSpace(input.Name),
		Slug:        strings.TrimSpace(input.Slug),
		Description: input.Description,
		SKU:         strings.TrimSpace(input.SKU),
		Price:       input.Price,
		Discount:    input.Discount,
		MinStock:    constants.DefaultMinStock,
		Image:       input.Image,
		Images:      input.Images,
		Brand:       input.Brand,
		Color:       input.Color,
		Size:        input.Size,
		Material:    input.Material,
		Weight:      input.Weight,
		Dimensions:  input.Dimensions,
		Warranty:    input.Warranty,
		Shipping:    input.Shipping,
		Returns:     input.Returns,
		Features:    input.Features,
		Tags:        input.Tags,
		Active:      true,
		CreatedBy:   createdBy,
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, ErrStockWouldGoNegative
		}
		product.Stock = *input.Stock
	}
	if input.MinStock != nil && *input.MinStock >= 0 {
		product.MinStock = *input.MinStock
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}
	if input.Recommended != nil {
		product.Recommended = *input.Recommended
	}

	if err := s.repo.Create(&product); err != nil {
		return nil, err
	}
	logger.Infow("product_created", "product_id", product.ID, "slug", product.Slug)
	return &product, nil
}

// Update 更新商品，库存变更必须走库存调整接口
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	if err := validatePricing(input.Price, input.Discount); err != nil {
		return nil, err
	}
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	if input.CategoryID != 0 && input.CategoryID != product.CategoryID {
		category, err := s.categoryRepo.GetByID(input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrNotFound
		}
		product.CategoryID = input.CategoryID
	}

	if slug := strings.TrimSpace(input.Slug); slug != "" && slug != product.Slug {
		count, err := s.repo.CountBySlug(slug, &id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrSlugExists
		}
		product.Slug = slug
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		product.Name = name
	}
	product.Description = input.Description
	product.SKU = strings.TrimSpace(input.SKU)
	product.Price = input.Price
	product.Discount = input.Discount
	product.Image = input.Image
	product.Images = input.Images
	product.Brand = input.Brand
	product.Color = input.Color
	product.Size = input.Size
	product.Material = input.Material
	product.Weight = input.Weight
	product.Dimensions = input.Dimensions
	product.Warranty = input.Warranty
	product.Shipping = input.Shipping
	product.Returns = input.Returns
	product.Features = input.Features
	product.Tags = input.Tags
	if input.MinStock != nil && *input.MinStock >= 0 {
		product.MinStock = *input.MinStock
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}
	if input.Recommended != nil {
		product.Recommended = *input.Recommended
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除商品
func (s *ProductService) Delete(id uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}
