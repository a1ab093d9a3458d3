package service

import (
	"context"
	"strings"

	"github.com/projectstore/internal/cache"
	"github.com/projectstore/internal/logger"
	"github.com/projectstore/internal/models"
	"github.com/projectstore/internal/repository"
)

// CategoryService 分类业务服务
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// CategoryInput 创建/更新分类输入
type CategoryInput struct {
	Name         string
	Slug         string
	Description  string
	ImageURL     string
	ParentID     *uint
	DisplayOrder int
	IsActive     *bool
}

// List 获取分类列表
func (s *CategoryService) List(filter repository.CategoryListFilter) ([]models.Category, int64, error) {
	return s.repo.List(filter)
}

// ListPublic 公开分类列表，整表短缓存
func (s *CategoryService) ListPublic(ctx context.Context) ([]models.Category, error) {
	if categories, hit := cache.GetCategoryTree(ctx); hit {
		return categories, nil
	}
	categories, _, err := s.repo.List(repository.CategoryListFilter{OnlyActive: true})
	if err != nil {
		return nil, err
	}
	if err := cache.SetCategoryTree(ctx, categories); err != nil {
		logger.Warnw("category_cache_set_failed", "error", err)
	}
	return categories, nil
}

// Get 获取分类详情
func (s *CategoryService) Get(id uint) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return category, nil
}

// GetBySlug 按 slug 获取分类详情
func (s *CategoryService) GetBySlug(slug string, onlyActive bool) (*models.Category, error) {
	category, err := s.repo.GetBySlug(strings.TrimSpace(slug), onlyActive)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return category, nil
}

// Create 创建分类
func (s *CategoryService) Create(input CategoryInput) (*models.Category, error) {
	count, err := s.repo.CountBySlug(input.Slug, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}
	if input.ParentID != nil {
		parent, err := s.repo.GetByID(*input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrNotFound
		}
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	category := models.Category{
		Name:         strings.TrimSpace(input.Name),
		Slug:         strings.TrimSpace(input.Slug),
		Description:  input.Description,
		ImageURL:     input.ImageURL,
		ParentID:     input.ParentID,
		DisplayOrder: input.DisplayOrder,
		IsActive:     active,
	}
	if err := s.repo.Create(&category); err != nil {
		return nil, err
	}
	s.invalidateCache()
	return &category, nil
}

// Update 更新分类
func (s *CategoryService) Update(id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}

	count, err := s.repo.CountBySlug(input.Slug, &id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	if input.ParentID != nil {
		if err := s.ensureNoCycle(id, *input.ParentID); err != nil {
			return nil, err
		}
	}

	category.Name = strings.TrimSpace(input.Name)
	category.Slug = strings.TrimSpace(input.Slug)
	category.Description = input.Description
	category.ImageURL = input.ImageURL
	category.ParentID = input.ParentID
	category.DisplayOrder = input.DisplayOrder
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	s.invalidateCache()
	return category, nil
}

// Delete 删除分类，子分类提升为顶级
func (s *CategoryService) Delete(id uint) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrNotFound
	}

	count, err := s.repo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	if err := s.repo.NullifyParent(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidateCache()
	return nil
}

func (s *CategoryService) invalidateCache() {
	if err := cache.InvalidateCategoryTree(context.Background()); err != nil {
		logger.Warnw("category_cache_invalidate_failed", "error", err)
	}
}

// ensureNoCycle 沿父链向上查找，禁止把分类挂到自己或自己的后代下面
func (s *CategoryService) ensureNoCycle(id, parentID uint) error {
	current := parentID
	for depth := 0; depth < 32; depth++ {
		if current == id {
			return ErrCategoryCycle
		}
		node, err := s.repo.GetByID(current)
		if err != nil {
			return err
		}
		if node == nil {
			return ErrNotFound
		}
		if node.ParentID == nil {
			return nil
		}
		current = *node.ParentID
	}
	return ErrCategoryCycle
}
