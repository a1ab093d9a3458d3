package cache

import (
	"context"
	"time"

	"github.com/projectstore/internal/models"
)

const (
	categoryTreeKey      = "catalog:categories"
	categoryTreeCacheTTL = 5 * time.Minute
)

// GetCategoryTree 读取公开分类列表缓存
func GetCategoryTree(ctx context.Context) ([]models.Category, bool) {
	var categories []models.Category
	hit, err := GetJSON(ctx, categoryTreeKey, &categories)
	if err != nil || !hit {
		return nil, false
	}
	return categories, true
}

// SetCategoryTree 写入公开分类列表缓存
func SetCategoryTree(ctx context.Context, categories []models.Category) error {
	return SetJSON(ctx, categoryTreeKey, categories, categoryTreeCacheTTL)
}

// InvalidateCategoryTree 分类变更后失效缓存
func InvalidateCategoryTree(ctx context.Context) error {
	return Del(ctx, categoryTreeKey)
}
