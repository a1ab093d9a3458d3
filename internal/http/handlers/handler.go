package handlers

import (
	"github.com/projectstore/internal/service"
)

// Handler 聚合 HTTP 处理器依赖
type Handler struct {
	authService      *service.AuthService
	captchaService   *service.CaptchaService
	categoryService  *service.CategoryService
	productService   *service.ProductService
	cartService      *service.CartService
	orderService     *service.OrderService
	inventoryService *service.InventoryService
	reviewService    *service.ReviewService
}

// New 创建处理器
func New(
	authService *service.AuthService,
	captchaService *service.CaptchaService,
	categoryService *service.CategoryService,
	productService *service.ProductService,
	cartService *service.CartService,
	orderService *service.OrderService,
	inventoryService *service.InventoryService,
	reviewService *service.ReviewService,
) *Handler {
	return &Handler{
		authService:      authService,
		captchaService:   captchaService,
		categoryService:  categoryService,
		productService:   productService,
		cartService:      cartService,
		orderService:     orderService,
		inventoryService: inventoryService,
		reviewService:    reviewService,
	}
}
