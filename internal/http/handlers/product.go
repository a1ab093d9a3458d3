package handlers

import (
	"github.com/projectstore/internal/http/response"
	"github.com/projectstore/internal/models"
	"github.com/projectstore/internal/repository"
	"github.com/projectstore/internal/service"

	"github.com/gin-gonic/gin"
)

type productRequest struct {
	CategoryID  uint         `json:"category_id" binding:"required"`
	Name        string       `json:"name" binding:"required"`
	Slug        string       `json:"slug" binding:"required"`
	Description string       `json:"description"`
	SKU         string       `json:"sku"`
	Price       models.Money `json:"price"`
	Discount    models.Money `json:"discount"`
	Stock       *int         `json:"stock"`
	MinStock    *int         `json:"min_stock"`
	Image       string       `json:"image"`
	Images      []string     `json:"images"`
	Brand       string       `json:"brand"`
	Color       string       `json:"color"`
	Size        string       `json:"size"`
	Material    string       `json:"material"`
	Weight      string       `json:"weight"`
	Dimensions  string       `json:"dimensions"`
	Warranty    string       `json:"warranty"`
	Shipping    string       `json:"shipping"`
	Returns     string       `json:"returns"`
	Features    []string     `json:"features"`
	Tags        []string     `json:"tags"`
	Active      *bool        `json:"active"`
	Featured    *bool        `json:"featured"`
	Recommended *bool        `json:"recommended"`
}

func (r productRequest) toInput() service.ProductInput {
	return service.ProductInput{
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		SKU:         r.SKU,
		Price:       r.Price,
		Discount:    r.Discount,
		Stock:       r.Stock,
		MinStock:    r.MinStock,
		Image:       r.Image,
		Images:      r.Images,
		Brand:       r.Brand,
		Color:       r.Color,
		Size:        r.Size,
		Material:    r.Material,
		Weight:      r.Weight,
		Dimensions:  r.Dimensions,
		Warranty:    r.Warranty,
		Shipping:    r.Shipping,
		Returns:     r.Returns,
		Features:    r.Features,
		Tags:        r.Tags,
		Active:      r.Active,
		Featured:    r.Featured,
		Recommended: r.Recommended,
	}
}

func productListFilter(c *gin.Context, onlyActive bool) repository.ProductListFilter {
	page, pageSize := parsePagination(c)
	return repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   c.Query("category_id"),
		Search:       c.Query("search"),
		Featured:     parseBoolQuery(c, "featured"),
		Recommended:  parseBoolQuery(c, "recommended"),
		OnlyActive:   onlyActive,
		WithCategory: true,
		OrderBy:      c.Query("order_by"),
	}
}

// ListProducts 公开商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	filter := productListFilter(c, true)
	products, total, err := h.productService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(filter.Page, filter.PageSize, total))
}

// ListFeaturedProducts 公开精选商品列表
func (h *Handler) ListFeaturedProducts(c *gin.Context) {
	filter := productListFilter(c, true)
	on := true
	filter.Featured = &on
	products, total, err := h.productService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(filter.Page, filter.PageSize, total))
}

// ListRecommendedProducts 公开推荐商品列表
func (h *Handler) ListRecommendedProducts(c *gin.Context) {
	filter := productListFilter(c, true)
	on := true
	filter.Recommended = &on
	products, total, err := h.productService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(filter.Page, filter.PageSize, total))
}

// SearchProducts 公开商品搜索，匹配名称、描述与标签
func (h *Handler) SearchProducts(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.BadRequest(c, "missing query parameter q")
		return
	}
	filter := productListFilter(c, true)
	filter.Search = q
	products, total, err := h.productService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(filter.Page, filter.PageSize, total))
}

// GetProduct 公开商品详情，访问计浏览量
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.Get(id, true)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// GetProductBySlug 公开商品详情（slug 路由）
func (h *Handler) GetProductBySlug(c *gin.Context) {
	product, err := h.productService.GetBySlug(c.Param("slug"), true)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// AdminListProducts 管理端商品列表，可含下架品与低库存过滤
func (h *Handler) AdminListProducts(c *gin.Context) {
	filter := productListFilter(c, false)
	if low := parseBoolQuery(c, "low_stock"); low != nil && *low {
		filter.LowStock = true
	}
	products, total, err := h.productService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(filter.Page, filter.PageSize, total))
}

// AdminGetProduct 管理端商品详情，不计浏览量
func (h *Handler) AdminGetProduct(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.Get(id, false)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	product, err := h.productService.Create(req.toInput(), &userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, product)
}

// UpdateProduct 更新商品，库存走库存调整接口
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	product, err := h.productService.Update(id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品（软删除）
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.productService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.NoContent(c)
}
