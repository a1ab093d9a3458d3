package handlers

import (
	"github.com/projectstore/internal/http/response"
	"github.com/projectstore/internal/repository"
	"github.com/projectstore/internal/service"

	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name         string `json:"name" binding:"required"`
	Slug         string `json:"slug" binding:"required"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	ParentID     *uint  `json:"parent_id"`
	DisplayOrder int    `json:"display_order"`
	IsActive     *bool  `json:"is_active"`
}

func (r categoryRequest) toInput() service.CategoryInput {
	return service.CategoryInput{
		Name:         r.Name,
		Slug:         r.Slug,
		Description:  r.Description,
		ImageURL:     r.ImageURL,
		ParentID:     r.ParentID,
		DisplayOrder: r.DisplayOrder,
		IsActive:     r.IsActive,
	}
}

// ListCategories 公开分类列表
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListPublic(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, categories)
}

// GetCategoryBySlug 公开分类详情
func (h *Handler) GetCategoryBySlug(c *gin.Context) {
	category, err := h.categoryService.GetBySlug(c.Param("slug"), !isAdmin(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, category)
}

// AdminListCategories 管理端分类列表
func (h *Handler) AdminListCategories(c *gin.Context) {
	page, pageSize := parsePagination(c)
	categories, total, err := h.categoryService.List(repository.CategoryListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, categories, response.NewPagination(page, pageSize, total))
}

// AdminGetCategory 管理端分类详情
func (h *Handler) AdminGetCategory(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	category, err := h.categoryService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, category)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	category, err := h.categoryService.Create(req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	category, err := h.categoryService.Update(id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类，子分类上提到父级
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.categoryService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.NoContent(c)
}
