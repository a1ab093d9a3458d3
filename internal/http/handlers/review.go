package handlers

import (
	"strconv"

	"github.com/projectstore/internal/http/response"
	"github.com/projectstore/internal/repository"
	"github.com/projectstore/internal/service"

	"github.com/gin-gonic/gin"
)

type reviewRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment"`
}

type reviewUpdateRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// ListProductReviews 商品评价列表
func (h *Handler) ListProductReviews(c *gin.Context) {
	productID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)
	rating, _ := strconv.Atoi(c.Query("rating"))
	reviews, total, err := h.reviewService.List(repository.ReviewListFilter{
		Page:      page,
		PageSize:  pageSize,
		ProductID: productID,
		Rating:    rating,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, reviews, response.NewPagination(page, pageSize, total))
}

// CreateReview 创建评价，每人每商品一条
func (h *Handler) CreateReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	review, err := h.reviewService.Create(userID, service.ReviewInput{
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, review)
}

// UpdateReview 更新评价，本人或管理员可改
func (h *Handler) UpdateReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req reviewUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	review, err := h.reviewService.Update(id, userID, isAdmin(c), service.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, review)
}

// DeleteReview 删除评价，本人或管理员
func (h *Handler) DeleteReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.reviewService.Delete(id, userID, isAdmin(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	response.NoContent(c)
}
