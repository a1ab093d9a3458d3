package handlers

import (
	"strconv"

	"github.com/projectstore/internal/http/response"
	"github.com/projectstore/internal/repository"
	"github.com/projectstore/internal/service"

	"github.com/gin-gonic/gin"
)

type stockAdjustRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Type      string `json:"type" binding:"required"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// AdjustStock 人工库存调整：in/out 增减，adjustment 设为目标值
func (h *Handler) AdjustStock(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req stockAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	movement, err := h.inventoryService.Adjust(service.AdjustInput{
		ProductID: req.ProductID,
		Type:      req.Type,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
	}, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, movement)
}

// ListStockMovements 库存流水列表
func (h *Handler) ListStockMovements(c *gin.Context) {
	page, pageSize := parsePagination(c)
	var productID uint
	if raw := c.Query("product_id"); raw != "" {
		value, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.BadRequest(c, "invalid product_id")
			return
		}
		productID = uint(value)
	}
	movements, total, err := h.inventoryService.ListMovements(repository.StockMovementListFilter{
		Page:      page,
		PageSize:  pageSize,
		ProductID: productID,
		Type:      c.Query("type"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, movements, response.NewPagination(page, pageSize, total))
}

// ListLowStockProducts 低库存商品列表
func (h *Handler) ListLowStockProducts(c *gin.Context) {
	page, pageSize := parsePagination(c)
	products, total, err := h.inventoryService.ListLowStock(page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}
