package handlers

import (
	"github.com/projectstore/internal/http/response"
	"github.com/projectstore/internal/service"

	"github.com/gin-gonic/gin"
)

type cartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) requireCartOwner(c *gin.Context) (service.CartOwner, bool) {
	owner := cartOwner(c)
	if owner.UserID == 0 && owner.SessionToken == "" {
		response.BadRequest(c, "missing "+SessionHeader+" header")
		return owner, false
	}
	return owner, true
}

// GetCart 查看当前购物车
func (h *Handler) GetCart(c *gin.Context) {
	owner, ok := h.requireCartOwner(c)
	if !ok {
		return
	}
	view, err := h.cartService.View(owner)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, view)
}

// AddCartItem 加入购物车，已有条目累加数量
func (h *Handler) AddCartItem(c *gin.Context) {
	owner, ok := h.requireCartOwner(c)
	if !ok {
		return
	}
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	view, err := h.cartService.AddItem(owner, req.ProductID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, view)
}

// UpdateCartItem 设置条目数量，0 即移除
func (h *Handler) UpdateCartItem(c *gin.Context) {
	owner, ok := h.requireCartOwner(c)
	if !ok {
		return
	}
	productID, ok := parseUintParam(c, "product_id")
	if !ok {
		return
	}
	var req cartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	view, err := h.cartService.UpdateItemQuantity(owner, productID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, view)
}

// RemoveCartItem 移除条目
func (h *Handler) RemoveCartItem(c *gin.Context) {
	owner, ok := h.requireCartOwner(c)
	if !ok {
		return
	}
	productID, ok := parseUintParam(c, "product_id")
	if !ok {
		return
	}
	view, err := h.cartService.RemoveItem(owner, productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, view)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	owner, ok := h.requireCartOwner(c)
	if !ok {
		return
	}
	view, err := h.cartService.Clear(owner)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, view)
}
