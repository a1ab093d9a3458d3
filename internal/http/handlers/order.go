package handlers

import (
	"github.com/projectstore/internal/http/response"
	"github.com/projectstore/internal/repository"
	"github.com/projectstore/internal/service"

	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	CustomerName   string `json:"customer_name" binding:"required"`
	CustomerPhone  string `json:"customer_phone" binding:"required"`
	CustomerEmail  string `json:"customer_email"`
	Address        string `json:"address" binding:"required"`
	City           string `json:"city"`
	Department     string `json:"department"`
	DeliveryMethod string `json:"delivery_method"`
	Notes          string `json:"notes"`
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type orderNotesRequest struct {
	AdminNotes string `json:"admin_notes"`
}

// Checkout 把购物车结算为订单，游客凭会话头下单
func (h *Handler) Checkout(c *gin.Context) {
	userID := optionalUserID(c)
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	order, err := h.orderService.Checkout(userID, cartOwner(c), service.CheckoutInput{
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerEmail:  req.CustomerEmail,
		Address:        req.Address,
		City:           req.City,
		Department:     req.Department,
		DeliveryMethod: req.DeliveryMethod,
		Notes:          req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, order)
}

// ListOrders 订单列表，非管理员只看自己的
func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)
	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
		OrderNo:  c.Query("order_no"),
	}
	orders, total, err := h.orderService.List(filter, userID, isAdmin(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.Get(id, userID, isAdmin(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// GetOrderByNo 订单详情（订单号路由）
func (h *Handler) GetOrderByNo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	order, err := h.orderService.GetByOrderNo(c.Param("order_no"), userID, isAdmin(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消订单并回补库存
func (h *Handler) CancelOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.Cancel(id, userID, isAdmin(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus 管理端推进订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	order, err := h.orderService.UpdateStatus(id, req.Status, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// UpdateOrderNotes 管理端更新订单内部备注
func (h *Handler) UpdateOrderNotes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req orderNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	order, err := h.orderService.UpdateAdminNotes(id, req.AdminNotes, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}
