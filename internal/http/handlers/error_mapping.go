package handlers

import (
	"errors"
	"net/http"

	"github.com/projectstore/internal/http/response"
	"github.com/projectstore/internal/logger"
	"github.com/projectstore/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 业务错误到 HTTP 状态码的映射
type mappedHandlerError struct {
	target error
	status int
}

var commonErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, status: http.StatusNotFound},
	{target: service.ErrPermissionDenied, status: http.StatusForbidden},
	{target: service.ErrInvalidCredentials, status: http.StatusUnauthorized},
	{target: service.ErrUserDisabled, status: http.StatusForbidden},
	{target: service.ErrInvalidPassword, status: http.StatusBadRequest},
	{target: service.ErrPasswordTooShort, status: http.StatusBadRequest},
	{target: service.ErrInvalidEmail, status: http.StatusBadRequest},
	{target: service.ErrEmailExists, status: http.StatusConflict},
	{target: service.ErrSlugExists, status: http.StatusConflict},
	{target: service.ErrCategoryInUse, status: http.StatusConflict},
	{target: service.ErrCategoryCycle, status: http.StatusBadRequest},
	{target: service.ErrProductInactive, status: http.StatusBadRequest},
	{target: service.ErrInsufficientStock, status: http.StatusConflict},
	{target: service.ErrInvalidPrice, status: http.StatusBadRequest},
	{target: service.ErrCartEmpty, status: http.StatusBadRequest},
	{target: service.ErrInvalidQuantity, status: http.StatusBadRequest},
	{target: service.ErrCartItemNotFound, status: http.StatusNotFound},
	{target: service.ErrCartOwnerRequired, status: http.StatusBadRequest},
	{target: service.ErrInvalidOrderItem, status: http.StatusBadRequest},
	{target: service.ErrOrderStatusInvalid, status: http.StatusBadRequest},
	{target: service.ErrOrderTransitionDenied, status: http.StatusConflict},
	{target: service.ErrOrderTerminal, status: http.StatusConflict},
	{target: service.ErrInvalidRating, status: http.StatusBadRequest},
	{target: service.ErrReviewExists, status: http.StatusConflict},
	{target: service.ErrInvalidMovementType, status: http.StatusBadRequest},
	{target: service.ErrStockWouldGoNegative, status: http.StatusBadRequest},
	{target: service.ErrCaptchaRequired, status: http.StatusBadRequest},
	{target: service.ErrCaptchaInvalid, status: http.StatusBadRequest},
}

// respondServiceError 按映射返回业务错误，未映射的按 500 处理并记日志
func respondServiceError(c *gin.Context, err error) {
	for _, rule := range commonErrorRules {
		if errors.Is(err, rule.target) {
			response.Error(c, rule.status, rule.target.Error())
			return
		}
	}
	logger.Errorw("handler_internal_error",
		"request_id", requestIDFrom(c),
		"path", c.Request.URL.Path,
		"error", err,
	)
	response.Internal(c, "internal server error")
}

func requestIDFrom(c *gin.Context) string {
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
