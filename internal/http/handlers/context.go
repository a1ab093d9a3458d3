package handlers

import (
	"strconv"
	"strings"

	"github.com/projectstore/internal/constants"
	"github.com/projectstore/internal/http/response"
	"github.com/projectstore/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	// ContextUserIDKey 上下文中的用户 ID 键
	ContextUserIDKey = "user_id"
	// ContextUserRoleKey 上下文中的用户角色键
	ContextUserRoleKey = "user_role"
	// SessionHeader 匿名购物车会话头
	SessionHeader = "X-Session-ID"
)

// currentUserID 读取已鉴权用户 ID，未登录时返回 401
func currentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		response.Unauthorized(c, "authentication required")
		return 0, false
	}
	userID, ok := value.(uint)
	if !ok || userID == 0 {
		response.Unauthorized(c, "authentication required")
		return 0, false
	}
	return userID, true
}

// optionalUserID 读取用户 ID，未登录返回 0
func optionalUserID(c *gin.Context) uint {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0
	}
	if userID, ok := value.(uint); ok {
		return userID
	}
	return 0
}

// isAdmin 判断当前请求是否管理员
func isAdmin(c *gin.Context) bool {
	value, exists := c.Get(ContextUserRoleKey)
	if !exists {
		return false
	}
	role, ok := value.(string)
	return ok && role == constants.RoleAdmin
}

// cartOwner 解析购物车所有者：登录用户优先，否则取会话头
func cartOwner(c *gin.Context) service.CartOwner {
	return service.CartOwner{
		UserID:       optionalUserID(c),
		SessionToken: strings.TrimSpace(c.GetHeader(SessionHeader)),
	}
}

// parseUintParam 解析路径参数为 uint
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(value), true
}

// parsePagination 读取分页查询参数并归一化
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// parseBoolQuery 读取可选布尔查询参数
func parseBoolQuery(c *gin.Context, name string) *bool {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}
