// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"plotforge-api/internal/interfaces/http/dto"
)

// currentUserID 从认证上下文取当前用户 ID
func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// requireUser 取当前用户 ID，缺失时返回 401 并终止
func requireUser(c *gin.Context) (string, bool) {
	userID := currentUserID(c)
	if userID == "" {
		dto.Unauthorized(c, "authentication required")
		return "", false
	}
	return userID, true
}
