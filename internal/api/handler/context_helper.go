package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Musikislyfe/ConstruX/pkg/response"
)

// MustGetWorkerID 从 Gin 上下文中安全提取 worker_id。
// 如果 JWT 中间件未正确注入 worker_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetWorkerID(c *gin.Context) (string, bool) {
	v, exists := c.Get("worker_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// getTokenMeta 提取 JWT 中间件注入的 jti 与过期时间，供登出黑名单使用。
// 缺失时返回零值，由调用方决定降级行为。
func getTokenMeta(c *gin.Context) (jti string, expiresAt time.Time) {
	if v, exists := c.Get("jti"); exists {
		jti, _ = v.(string)
	}
	if v, exists := c.Get("token_expires_at"); exists {
		expiresAt, _ = v.(time.Time)
	}
	return jti, expiresAt
}
