package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/breezie/breezie/internal/service/auth"
)

// bearerToken 从 Authorization 头提取 Bearer 令牌
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

// OptionalAuth 可选认证中间件
// 令牌有效时注入身份，缺失或无效时放行为匿名请求
func OptionalAuth(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if identity, err := svc.ValidateToken(token); err == nil {
				c.Set("user_id", identity.UserID)
				c.Set("email", identity.Email)
			}
		}
		c.Next()
	}
}

// RequireAuth 强制认证中间件，无有效令牌返回 401
func RequireAuth(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			c.Abort()
			return
		}

		identity, err := svc.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", identity.UserID)
		c.Set("email", identity.Email)
		c.Next()
	}
}

// GetUserID 从上下文获取当前用户ID，匿名请求返回空串
func GetUserID(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}

// GetEmail 从上下文获取当前用户邮箱
func GetEmail(c *gin.Context) string {
	if email, exists := c.Get("email"); exists {
		if e, ok := email.(string); ok {
			return e
		}
	}
	return ""
}
