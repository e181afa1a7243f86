// Package router 组装路由表
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/breezie/breezie/internal/handler"
	"github.com/breezie/breezie/internal/middleware"
	"github.com/breezie/breezie/internal/service"
)

// SetupRouter 设置路由
func SetupRouter(h *handler.Handlers, svc *service.Services) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
	}))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1
	v1 := r.Group("/api/v1")

	// Stripe webhook 只凭签名鉴权，不挂用户认证
	v1.POST("/stripe/webhook", h.Billing.Webhook)

	// 软认证：带有效令牌则归属并落库，匿名仍可对话
	optional := v1.Group("")
	optional.Use(middleware.OptionalAuth(svc.Auth))
	{
		optional.POST("/chat", h.Chat.Chat)
		optional.POST("/chat/stream", h.Chat.ChatStream)
		optional.POST("/emotion", h.Emotion.Classify)
		optional.POST("/emotion/suggest", h.Emotion.Suggest)
	}

	// 强认证
	authed := v1.Group("")
	authed.Use(middleware.RequireAuth(svc.Auth))
	{
		authed.GET("/chat/conversations", h.Chat.Conversations)

		authed.POST("/emotion/sessions", h.Emotion.SaveSession)

		authed.GET("/moods", h.Mood.List)
		authed.POST("/moods", h.Mood.Create)

		authed.GET("/profiles", h.Account.GetProfile)
		authed.POST("/profiles", h.Account.UpdateProfile)
		authed.GET("/settings", h.Account.GetSettings)
		authed.POST("/settings", h.Account.UpdateSettings)
		authed.GET("/export", h.Account.Export)

		authed.GET("/stripe/subscription", h.Billing.GetSubscription)
		authed.POST("/stripe/checkout", h.Billing.Checkout)
		authed.POST("/stripe/portal", h.Billing.Portal)
	}

	return r
}
