package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/breezie/breezie/internal/service"
)

// BillingHandler 订阅计费处理器
type BillingHandler struct {
	svc *service.Services
}

// NewBillingHandler 创建计费处理器
func NewBillingHandler(svc *service.Services) *BillingHandler {
	return &BillingHandler{svc: svc}
}

// GetSubscription 查询当前订阅状态
func (h *BillingHandler) GetSubscription(c *gin.Context) {
	sub, err := h.svc.Billing.GetSubscription(c.Request.Context(), getUserID(c))
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// Checkout 创建订阅结账会话，返回 Stripe 托管页 URL
func (h *BillingHandler) Checkout(c *gin.Context) {
	url, err := h.svc.Billing.CreateCheckout(c.Request.Context(), getUserID(c), getEmail(c))
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Portal 创建客户门户会话
func (h *BillingHandler) Portal(c *gin.Context) {
	url, err := h.svc.Billing.CreatePortal(c.Request.Context(), getUserID(c), getEmail(c))
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Webhook 接收 Stripe 事件，仅凭签名鉴权，不走用户认证
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, err)
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if err := h.svc.Billing.HandleWebhook(c.Request.Context(), payload, sig); err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
