// Package handler 提供 HTTP 处理器
package handler

import "github.com/breezie/breezie/internal/service"

// Handlers 聚合全部处理器
type Handlers struct {
	Chat    *ChatHandler
	Emotion *EmotionHandler
	Mood    *MoodHandler
	Account *AccountHandler
	Billing *BillingHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Chat:    NewChatHandler(svc),
		Emotion: NewEmotionHandler(svc),
		Mood:    NewMoodHandler(svc),
		Account: NewAccountHandler(svc),
		Billing: NewBillingHandler(svc),
	}
}
