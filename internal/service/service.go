// Package service 组装业务服务层
package service

import (
	"github.com/redis/go-redis/v9"

	"github.com/breezie/breezie/internal/config"
	"github.com/breezie/breezie/internal/repository"
	"github.com/breezie/breezie/internal/service/account"
	"github.com/breezie/breezie/internal/service/auth"
	"github.com/breezie/breezie/internal/service/billing"
	"github.com/breezie/breezie/internal/service/chat"
	"github.com/breezie/breezie/internal/service/emotion"
	"github.com/breezie/breezie/internal/service/llm"
	"github.com/breezie/breezie/internal/service/mood"
	"github.com/breezie/breezie/internal/service/session"
)

// Services 聚合全部业务服务，供 handler 层注入
type Services struct {
	Auth    *auth.Service
	Chat    *chat.Service
	Emotion *emotion.Service
	Mood    *mood.Service
	Account *account.Service
	Billing *billing.Service
}

// NewServices 按依赖顺序装配服务
// redisClient 可为 nil，此时对话历史缓存降级为直读数据库
func NewServices(repos *repository.Repositories, cfg *config.Config, redisClient *redis.Client) *Services {
	llmClient := llm.New(cfg.AI)
	memory := session.NewManager(redisClient)

	emotionSvc := emotion.NewService(llmClient, repos.Emotion)
	chatSvc := chat.NewService(llmClient, llmClient, emotionSvc, memory, repos.Chat)

	return &Services{
		Auth:    auth.NewService(cfg.Auth),
		Chat:    chatSvc,
		Emotion: emotionSvc,
		Mood:    mood.NewService(repos.Mood),
		Account: account.NewService(repos.Account, repos.Mood, repos.Chat, repos.Emotion),
		Billing: billing.NewService(cfg.Stripe, repos.Subscription),
	}
}
