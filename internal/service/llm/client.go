// Package llm 封装对上游大模型补全服务的访问
// 非流式请求走 eino 的 openai 组件，流式转发见 relay.go
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/breezie/breezie/internal/config"
	"github.com/breezie/breezie/internal/service/types"
	"github.com/breezie/breezie/pkg/log"
)

// Client 上游大模型客户端
type Client struct {
	cfg       config.AIConfig
	chatModel model.BaseChatModel
	// 流式转发专用，不设置整体超时（长生成是合法场景），取消依赖请求上下文
	httpClient *http.Client
}

// New 创建大模型客户端
// 未配置 API key 时返回可用的客户端，调用时再报 ErrNotConfigured，
// 避免凭证缺失导致进程无法启动
func New(cfg config.AIConfig) *Client {
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
	}

	if cfg.APIKey != "" {
		cm, err := openai.NewChatModel(context.Background(), &openai.ChatModelConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		})
		if err != nil {
			log.Warnf("Failed to create chat model: %v", err)
		} else {
			c.chatModel = cm
		}
	}

	return c
}

// Generate 非流式补全：等待完整响应并返回首个 choice 的文本，缺失时返回空串
func (c *Client) Generate(ctx context.Context, messages []types.ChatMessage, opts ...model.Option) (string, error) {
	if c.chatModel == nil {
		return "", fmt.Errorf("%w: missing ai.apiKey", types.ErrNotConfigured)
	}

	msgs := toSchemaMessages(messages)
	resp, err := c.chatModel.Generate(ctx, msgs, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrUpstream, err)
	}
	if resp == nil {
		return "", nil
	}
	return resp.Content, nil
}

// toSchemaMessages 将角色消息转换为 eino schema 消息，保持顺序
func toSchemaMessages(messages []types.ChatMessage) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			msgs = append(msgs, schema.SystemMessage(m.Content))
		case "assistant":
			msgs = append(msgs, schema.AssistantMessage(m.Content, nil))
		default:
			msgs = append(msgs, schema.UserMessage(m.Content))
		}
	}
	return msgs
}
