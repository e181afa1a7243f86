// Package chat 提供对话服务：缓冲回复、流式转发与对话持久化
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/google/uuid"

	appmodel "github.com/breezie/breezie/internal/model"
	"github.com/breezie/breezie/internal/repository"
	"github.com/breezie/breezie/internal/service/emotion"
	"github.com/breezie/breezie/internal/service/llm"
	"github.com/breezie/breezie/internal/service/types"
	"github.com/breezie/breezie/pkg/log"
)

// 注入缓存历史时最多取最近多少条
const recentHistoryLimit = 20

// Generator 非流式补全依赖
type Generator interface {
	Generate(ctx context.Context, messages []types.ChatMessage, opts ...model.Option) (string, error)
}

// Streamer 流式转发依赖
type Streamer interface {
	StreamChat(ctx context.Context, messages []types.ChatMessage, w llm.TokenWriter) error
}

// Classifier 后台情绪标注依赖
type Classifier interface {
	Classify(ctx context.Context, text string) (*emotion.Classification, error)
}

// Memory 对话近期历史缓存依赖
type Memory interface {
	Append(ctx context.Context, conversationID string, messages ...types.ChatMessage) error
	Recent(ctx context.Context, conversationID string, n int) ([]types.ChatMessage, error)
}

// Service 对话服务
type Service struct {
	gen        Generator
	streamer   Streamer
	classifier Classifier
	memory     Memory
	repo       repository.ChatRepository
}

// NewService 创建对话服务
func NewService(gen Generator, streamer Streamer, classifier Classifier, memory Memory, repo repository.ChatRepository) *Service {
	return &Service{
		gen:        gen,
		streamer:   streamer,
		classifier: classifier,
		memory:     memory,
		repo:       repo,
	}
}

// ReplyRequest 对话请求
// messages 为按时间排列的完整轮次历史；携带 conversation_id 时
// 允许只发送最新一轮，服务端会用缓存历史补全上下文
type ReplyRequest struct {
	ConversationID string              `json:"conversation_id"`
	Messages       []types.ChatMessage `json:"messages" binding:"required"`
}

// ReplyResult 对话结果
type ReplyResult struct {
	Reply          string `json:"reply"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// Reply 缓冲模式：等待完整回复
// 已认证用户的轮次会持久化到对话记录，匿名请求只回复不落库
func (s *Service) Reply(ctx context.Context, userID string, req *ReplyRequest) (*ReplyResult, error) {
	if err := validateMessages(req.Messages); err != nil {
		return nil, err
	}

	messages := s.withHistory(ctx, req)
	reply, err := s.gen.Generate(ctx, messages)
	if err != nil {
		return nil, err
	}

	result := &ReplyResult{Reply: reply}
	if userID != "" {
		result.ConversationID = s.persistExchange(ctx, userID, req, reply)
	}
	return result, nil
}

// Stream 流式模式：把上游增量文本原序转发给 w
// 与原始实现一致，流式轮次不做持久化
func (s *Service) Stream(ctx context.Context, req *ReplyRequest, w llm.TokenWriter) error {
	if err := validateMessages(req.Messages); err != nil {
		return err
	}
	return s.streamer.StreamChat(ctx, s.withHistory(ctx, req), w)
}

// ListConversations 列出用户最近的对话
func (s *Service) ListConversations(ctx context.Context, userID string) ([]*appmodel.Conversation, error) {
	if userID == "" {
		return nil, types.ErrUnauthorized
	}
	convs, err := s.repo.ListConversations(userID, 50)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return convs, nil
}

// validateMessages 校验消息序列：非空且角色合法
func validateMessages(messages []types.ChatMessage) error {
	if len(messages) == 0 {
		return fmt.Errorf("%w: messages is empty", types.ErrInvalidInput)
	}
	for _, m := range messages {
		switch m.Role {
		case appmodel.RoleUser, appmodel.RoleAssistant, appmodel.RoleSystem:
		default:
			return fmt.Errorf("%w: invalid role %q", types.ErrInvalidInput, m.Role)
		}
	}
	return nil
}

// withHistory 在请求只带最新一轮时用缓存历史补全上下文
func (s *Service) withHistory(ctx context.Context, req *ReplyRequest) []types.ChatMessage {
	if s.memory == nil || req.ConversationID == "" || len(req.Messages) > 1 {
		return req.Messages
	}

	recent, err := s.memory.Recent(ctx, req.ConversationID, recentHistoryLimit)
	if err != nil {
		// 缓存故障只影响上下文长度，不影响请求
		log.Warnf("Failed to load conversation cache: %v", err)
		return req.Messages
	}
	return append(recent, req.Messages...)
}

// persistExchange 保存一轮问答并触发后台任务，失败只记日志
// 使用后台上下文：请求结束不应放弃已经生成的回复
func (s *Service) persistExchange(ctx context.Context, userID string, req *ReplyRequest, reply string) string {
	bgCtx := context.Background()
	userText := lastUserContent(req.Messages)

	conversationID := req.ConversationID
	if conversationID == "" {
		conv := &appmodel.Conversation{
			ID:     uuid.New().String(),
			UserID: userID,
			Title:  fallbackTitle(userText),
		}
		if err := s.repo.CreateConversation(conv); err != nil {
			log.Errorf("Failed to create conversation: %v", err)
			return ""
		}
		conversationID = conv.ID
		go s.generateTitle(conversationID, userText)
	}

	userMsg := &appmodel.ChatMessage{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Role:           appmodel.RoleUser,
		Content:        userText,
	}
	assistantMsg := &appmodel.ChatMessage{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Role:           appmodel.RoleAssistant,
		Content:        reply,
	}
	if err := s.repo.CreateMessage(userMsg); err != nil {
		log.Errorf("Failed to save user message: %v", err)
	}
	if err := s.repo.CreateMessage(assistantMsg); err != nil {
		log.Errorf("Failed to save assistant message: %v", err)
	}

	if s.memory != nil {
		if err := s.memory.Append(bgCtx, conversationID,
			types.ChatMessage{Role: appmodel.RoleUser, Content: userText},
			types.ChatMessage{Role: appmodel.RoleAssistant, Content: reply},
		); err != nil {
			log.Warnf("Failed to cache conversation turn: %v", err)
		}
	}

	go s.tagEmotion(userMsg.ID, userText)
	return conversationID
}

// generateTitle 根据首条用户消息生成对话标题，尽力而为
func (s *Service) generateTitle(conversationID, userText string) {
	if userText == "" {
		return
	}

	title, err := s.gen.Generate(context.Background(), []types.ChatMessage{
		{Role: appmodel.RoleSystem, Content: "You summarize a message into a short conversation title of at most six words. Reply with the title only."},
		{Role: appmodel.RoleUser, Content: userText},
	}, model.WithTemperature(0))
	if err != nil {
		log.Warnf("Failed to generate conversation title: %v", err)
		return
	}

	title = strings.TrimSpace(strings.Trim(strings.TrimSpace(title), `"`))
	if title == "" {
		return
	}
	if err := s.repo.UpdateConversationTitle(conversationID, title); err != nil {
		log.Warnf("Failed to update conversation title: %v", err)
	}
}

// tagEmotion 后台标注用户消息的情绪，错误吞掉只记日志
func (s *Service) tagEmotion(messageID, userText string) {
	if s.classifier == nil || userText == "" {
		return
	}

	result, err := s.classifier.Classify(context.Background(), userText)
	if err != nil {
		log.Warnf("Failed to classify message emotion: %v", err)
		return
	}
	if result == nil || result.Emotion == "" {
		return
	}
	if err := s.repo.UpdateMessageEmotion(messageID, result.Emotion); err != nil {
		log.Warnf("Failed to tag message emotion: %v", err)
	}
}

// lastUserContent 返回序列中最后一条用户消息的内容
func lastUserContent(messages []types.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == appmodel.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

// fallbackTitle 标题生成完成前的占位标题
func fallbackTitle(userText string) string {
	const maxLen = 40
	title := strings.TrimSpace(userText)
	if title == "" {
		return "New conversation"
	}
	runes := []rune(title)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "…"
	}
	return title
}
