// Package session 提供基于 Redis 的对话近期历史缓存
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/breezie/breezie/internal/service/types"
)

const (
	// 对话历史在 Redis 中的过期时间（24小时）
	conversationTTL = 24 * time.Hour
	// Redis key 前缀
	conversationKeyPrefix = "conv:"
	// 每个对话最多缓存的消息条数
	maxCachedMessages = 50
)

// Manager 对话历史缓存管理器
// Redis 不可用时全部操作降级为 no-op，缓存只是加速层，数据库才是事实来源
type Manager struct {
	redis *redis.Client
}

// NewManager 创建对话历史缓存管理器
func NewManager(redisClient *redis.Client) *Manager {
	return &Manager{redis: redisClient}
}

func conversationKey(conversationID string) string {
	return conversationKeyPrefix + conversationID
}

// Append 追加消息到对话缓存并刷新过期时间
func (m *Manager) Append(ctx context.Context, conversationID string, messages ...types.ChatMessage) error {
	if m.redis == nil || conversationID == "" || len(messages) == 0 {
		return nil
	}

	cached, err := m.load(ctx, conversationID)
	if err != nil {
		return err
	}

	cached = append(cached, messages...)
	if len(cached) > maxCachedMessages {
		cached = cached[len(cached)-maxCachedMessages:]
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation cache: %w", err)
	}
	return m.redis.Set(ctx, conversationKey(conversationID), data, conversationTTL).Err()
}

// Recent 返回对话缓存中最近的 n 条消息，缓存缺失时返回空
func (m *Manager) Recent(ctx context.Context, conversationID string, n int) ([]types.ChatMessage, error) {
	if m.redis == nil || conversationID == "" {
		return nil, nil
	}

	cached, err := m.load(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(cached) > n {
		cached = cached[len(cached)-n:]
	}
	return cached, nil
}

// load 从 Redis 加载整段对话缓存
func (m *Manager) load(ctx context.Context, conversationID string) ([]types.ChatMessage, error) {
	data, err := m.redis.Get(ctx, conversationKey(conversationID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load conversation cache: %w", err)
	}

	var cached []types.ChatMessage
	if err := json.Unmarshal(data, &cached); err != nil {
		// 缓存损坏当作缺失处理
		return nil, nil
	}
	return cached, nil
}
