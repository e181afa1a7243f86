// Package repository 定义数据访问接口
// 接口抽象使依赖注入和单元测试成为可能
package repository

import "github.com/breezie/breezie/internal/model"

// ========== ChatRepository 接口 ==========

// ChatRepository 对话数据访问接口
type ChatRepository interface {
	CreateConversation(conv *model.Conversation) error
	GetConversationByID(id string) (*model.Conversation, error)
	ListConversations(userID string, limit int) ([]*model.Conversation, error)
	ListConversationsAll(userID string) ([]*model.Conversation, error)
	UpdateConversationTitle(id, title string) error

	CreateMessage(msg *model.ChatMessage) error
	ListMessages(conversationID string) ([]*model.ChatMessage, error)
	ListMessagesAll(userID string) ([]*model.ChatMessage, error)
	UpdateMessageEmotion(id, emotion string) error
}

// ========== MoodRepository 接口 ==========

// MoodRepository 心情记录数据访问接口
type MoodRepository interface {
	Create(moodLog *model.MoodLog) error
	ListByUser(userID string, limit int) ([]*model.MoodLog, error)
	ListByUserAll(userID string) ([]*model.MoodLog, error)
}

// ========== EmotionRepository 接口 ==========

// EmotionRepository 情绪会话数据访问接口
type EmotionRepository interface {
	CreateSession(session *model.EmotionSession) error
	ListSessionsByUser(userID string) ([]*model.EmotionSession, error)
}

// ========== AccountRepository 接口 ==========

// AccountRepository 用户资料与设置数据访问接口
type AccountRepository interface {
	GetProfile(userID string) (*model.Profile, error)
	UpsertProfile(profile *model.Profile) error
	GetSetting(userID string) (*model.Setting, error)
	UpsertSetting(setting *model.Setting) error
}

// ========== SubscriptionRepository 接口 ==========

// SubscriptionRepository 订阅数据访问接口
type SubscriptionRepository interface {
	GetByUserID(userID string) (*model.Subscription, error)
	Upsert(sub *model.Subscription) error
}

// 确保各实现满足接口
var (
	_ ChatRepository         = (*chatRepositoryImpl)(nil)
	_ MoodRepository         = (*moodRepositoryImpl)(nil)
	_ EmotionRepository      = (*emotionRepositoryImpl)(nil)
	_ AccountRepository      = (*accountRepositoryImpl)(nil)
	_ SubscriptionRepository = (*subscriptionRepositoryImpl)(nil)
)
