package repository

import (
	"github.com/breezie/breezie/internal/model"
	"gorm.io/gorm"
)

// chatRepositoryImpl 对话数据访问
type chatRepositoryImpl struct {
	db *gorm.DB
}

// NewChatRepository 创建对话仓库
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepositoryImpl{db: db}
}

// CreateConversation 创建对话
func (r *chatRepositoryImpl) CreateConversation(conv *model.Conversation) error {
	return r.db.Create(conv).Error
}

// GetConversationByID 获取对话
func (r *chatRepositoryImpl) GetConversationByID(id string) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.Where("id = ?", id).First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListConversations 列出用户最近的对话
func (r *chatRepositoryImpl) ListConversations(userID string, limit int) ([]*model.Conversation, error) {
	var convs []*model.Conversation
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&convs).Error
	return convs, err
}

// ListConversationsAll 列出用户全部对话（用于导出）
func (r *chatRepositoryImpl) ListConversationsAll(userID string) ([]*model.Conversation, error) {
	var convs []*model.Conversation
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&convs).Error
	return convs, err
}

// UpdateConversationTitle 更新对话标题
func (r *chatRepositoryImpl) UpdateConversationTitle(id, title string) error {
	return r.db.Model(&model.Conversation{}).Where("id = ?", id).Update("title", title).Error
}

// CreateMessage 创建消息
func (r *chatRepositoryImpl) CreateMessage(msg *model.ChatMessage) error {
	return r.db.Create(msg).Error
}

// ListMessages 按时间顺序列出对话消息
func (r *chatRepositoryImpl) ListMessages(conversationID string) ([]*model.ChatMessage, error) {
	var messages []*model.ChatMessage
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// ListMessagesAll 列出用户全部消息（用于导出）
func (r *chatRepositoryImpl) ListMessagesAll(userID string) ([]*model.ChatMessage, error) {
	var messages []*model.ChatMessage
	err := r.db.
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("conversations.user_id = ?", userID).
		Order("messages.created_at DESC").
		Find(&messages).Error
	return messages, err
}

// UpdateMessageEmotion 更新消息的情绪标注
func (r *chatRepositoryImpl) UpdateMessageEmotion(id, emotion string) error {
	return r.db.Model(&model.ChatMessage{}).Where("id = ?", id).Update("emotion", emotion).Error
}
