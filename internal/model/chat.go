package model

import "time"

// 消息角色
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Conversation 对话
type Conversation struct {
	ID        string        `gorm:"primaryKey;size:36" json:"id"`
	UserID    string        `gorm:"index;size:36" json:"user_id"`
	Title     string        `gorm:"size:255" json:"title"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
	Messages  []ChatMessage `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

// ChatMessage 对话消息
type ChatMessage struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	ConversationID string    `gorm:"index;size:36" json:"conversation_id"`
	Role           string    `gorm:"size:20;index" json:"role"` // user, assistant, system
	Content        string    `gorm:"type:text" json:"content"`
	Emotion        string    `gorm:"size:32" json:"emotion,omitempty"` // 后台情绪标注，尽力而为
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName 指定表名
func (Conversation) TableName() string {
	return "conversations"
}

func (ChatMessage) TableName() string {
	return "messages"
}
