package model

import "time"

// 情绪会话来源
const (
	SourceChat  = "chat"
	SourceDiary = "diary"
)

// EmotionSession 一次完整的情绪练习记录（对话或日记），写入后不再修改
type EmotionSession struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	UserID        string    `gorm:"index;size:36" json:"user_id"`
	Source        string    `gorm:"size:20;index" json:"source"` // chat, diary
	PreEmotion    string    `gorm:"size:32" json:"pre_emotion"`
	PreIntensity  int       `json:"pre_intensity"` // 1-5
	PostEmotion   string    `gorm:"size:32" json:"post_emotion"`
	PostIntensity int       `json:"post_intensity"` // 1-5
	Summary       string    `gorm:"type:text" json:"summary"`
	Content       string    `gorm:"type:text" json:"content"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName 指定表名
func (EmotionSession) TableName() string {
	return "emotion_sessions"
}
