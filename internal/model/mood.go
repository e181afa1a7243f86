package model

import "time"

// MoodLog 心情打卡记录，按用户追加写入
type MoodLog struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"index;size:36" json:"user_id"`
	Mood      int       `gorm:"not null" json:"mood"`   // 1-5
	Energy    int       `gorm:"not null" json:"energy"` // 1-5
	Tags      []string  `gorm:"serializer:json" json:"tags"`
	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName 指定表名
func (MoodLog) TableName() string {
	return "mood_logs"
}
