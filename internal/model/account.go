package model

import "time"

// Profile 用户资料，按 user_id 单行 upsert
type Profile struct {
	UserID    string    `gorm:"primaryKey;size:36" json:"user_id"`
	Username  string    `gorm:"size:64" json:"username"`
	AvatarURL string    `gorm:"size:512" json:"avatar_url"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Setting 用户偏好设置，按 user_id 单行 upsert
type Setting struct {
	UserID           string    `gorm:"primaryKey;size:36" json:"user_id"`
	ShareWithModel   bool      `gorm:"default:true" json:"share_with_model"`
	RemindersEnabled bool      `gorm:"default:false" json:"reminders_enabled"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (Profile) TableName() string {
	return "profiles"
}

func (Setting) TableName() string {
	return "settings"
}
