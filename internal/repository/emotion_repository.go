package repository

import (
	"github.com/breezie/breezie/internal/model"
	"gorm.io/gorm"
)

// emotionRepositoryImpl 情绪会话数据访问
type emotionRepositoryImpl struct {
	db *gorm.DB
}

// NewEmotionRepository 创建情绪会话仓库
func NewEmotionRepository(db *gorm.DB) EmotionRepository {
	return &emotionRepositoryImpl{db: db}
}

// CreateSession 写入一条情绪会话，写入后不再修改
func (r *emotionRepositoryImpl) CreateSession(session *model.EmotionSession) error {
	return r.db.Create(session).Error
}

// ListSessionsByUser 按时间倒序列出用户的情绪会话
func (r *emotionRepositoryImpl) ListSessionsByUser(userID string) ([]*model.EmotionSession, error) {
	var sessions []*model.EmotionSession
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&sessions).Error
	return sessions, err
}
