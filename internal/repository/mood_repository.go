package repository

import (
	"github.com/breezie/breezie/internal/model"
	"gorm.io/gorm"
)

// moodRepositoryImpl 心情记录数据访问
type moodRepositoryImpl struct {
	db *gorm.DB
}

// NewMoodRepository 创建心情记录仓库
func NewMoodRepository(db *gorm.DB) MoodRepository {
	return &moodRepositoryImpl{db: db}
}

// Create 追加一条心情记录
func (r *moodRepositoryImpl) Create(moodLog *model.MoodLog) error {
	return r.db.Create(moodLog).Error
}

// ListByUser 按时间倒序列出用户最近的心情记录
func (r *moodRepositoryImpl) ListByUser(userID string, limit int) ([]*model.MoodLog, error) {
	var logs []*model.MoodLog
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// ListByUserAll 列出用户全部心情记录（用于导出）
func (r *moodRepositoryImpl) ListByUserAll(userID string) ([]*model.MoodLog, error) {
	var logs []*model.MoodLog
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&logs).Error
	return logs, err
}
