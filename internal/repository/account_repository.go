package repository

import (
	"github.com/breezie/breezie/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// accountRepositoryImpl 用户资料与设置数据访问
type accountRepositoryImpl struct {
	db *gorm.DB
}

// NewAccountRepository 创建账户仓库
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepositoryImpl{db: db}
}

// GetProfile 获取用户资料，不存在时返回 gorm.ErrRecordNotFound
func (r *accountRepositoryImpl) GetProfile(userID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpsertProfile 按 user_id upsert 用户资料，后写覆盖
func (r *accountRepositoryImpl) UpsertProfile(profile *model.Profile) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "avatar_url", "updated_at"}),
	}).Create(profile).Error
}

// GetSetting 获取用户设置，不存在时返回 gorm.ErrRecordNotFound
func (r *accountRepositoryImpl) GetSetting(userID string) (*model.Setting, error) {
	var setting model.Setting
	err := r.db.Where("user_id = ?", userID).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// UpsertSetting 按 user_id upsert 用户设置，后写覆盖
func (r *accountRepositoryImpl) UpsertSetting(setting *model.Setting) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"share_with_model", "reminders_enabled", "updated_at"}),
	}).Create(setting).Error
}
