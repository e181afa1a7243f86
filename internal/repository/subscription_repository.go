package repository

import (
	"github.com/breezie/breezie/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// subscriptionRepositoryImpl 订阅数据访问
type subscriptionRepositoryImpl struct {
	db *gorm.DB
}

// NewSubscriptionRepository 创建订阅仓库
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepositoryImpl{db: db}
}

// GetByUserID 获取用户订阅，不存在时返回 gorm.ErrRecordNotFound
func (r *subscriptionRepositoryImpl) GetByUserID(userID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Upsert 按 user_id upsert 订阅，后写覆盖
// webhook 事件乱序到达时由 Stripe 侧的状态保证最终一致
func (r *subscriptionRepositoryImpl) Upsert(sub *model.Subscription) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stripe_customer_id", "stripe_subscription_id", "plan", "status", "current_period_end", "updated_at",
		}),
	}).Create(sub).Error
}
