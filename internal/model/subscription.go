package model

import "time"

// Subscription 订阅状态，由 Stripe webhook 与结账流程 upsert，每个用户一行
type Subscription struct {
	UserID               string     `gorm:"primaryKey;size:36" json:"user_id"`
	StripeCustomerID     string     `gorm:"size:64;index" json:"stripe_customer_id"`
	StripeSubscriptionID string     `gorm:"size:64" json:"stripe_subscription_id"`
	Plan                 string     `gorm:"size:64" json:"plan"`
	Status               string     `gorm:"size:32" json:"status"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (Subscription) TableName() string {
	return "subscriptions"
}
