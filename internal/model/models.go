// Package model 定义 Breezie 的数据模型
package model

// AllModels 所有需要自动迁移的模型
var AllModels = []interface{}{
	&Conversation{},
	&ChatMessage{},
	&MoodLog{},
	&EmotionSession{},
	&Profile{},
	&Setting{},
	&Subscription{},
}
