// Package account 提供用户资料、设置与数据导出
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	appmodel "github.com/breezie/breezie/internal/model"
	"github.com/breezie/breezie/internal/repository"
	"github.com/breezie/breezie/internal/service/types"
)

// Service 账户服务
type Service struct {
	repo    repository.AccountRepository
	mood    repository.MoodRepository
	chat    repository.ChatRepository
	emotion repository.EmotionRepository
}

// NewService 创建账户服务
func NewService(repo repository.AccountRepository, mood repository.MoodRepository, chat repository.ChatRepository, emotion repository.EmotionRepository) *Service {
	return &Service{repo: repo, mood: mood, chat: chat, emotion: emotion}
}

// ProfileResponse 用户资料响应
type ProfileResponse struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Email     string `json:"email"`
}

// GetProfile 获取用户资料，未建档时返回空字段
func (s *Service) GetProfile(ctx context.Context, userID, email string) (*ProfileResponse, error) {
	if userID == "" {
		return nil, types.ErrUnauthorized
	}

	resp := &ProfileResponse{Email: email}
	profile, err := s.repo.GetProfile(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resp, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	resp.Username = profile.Username
	resp.AvatarURL = profile.AvatarURL
	return resp, nil
}

// UpdateProfileRequest 更新用户资料请求
type UpdateProfileRequest struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// UpdateProfile 按 user_id upsert 用户资料，后写覆盖
func (s *Service) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) error {
	if userID == "" {
		return types.ErrUnauthorized
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return fmt.Errorf("%w: username required", types.ErrInvalidInput)
	}

	if err := s.repo.UpsertProfile(&appmodel.Profile{
		UserID:    userID,
		Username:  username,
		AvatarURL: strings.TrimSpace(req.AvatarURL),
	}); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// SettingsResponse 用户设置响应
type SettingsResponse struct {
	ShareWithModel   bool `json:"share_with_model"`
	RemindersEnabled bool `json:"reminders_enabled"`
}

// GetSettings 获取用户设置，未建档时返回默认值
func (s *Service) GetSettings(ctx context.Context, userID string) (*SettingsResponse, error) {
	if userID == "" {
		return nil, types.ErrUnauthorized
	}

	setting, err := s.repo.GetSetting(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 默认：对话可用于模型上下文，提醒关闭
			return &SettingsResponse{ShareWithModel: true, RemindersEnabled: false}, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &SettingsResponse{
		ShareWithModel:   setting.ShareWithModel,
		RemindersEnabled: setting.RemindersEnabled,
	}, nil
}

// UpdateSettingsRequest 更新用户设置请求
type UpdateSettingsRequest struct {
	ShareWithModel   bool `json:"share_with_model"`
	RemindersEnabled bool `json:"reminders_enabled"`
}

// UpdateSettings 按 user_id upsert 用户设置，幂等
func (s *Service) UpdateSettings(ctx context.Context, userID string, req *UpdateSettingsRequest) error {
	if userID == "" {
		return types.ErrUnauthorized
	}
	if err := s.repo.UpsertSetting(&appmodel.Setting{
		UserID:           userID,
		ShareWithModel:   req.ShareWithModel,
		RemindersEnabled: req.RemindersEnabled,
	}); err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}
	return nil
}

// ExportPayload 用户全量数据导出
type ExportPayload struct {
	MoodLogs        []*appmodel.MoodLog        `json:"mood_logs"`
	Conversations   []*appmodel.Conversation   `json:"conversations"`
	Messages        []*appmodel.ChatMessage    `json:"messages"`
	EmotionSessions []*appmodel.EmotionSession `json:"emotion_sessions"`
}

// Export 导出调用者名下的全部记录，严格按 user_id 过滤
func (s *Service) Export(ctx context.Context, userID string) (*ExportPayload, error) {
	if userID == "" {
		return nil, types.ErrUnauthorized
	}

	moods, err := s.mood.ListByUserAll(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to export mood logs: %w", err)
	}
	convs, err := s.chat.ListConversationsAll(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to export conversations: %w", err)
	}
	msgs, err := s.chat.ListMessagesAll(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to export messages: %w", err)
	}
	sessions, err := s.emotion.ListSessionsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to export emotion sessions: %w", err)
	}

	if moods == nil {
		moods = []*appmodel.MoodLog{}
	}
	if convs == nil {
		convs = []*appmodel.Conversation{}
	}
	if msgs == nil {
		msgs = []*appmodel.ChatMessage{}
	}
	if sessions == nil {
		sessions = []*appmodel.EmotionSession{}
	}

	return &ExportPayload{
		MoodLogs:        moods,
		Conversations:   convs,
		Messages:        msgs,
		EmotionSessions: sessions,
	}, nil
}
