// Package mood 提供心情打卡记录服务
package mood

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	appmodel "github.com/breezie/breezie/internal/model"
	"github.com/breezie/breezie/internal/repository"
	"github.com/breezie/breezie/internal/service/types"
)

// 列表默认返回最近多少条
const listLimit = 100

// Service 心情记录服务
type Service struct {
	repo repository.MoodRepository
}

// NewService 创建心情记录服务
func NewService(repo repository.MoodRepository) *Service {
	return &Service{repo: repo}
}

// CreateRequest 心情打卡请求
type CreateRequest struct {
	Mood   int      `json:"mood"`
	Energy int      `json:"energy"`
	Tags   []string `json:"tags"`
	Note   string   `json:"note"`
}

// Create 追加一条心情记录
// mood 与 energy 必须是 [1,5] 内的整数，越界时不落库直接拒绝
func (s *Service) Create(ctx context.Context, userID string, req *CreateRequest) (*appmodel.MoodLog, error) {
	if userID == "" {
		return nil, types.ErrUnauthorized
	}
	if req.Mood < 1 || req.Mood > 5 {
		return nil, fmt.Errorf("%w: invalid mood", types.ErrInvalidInput)
	}
	if req.Energy < 1 || req.Energy > 5 {
		return nil, fmt.Errorf("%w: invalid energy", types.ErrInvalidInput)
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	moodLog := &appmodel.MoodLog{
		ID:     uuid.New().String(),
		UserID: userID,
		Mood:   req.Mood,
		Energy: req.Energy,
		Tags:   tags,
		Note:   req.Note,
	}
	if err := s.repo.Create(moodLog); err != nil {
		return nil, fmt.Errorf("failed to create mood log: %w", err)
	}
	return moodLog, nil
}

// List 按时间倒序返回用户最近的心情记录
func (s *Service) List(ctx context.Context, userID string) ([]*appmodel.MoodLog, error) {
	if userID == "" {
		return nil, types.ErrUnauthorized
	}
	logs, err := s.repo.ListByUser(userID, listLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list mood logs: %w", err)
	}
	return logs, nil
}
