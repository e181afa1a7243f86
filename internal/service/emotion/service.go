// Package emotion 提供情绪分类与情绪会话记录
// 分类结果仅作辅助参考：解析失败降级为空结构，绝不阻断请求
package emotion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/google/uuid"
	"github.com/kaptinlin/jsonrepair"

	appmodel "github.com/breezie/breezie/internal/model"
	"github.com/breezie/breezie/internal/repository"
	"github.com/breezie/breezie/internal/service/types"
)

// 候选情绪的数量上限，超出部分截断
const maxCandidates = 6

// 系统指令：约束模型只输出合法 JSON
const (
	classifySystemPrompt = "You are a precise emotion classifier that only returns valid JSON."
	suggestSystemPrompt  = "You output only valid JSON as requested."
)

// Generator 非流式补全的最小依赖，便于测试注入
type Generator interface {
	Generate(ctx context.Context, messages []types.ChatMessage, opts ...model.Option) (string, error)
}

// Service 情绪服务
type Service struct {
	gen  Generator
	repo repository.EmotionRepository
}

// NewService 创建情绪服务
func NewService(gen Generator, repo repository.EmotionRepository) *Service {
	return &Service{gen: gen, repo: repo}
}

// Classification 单标签分类结果
type Classification struct {
	Emotion   string   `json:"emotion"`
	Intensity int      `json:"intensity"`
	Tags      []string `json:"tags"`
}

// Candidate 开放词表的候选情绪
type Candidate struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classify 对文本做单标签情绪分类
// 固定 temperature 0 保证确定性输出；模型输出不可解析时返回空结构
func (s *Service) Classify(ctx context.Context, text string) (*Classification, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: missing text", types.ErrInvalidInput)
	}

	prompt := fmt.Sprintf(`Classify the user's emotional state.
Return strict JSON: {"emotion": one of ["joy","sadness","anger","fear","disgust","neutral"], "intensity": integer 1-5, "tags": string[] up to 5}.
Text: %s`, text)

	raw, err := s.gen.Generate(ctx, []types.ChatMessage{
		{Role: appmodel.RoleSystem, Content: classifySystemPrompt},
		{Role: appmodel.RoleUser, Content: prompt},
	}, model.WithTemperature(0))
	if err != nil {
		return nil, err
	}

	result := &Classification{}
	tolerantUnmarshal(raw, result)
	return result, nil
}

// Suggest 从文本中提出 3-6 个更具体的候选情绪及置信度
func (s *Service) Suggest(ctx context.Context, text string) ([]Candidate, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: missing text", types.ErrInvalidInput)
	}

	prompt := fmt.Sprintf(`From the user's text, propose 3-6 most precise emotions with confidences (0-1). Return strict JSON: {candidates: [{label: string, confidence: number}]}. Avoid generic labels; be specific and helpful.
Text: %s`, text)

	raw, err := s.gen.Generate(ctx, []types.ChatMessage{
		{Role: appmodel.RoleSystem, Content: suggestSystemPrompt},
		{Role: appmodel.RoleUser, Content: prompt},
	}, model.WithTemperature(0))
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Candidates []Candidate `json:"candidates"`
	}
	tolerantUnmarshal(raw, &parsed)

	candidates := parsed.Candidates
	if candidates == nil {
		candidates = []Candidate{}
	}
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates, nil
}

// tolerantUnmarshal 宽容地解析模型输出：
// 先做严格 JSON 解码，失败后剥掉 Markdown 围栏并尝试 jsonrepair，
// 仍失败时保持 v 的零值（空结构降级，不报错）
func tolerantUnmarshal(raw string, v interface{}) {
	s := strings.TrimSpace(raw)
	if json.Unmarshal([]byte(s), v) == nil {
		return
	}

	// 剥离常见的 LLM 输出伪影
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if json.Unmarshal([]byte(s), v) == nil {
		return
	}

	repaired, err := jsonrepair.JSONRepair(s)
	if err != nil {
		return
	}
	_ = json.Unmarshal([]byte(repaired), v)
}

// SaveSessionRequest 保存情绪会话请求
type SaveSessionRequest struct {
	Source        string `json:"source"`
	PreEmotion    string `json:"pre_emotion"`
	PreIntensity  int    `json:"pre_intensity"`
	PostEmotion   string `json:"post_emotion"`
	PostIntensity int    `json:"post_intensity"`
	Summary       string `json:"summary"`
	Content       string `json:"content"`
}

// SaveSession 保存一条情绪会话，由用户显式触发，写入后不可变
func (s *Service) SaveSession(ctx context.Context, userID string, req *SaveSessionRequest) (string, error) {
	if userID == "" {
		return "", types.ErrUnauthorized
	}
	if req.Source != appmodel.SourceChat && req.Source != appmodel.SourceDiary {
		return "", fmt.Errorf("%w: invalid source", types.ErrInvalidInput)
	}
	if err := validIntensity(req.PreIntensity); err != nil {
		return "", err
	}
	if err := validIntensity(req.PostIntensity); err != nil {
		return "", err
	}

	session := &appmodel.EmotionSession{
		ID:            uuid.New().String(),
		UserID:        userID,
		Source:        req.Source,
		PreEmotion:    req.PreEmotion,
		PreIntensity:  req.PreIntensity,
		PostEmotion:   req.PostEmotion,
		PostIntensity: req.PostIntensity,
		Summary:       req.Summary,
		Content:       req.Content,
	}
	if err := s.repo.CreateSession(session); err != nil {
		return "", fmt.Errorf("failed to create emotion session: %w", err)
	}
	return session.ID, nil
}

// validIntensity 强度为可选字段，提供时必须落在 1-5
func validIntensity(v int) error {
	if v == 0 {
		return nil
	}
	if v < 1 || v > 5 {
		return fmt.Errorf("%w: intensity out of range", types.ErrInvalidInput)
	}
	return nil
}
