package account

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/breezie/breezie/internal/model"
	"github.com/breezie/breezie/internal/service/types"
)

// ========== Mock 实现 ==========

type mockAccountRepo struct {
	profiles map[string]*model.Profile
	settings map[string]*model.Setting
	err      error
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{
		profiles: make(map[string]*model.Profile),
		settings: make(map[string]*model.Setting),
	}
}

func (m *mockAccountRepo) GetProfile(userID string) (*model.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (m *mockAccountRepo) UpsertProfile(profile *model.Profile) error {
	if m.err != nil {
		return m.err
	}
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *mockAccountRepo) GetSetting(userID string) (*model.Setting, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.settings[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (m *mockAccountRepo) UpsertSetting(setting *model.Setting) error {
	if m.err != nil {
		return m.err
	}
	m.settings[setting.UserID] = setting
	return nil
}

type mockMoodRepo struct {
	logs []*model.MoodLog
}

func (m *mockMoodRepo) Create(moodLog *model.MoodLog) error { return nil }

func (m *mockMoodRepo) ListByUser(userID string, limit int) ([]*model.MoodLog, error) {
	return m.ListByUserAll(userID)
}

func (m *mockMoodRepo) ListByUserAll(userID string) ([]*model.MoodLog, error) {
	var out []*model.MoodLog
	for _, l := range m.logs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

type mockChatRepo struct {
	conversations []*model.Conversation
	messages      []*model.ChatMessage
}

func (m *mockChatRepo) CreateConversation(conv *model.Conversation) error  { return nil }
func (m *mockChatRepo) GetConversationByID(id string) (*model.Conversation, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockChatRepo) ListConversations(userID string, limit int) ([]*model.Conversation, error) {
	return m.ListConversationsAll(userID)
}
func (m *mockChatRepo) ListConversationsAll(userID string) ([]*model.Conversation, error) {
	var out []*model.Conversation
	for _, c := range m.conversations {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}
func (m *mockChatRepo) UpdateConversationTitle(id, title string) error { return nil }
func (m *mockChatRepo) CreateMessage(msg *model.ChatMessage) error     { return nil }
func (m *mockChatRepo) ListMessages(conversationID string) ([]*model.ChatMessage, error) {
	return nil, nil
}
func (m *mockChatRepo) ListMessagesAll(userID string) ([]*model.ChatMessage, error) {
	return m.messages, nil
}
func (m *mockChatRepo) UpdateMessageEmotion(id, emotion string) error { return nil }

type mockEmotionRepo struct {
	sessions []*model.EmotionSession
}

func (m *mockEmotionRepo) CreateSession(session *model.EmotionSession) error { return nil }

func (m *mockEmotionRepo) ListSessionsByUser(userID string) ([]*model.EmotionSession, error) {
	var out []*model.EmotionSession
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func newTestService() (*Service, *mockAccountRepo, *mockMoodRepo, *mockChatRepo, *mockEmotionRepo) {
	account := newMockAccountRepo()
	mood := &mockMoodRepo{}
	chat := &mockChatRepo{}
	emotion := &mockEmotionRepo{}
	return NewService(account, mood, chat, emotion), account, mood, chat, emotion
}

// ========== Profile 测试 ==========

func TestGetProfile_NotFoundReturnsEmpty(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	resp, err := svc.GetProfile(context.Background(), "user-1", "u1@example.com")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if resp.Username != "" || resp.AvatarURL != "" {
		t.Errorf("expected empty profile fields, got %+v", resp)
	}
	if resp.Email != "u1@example.com" {
		t.Errorf("Email = %q, want u1@example.com", resp.Email)
	}
}

func TestUpdateProfile_UpsertOverwrites(t *testing.T) {
	svc, repo, _, _, _ := newTestService()

	if err := svc.UpdateProfile(context.Background(), "user-1", &UpdateProfileRequest{Username: "alice"}); err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if err := svc.UpdateProfile(context.Background(), "user-1", &UpdateProfileRequest{Username: "bob", AvatarURL: "https://cdn.example.com/b.png"}); err != nil {
		t.Fatalf("UpdateProfile() second error = %v", err)
	}

	got := repo.profiles["user-1"]
	if got == nil || got.Username != "bob" {
		t.Fatalf("expected last write to win, got %+v", got)
	}

	resp, err := svc.GetProfile(context.Background(), "user-1", "u1@example.com")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if resp.Username != "bob" || resp.AvatarURL != "https://cdn.example.com/b.png" {
		t.Errorf("GetProfile() = %+v, want bob profile", resp)
	}
}

func TestUpdateProfile_UsernameRequired(t *testing.T) {
	svc, repo, _, _, _ := newTestService()

	err := svc.UpdateProfile(context.Background(), "user-1", &UpdateProfileRequest{Username: "   "})
	if !errors.Is(err, types.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(repo.profiles) != 0 {
		t.Error("no profile should be written on invalid input")
	}
}

func TestProfile_Unauthorized(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	if _, err := svc.GetProfile(context.Background(), "", ""); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("GetProfile without user: expected ErrUnauthorized, got %v", err)
	}
	if err := svc.UpdateProfile(context.Background(), "", &UpdateProfileRequest{Username: "x"}); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("UpdateProfile without user: expected ErrUnauthorized, got %v", err)
	}
}

// ========== Settings 测试 ==========

func TestGetSettings_DefaultsWhenMissing(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	resp, err := svc.GetSettings(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if !resp.ShareWithModel {
		t.Error("ShareWithModel default should be true")
	}
	if resp.RemindersEnabled {
		t.Error("RemindersEnabled default should be false")
	}
}

func TestUpdateSettings_RoundTrip(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	if err := svc.UpdateSettings(context.Background(), "user-1", &UpdateSettingsRequest{ShareWithModel: false, RemindersEnabled: true}); err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}

	resp, err := svc.GetSettings(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if resp.ShareWithModel || !resp.RemindersEnabled {
		t.Errorf("GetSettings() = %+v, want flipped flags", resp)
	}
}

// ========== Export 测试 ==========

func TestExport_ScopedToUser(t *testing.T) {
	svc, _, mood, chat, emotion := newTestService()

	mood.logs = []*model.MoodLog{
		{ID: "m1", UserID: "user-1", Mood: 4},
		{ID: "m2", UserID: "user-2", Mood: 2},
	}
	chat.conversations = []*model.Conversation{
		{ID: "c1", UserID: "user-1", Title: "mine"},
		{ID: "c2", UserID: "user-2", Title: "theirs"},
	}
	chat.messages = []*model.ChatMessage{
		{ID: "msg1", ConversationID: "c1", Role: model.RoleUser, Content: "hi"},
	}
	emotion.sessions = []*model.EmotionSession{
		{ID: "s1", UserID: "user-1", Source: model.SourceChat},
		{ID: "s2", UserID: "user-2", Source: model.SourceDiary},
	}

	payload, err := svc.Export(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(payload.MoodLogs) != 1 || payload.MoodLogs[0].ID != "m1" {
		t.Errorf("MoodLogs = %+v, want only m1", payload.MoodLogs)
	}
	if len(payload.Conversations) != 1 || payload.Conversations[0].ID != "c1" {
		t.Errorf("Conversations = %+v, want only c1", payload.Conversations)
	}
	if len(payload.EmotionSessions) != 1 || payload.EmotionSessions[0].ID != "s1" {
		t.Errorf("EmotionSessions = %+v, want only s1", payload.EmotionSessions)
	}
}

func TestExport_EmptyUserHasEmptySlices(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	payload, err := svc.Export(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if payload.MoodLogs == nil || payload.Conversations == nil || payload.Messages == nil || payload.EmotionSessions == nil {
		t.Error("export slices must be non-nil so JSON encodes arrays, not null")
	}
}

func TestExport_Unauthorized(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	if _, err := svc.Export(context.Background(), ""); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}
