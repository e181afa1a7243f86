// Package mood 提供心情记录服务单元测试
package mood

import (
	"context"
	"errors"
	"testing"

	appmodel "github.com/breezie/breezie/internal/model"
	"github.com/breezie/breezie/internal/service/types"
)

// mockMoodRepo Mock Mood Repository
type mockMoodRepo struct {
	logs        []*appmodel.MoodLog
	createError error
}

func (m *mockMoodRepo) Create(moodLog *appmodel.MoodLog) error {
	if m.createError != nil {
		return m.createError
	}
	m.logs = append(m.logs, moodLog)
	return nil
}

func (m *mockMoodRepo) ListByUser(userID string, limit int) ([]*appmodel.MoodLog, error) {
	result := make([]*appmodel.MoodLog, 0)
	for _, l := range m.logs {
		if l.UserID == userID {
			result = append(result, l)
		}
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (m *mockMoodRepo) ListByUserAll(userID string) ([]*appmodel.MoodLog, error) {
	return m.ListByUser(userID, 0)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mood    int
		energy  int
		wantErr bool
	}{
		{name: "both minimum", mood: 1, energy: 1},
		{name: "both maximum", mood: 5, energy: 5},
		{name: "middle", mood: 3, energy: 2},
		{name: "mood zero", mood: 0, energy: 3, wantErr: true},
		{name: "mood above range", mood: 6, energy: 3, wantErr: true},
		{name: "mood negative", mood: -1, energy: 3, wantErr: true},
		{name: "energy zero", mood: 3, energy: 0, wantErr: true},
		{name: "energy above range", mood: 3, energy: 6, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockMoodRepo{}
			svc := NewService(repo)

			got, err := svc.Create(context.Background(), "user-1", &CreateRequest{
				Mood:   tt.mood,
				Energy: tt.energy,
				Tags:   []string{"work"},
				Note:   "checking in",
			})
			if tt.wantErr {
				if !errors.Is(err, types.ErrInvalidInput) {
					t.Fatalf("Create() error = %v, want ErrInvalidInput", err)
				}
				if len(repo.logs) != 0 {
					t.Errorf("rejected check-in must not be written")
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if got.Mood != tt.mood || got.Energy != tt.energy {
				t.Errorf("stored = {mood:%d energy:%d}, want {mood:%d energy:%d}", got.Mood, got.Energy, tt.mood, tt.energy)
			}
			if got.ID == "" || got.UserID != "user-1" {
				t.Errorf("stored record missing id or user scope: %+v", got)
			}
			if len(repo.logs) != 1 {
				t.Errorf("written rows = %d, want 1", len(repo.logs))
			}
		})
	}
}

func TestCreate_Unauthorized(t *testing.T) {
	svc := NewService(&mockMoodRepo{})

	_, err := svc.Create(context.Background(), "", &CreateRequest{Mood: 3, Energy: 3})
	if !errors.Is(err, types.ErrUnauthorized) {
		t.Fatalf("Create() error = %v, want ErrUnauthorized", err)
	}
}

func TestCreate_NilTagsStoredAsEmpty(t *testing.T) {
	repo := &mockMoodRepo{}
	svc := NewService(repo)

	got, err := svc.Create(context.Background(), "user-1", &CreateRequest{Mood: 2, Energy: 4})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("tags = %v, want empty slice", got.Tags)
	}
}

func TestList_ScopedToUser(t *testing.T) {
	repo := &mockMoodRepo{logs: []*appmodel.MoodLog{
		{ID: "a", UserID: "user-1", Mood: 3, Energy: 3},
		{ID: "b", UserID: "user-2", Mood: 4, Energy: 2},
		{ID: "c", UserID: "user-1", Mood: 1, Energy: 5},
	}}
	svc := NewService(repo)

	got, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("count = %d, want 2", len(got))
	}
	for _, l := range got {
		if l.UserID != "user-1" {
			t.Errorf("leaked record of user %q", l.UserID)
		}
	}
}
