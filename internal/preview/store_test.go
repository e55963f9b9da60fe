package preview

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pi2-study/planor/pkg/domain"
)

func samplePreview() *domain.SchedulePreview {
	return &domain.SchedulePreview{
		Schedule: &domain.GeneratedSchedule{
			Topic: domain.ScheduleTopic{ID: 3, Title: "Limites", CourseID: 7},
			WeeklyPlan: []domain.ScheduleDay{
				{DayOfWeek: domain.Monday, AllocatedMinutes: 30, Sessions: []domain.ScheduleSession{
					{Subtopic: "Definição formal", EstimatedTime: 30},
				}},
			},
		},
		TopicID: 3,
		SavedAt: "2026-08-28T10:00:00Z",
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	if err := s.Save(samplePreview()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got == nil || got.TopicID != 3 {
		t.Fatalf("Load() = %+v, want topic 3", got)
	}
	if got.Schedule.Topic.Title != "Limites" {
		t.Errorf("Schedule.Topic.Title = %q", got.Schedule.Topic.Title)
	}
	if got.Accepted() {
		t.Error("unaccepted preview must not round-trip as accepted")
	}
}

func TestStoreMissingFileIsNil(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope"))

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != nil {
		t.Errorf("Load() = %+v, want nil for missing file", got)
	}
}

func TestStoreCorruptFileIsNil(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, previewFileName), []byte("{broken"), 0o600); err != nil {
		t.Fatal(err)
	}
	s := NewStore(dir)

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != nil {
		t.Errorf("Load() = %+v, want nil for corrupt file", got)
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore(t.TempDir())
	if err := s.Save(samplePreview()); err != nil {
		t.Fatal(err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	got, _ := s.Load()
	if got != nil {
		t.Error("expected nil after Clear")
	}
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear() error: %v", err)
	}
}
