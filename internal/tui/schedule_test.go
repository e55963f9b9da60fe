package tui

import (
	"strings"
	"testing"

	"github.com/pi2-study/planor/pkg/domain"
)

func testGenerated() *domain.GeneratedSchedule {
	return &domain.GeneratedSchedule{
		Topic: domain.ScheduleTopic{ID: 3, Title: "Limites", CourseID: 7, CourseTitle: "Cálculo I"},
		WeeklyPlan: []domain.ScheduleDay{
			{DayOfWeek: domain.Monday, AllocatedMinutes: 60, Sessions: []domain.ScheduleSession{
				{Subtopic: "Definição formal", EstimatedTime: 30, Difficulty: "medium"},
				{Subtopic: "Limites laterais", EstimatedTime: 30, Difficulty: "easy"},
			}},
			{DayOfWeek: domain.Thursday, AllocatedMinutes: 45, Sessions: []domain.ScheduleSession{
				{Subtopic: "Limites no infinito", EstimatedTime: 45, Difficulty: "hard"},
			}},
		},
	}
}

func TestSchedulePickerListsTopics(t *testing.T) {
	m := newScheduleModel(nil, nil)
	m, _ = m.Update(scheduleTopicsLoadedMsg{courses: coursesWithTopics()})

	topics := m.topics()
	if len(topics) != 2 {
		t.Fatalf("topics = %d, want 2", len(topics))
	}
	view := m.View()
	if !strings.Contains(view, "Limites") || !strings.Contains(view, "Derivadas") {
		t.Errorf("expected topics in picker, got:\n%s", view)
	}
}

func TestScheduleGenerateFlow(t *testing.T) {
	m := newScheduleModel(nil, nil)
	m, _ = m.Update(scheduleTopicsLoadedMsg{courses: coursesWithTopics()})

	m, cmd := m.Update(keyEnter())
	if m.state != schGenerating {
		t.Fatalf("state = %d, want schGenerating", m.state)
	}
	if cmd == nil {
		t.Fatal("expected generate command")
	}

	m, _ = m.Update(scheduleGeneratedMsg{schedule: testGenerated(), topicID: 3})
	if m.state != schPreview {
		t.Fatalf("state = %d, want schPreview", m.state)
	}
	view := m.View()
	if !strings.Contains(view, "Definição formal") {
		t.Errorf("expected sessions in preview, got:\n%s", view)
	}
	if !strings.Contains(view, "3 sessions") {
		t.Errorf("expected summary line, got:\n%s", view)
	}
}

func TestScheduleGenerateFailureReturnsToPicker(t *testing.T) {
	m := newScheduleModel(nil, nil)
	m.state = schGenerating

	m, _ = m.Update(scheduleGeneratedMsg{err: errTest})
	if m.state != schPicking {
		t.Errorf("state = %d, want schPicking", m.state)
	}
	if !strings.Contains(m.statusMsg, "generate failed") {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
}

func TestScheduleResumesStoredPreview(t *testing.T) {
	m := newScheduleModel(nil, nil)
	stored := &domain.SchedulePreview{Schedule: testGenerated(), TopicID: 3, SavedAt: "2026-08-28T10:00:00Z"}
	m, _ = m.Update(scheduleTopicsLoadedMsg{courses: coursesWithTopics(), stored: stored})

	if m.state != schPreview {
		t.Errorf("state = %d, want schPreview for an unaccepted stored preview", m.state)
	}
}

func TestScheduleIgnoresAcceptedStoredPreview(t *testing.T) {
	m := newScheduleModel(nil, nil)
	stored := &domain.SchedulePreview{
		Schedule:   testGenerated(),
		TopicID:    3,
		SavedAt:    "2026-08-28T10:00:00Z",
		AcceptedAt: "2026-08-28T11:00:00Z",
	}
	m, _ = m.Update(scheduleTopicsLoadedMsg{courses: coursesWithTopics(), stored: stored})

	if m.state != schPicking {
		t.Errorf("state = %d, want schPicking for an already accepted preview", m.state)
	}
}

func TestScheduleAcceptOnlyOnce(t *testing.T) {
	m := newScheduleModel(nil, nil)
	m.schedule = testGenerated()
	m.topicID = 3
	m.state = schPreview

	m, cmd := m.Update(keyRunes("y"))
	if cmd == nil {
		t.Fatal("expected accept command")
	}

	m, _ = m.Update(scheduleAcceptedMsg{created: 3})
	if !m.accepted {
		t.Fatal("expected accepted flag")
	}
	if !strings.Contains(m.statusMsg, "3 sessions logged") {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}

	_, cmd = m.Update(keyRunes("y"))
	if cmd != nil {
		t.Error("second accept must be a no-op")
	}
}

func TestScheduleCopyCommand(t *testing.T) {
	m := newScheduleModel(nil, nil)
	m.schedule = testGenerated()
	m.state = schPreview

	_, cmd := m.Update(keyRunes("c"))
	if cmd == nil {
		t.Error("expected copy command")
	}
}

func TestRenderScheduleTextSkipsEmptyDays(t *testing.T) {
	s := testGenerated()
	s.WeeklyPlan = append(s.WeeklyPlan, domain.ScheduleDay{DayOfWeek: domain.Sunday})

	text := renderScheduleText(s)
	if !strings.Contains(text, "Limites — Cálculo I") {
		t.Errorf("expected header line, got:\n%s", text)
	}
	if !strings.Contains(text, "Monday") {
		t.Errorf("expected day name, got:\n%s", text)
	}
	if strings.Contains(text, "Sunday") {
		t.Errorf("empty day must be skipped, got:\n%s", text)
	}
}
