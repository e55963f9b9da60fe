package tui

import (
	"strings"
	"testing"

	"github.com/pi2-study/planor/pkg/domain"
)

func coursesWithTopics() []domain.Course {
	return []domain.Course{
		{ID: 7, Title: "Cálculo I", Topics: []domain.Topic{
			{ID: 1, Title: "Limites", Subtopics: []domain.Subtopic{
				{ID: 10, Title: "Definição formal", IsCompleted: true},
				{ID: 11, Title: "Limites laterais"},
			}},
			{ID: 2, Title: "Derivadas"},
		}},
		{ID: 8, Title: "Física II"},
	}
}

func TestCoursesListCollapsedByDefault(t *testing.T) {
	m := newCoursesModel(nil)
	m, _ = m.Update(coursesLoadedMsg{courses: coursesWithTopics()})

	rows := m.rows()
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 collapsed courses", len(rows))
	}
	view := m.View()
	if !strings.Contains(view, "Cálculo I") || !strings.Contains(view, "Física II") {
		t.Errorf("expected both courses in view, got:\n%s", view)
	}
	if strings.Contains(view, "Limites") {
		t.Error("topics must be hidden while collapsed")
	}
}

func TestCoursesExpandShowsTopics(t *testing.T) {
	m := newCoursesModel(nil)
	m, _ = m.Update(coursesLoadedMsg{courses: coursesWithTopics()})

	m, _ = m.Update(keyEnter())
	rows := m.rows()
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want course + 2 topics + course", len(rows))
	}
	view := m.View()
	if !strings.Contains(view, "Limites") {
		t.Errorf("expected topic in expanded view, got:\n%s", view)
	}
	if !strings.Contains(view, "1/2") {
		t.Errorf("expected subtopic progress 1/2, got:\n%s", view)
	}

	// Collapse again with h.
	m, _ = m.Update(keyRunes("h"))
	if len(m.rows()) != 2 {
		t.Error("h must collapse the course")
	}
}

func TestCoursesGenerateFromTopic(t *testing.T) {
	m := newCoursesModel(nil)
	m, _ = m.Update(coursesLoadedMsg{courses: coursesWithTopics()})

	m, _ = m.Update(keyEnter())    // expand
	m, _ = m.Update(keyRunes("j")) // onto first topic
	m, cmd := m.Update(keyRunes("g"))
	if cmd == nil {
		t.Fatal("expected openTopic command")
	}
	msg, ok := cmd().(openTopicMsg)
	if !ok {
		t.Fatalf("cmd produced %T, want openTopicMsg", cmd())
	}
	if msg.topic.ID != 1 {
		t.Errorf("topic id = %d, want 1", msg.topic.ID)
	}
	if m.statusMsg != "" {
		t.Errorf("statusMsg = %q, want empty", m.statusMsg)
	}
}

func TestCoursesGenerateOnCourseRowWarns(t *testing.T) {
	m := newCoursesModel(nil)
	m, _ = m.Update(coursesLoadedMsg{courses: coursesWithTopics()})

	m, cmd := m.Update(keyRunes("g"))
	if cmd != nil {
		t.Error("g on a course row must not emit a command")
	}
	if m.statusMsg != "select a topic first" {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
}
