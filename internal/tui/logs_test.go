package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pi2-study/planor/pkg/domain"
)

func loadedLogs(t *testing.T) logsModel {
	t.Helper()
	m := newLogsModel(nil)
	m.width = 80
	m.height = 40
	m, _ = m.Update(logsLoadedMsg{
		logs: []domain.StudyLog{
			{ID: 1, Course: 7, Date: "2026-08-25", MinutesStudied: 45, Notes: "limites laterais"},
			{ID: 2, Course: 8, Date: "2026-08-24", MinutesStudied: 30},
		},
		courses: testCourses(),
	})
	return m
}

func TestLogsListRenders(t *testing.T) {
	m := loadedLogs(t)

	view := m.View()
	if !strings.Contains(view, "2026-08-25") {
		t.Errorf("expected log date in view, got:\n%s", view)
	}
	if !strings.Contains(view, "Cálculo I") {
		t.Errorf("expected resolved course title, got:\n%s", view)
	}
	if !strings.Contains(view, "limites laterais") {
		t.Errorf("expected notes in view, got:\n%s", view)
	}
}

func TestLogsAddRequiresCourses(t *testing.T) {
	m := newLogsModel(nil)
	m, _ = m.Update(logsLoadedMsg{})

	m, _ = m.Update(keyRunes("a"))
	if m.state != lgNormal {
		t.Error("add must stay disabled without courses")
	}
	if m.statusMsg != "no courses yet" {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
}

func TestLogsAddFormValidation(t *testing.T) {
	m := loadedLogs(t)

	m, _ = m.Update(keyRunes("a"))
	if m.state != lgAdding {
		t.Fatalf("state = %d, want lgAdding", m.state)
	}

	// Break the date field.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	for i := 0; i < 10; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m, _ = m.Update(keyRunes("x"))
	m, cmd := m.Update(keyEnter())
	if cmd != nil {
		t.Error("invalid date must not produce a write")
	}
	if !strings.Contains(m.statusMsg, "YYYY-MM-DD") {
		t.Errorf("statusMsg = %q, want date validation message", m.statusMsg)
	}
}

func TestLogsAddFormSaves(t *testing.T) {
	m := loadedLogs(t)

	m, _ = m.Update(keyRunes("a"))
	// Defaults (today's date, 30 minutes) are already valid.
	_, cmd := m.Update(keyEnter())
	if cmd == nil {
		t.Error("expected create command for valid form")
	}
}

func TestLogsWriteReloads(t *testing.T) {
	m := loadedLogs(t)
	m.state = lgAdding

	m, cmd := m.Update(logWrittenMsg{})
	if m.state != lgNormal {
		t.Error("state must return to normal after a write")
	}
	if cmd == nil {
		t.Error("successful write must reload the list")
	}
	if m.statusMsg != "logged" {
		t.Errorf("statusMsg = %q, want %q", m.statusMsg, "logged")
	}
}

func TestLogsWriteFailureKeepsList(t *testing.T) {
	m := loadedLogs(t)

	m, cmd := m.Update(logWrittenMsg{err: errTest})
	if cmd != nil {
		t.Error("failed write must not reload")
	}
	if !strings.Contains(m.statusMsg, "log failed") {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
}
