package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pi2-study/planor/pkg/client"
	"github.com/pi2-study/planor/pkg/domain"
)

var errTest = errors.New("boom")

func newTestApp() App {
	a := NewApp(nil, nil, "https://planor.app")
	a.width = 80
	a.height = 30
	return a
}

func TestAppTabSwitching(t *testing.T) {
	tests := []struct {
		key      string
		wantView view
	}{
		{"2", viewCourses},
		{"3", viewLogs},
		{"4", viewSchedule},
		{"5", viewQuiz},
		{"6", viewBot},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			app := newTestApp()
			model, _ := app.Update(keyRunes(tc.key))
			a := model.(App)
			if a.view != tc.wantView {
				t.Errorf("after key %q: expected view=%d, got %d", tc.key, tc.wantView, a.view)
			}
		})
	}
}

func TestAppDigitsStayLocalWhileEditing(t *testing.T) {
	a := newTestApp()
	a.planner, _ = a.planner.Update(weekLoadedMsg{seq: 0, week: testWeek(), plans: testPlans(), courses: testCourses()})

	// Open the add form, focus the minutes field, then type a digit.
	model, _ := a.Update(keyRunes("a"))
	a = model.(App)
	if !a.isEditing() {
		t.Fatal("expected isEditing while the add form is open")
	}
	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyTab})
	a = model.(App)
	model, _ = a.Update(keyRunes("3"))
	a = model.(App)

	if a.view != viewPlanner {
		t.Errorf("digit must not switch tabs while editing, view = %d", a.view)
	}
	if !strings.HasSuffix(a.planner.formMinutes, "3") {
		t.Errorf("formMinutes = %q, want the typed digit appended", a.planner.formMinutes)
	}
}

func TestAppHelpOverlay(t *testing.T) {
	a := newTestApp()

	model, _ := a.Update(keyRunes("?"))
	a = model.(App)
	if !a.helpOpen {
		t.Fatal("expected helpOpen after ?")
	}
	if !strings.Contains(a.View(), "planor login") {
		t.Error("help overlay must list commands")
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(App)
	if a.helpOpen {
		t.Error("esc must close the help overlay")
	}
}

func TestAppSessionExpiredBanner(t *testing.T) {
	a := newTestApp()

	model, _ := a.Update(meLoadedMsg{err: client.ErrSessionExpired})
	a = model.(App)
	if !a.sessionExpired {
		t.Fatal("expected sessionExpired flag")
	}
	if !strings.Contains(a.View(), "planor login") {
		t.Error("expired session must be surfaced in the header")
	}
}

func TestAppReloadRefreshesIdentity(t *testing.T) {
	a := newTestApp()

	model, _ := a.Update(meLoadedMsg{err: client.ErrSessionExpired})
	a = model.(App)

	model, _ = a.Update(weekLoadedMsg{me: &domain.User{FirstName: "Maria"}, week: testWeek()})
	a = model.(App)
	if a.sessionExpired {
		t.Error("a successful reload must clear the expired banner")
	}
	if !strings.Contains(a.View(), "Maria") {
		t.Error("identity from the reload must reach the header")
	}
}

func TestAppShowsDisplayName(t *testing.T) {
	a := newTestApp()

	model, _ := a.Update(meLoadedMsg{me: &domain.User{FirstName: "Maria"}})
	a = model.(App)
	if !strings.Contains(a.View(), "Maria") {
		t.Error("expected user display name in header")
	}
}

func TestAppOpenTopicSwitchesToSchedule(t *testing.T) {
	a := newTestApp()

	model, cmd := a.Update(openTopicMsg{topic: domain.Topic{ID: 3, Title: "Limites"}})
	a = model.(App)
	if a.view != viewSchedule {
		t.Errorf("view = %d, want viewSchedule", a.view)
	}
	if a.schedule.state != schGenerating {
		t.Errorf("schedule state = %d, want schGenerating", a.schedule.state)
	}
	if cmd == nil {
		t.Error("expected generate command")
	}
}

func TestAppQuizTakingSuspendsGlobalKeys(t *testing.T) {
	a := newTestApp()
	a.view = viewQuiz
	a.quiz, _ = a.quiz.Update(quizzesLoadedMsg{quizzes: testQuizzes(), courses: coursesWithTopics()})

	model, _ := a.Update(keyEnter())
	a = model.(App)
	if a.quiz.state != qzTaking {
		t.Fatalf("quiz state = %v, want qzTaking", a.quiz.state)
	}

	model, cmd := a.Update(keyRunes("q"))
	a = model.(App)
	if cmd != nil {
		t.Error("q must not quit while a quiz run is open")
	}
	if a.view != viewQuiz {
		t.Errorf("view = %v, want viewQuiz", a.view)
	}
}

func TestAppQuit(t *testing.T) {
	a := newTestApp()
	_, cmd := a.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Errorf("expected tea.QuitMsg, got %T", msg)
	}
}
