package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/pi2-study/planor/pkg/client"
	"github.com/pi2-study/planor/pkg/domain"
)

// logDateLayout is the wire format for study-log dates.
const logDateLayout = "2006-01-02"

// logsState is the state machine for the study-log view.
type logsState int

const (
	lgNormal logsState = iota
	lgAdding
)

type logsLoadedMsg struct {
	logs    []domain.StudyLog
	courses []domain.Course
	err     error
}

type logWrittenMsg struct{ err error }

type logsModel struct {
	client    *client.Client
	logs      []domain.StudyLog
	courses   []domain.Course
	colors    map[int64]string
	cursor    int
	state     logsState
	statusMsg string
	width     int
	height    int

	// add form
	formCourseIdx int
	formDate      string
	formMinutes   string
	formNotes     string
	formFocus     int // 0=course, 1=date, 2=minutes, 3=notes
}

func newLogsModel(c *client.Client) logsModel {
	return logsModel{client: c, colors: make(map[int64]string)}
}

func (m logsModel) Init() tea.Cmd {
	return m.load()
}

func (m logsModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		var (
			logs    []domain.StudyLog
			courses []domain.Course
		)
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			var err error
			logs, err = c.ListLogs(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			courses, err = c.ListCourses(ctx)
			return err
		})
		err := g.Wait()
		return logsLoadedMsg{logs: logs, courses: courses, err: err}
	}
}

func (m logsModel) Update(msg tea.Msg) (logsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case logsLoadedMsg:
		if msg.err != nil {
			if client.IsSessionError(msg.err) {
				m.statusMsg = "session expired, run planor login"
			} else {
				m.statusMsg = fmt.Sprintf("load failed: %v", msg.err)
			}
			return m, nil
		}
		m.logs = msg.logs
		m.courses = msg.courses
		m.colors = assignCourseColors(m.colors, msg.courses)
		if m.cursor >= len(m.logs) {
			m.cursor = 0
		}
		return m, nil

	case logWrittenMsg:
		m.state = lgNormal
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("log failed: %v", msg.err)
			return m, nil
		}
		m.statusMsg = "logged"
		return m, m.load()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.state == lgAdding {
			return m.handleKeyAdding(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m logsModel) handleKey(msg tea.KeyMsg) (logsModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.logs)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "a":
		if len(m.courses) == 0 {
			m.statusMsg = "no courses yet"
			return m, nil
		}
		m.state = lgAdding
		m.formCourseIdx = 0
		m.formDate = time.Now().Format(logDateLayout)
		m.formMinutes = "30"
		m.formNotes = ""
		m.formFocus = 0
	case "r":
		return m, m.load()
	}
	return m, nil
}

func (m logsModel) handleKeyAdding(msg tea.KeyMsg) (logsModel, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.formFocus = (m.formFocus + 1) % 4
	case "shift+tab":
		m.formFocus = (m.formFocus + 3) % 4
	case "esc":
		m.state = lgNormal
	case "enter":
		minutes, err := strconv.Atoi(strings.TrimSpace(m.formMinutes))
		if err != nil || minutes <= 0 {
			m.statusMsg = "minutes must be a positive number"
			return m, nil
		}
		date := strings.TrimSpace(m.formDate)
		if _, err := time.Parse(logDateLayout, date); err != nil {
			m.statusMsg = "date must be YYYY-MM-DD"
			return m, nil
		}
		if m.formCourseIdx >= len(m.courses) {
			m.state = lgNormal
			return m, nil
		}
		req := client.LogRequest{
			Course:         m.courses[m.formCourseIdx].ID,
			Date:           date,
			MinutesStudied: minutes,
			Notes:          strings.TrimSpace(m.formNotes),
		}
		c := m.client
		return m, func() tea.Msg {
			_, err := c.CreateLog(context.Background(), req)
			return logWrittenMsg{err: err}
		}
	default:
		switch m.formFocus {
		case 0:
			switch msg.String() {
			case "h", "left":
				if m.formCourseIdx > 0 {
					m.formCourseIdx--
				}
			case "l", "right":
				if m.formCourseIdx < len(m.courses)-1 {
					m.formCourseIdx++
				}
			}
		case 1:
			m.formDate = editRune(m.formDate, msg.String())
		case 2:
			m.formMinutes = editDigits(m.formMinutes, msg.String())
		case 3:
			m.formNotes = editRune(m.formNotes, msg.String())
		}
	}
	return m, nil
}

func (m logsModel) helpKeys() string {
	if m.state == lgAdding {
		return helpEntry("tab", "next") + "  " + helpEntry("enter", "save") + "  " + helpEntry("esc", "cancel")
	}
	return helpEntry("j/k", "nav") + "  " + helpEntry("a", "log study") + "  " + helpEntry("r", "reload")
}

// courseTitle resolves a course id against the loaded course list.
func (m logsModel) courseTitle(id int64) string {
	for _, c := range m.courses {
		if c.ID == id {
			return c.Title
		}
	}
	return "Course"
}

func (m logsModel) View() string {
	var sb strings.Builder

	sb.WriteString(" " + sectionHeaderStyle.Render(fmt.Sprintf("── STUDY LOG %d entries ──", len(m.logs))) + "\n")

	if m.statusMsg != "" {
		sb.WriteString(" " + warnStyle.Render(m.statusMsg) + "\n")
	}

	if m.state == lgAdding {
		sb.WriteString(m.renderForm())
		return sb.String()
	}

	if len(m.logs) == 0 {
		sb.WriteString("   " + dimStyle.Render("nothing logged yet · press a to log a session") + "\n")
		return sb.String()
	}

	maxRows := len(m.logs)
	if m.height > 4 && maxRows > m.height-4 {
		maxRows = m.height - 4
	}

	for i := 0; i < maxRows; i++ {
		entry := m.logs[i]
		cursor := "  "
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
		}
		col := courseColor(m.colors, entry.Course)
		title := courseTitleStyle(col).Render(truncStr(cleanText(m.courseTitle(entry.Course)), 24))
		line := fmt.Sprintf(" %s%s %s %s  %s", cursor, metaStyle.Render(entry.Date), courseDot(col), title,
			normalStyle.Render(formatMinutes(entry.MinutesStudied)))
		if entry.Notes != "" {
			line += "  " + dimStyle.Render(truncStr(cleanText(entry.Notes), 30))
		}
		sb.WriteString(line + "\n")
	}

	return sb.String()
}

func (m logsModel) renderForm() string {
	courseTitle := ""
	if m.formCourseIdx < len(m.courses) {
		courseTitle = m.courses[m.formCourseIdx].Title
	}

	fields := []struct {
		label string
		value string
	}{
		{"course:", courseTitle},
		{"date:", m.formDate},
		{"minutes:", m.formMinutes},
		{"notes:", m.formNotes},
	}

	var sb strings.Builder
	sb.WriteString("\n")
	for i, f := range fields {
		label := inputPromptStyle.Render(f.label)
		if i == m.formFocus {
			value := f.value
			if i == 0 {
				value = dimStyle.Render("◂ ") + selectedStyle.Render(f.value) + dimStyle.Render(" ▸")
			} else {
				value += accentStyle.Render("_")
			}
			sb.WriteString("   " + accentStyle.Render(">") + " " + label + " " + value + "\n")
		} else {
			sb.WriteString("     " + label + " " + dimStyle.Render(f.value) + "\n")
		}
	}
	sb.WriteString("   " + dimStyle.Render("tab next · enter save · esc cancel") + "\n")
	return sb.String()
}
