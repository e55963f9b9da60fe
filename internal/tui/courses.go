package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pi2-study/planor/pkg/client"
	"github.com/pi2-study/planor/pkg/domain"
)

type coursesLoadedMsg struct {
	courses []domain.Course
	err     error
}

// openTopicMsg asks the schedule tab to generate a plan for a topic.
type openTopicMsg struct {
	topic domain.Topic
}

type coursesModel struct {
	client    *client.Client
	courses   []domain.Course
	colors    map[int64]string
	cursor    int
	expanded  map[int64]bool // course id -> topics visible
	statusMsg string
	width     int
	height    int
}

// courseRow is one visible line in the flattened course/topic list.
type courseRow struct {
	course *domain.Course
	topic  *domain.Topic
}

func newCoursesModel(c *client.Client) coursesModel {
	return coursesModel{
		client:   c,
		colors:   make(map[int64]string),
		expanded: make(map[int64]bool),
	}
}

func (m coursesModel) Init() tea.Cmd {
	return m.load()
}

func (m coursesModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		courses, err := c.ListCourses(context.Background())
		return coursesLoadedMsg{courses: courses, err: err}
	}
}

func (m coursesModel) Update(msg tea.Msg) (coursesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case coursesLoadedMsg:
		if msg.err != nil {
			if client.IsSessionError(msg.err) {
				m.statusMsg = "session expired, run planor login"
			} else {
				m.statusMsg = fmt.Sprintf("load failed: %v", msg.err)
			}
			return m, nil
		}
		m.courses = msg.courses
		m.colors = assignCourseColors(m.colors, msg.courses)
		if m.cursor >= len(m.rows()) {
			m.cursor = 0
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		return m.handleKey(msg)
	}
	return m, nil
}

func (m coursesModel) handleKey(msg tea.KeyMsg) (coursesModel, tea.Cmd) {
	rows := m.rows()
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter", "l", "right":
		if m.cursor < len(rows) {
			row := rows[m.cursor]
			if row.topic == nil {
				m.expanded[row.course.ID] = !m.expanded[row.course.ID]
			}
		}
	case "h", "left":
		if m.cursor < len(rows) {
			row := rows[m.cursor]
			if row.topic != nil {
				// Collapse the parent course and land on it.
				m.expanded[row.course.ID] = false
				for i, r := range m.rows() {
					if r.topic == nil && r.course.ID == row.course.ID {
						m.cursor = i
						break
					}
				}
			} else {
				m.expanded[row.course.ID] = false
			}
		}
	case "g":
		if m.cursor < len(rows) && rows[m.cursor].topic != nil {
			topic := *rows[m.cursor].topic
			return m, func() tea.Msg { return openTopicMsg{topic: topic} }
		}
		m.statusMsg = "select a topic first"
	case "r":
		return m, m.load()
	}
	return m, nil
}

// rows flattens courses (and the topics of expanded courses) into the
// visible list, in server order.
func (m coursesModel) rows() []courseRow {
	var out []courseRow
	for i := range m.courses {
		c := &m.courses[i]
		out = append(out, courseRow{course: c})
		if m.expanded[c.ID] {
			for j := range c.Topics {
				out = append(out, courseRow{course: c, topic: &c.Topics[j]})
			}
		}
	}
	return out
}

func (m coursesModel) helpKeys() string {
	return helpEntry("j/k", "nav") + "  " + helpEntry("enter", "expand") + "  " + helpEntry("g", "schedule topic") + "  " + helpEntry("r", "reload")
}

func (m coursesModel) View() string {
	var sb strings.Builder

	sb.WriteString(" " + sectionHeaderStyle.Render(fmt.Sprintf("── COURSES %d ──", len(m.courses))) + "\n")

	if m.statusMsg != "" {
		sb.WriteString(" " + warnStyle.Render(m.statusMsg) + "\n")
	}

	rows := m.rows()
	if len(rows) == 0 {
		sb.WriteString("   " + dimStyle.Render("no courses yet") + "\n")
		return sb.String()
	}

	for i, row := range rows {
		cursor := "  "
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
		}

		if row.topic == nil {
			col := courseColor(m.colors, row.course.ID)
			arrow := "▸"
			if m.expanded[row.course.ID] {
				arrow = "▾"
			}
			title := courseTitleStyle(col).Render(truncStr(cleanText(row.course.Title), 40))
			meta := metaStyle.Render(fmt.Sprintf("%d topics", len(row.course.Topics)))
			fmt.Fprintf(&sb, " %s%s %s %s  %s\n", cursor, courseDot(col), dimStyle.Render(arrow), title, meta)
			continue
		}

		done := 0
		for _, st := range row.topic.Subtopics {
			if st.IsCompleted {
				done++
			}
		}
		progress := ""
		if len(row.topic.Subtopics) > 0 {
			progress = metaStyle.Render(fmt.Sprintf("%d/%d", done, len(row.topic.Subtopics)))
		}
		name := normalStyle.Render(truncStr(cleanText(row.topic.Title), 36))
		if i == m.cursor {
			name = selectedStyle.Render(truncStr(cleanText(row.topic.Title), 36))
		}
		fmt.Fprintf(&sb, " %s    %s  %s\n", cursor, name, progress)
	}

	return sb.String()
}
