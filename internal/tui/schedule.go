package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pi2-study/planor/internal/preview"
	"github.com/pi2-study/planor/pkg/client"
	"github.com/pi2-study/planor/pkg/domain"
)

// scheduleState is the state machine for the generator view.
type scheduleState int

const (
	schPicking    scheduleState = iota
	schGenerating               // request in flight
	schPreview                  // generated plan on screen, pending accept
)

// -- messages --

type scheduleTopicsLoadedMsg struct {
	courses []domain.Course
	stored  *domain.SchedulePreview
	err     error
}

type scheduleGeneratedMsg struct {
	schedule *domain.GeneratedSchedule
	topicID  int64
	err      error
}

// scheduleAcceptedMsg reports how many study-log entries the accepted
// plan produced.
type scheduleAcceptedMsg struct {
	created int
	err     error
}

type scheduleCopyMsg struct{ err error }

// -- model --

// topicEntry is one selectable row in the topic picker.
type topicEntry struct {
	courseID    int64
	courseTitle string
	topic       domain.Topic
}

type scheduleModel struct {
	client *client.Client
	store  *preview.Store

	state     scheduleState
	courses   []domain.Course
	colors    map[int64]string
	cursor    int
	schedule  *domain.GeneratedSchedule
	topicID   int64
	accepted  bool
	statusMsg string
	width     int
	height    int
}

func newScheduleModel(c *client.Client, store *preview.Store) scheduleModel {
	return scheduleModel{client: c, store: store, colors: make(map[int64]string)}
}

func (m scheduleModel) Init() tea.Cmd {
	return m.load()
}

func (m scheduleModel) load() tea.Cmd {
	c := m.client
	store := m.store
	return func() tea.Msg {
		courses, err := c.ListCourses(context.Background())
		var stored *domain.SchedulePreview
		if store != nil {
			stored, _ = store.Load() //nolint:errcheck // a missing preview is not an error worth surfacing
		}
		return scheduleTopicsLoadedMsg{courses: courses, stored: stored, err: err}
	}
}

func (m scheduleModel) generate(topic domain.Topic) (scheduleModel, tea.Cmd) {
	m.state = schGenerating
	m.statusMsg = ""
	c := m.client
	store := m.store
	id := topic.ID
	return m, func() tea.Msg {
		schedule, err := c.GenerateSchedule(context.Background(), id)
		if err == nil && store != nil {
			p := &domain.SchedulePreview{Schedule: schedule, TopicID: id, SavedAt: time.Now().Format(time.RFC3339)}
			store.Save(p) //nolint:errcheck // preview persistence is best-effort
		}
		return scheduleGeneratedMsg{schedule: schedule, topicID: id, err: err}
	}
}

func (m scheduleModel) Update(msg tea.Msg) (scheduleModel, tea.Cmd) {
	switch msg := msg.(type) {
	case scheduleTopicsLoadedMsg:
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
		if m.cursor >= len(m.topics()) {
			m.cursor = 0
		}
		// Resume an unaccepted preview from a previous run.
		if m.state == schPicking && msg.stored != nil && !msg.stored.Accepted() {
			m.schedule = msg.stored.Schedule
			m.topicID = msg.stored.TopicID
			m.accepted = false
			m.state = schPreview
		}
		return m, nil

	case openTopicMsg:
		return m.generate(msg.topic)

	case scheduleGeneratedMsg:
		if msg.err != nil {
			m.state = schPicking
			m.statusMsg = fmt.Sprintf("generate failed: %v", msg.err)
			return m, nil
		}
		m.schedule = msg.schedule
		m.topicID = msg.topicID
		m.accepted = false
		m.state = schPreview
		return m, nil

	case scheduleAcceptedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("accept failed: %v", msg.err)
			return m, nil
		}
		m.accepted = true
		m.statusMsg = fmt.Sprintf("%d sessions logged", msg.created)
		return m, nil

	case scheduleCopyMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.statusMsg = "copied!"
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

func (m scheduleModel) handleKey(msg tea.KeyMsg) (scheduleModel, tea.Cmd) {
	if m.state == schPreview {
		switch msg.String() {
		case "esc":
			m.state = schPicking
			m.schedule = nil
		case "c":
			if m.schedule != nil {
				text := renderScheduleText(m.schedule)
				return m, func() tea.Msg {
					return scheduleCopyMsg{err: clipboard.WriteAll(text)}
				}
			}
		case "y", "a":
			if m.schedule != nil && !m.accepted {
				return m, m.acceptCmd()
			}
		}
		return m, nil
	}

	if m.state == schGenerating {
		if msg.String() == "esc" {
			m.state = schPicking
		}
		return m, nil
	}

	topics := m.topics()
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(topics)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter", "g":
		if m.cursor < len(topics) {
			return m.generate(topics[m.cursor].topic)
		}
	case "r":
		return m, m.load()
	}
	return m, nil
}

// acceptCmd turns every session of the previewed plan into a study-log
// entry, dated to the next occurrence of its day.
func (m scheduleModel) acceptCmd() tea.Cmd {
	c := m.client
	store := m.store
	schedule := m.schedule
	topicID := m.topicID
	courseID := schedule.Topic.CourseID
	return func() tea.Msg {
		now := time.Now()
		created := 0
		for _, day := range schedule.WeeklyPlan {
			date := day.DayOfWeek.NextDate(now).Format(logDateLayout)
			for _, sess := range day.Sessions {
				tid := topicID
				req := client.LogRequest{
					Topic:          &tid,
					Course:         courseID,
					Date:           date,
					MinutesStudied: sess.EstimatedTime,
					Notes:          sess.Subtopic,
				}
				if _, err := c.CreateLog(context.Background(), req); err != nil {
					return scheduleAcceptedMsg{created: created, err: err}
				}
				created++
			}
		}
		if store != nil {
			stamp := now.Format(time.RFC3339)
			p := &domain.SchedulePreview{
				Schedule:   schedule,
				TopicID:    topicID,
				SavedAt:    stamp,
				AcceptedAt: stamp,
			}
			store.Save(p) //nolint:errcheck // preview persistence is best-effort
		}
		return scheduleAcceptedMsg{created: created}
	}
}

// topics flattens the course list into the picker rows.
func (m scheduleModel) topics() []topicEntry {
	var out []topicEntry
	for _, c := range m.courses {
		for _, t := range c.Topics {
			out = append(out, topicEntry{courseID: c.ID, courseTitle: c.Title, topic: t})
		}
	}
	return out
}

func (m scheduleModel) helpKeys() string {
	switch m.state {
	case schPreview:
		return helpEntry("y", "accept") + "  " + helpEntry("c", "copy") + "  " + helpEntry("esc", "back")
	case schGenerating:
		return helpEntry("esc", "cancel")
	default:
		return helpEntry("j/k", "nav") + "  " + helpEntry("enter", "generate") + "  " + helpEntry("r", "reload")
	}
}

func (m scheduleModel) View() string {
	var sb strings.Builder

	switch m.state {
	case schGenerating:
		sb.WriteString(" " + sectionHeaderStyle.Render("── SCHEDULE ──") + "\n")
		sb.WriteString("   " + dimStyle.Render("generating study plan...") + "\n")

	case schPreview:
		sb.WriteString(m.viewPreview())

	default:
		sb.WriteString(" " + sectionHeaderStyle.Render("── SCHEDULE · pick a topic ──") + "\n")
		if m.statusMsg != "" {
			sb.WriteString(" " + warnStyle.Render(m.statusMsg) + "\n")
		}
		topics := m.topics()
		if len(topics) == 0 {
			sb.WriteString("   " + dimStyle.Render("no topics available") + "\n")
			break
		}
		for i, entry := range topics {
			cursor := "  "
			name := normalStyle.Render(truncStr(cleanText(entry.topic.Title), 34))
			if i == m.cursor {
				cursor = accentStyle.Render("▸") + " "
				name = selectedStyle.Render(truncStr(cleanText(entry.topic.Title), 34))
			}
			col := courseColor(m.colors, entry.courseID)
			fmt.Fprintf(&sb, " %s%s %s  %s\n", cursor, courseDot(col), name,
				metaStyle.Render(truncStr(cleanText(entry.courseTitle), 24)))
		}
	}

	return sb.String()
}

func (m scheduleModel) viewPreview() string {
	var sb strings.Builder
	s := m.schedule

	sb.WriteString(" " + sectionHeaderStyle.Render(fmt.Sprintf("── SCHEDULE · %s ──", truncStr(cleanText(s.Topic.Title), 36))) + "\n")
	summary := fmt.Sprintf("%d sessions · %s · %d study days",
		s.TotalSessions(), formatMinutes(s.Summary.TotalMinutes), s.DaysWithStudy())
	sb.WriteString(" " + metaStyle.Render(summary) + "\n")

	if m.statusMsg != "" {
		style := okStyle
		if strings.Contains(m.statusMsg, "failed") {
			style = errorStyle
		}
		sb.WriteString(" " + style.Render(m.statusMsg) + "\n")
	}
	if m.accepted {
		sb.WriteString(" " + okStyle.Render("accepted ✓") + "\n")
	}

	for _, day := range s.WeeklyPlan {
		name := day.DayName
		if name == "" {
			name = day.DayOfWeek.Label()
		}
		sb.WriteString("\n " + dayHeaderStyle.Render(name) + "  " + metaStyle.Render(formatMinutes(day.AllocatedMinutes)) + "\n")
		for _, sess := range day.Sessions {
			fmt.Fprintf(&sb, "   %s  %s  %s\n",
				normalStyle.Render(truncStr(cleanText(sess.Subtopic), 32)),
				metaStyle.Render(formatMinutes(sess.EstimatedTime)),
				dimStyle.Render(sess.Difficulty))
		}
	}

	return sb.String()
}

// renderScheduleText flattens the plan into plain text for the clipboard.
func renderScheduleText(s *domain.GeneratedSchedule) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s — %s\n", s.Topic.Title, s.Topic.CourseTitle)
	for _, day := range s.WeeklyPlan {
		if len(day.Sessions) == 0 {
			continue
		}
		name := day.DayName
		if name == "" {
			name = day.DayOfWeek.Label()
		}
		fmt.Fprintf(&sb, "\n%s (%s)\n", name, formatMinutes(day.AllocatedMinutes))
		for _, sess := range day.Sessions {
			fmt.Fprintf(&sb, "  - %s (%s)\n", sess.Subtopic, formatMinutes(sess.EstimatedTime))
		}
	}
	return sb.String()
}
