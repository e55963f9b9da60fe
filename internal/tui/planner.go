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

// plannerState is the state machine for week-board interactions.
type plannerState int

const (
	plNormal   plannerState = iota
	plAdding                // course + minutes form for a new session on the cursored day
	plEditing               // same form prefilled for the selected session
	plDeleting              // delete confirmation
	plMoving                // session grabbed, choosing a target day
)

// -- messages --

// plannerReloadMsg asks the model to start a fresh board fetch.
type plannerReloadMsg struct{}

// weekLoadedMsg carries the joint me/week/plans/courses fetch. seq ties the
// message to the reload that produced it; stale responses are dropped. The
// me field is picked up by the root App on the way through.
type weekLoadedMsg struct {
	seq     int
	me      *domain.User
	week    *domain.WeekPlan
	plans   []domain.StudyPlan
	courses []domain.Course
	err     error
}

// planWrittenMsg is the result of any board write (create, update, move,
// delete). A successful write always triggers a reload; the board never
// mutates its local copy optimistically.
type planWrittenMsg struct {
	verb string
	err  error
}

// -- model --

type plannerModel struct {
	client    *client.Client
	week      *domain.WeekPlan
	plans     map[int64]domain.StudyPlan
	courses   []domain.Course
	colors    map[int64]string
	loading   bool
	seq       int
	statusMsg string
	width     int
	height    int

	state     plannerState
	dayCursor domain.DayOfWeek
	rowCursor int

	// moving
	movingPlanID int64
	moveFrom     domain.DayOfWeek
	moveTarget   domain.DayOfWeek

	// add/edit form
	formCourseIdx int
	formMinutes   string
	formFocus     int // 0=course, 1=minutes
	editingPlanID int64
}

func newPlannerModel(c *client.Client) plannerModel {
	return plannerModel{
		client: c,
		plans:  make(map[int64]domain.StudyPlan),
		colors: make(map[int64]string),
	}
}

func (m plannerModel) Init() tea.Cmd {
	return func() tea.Msg { return plannerReloadMsg{} }
}

// startReload bumps the reload sequence and fires the joint fetch. The four
// GETs run concurrently; the board renders only once all of them land.
func (m plannerModel) startReload() (plannerModel, tea.Cmd) {
	m.seq++
	m.loading = true
	seq := m.seq
	c := m.client
	return m, func() tea.Msg {
		var (
			me      *domain.User
			week    *domain.WeekPlan
			plans   []domain.StudyPlan
			courses []domain.Course
		)
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			var err error
			me, err = c.Me(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			week, err = c.CurrentWeek(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			plans, err = c.ListPlans(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			courses, err = c.ListCourses(ctx)
			return err
		})
		err := g.Wait()
		return weekLoadedMsg{seq: seq, me: me, week: week, plans: plans, courses: courses, err: err}
	}
}

func (m plannerModel) Update(msg tea.Msg) (plannerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case plannerReloadMsg:
		return m.startReload()

	case weekLoadedMsg:
		if msg.seq != m.seq {
			// A newer reload is already in flight.
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			if client.IsSessionError(msg.err) {
				m.statusMsg = "session expired, run planor login"
			} else {
				m.statusMsg = fmt.Sprintf("load failed: %v", msg.err)
			}
			return m, nil
		}
		msg.week.Normalize()
		m.week = msg.week
		m.plans = make(map[int64]domain.StudyPlan, len(msg.plans))
		for _, p := range msg.plans {
			m.plans[p.ID] = p
		}
		m.courses = msg.courses
		m.colors = assignCourseColors(m.colors, msg.courses)
		m.clampCursor()
		if m.state == plMoving {
			if _, ok := m.plans[m.movingPlanID]; !ok {
				m.state = plNormal
				m.statusMsg = "plan not found"
			}
		}
		return m, nil

	case planWrittenMsg:
		if msg.err != nil {
			if client.IsSessionError(msg.err) {
				m.statusMsg = "session expired, run planor login"
			} else {
				m.statusMsg = fmt.Sprintf("%s failed: %v", msg.verb, msg.err)
			}
			// Keep the form open on a failed create or edit so the
			// input can be corrected; everything else falls back to
			// browsing.
			if m.state != plAdding && m.state != plEditing {
				m.state = plNormal
				m.movingPlanID = 0
			}
			return m, nil
		}
		m.state = plNormal
		m.movingPlanID = 0
		m.editingPlanID = 0
		m.statusMsg = msg.verb
		return m.startReload()

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

func (m plannerModel) handleKey(msg tea.KeyMsg) (plannerModel, tea.Cmd) {
	switch m.state {
	case plAdding, plEditing:
		return m.handleKeyForm(msg)
	case plDeleting:
		return m.handleKeyDeleting(msg)
	case plMoving:
		return m.handleKeyMoving(msg)
	}

	switch msg.String() {
	case "h", "left":
		if m.dayCursor > domain.Monday {
			m.dayCursor--
			m.clampCursor()
		}
	case "l", "right":
		if m.dayCursor < domain.Sunday {
			m.dayCursor++
			m.clampCursor()
		}
	case "j", "down":
		if m.rowCursor < len(m.daySessions(m.dayCursor))-1 {
			m.rowCursor++
		}
	case "k", "up":
		if m.rowCursor > 0 {
			m.rowCursor--
		}

	case "a":
		if len(m.courses) == 0 {
			m.statusMsg = "no courses yet"
			return m, nil
		}
		m.state = plAdding
		m.formCourseIdx = 0
		m.formMinutes = "30"
		m.formFocus = 0

	case "e":
		sess, ok := m.selectedSession()
		if !ok {
			return m, nil
		}
		if len(m.courses) == 0 {
			m.statusMsg = "no courses yet"
			return m, nil
		}
		if _, ok := m.plans[sess.PlanID]; !ok {
			m.statusMsg = "plan not found"
			return m, nil
		}
		m.state = plEditing
		m.editingPlanID = sess.PlanID
		m.formCourseIdx = m.courseIndex(sess.CourseID)
		m.formMinutes = strconv.Itoa(sess.MinutesPlanned)
		m.formFocus = 1

	case "d":
		if _, ok := m.selectedSession(); ok {
			m.state = plDeleting
		}

	case "enter", " ":
		sess, ok := m.selectedSession()
		if !ok {
			return m, nil
		}
		m.state = plMoving
		m.movingPlanID = sess.PlanID
		m.moveFrom = m.dayCursor
		m.moveTarget = m.dayCursor

	case "r":
		return m.startReload()
	}
	return m, nil
}

func (m plannerModel) handleKeyMoving(msg tea.KeyMsg) (plannerModel, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		if m.moveTarget > domain.Monday {
			m.moveTarget--
		}
	case "l", "right":
		if m.moveTarget < domain.Sunday {
			m.moveTarget++
		}
	case "esc":
		m.state = plNormal
		m.movingPlanID = 0
	case "enter", " ":
		id := m.movingPlanID
		m.state = plNormal
		m.movingPlanID = 0
		if _, ok := m.plans[id]; !ok {
			m.statusMsg = "plan not found"
			return m.startReload()
		}
		if m.moveTarget == m.moveFrom {
			// Dropping in place is not a write.
			return m, nil
		}
		target := m.moveTarget
		c := m.client
		return m, func() tea.Msg {
			err := c.MovePlan(context.Background(), id, target)
			return planWrittenMsg{verb: "moved", err: err}
		}
	}
	return m, nil
}

func (m plannerModel) handleKeyForm(msg tea.KeyMsg) (plannerModel, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.formFocus = 1 - m.formFocus
	case "esc":
		m.state = plNormal
		m.editingPlanID = 0
	case "h", "left":
		if m.formFocus == 0 && m.formCourseIdx > 0 {
			m.formCourseIdx--
		}
	case "l", "right":
		if m.formFocus == 0 && m.formCourseIdx < len(m.courses)-1 {
			m.formCourseIdx++
		}
	case "enter":
		minutes, err := strconv.Atoi(strings.TrimSpace(m.formMinutes))
		if err != nil || minutes <= 0 {
			m.statusMsg = "minutes must be a positive number"
			return m, nil
		}
		if m.formCourseIdx >= len(m.courses) {
			m.statusMsg = "no courses yet"
			m.state = plNormal
			return m, nil
		}
		req := client.PlanRequest{
			Course:         m.courses[m.formCourseIdx].ID,
			DayOfWeek:      m.dayCursor,
			MinutesPlanned: minutes,
		}
		c := m.client
		if m.state == plEditing {
			id := m.editingPlanID
			return m, func() tea.Msg {
				_, err := c.UpdatePlan(context.Background(), id, req)
				return planWrittenMsg{verb: "saved", err: err}
			}
		}
		return m, func() tea.Msg {
			_, err := c.CreatePlan(context.Background(), req)
			return planWrittenMsg{verb: "added", err: err}
		}
	default:
		if m.formFocus == 1 {
			m.formMinutes = editDigits(m.formMinutes, msg.String())
		}
	}
	return m, nil
}

func (m plannerModel) handleKeyDeleting(msg tea.KeyMsg) (plannerModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		sess, ok := m.selectedSession()
		if !ok {
			m.state = plNormal
			return m, nil
		}
		id := sess.PlanID
		c := m.client
		return m, func() tea.Msg {
			err := c.DeletePlan(context.Background(), id)
			return planWrittenMsg{verb: "removed", err: err}
		}
	case "n", "N", "esc":
		m.state = plNormal
	}
	return m, nil
}

// -- lookups --

// dayBucket finds the bucket for a day, if the server sent one.
func (m plannerModel) dayBucket(d domain.DayOfWeek) *domain.DayBucket {
	if m.week == nil {
		return nil
	}
	for i := range m.week.Days {
		if m.week.Days[i].DayOfWeek == d {
			return &m.week.Days[i]
		}
	}
	return nil
}

// daySessions joins a day's session records with the plan list.
func (m plannerModel) daySessions(d domain.DayOfWeek) []domain.PlanSession {
	b := m.dayBucket(d)
	if b == nil {
		return nil
	}
	out := make([]domain.PlanSession, 0, len(b.PlannedSessions))
	for _, rec := range b.PlannedSessions {
		out = append(out, rec.Join(m.plans, d))
	}
	return out
}

func (m plannerModel) selectedSession() (domain.PlanSession, bool) {
	sessions := m.daySessions(m.dayCursor)
	if m.rowCursor >= len(sessions) {
		return domain.PlanSession{}, false
	}
	return sessions[m.rowCursor], true
}

func (m plannerModel) courseIndex(id int64) int {
	for i, c := range m.courses {
		if c.ID == id {
			return i
		}
	}
	return 0
}

func (m *plannerModel) clampCursor() {
	n := len(m.daySessions(m.dayCursor))
	if m.rowCursor >= n {
		m.rowCursor = n - 1
	}
	if m.rowCursor < 0 {
		m.rowCursor = 0
	}
}

// helpKeys returns context-sensitive help text based on the current state.
func (m plannerModel) helpKeys() string {
	switch m.state {
	case plAdding, plEditing:
		return helpEntry("tab", "next") + "  " + helpEntry("h/l", "course") + "  " + helpEntry("enter", "save") + "  " + helpEntry("esc", "cancel")
	case plDeleting:
		return helpEntry("y", "confirm") + "  " + helpEntry("n", "cancel")
	case plMoving:
		return helpEntry("h/l", "day") + "  " + helpEntry("enter", "drop") + "  " + helpEntry("esc", "cancel")
	default:
		return helpEntry("h/l", "day") + "  " + helpEntry("j/k", "session") + "  " + helpEntry("enter", "grab") + "  " + helpEntry("a", "add") + "  " + helpEntry("e", "edit") + "  " + helpEntry("d", "remove") + "  " + helpEntry("r", "reload")
	}
}

// -- view --

func (m plannerModel) View() string {
	var sb strings.Builder

	if m.week != nil {
		header := fmt.Sprintf("── WEEK %s to %s ──", m.week.WeekStart, m.week.WeekEnd)
		sb.WriteString(" " + sectionHeaderStyle.Render(header) + "\n")
		totals := fmt.Sprintf("planned %s · studied %s",
			formatMinutes(m.week.TotalPlannedMinutes),
			formatMinutes(m.week.TotalCompletedMinutes))
		sb.WriteString(" " + metaStyle.Render(totals) + "\n")
	} else if m.loading {
		sb.WriteString(" " + dimStyle.Render("loading week...") + "\n")
	}

	if m.statusMsg != "" {
		sb.WriteString(" " + warnStyle.Render(m.statusMsg) + "\n")
	}

	today := domain.DayOf(time.Now().Weekday())
	for d := domain.Monday; d <= domain.Sunday; d++ {
		sb.WriteString(m.viewDay(d, today))
	}

	if m.state == plAdding || m.state == plEditing {
		sb.WriteString(m.renderForm())
	}

	return sb.String()
}

func (m plannerModel) viewDay(d, today domain.DayOfWeek) string {
	var sb strings.Builder

	style := dayHeaderStyle
	if d == today {
		style = dayTodayStyle
	}
	name := d.Label()
	if b := m.dayBucket(d); b != nil && b.DayName != "" {
		name = b.DayName
	}
	marker := "  "
	if d == m.dayCursor && m.state != plMoving {
		marker = accentStyle.Render("▸") + " "
	}
	if m.state == plMoving && d == m.moveTarget {
		marker = accentStyle.Render("▾") + " "
	}

	minutes := ""
	if b := m.dayBucket(d); b != nil && b.PlannedMinutes > 0 {
		minutes = "  " + metaStyle.Render(formatMinutes(b.PlannedMinutes))
	}
	sb.WriteString("\n " + marker + style.Render(name) + minutes + "\n")

	sessions := m.daySessions(d)
	shown := 0
	for i, sess := range sessions {
		if m.state == plMoving && sess.PlanID == m.movingPlanID {
			continue
		}
		shown++
		cursor := "   "
		selected := d == m.dayCursor && i == m.rowCursor && m.state != plMoving
		if selected {
			cursor = " " + accentStyle.Render("▸") + " "
		}
		title := truncStr(cleanText(sess.CourseTitle), 28)
		line := courseDot(courseColor(m.colors, sess.CourseID)) + " " +
			courseTitleStyle(courseColor(m.colors, sess.CourseID)).Render(title) + "  " +
			metaStyle.Render(formatMinutes(sess.MinutesPlanned))
		sb.WriteString(cursor + line + "\n")

		if selected && m.state == plDeleting {
			sb.WriteString("     " + errorStyle.Render("remove this session? ") +
				accentStyle.Render("y") + dimStyle.Render("/") + dimStyle.Render("n") + "\n")
		}
	}

	// Grabbed session hovers over the target day.
	if m.state == plMoving && d == m.moveTarget {
		if plan, ok := m.plans[m.movingPlanID]; ok {
			title := plan.CourseTitle
			if title == "" {
				title = "Course"
			}
			sb.WriteString("   " + grabbedStyle.Render(" "+truncStr(cleanText(title), 28)+" ") + "  " +
				metaStyle.Render(formatMinutes(plan.MinutesPlanned)) + "\n")
			shown++
		}
	}

	if shown == 0 {
		sb.WriteString("   " + inputPlaceholderStyle.Render("·") + "\n")
	}
	return sb.String()
}

func (m plannerModel) renderForm() string {
	var sb strings.Builder
	sb.WriteString("\n")

	courseTitle := ""
	if m.formCourseIdx < len(m.courses) {
		courseTitle = m.courses[m.formCourseIdx].Title
	}
	courseLabel := inputPromptStyle.Render("course:")
	minutesLabel := inputPromptStyle.Render("minutes:")

	var courseLine, minutesLine string
	if m.formFocus == 0 {
		courseLine = "   " + accentStyle.Render(">") + " " + courseLabel + " " +
			dimStyle.Render("◂ ") + selectedStyle.Render(courseTitle) + dimStyle.Render(" ▸")
		minutesLine = "     " + minutesLabel + " " + dimStyle.Render(m.formMinutes)
	} else {
		courseLine = "     " + courseLabel + " " + dimStyle.Render(courseTitle)
		minutesLine = "   " + accentStyle.Render(">") + " " + minutesLabel + " " +
			m.formMinutes + accentStyle.Render("_")
	}

	sb.WriteString(courseLine + "\n")
	sb.WriteString(minutesLine + "\n")
	verb := "adding to"
	if m.state == plEditing {
		verb = "editing on"
	}
	sb.WriteString("   " + dimStyle.Render(fmt.Sprintf("%s %s · tab next · enter save · esc cancel", verb, m.dayCursor.Label())) + "\n")
	return sb.String()
}
