package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pi2-study/planor/internal/browser"
	"github.com/pi2-study/planor/internal/preview"
	"github.com/pi2-study/planor/pkg/client"
	"github.com/pi2-study/planor/pkg/domain"
)

type view int

const (
	viewPlanner view = iota
	viewCourses
	viewLogs
	viewSchedule
	viewQuiz
	viewBot
)

// meLoadedMsg carries the result of the startup identity fetch.
type meLoadedMsg struct {
	me  *domain.User
	err error
}

// App is the root Bubbletea model.
type App struct {
	client   *client.Client
	webURL   string
	view     view
	planner  plannerModel
	courses  coursesModel
	logs     logsModel
	schedule scheduleModel
	quiz     quizModel
	bot      botModel

	helpOpen   bool
	helpCursor int

	me             *domain.User
	sessionExpired bool
	width          int
	height         int
	frame          int // logo shimmer animation frame
}

// NewApp creates a new TUI application.
func NewApp(c *client.Client, store *preview.Store, webURL string) App {
	return App{
		client:   c,
		webURL:   strings.TrimRight(webURL, "/"),
		planner:  newPlannerModel(c),
		courses:  newCoursesModel(c),
		logs:     newLogsModel(c),
		schedule: newScheduleModel(c, store),
		quiz:     newQuizModel(c),
		bot:      newBotModel(c),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.planner.Init(), shimmerTickCmd(), a.loadMe())
}

func (a App) loadMe() tea.Cmd {
	c := a.client
	return func() tea.Msg {
		me, err := c.Me(context.Background())
		return meLoadedMsg{me: me, err: err}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.planner, _ = a.planner.Update(bodyMsg)
		a.courses, _ = a.courses.Update(bodyMsg)
		a.logs, _ = a.logs.Update(bodyMsg)
		a.schedule, _ = a.schedule.Update(bodyMsg)
		a.quiz, _ = a.quiz.Update(bodyMsg)
		a.bot, _ = a.bot.Update(bodyMsg)

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case meLoadedMsg:
		if msg.err != nil {
			a.sessionExpired = client.IsSessionError(msg.err)
			return a, nil
		}
		a.me = msg.me
		return a, nil

	case weekLoadedMsg:
		// Every board reload also refetches the identity; keep the
		// header in sync before the planner consumes the message.
		if msg.err == nil && msg.me != nil {
			a.me = msg.me
			a.sessionExpired = false
		}
		var cmd tea.Cmd
		a.planner, cmd = a.planner.Update(msg)
		return a, cmd

	case openTopicMsg:
		// A topic picked on the courses tab lands in the generator.
		a.view = viewSchedule
		var cmd tea.Cmd
		a.schedule, cmd = a.schedule.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		// Help overlay captures all keys when open
		if a.helpOpen {
			items := resolveHelpItems(a.webURL)
			switch msg.String() {
			case "?", "esc":
				a.helpOpen = false
			case "q", "ctrl+c":
				return a, tea.Quit
			case "j", "down":
				if a.helpCursor < len(items)-1 {
					a.helpCursor++
				}
			case "k", "up":
				if a.helpCursor > 0 {
					a.helpCursor--
				}
			case "enter":
				item := items[a.helpCursor]
				if item.url != "" {
					browser.Open(item.url) //nolint:errcheck // best-effort browser open
				}
			}
			return a, nil
		}

		// Global keys (only when not editing)
		if !a.isEditing() {
			switch msg.String() {
			case "?":
				a.helpOpen = true
				a.helpCursor = 0
				return a, nil
			case "q", "ctrl+c":
				return a, tea.Quit
			case "o":
				browser.Open(a.webURL + "/dashboard/") //nolint:errcheck // best-effort browser open
				return a, nil
			case "1":
				if a.view != viewPlanner {
					a.view = viewPlanner
					return a, a.planner.Init()
				}
				return a, nil
			case "2":
				if a.view != viewCourses {
					a.view = viewCourses
					return a, a.courses.Init()
				}
				return a, nil
			case "3":
				if a.view != viewLogs {
					a.view = viewLogs
					return a, a.logs.Init()
				}
				return a, nil
			case "4":
				if a.view != viewSchedule {
					a.view = viewSchedule
					return a, a.schedule.Init()
				}
				return a, nil
			case "5":
				if a.view != viewQuiz {
					a.view = viewQuiz
					return a, a.quiz.Init()
				}
				return a, nil
			case "6":
				if a.view != viewBot {
					a.view = viewBot
					return a, a.bot.Init()
				}
				return a, nil
			}
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewPlanner:
		a.planner, cmd = a.planner.Update(msg)
	case viewCourses:
		a.courses, cmd = a.courses.Update(msg)
	case viewLogs:
		a.logs, cmd = a.logs.Update(msg)
	case viewSchedule:
		a.schedule, cmd = a.schedule.Update(msg)
	case viewQuiz:
		a.quiz, cmd = a.quiz.Update(msg)
	case viewBot:
		a.bot, cmd = a.bot.Update(msg)
	}

	return a, cmd
}

// isEditing reports whether the active view is capturing keystrokes, which
// suspends the global tab/quit keys.
func (a App) isEditing() bool {
	switch a.view {
	case viewPlanner:
		return a.planner.state != plNormal
	case viewLogs:
		return a.logs.state == lgAdding
	case viewQuiz:
		// A half-answered run should not be lost to a stray tab key.
		return a.quiz.state == qzTaking
	case viewBot:
		return a.bot.inputFocused
	}
	return false
}

func (a App) View() string {
	// Header: centered shimmer logo
	logo := renderShimmerLogo(a.frame)
	logoWidth := lipgloss.Width(logo)
	logoPad := (a.width - logoWidth) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo

	// Identity line below logo
	identity := ""
	if a.sessionExpired {
		identity = errorStyle.Render("session expired · run planor login")
	} else if a.me != nil {
		identity = metaStyle.Render(a.me.DisplayName())
	}
	if identity != "" {
		idWidth := lipgloss.Width(identity)
		idPad := (a.width - idWidth) / 2
		if idPad < 0 {
			idPad = 0
		}
		header += "\n" + strings.Repeat(" ", idPad) + identity
	} else {
		header += "\n"
	}

	// Tab bar: 6 equal-width columns spread across the terminal
	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Week", viewPlanner},
		{"2", "Courses", viewCourses},
		{"3", "Log", viewLogs},
		{"4", "Schedule", viewSchedule},
		{"5", "Quiz", viewQuiz},
		{"6", "Bot", viewBot},
	}

	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}

	// Body + context help
	var body, help string
	switch a.view {
	case viewPlanner:
		body = a.planner.View()
		help = " " + helpEntry("1-6", "tabs") + "  " + a.planner.helpKeys()
	case viewCourses:
		body = a.courses.View()
		help = " " + helpEntry("1-6", "tabs") + "  " + a.courses.helpKeys()
	case viewLogs:
		body = a.logs.View()
		help = " " + helpEntry("1-6", "tabs") + "  " + a.logs.helpKeys()
	case viewSchedule:
		body = a.schedule.View()
		help = " " + helpEntry("1-6", "tabs") + "  " + a.schedule.helpKeys()
	case viewQuiz:
		body = a.quiz.View()
		help = " " + helpEntry("1-6", "tabs") + "  " + a.quiz.helpKeys()
	case viewBot:
		body = a.bot.View()
		help = " " + helpEntry("1-6", "tabs") + "  " + a.bot.helpKeys()
	}
	if !a.isEditing() {
		help += "  " + helpEntry("?", "help") + "  " + helpEntry("q", "quit")
	}

	// Help overlay
	if a.helpOpen {
		body = helpView(a.helpCursor, a.webURL)
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("esc", "close")
	}

	// Chrome budget: header(2) + tabs(1) + help(1) = 4 lines + body
	body = strings.TrimRight(truncateToHeight(body, a.height-4), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabBar.String(), body, help)
}
