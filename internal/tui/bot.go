package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pi2-study/planor/pkg/client"
	"github.com/pi2-study/planor/pkg/domain"
)

type botAnswerMsg struct {
	answer *client.ChatMessage
	err    error
}

type effectivenessMsg struct {
	stats *domain.StudyEffectiveness
	err   error
}

// botModel is the studybot chat plus the study-effectiveness panel.
type botModel struct {
	client       *client.Client
	history      []client.ChatMessage
	input        string
	inputFocused bool
	waiting      bool
	showStats    bool
	stats        *domain.StudyEffectiveness
	statusMsg    string
	width        int
	height       int
}

func newBotModel(c *client.Client) botModel {
	return botModel{client: c, inputFocused: true}
}

func (m botModel) Init() tea.Cmd {
	return nil
}

func (m botModel) Update(msg tea.Msg) (botModel, tea.Cmd) {
	switch msg := msg.(type) {
	case botAnswerMsg:
		m.waiting = false
		if msg.err != nil {
			if client.IsSessionError(msg.err) {
				m.statusMsg = "session expired, run planor login"
			} else {
				m.statusMsg = fmt.Sprintf("ask failed: %v", msg.err)
			}
			return m, nil
		}
		if msg.answer != nil {
			m.history = append(m.history, *msg.answer)
		}
		return m, nil

	case effectivenessMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("stats failed: %v", msg.err)
			m.showStats = false
			return m, nil
		}
		m.stats = msg.stats
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

func (m botModel) handleKey(msg tea.KeyMsg) (botModel, tea.Cmd) {
	if m.inputFocused {
		switch msg.String() {
		case "esc":
			m.inputFocused = false
		case "enter":
			question := strings.TrimSpace(m.input)
			if question == "" || m.waiting {
				return m, nil
			}
			m.input = ""
			m.waiting = true
			history := append([]client.ChatMessage(nil), m.history...)
			m.history = append(m.history, client.ChatMessage{Role: "user", Content: question})
			c := m.client
			return m, func() tea.Msg {
				answer, err := c.Ask(context.Background(), question, history)
				return botAnswerMsg{answer: answer, err: err}
			}
		default:
			m.input = editRune(m.input, msg.String())
		}
		return m, nil
	}

	switch msg.String() {
	case "enter", "i":
		m.inputFocused = true
	case "s":
		m.showStats = !m.showStats
		if m.showStats && m.stats == nil {
			c := m.client
			return m, func() tea.Msg {
				stats, err := c.StudyEffectiveness(context.Background())
				return effectivenessMsg{stats: stats, err: err}
			}
		}
	}
	return m, nil
}

func (m botModel) helpKeys() string {
	if m.inputFocused {
		return helpEntry("enter", "ask") + "  " + helpEntry("esc", "nav")
	}
	return helpEntry("enter", "type") + "  " + helpEntry("s", "stats")
}

func (m botModel) View() string {
	var sb strings.Builder

	sb.WriteString(" " + sectionHeaderStyle.Render("── STUDYBOT ──") + "\n")

	if m.statusMsg != "" {
		sb.WriteString(" " + warnStyle.Render(m.statusMsg) + "\n")
	}

	if m.showStats {
		sb.WriteString(m.viewStats())
		sb.WriteString("\n")
	}

	if len(m.history) == 0 && !m.waiting {
		sb.WriteString("   " + dimStyle.Render("ask anything about your studies") + "\n")
	}
	for _, msg := range m.history {
		if msg.Role == "user" {
			sb.WriteString("\n " + inputPromptStyle.Render("you") + " " + botQuestionStyle.Render(cleanText(msg.Content)) + "\n")
		} else {
			sb.WriteString(" " + accentStyle.Render("bot") + " " + botAnswerStyle.Render(msg.Content) + "\n")
		}
	}
	if m.waiting {
		sb.WriteString(" " + accentStyle.Render("bot") + " " + dimStyle.Render("thinking...") + "\n")
	}

	sb.WriteString("\n " + m.renderInput() + "\n")
	return sb.String()
}

func (m botModel) renderInput() string {
	prompt := inputPromptStyle.Render("> ")
	if !m.inputFocused {
		if m.input == "" {
			return prompt + inputPlaceholderStyle.Render("press enter to type")
		}
		return prompt + dimStyle.Render(m.input)
	}
	return prompt + m.input + accentStyle.Render("█")
}

func (m botModel) viewStats() string {
	var sb strings.Builder
	sb.WriteString("\n " + sectionHeaderStyle.Render("── EFFECTIVENESS ──") + "\n")
	if m.stats == nil {
		sb.WriteString("   " + dimStyle.Render("loading...") + "\n")
		return sb.String()
	}

	if m.stats.CorrelationCoefficient != nil {
		fmt.Fprintf(&sb, "   %s %s\n",
			normalStyle.Render(fmt.Sprintf("correlation %.2f", *m.stats.CorrelationCoefficient)),
			metaStyle.Render(fmt.Sprintf("(%d data points)", m.stats.DataPoints)))
	}
	if m.stats.Interpretation != "" {
		sb.WriteString("   " + dimStyle.Render(cleanText(m.stats.Interpretation)) + "\n")
	}
	for _, tp := range m.stats.TopicData {
		fmt.Fprintf(&sb, "   %s  %s · %s\n",
			normalStyle.Render(truncStr(cleanText(tp.TopicTitle), 28)),
			metaStyle.Render(formatMinutes(tp.TotalMinutesStudied)),
			metaStyle.Render(fmt.Sprintf("quiz %.0f%%", tp.AverageQuizScore)))
	}
	return sb.String()
}
