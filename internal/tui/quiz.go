package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/pi2-study/planor/pkg/client"
	"github.com/pi2-study/planor/pkg/domain"
)

// quizState is the state machine for the assessment view.
type quizState int

const (
	qzList       quizState = iota
	qzPicking              // topic picker for generating a new quiz
	qzGenerating           // generation request in flight
	qzTaking               // answering questions
	qzResults              // graded attempt on screen
)

// -- messages --

type quizzesLoadedMsg struct {
	quizzes  []domain.Quiz
	attempts []domain.QuizAttempt
	courses  []domain.Course
	err      error
}

type quizGeneratedMsg struct {
	quiz *domain.Quiz
	err  error
}

type attemptSubmittedMsg struct {
	attempt *domain.QuizAttempt
	err     error
}

// -- model --

type quizModel struct {
	client *client.Client

	state    quizState
	quizzes  []domain.Quiz
	attempts []domain.QuizAttempt
	courses  []domain.Course

	cursor     int // quiz list row
	pickCursor int // topic picker row

	active    *domain.Quiz     // quiz being taken
	qIdx      int              // current question
	choiceIdx int              // highlighted option
	answers   map[int64]string // question id -> picked key

	result    *domain.QuizAttempt
	statusMsg string
	width     int
	height    int
}

func newQuizModel(c *client.Client) quizModel {
	return quizModel{client: c}
}

func (m quizModel) Init() tea.Cmd {
	return m.load()
}

// load fetches quizzes, past attempts and the course tree (for the topic
// picker) in one joint request.
func (m quizModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		var (
			quizzes  []domain.Quiz
			attempts []domain.QuizAttempt
			courses  []domain.Course
		)
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			var err error
			quizzes, err = c.ListQuizzes(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			attempts, err = c.ListAttempts(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			courses, err = c.ListCourses(ctx)
			return err
		})
		err := g.Wait()
		return quizzesLoadedMsg{quizzes: quizzes, attempts: attempts, courses: courses, err: err}
	}
}

func (m quizModel) Update(msg tea.Msg) (quizModel, tea.Cmd) {
	switch msg := msg.(type) {
	case quizzesLoadedMsg:
		if msg.err != nil {
			if client.IsSessionError(msg.err) {
				m.statusMsg = "session expired, run planor login"
			} else {
				m.statusMsg = fmt.Sprintf("load failed: %v", msg.err)
			}
			return m, nil
		}
		m.quizzes = msg.quizzes
		m.attempts = msg.attempts
		m.courses = msg.courses
		if m.cursor >= len(m.quizzes) {
			m.cursor = 0
		}
		return m, nil

	case quizGeneratedMsg:
		if m.state != qzGenerating {
			// Generation was cancelled; drop the late result.
			return m, nil
		}
		if msg.err != nil {
			m.state = qzList
			m.statusMsg = fmt.Sprintf("generate failed: %v", msg.err)
			return m, nil
		}
		if len(msg.quiz.Questions) == 0 {
			m.state = qzList
			m.statusMsg = "quiz has no questions"
			return m, m.load()
		}
		return m.startTaking(msg.quiz)

	case attemptSubmittedMsg:
		if msg.err != nil {
			// Stay on the questions so the run is not lost.
			m.state = qzTaking
			m.statusMsg = fmt.Sprintf("submit failed: %v", msg.err)
			return m, nil
		}
		m.state = qzResults
		m.result = msg.attempt
		m.active = nil
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

func (m quizModel) handleKey(msg tea.KeyMsg) (quizModel, tea.Cmd) {
	switch m.state {
	case qzTaking:
		return m.handleKeyTaking(msg)
	case qzResults:
		if msg.String() == "esc" {
			m.state = qzList
			m.result = nil
			return m, m.load()
		}
		return m, nil
	case qzPicking:
		return m.handleKeyPicking(msg)
	case qzGenerating:
		if msg.String() == "esc" {
			m.state = qzList
		}
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.quizzes)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter", " ":
		if m.cursor < len(m.quizzes) {
			quiz := m.quizzes[m.cursor]
			if len(quiz.Questions) == 0 {
				m.statusMsg = "quiz has no questions"
				return m, nil
			}
			return m.startTaking(&quiz)
		}
	case "v":
		if m.cursor < len(m.quizzes) {
			latest := domain.LatestQuizAttempt(m.attempts, m.quizzes[m.cursor].ID)
			if latest == nil {
				m.statusMsg = "no attempts yet"
				return m, nil
			}
			m.result = latest
			m.state = qzResults
		}
	case "g":
		if len(m.topics()) == 0 {
			m.statusMsg = "no topics yet"
			return m, nil
		}
		m.state = qzPicking
		m.pickCursor = 0
	case "r":
		return m, m.load()
	}
	return m, nil
}

func (m quizModel) handleKeyPicking(msg tea.KeyMsg) (quizModel, tea.Cmd) {
	topics := m.topics()
	switch msg.String() {
	case "esc":
		m.state = qzList
	case "j", "down":
		if m.pickCursor < len(topics)-1 {
			m.pickCursor++
		}
	case "k", "up":
		if m.pickCursor > 0 {
			m.pickCursor--
		}
	case "enter", "g":
		if m.pickCursor < len(topics) {
			return m.generate(topics[m.pickCursor].topic.ID)
		}
	}
	return m, nil
}

func (m quizModel) generate(topicID int64) (quizModel, tea.Cmd) {
	m.state = qzGenerating
	m.statusMsg = ""
	c := m.client
	return m, func() tea.Msg {
		quiz, err := c.GenerateQuiz(context.Background(), client.DefaultQuizGeneration(topicID))
		return quizGeneratedMsg{quiz: quiz, err: err}
	}
}

// startTaking resets the run state and opens the first question.
func (m quizModel) startTaking(quiz *domain.Quiz) (quizModel, tea.Cmd) {
	m.state = qzTaking
	m.active = quiz
	m.qIdx = 0
	m.choiceIdx = 0
	m.answers = make(map[int64]string, len(quiz.Questions))
	return m, nil
}

func (m quizModel) handleKeyTaking(msg tea.KeyMsg) (quizModel, tea.Cmd) {
	questions := m.active.Questions
	q := questions[m.qIdx]
	choices := q.SortedChoices()

	switch msg.String() {
	case "esc":
		// Abandoning a run discards its answers.
		m.state = qzList
		m.active = nil
		m.answers = nil
	case "j", "down":
		if m.choiceIdx < len(choices)-1 {
			m.choiceIdx++
		}
	case "k", "up":
		if m.choiceIdx > 0 {
			m.choiceIdx--
		}
	case "h", "left":
		if m.qIdx > 0 {
			m.qIdx--
			m.choiceIdx = m.pickedIndex(questions[m.qIdx])
		}
	case "l", "right":
		if m.qIdx < len(questions)-1 {
			m.qIdx++
			m.choiceIdx = m.pickedIndex(questions[m.qIdx])
		}
	case "enter", " ":
		if m.choiceIdx < len(choices) {
			m.answers[q.ID] = choices[m.choiceIdx].Key
		}
		if m.qIdx < len(questions)-1 {
			m.qIdx++
			m.choiceIdx = m.pickedIndex(questions[m.qIdx])
			return m, nil
		}
		if len(m.answers) == len(questions) {
			return m, m.submitCmd()
		}
		m.statusMsg = "unanswered questions remain"
	}
	return m, nil
}

// pickedIndex returns the option index already chosen for q, or 0.
func (m quizModel) pickedIndex(q domain.QuizQuestion) int {
	picked, ok := m.answers[q.ID]
	if !ok {
		return 0
	}
	for i, c := range q.SortedChoices() {
		if c.Key == picked {
			return i
		}
	}
	return 0
}

// submitCmd sends the run for grading, answers in question order.
func (m quizModel) submitCmd() tea.Cmd {
	c := m.client
	req := client.AttemptRequest{QuizID: m.active.ID}
	for _, q := range m.active.Questions {
		if key, ok := m.answers[q.ID]; ok {
			req.Answers = append(req.Answers, client.AnswerSubmission{QuestionID: q.ID, Answer: key})
		}
	}
	return func() tea.Msg {
		attempt, err := c.SubmitAttempt(context.Background(), req)
		return attemptSubmittedMsg{attempt: attempt, err: err}
	}
}

// topics flattens the course list into picker rows, reusing the schedule
// picker's row type.
func (m quizModel) topics() []topicEntry {
	var out []topicEntry
	for _, c := range m.courses {
		for _, t := range c.Topics {
			out = append(out, topicEntry{courseID: c.ID, courseTitle: c.Title, topic: t})
		}
	}
	return out
}

func (m quizModel) helpKeys() string {
	switch m.state {
	case qzTaking:
		return helpEntry("j/k", "option") + "  " + helpEntry("h/l", "question") + "  " + helpEntry("enter", "answer") + "  " + helpEntry("esc", "abandon")
	case qzResults:
		return helpEntry("esc", "back")
	case qzPicking:
		return helpEntry("j/k", "nav") + "  " + helpEntry("enter", "generate") + "  " + helpEntry("esc", "back")
	case qzGenerating:
		return helpEntry("esc", "cancel")
	default:
		return helpEntry("j/k", "nav") + "  " + helpEntry("enter", "take") + "  " + helpEntry("v", "results") + "  " + helpEntry("g", "new quiz") + "  " + helpEntry("r", "reload")
	}
}

// -- view --

func (m quizModel) View() string {
	switch m.state {
	case qzTaking:
		return m.viewTaking()
	case qzResults:
		return m.viewResults()
	case qzPicking:
		return m.viewPicker()
	case qzGenerating:
		var sb strings.Builder
		sb.WriteString(" " + sectionHeaderStyle.Render("── QUIZ ──") + "\n")
		sb.WriteString("   " + dimStyle.Render("generating questions...") + "\n")
		return sb.String()
	}
	return m.viewList()
}

func (m quizModel) viewList() string {
	var sb strings.Builder
	sb.WriteString(" " + sectionHeaderStyle.Render("── QUIZZES ──") + "\n")
	if m.statusMsg != "" {
		sb.WriteString(" " + warnStyle.Render(m.statusMsg) + "\n")
	}
	if len(m.quizzes) == 0 {
		sb.WriteString("   " + dimStyle.Render("no quizzes yet · press g to generate one") + "\n")
		return sb.String()
	}
	for i, quiz := range m.quizzes {
		cursor := "  "
		title := normalStyle.Render(truncStr(cleanText(quiz.Title), 38))
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			title = selectedStyle.Render(truncStr(cleanText(quiz.Title), 38))
		}
		badge := dimStyle.Render("not attempted")
		if best, ok := domain.BestQuizScore(m.attempts, quiz.ID); ok {
			badge = okStyle.Render(fmt.Sprintf("best %d%%", int(best+0.5)))
		}
		fmt.Fprintf(&sb, " %s%s  %s\n", cursor, title, badge)
		fmt.Fprintf(&sb, "   %s\n", metaStyle.Render(fmt.Sprintf("%s · %d questions",
			truncStr(cleanText(quiz.TopicTitle), 30), len(quiz.Questions))))
	}
	return sb.String()
}

func (m quizModel) viewPicker() string {
	var sb strings.Builder
	sb.WriteString(" " + sectionHeaderStyle.Render("── QUIZ · pick a topic ──") + "\n")
	topics := m.topics()
	for i, entry := range topics {
		cursor := "  "
		name := normalStyle.Render(truncStr(cleanText(entry.topic.Title), 34))
		if i == m.pickCursor {
			cursor = accentStyle.Render("▸") + " "
			name = selectedStyle.Render(truncStr(cleanText(entry.topic.Title), 34))
		}
		fmt.Fprintf(&sb, " %s%s  %s\n", cursor, name,
			metaStyle.Render(truncStr(cleanText(entry.courseTitle), 24)))
	}
	return sb.String()
}

func (m quizModel) viewTaking() string {
	var sb strings.Builder
	q := m.active.Questions[m.qIdx]

	header := fmt.Sprintf("── %s · %d/%d ──",
		truncStr(cleanText(m.active.Title), 30), m.qIdx+1, len(m.active.Questions))
	sb.WriteString(" " + sectionHeaderStyle.Render(header) + "\n")
	sb.WriteString(" " + metaStyle.Render(fmt.Sprintf("%s · %d answered", q.Difficulty, len(m.answers))) + "\n")
	if m.statusMsg != "" {
		sb.WriteString(" " + warnStyle.Render(m.statusMsg) + "\n")
	}
	sb.WriteString("\n " + botQuestionStyle.Render(cleanText(q.Text)) + "\n\n")

	picked := m.answers[q.ID]
	for i, choice := range q.SortedChoices() {
		cursor := "  "
		text := normalStyle.Render(truncStr(cleanText(choice.Text), 52))
		if i == m.choiceIdx {
			cursor = accentStyle.Render("▸") + " "
			text = selectedStyle.Render(truncStr(cleanText(choice.Text), 52))
		}
		mark := " "
		if choice.Key == picked && picked != "" {
			mark = okStyle.Render("●")
		}
		fmt.Fprintf(&sb, " %s%s %s %s\n", cursor, mark, helpKeyStyle.Render(choice.Key), text)
	}
	return sb.String()
}

func (m quizModel) viewResults() string {
	var sb strings.Builder
	r := m.result

	sb.WriteString(" " + sectionHeaderStyle.Render(fmt.Sprintf("── %s · results ──", truncStr(cleanText(r.QuizTitle), 32))) + "\n")
	score := fmt.Sprintf("score %d%% · %d correct · %d wrong",
		int(r.Score+0.5), r.CorrectCount, r.IncorrectCount)
	style := okStyle
	if r.Score < 60 {
		style = warnStyle
	}
	sb.WriteString(" " + style.Render(score) + "\n")

	for _, ans := range r.Answers {
		mark := okStyle.Render("✓")
		if !ans.IsCorrect {
			mark = errorStyle.Render("✗")
		}
		fmt.Fprintf(&sb, "\n %s %s\n", mark, normalStyle.Render(truncStr(cleanText(ans.Question.Text), 54)))
		fmt.Fprintf(&sb, "   %s\n", metaStyle.Render("you: "+truncStr(cleanText(ans.Question.ChoiceText(ans.UserAnswer)), 48)))
		if !ans.IsCorrect {
			fmt.Fprintf(&sb, "   %s\n", okStyle.Render("answer: "+truncStr(cleanText(ans.Question.ChoiceText(ans.CorrectAnswer)), 44)))
			if ans.Explanation != "" {
				fmt.Fprintf(&sb, "   %s\n", dimStyle.Render(truncStr(cleanText(ans.Explanation), 56)))
			}
		}
	}
	return sb.String()
}
