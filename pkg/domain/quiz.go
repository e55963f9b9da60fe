package domain

import (
	"sort"
	"time"
)

// Quiz is a generated question set for one topic, as returned by
// /assessment/quizzes/. The list endpoint already embeds the questions.
type Quiz struct {
	ID             int64          `json:"id"`
	Topic          int64          `json:"topic"`
	TopicTitle     string         `json:"topic_title,omitempty"`
	Title          string         `json:"title"`
	Description    string         `json:"description,omitempty"`
	TotalQuestions int            `json:"total_questions"`
	CreatedAt      time.Time      `json:"created_at"`
	Questions      []QuizQuestion `json:"questions,omitempty"`
}

// QuizQuestion is one multiple-choice question. The correct answer and the
// explanation are withheld until an attempt is submitted.
type QuizQuestion struct {
	ID         int64             `json:"id"`
	Text       string            `json:"question_text"`
	Choices    map[string]string `json:"choices"`
	Difficulty string            `json:"difficulty"`
}

// QuizChoice is one answer option with its key ("A", "B", ...).
type QuizChoice struct {
	Key  string
	Text string
}

// SortedChoices returns the options in key order. The API serializes
// choices as a JSON object, so the order has to be reimposed client-side.
func (q QuizQuestion) SortedChoices() []QuizChoice {
	keys := make([]string, 0, len(q.Choices))
	for k := range q.Choices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]QuizChoice, 0, len(keys))
	for _, k := range keys {
		out = append(out, QuizChoice{Key: k, Text: q.Choices[k]})
	}
	return out
}

// ChoiceText resolves an answer key to its option text, falling back to
// the key itself when the option is unknown.
func (q QuizQuestion) ChoiceText(key string) string {
	if text, ok := q.Choices[key]; ok {
		return text
	}
	return key
}

// QuizAttempt is one graded run through a quiz, from
// /assessment/attempts/ or the submit endpoint.
type QuizAttempt struct {
	ID             int64           `json:"id"`
	Quiz           int64           `json:"quiz"`
	QuizTitle      string          `json:"quiz_title,omitempty"`
	Score          float64         `json:"score"`
	CorrectCount   int             `json:"correct_answers_count"`
	IncorrectCount int             `json:"incorrect_answers_count"`
	CompletedAt    time.Time       `json:"completed_at"`
	Answers        []AttemptAnswer `json:"answers,omitempty"`
}

// AttemptAnswer pairs a question with what the user picked. The server
// reveals the correct answer and the explanation only here.
type AttemptAnswer struct {
	Question      QuizQuestion `json:"question"`
	UserAnswer    string       `json:"user_answer"`
	IsCorrect     bool         `json:"is_correct"`
	Explanation   string       `json:"explanation,omitempty"`
	CorrectAnswer string       `json:"correct_answer,omitempty"`
}

// BestQuizScore returns the highest score among a quiz's attempts, and
// whether the quiz has been attempted at all.
func BestQuizScore(attempts []QuizAttempt, quizID int64) (float64, bool) {
	best, found := 0.0, false
	for _, a := range attempts {
		if a.Quiz != quizID {
			continue
		}
		if !found || a.Score > best {
			best = a.Score
		}
		found = true
	}
	return best, found
}

// LatestQuizAttempt returns the most recent attempt for a quiz, or nil.
func LatestQuizAttempt(attempts []QuizAttempt, quizID int64) *QuizAttempt {
	var latest *QuizAttempt
	for i := range attempts {
		a := &attempts[i]
		if a.Quiz != quizID {
			continue
		}
		if latest == nil || a.CompletedAt.After(latest.CompletedAt) {
			latest = a
		}
	}
	return latest
}
