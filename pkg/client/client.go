package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/pi2-study/planor/pkg/domain"
)

const (
	pathJWTCreate        = "/accounts/auth/jwt/create/"
	pathJWTRefresh       = "/accounts/auth/jwt/refresh/"
	pathMe               = "/accounts/auth/users/me/"
	pathCourses          = "/learning/courses/"
	pathPlans            = "/scheduling/plans/"
	pathCurrentWeek      = "/scheduling/current-week/"
	pathLogs             = "/scheduling/logs/"
	pathGenerateSchedule = "/scheduling/generate-schedule/"
	pathAsk              = "/chat/ask/"
	pathEffectiveness    = "/analytics/study-effectiveness/"
	pathQuizzes          = "/assessment/quizzes/"
	pathAttempts         = "/assessment/attempts/"
	pathGenerateQuiz     = "/assessment/generate-quiz/"
	pathSubmitAttempt    = "/assessment/submit-attempt/"
)

// attempt tracks whether a call already went through the refresh-and-retry
// cycle. There is deliberately no third state: a retried call that hits 401
// again fails instead of looping.
type attempt int

const (
	freshAttempt attempt = iota
	retriedOnce
)

// callOpts are the per-call control flags.
type callOpts struct {
	// allowEmpty treats HTTP 204 as a valid null result (DELETE endpoints).
	allowEmpty bool
}

// Client is the study-planner API client. Every authenticated call goes
// through do(), which attaches the stored access token and transparently
// refreshes it once on 401.
type Client struct {
	baseURL    string
	tokens     TokenStore
	httpClient *http.Client
	refreshing singleflight.Group
}

// New creates an API client. The base URL is trimmed of any trailing slash.
func New(baseURL string, store TokenStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  store,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Login exchanges email/password for a token pair and persists it.
// It is the only authenticated-API entry point that runs without a session.
func (c *Client) Login(ctx context.Context, email, password string) error {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return fmt.Errorf("client.Login: marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathJWTCreate, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("client.Login: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client.Login: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		return fmt.Errorf("client.Login: %w", readAPIError(resp))
	}

	var data domain.Tokens
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return fmt.Errorf("client.Login: decode response: %w", err)
	}
	if err := c.tokens.Save(data); err != nil {
		return fmt.Errorf("client.Login: %w", err)
	}
	return nil
}

// Logout discards the stored credentials.
func (c *Client) Logout() error {
	return c.tokens.Clear()
}

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, pathMe, &u); err != nil {
		return nil, fmt.Errorf("client.Me: %w", err)
	}
	return &u, nil
}

// ListCourses fetches the user's courses with nested topics and subtopics.
func (c *Client) ListCourses(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	if err := c.get(ctx, pathCourses, &courses); err != nil {
		return nil, fmt.Errorf("client.ListCourses: %w", err)
	}
	return courses, nil
}

// CurrentWeek fetches the server-computed view of the current week.
func (c *Client) CurrentWeek(ctx context.Context) (*domain.WeekPlan, error) {
	var week domain.WeekPlan
	if err := c.get(ctx, pathCurrentWeek, &week); err != nil {
		return nil, fmt.Errorf("client.CurrentWeek: %w", err)
	}
	return &week, nil
}

// ListPlans fetches all weekly study plans.
func (c *Client) ListPlans(ctx context.Context) ([]domain.StudyPlan, error) {
	var plans []domain.StudyPlan
	if err := c.get(ctx, pathPlans, &plans); err != nil {
		return nil, fmt.Errorf("client.ListPlans: %w", err)
	}
	return plans, nil
}

// PlanRequest is the payload for creating or fully editing a study plan.
type PlanRequest struct {
	Course         int64            `json:"course"`
	DayOfWeek      domain.DayOfWeek `json:"day_of_week"`
	MinutesPlanned int              `json:"minutes_planned"`
}

// CreatePlan creates a new weekly study plan.
func (c *Client) CreatePlan(ctx context.Context, req PlanRequest) (*domain.StudyPlan, error) {
	var created domain.StudyPlan
	if err := c.do(ctx, http.MethodPost, pathPlans, req, &created, callOpts{}); err != nil {
		return nil, fmt.Errorf("client.CreatePlan: %w", err)
	}
	return &created, nil
}

// UpdatePlan replaces a plan's course, day and minutes.
func (c *Client) UpdatePlan(ctx context.Context, id int64, req PlanRequest) (*domain.StudyPlan, error) {
	var updated domain.StudyPlan
	if err := c.do(ctx, http.MethodPatch, planPath(id), req, &updated, callOpts{}); err != nil {
		return nil, fmt.Errorf("client.UpdatePlan: %w", err)
	}
	return &updated, nil
}

// MovePlan changes only the day of week of a plan (the drag-and-drop write).
func (c *Client) MovePlan(ctx context.Context, id int64, day domain.DayOfWeek) error {
	body := map[string]domain.DayOfWeek{"day_of_week": day}
	if err := c.do(ctx, http.MethodPatch, planPath(id), body, nil, callOpts{}); err != nil {
		return fmt.Errorf("client.MovePlan: %w", err)
	}
	return nil
}

// DeletePlan removes a plan. The server answers 204 on success.
func (c *Client) DeletePlan(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, planPath(id), nil, nil, callOpts{allowEmpty: true}); err != nil {
		return fmt.Errorf("client.DeletePlan: %w", err)
	}
	return nil
}

// ListLogs fetches the recorded study sessions, most recent first.
func (c *Client) ListLogs(ctx context.Context) ([]domain.StudyLog, error) {
	var logs []domain.StudyLog
	if err := c.get(ctx, pathLogs, &logs); err != nil {
		return nil, fmt.Errorf("client.ListLogs: %w", err)
	}
	return logs, nil
}

// LogRequest is the payload for recording a study session.
type LogRequest struct {
	Topic          *int64 `json:"topic,omitempty"`
	Course         int64  `json:"course"`
	Date           string `json:"date"`
	MinutesStudied int    `json:"minutes_studied"`
	Notes          string `json:"notes,omitempty"`
}

// CreateLog records a study session.
func (c *Client) CreateLog(ctx context.Context, req LogRequest) (*domain.StudyLog, error) {
	var created domain.StudyLog
	if err := c.do(ctx, http.MethodPost, pathLogs, req, &created, callOpts{}); err != nil {
		return nil, fmt.Errorf("client.CreateLog: %w", err)
	}
	return &created, nil
}

// GenerateSchedule asks the backend to distribute a topic's subtopics over
// the user's weekly plans. Slow endpoint; the AI call runs server-side.
func (c *Client) GenerateSchedule(ctx context.Context, topicID int64) (*domain.GeneratedSchedule, error) {
	body := map[string]int64{"topic_id": topicID}
	var schedule domain.GeneratedSchedule
	if err := c.do(ctx, http.MethodPost, pathGenerateSchedule, body, &schedule, callOpts{}); err != nil {
		return nil, fmt.Errorf("client.GenerateSchedule: %w", err)
	}
	return &schedule, nil
}

// ChatMessage is one turn of the studybot conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Ask sends a question (and prior turns) to the studybot and returns the
// assistant's reply.
func (c *Client) Ask(ctx context.Context, question string, history []ChatMessage) (*ChatMessage, error) {
	if history == nil {
		history = []ChatMessage{}
	}
	body := map[string]any{"question": question, "history": history}
	var reply ChatMessage
	if err := c.do(ctx, http.MethodPost, pathAsk, body, &reply, callOpts{}); err != nil {
		return nil, fmt.Errorf("client.Ask: %w", err)
	}
	return &reply, nil
}

// StudyEffectiveness fetches the study-time vs quiz-score correlation.
func (c *Client) StudyEffectiveness(ctx context.Context) (*domain.StudyEffectiveness, error) {
	var eff domain.StudyEffectiveness
	if err := c.get(ctx, pathEffectiveness, &eff); err != nil {
		return nil, fmt.Errorf("client.StudyEffectiveness: %w", err)
	}
	return &eff, nil
}

// ListQuizzes fetches the user's quizzes with their questions embedded.
func (c *Client) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	var quizzes []domain.Quiz
	if err := c.get(ctx, pathQuizzes, &quizzes); err != nil {
		return nil, fmt.Errorf("client.ListQuizzes: %w", err)
	}
	return quizzes, nil
}

// GetQuiz fetches a single quiz by id.
func (c *Client) GetQuiz(ctx context.Context, id int64) (*domain.Quiz, error) {
	var quiz domain.Quiz
	if err := c.get(ctx, fmt.Sprintf("%s%d/", pathQuizzes, id), &quiz); err != nil {
		return nil, fmt.Errorf("client.GetQuiz: %w", err)
	}
	return &quiz, nil
}

// ListAttempts fetches the user's quiz attempts, most recent first, with
// graded answers embedded.
func (c *Client) ListAttempts(ctx context.Context) ([]domain.QuizAttempt, error) {
	var attempts []domain.QuizAttempt
	if err := c.get(ctx, pathAttempts, &attempts); err != nil {
		return nil, fmt.Errorf("client.ListAttempts: %w", err)
	}
	return attempts, nil
}

// QuizGenerationRequest is the payload for generating a quiz on a topic.
// The per-difficulty counts follow the backend defaults when zero-valued
// fields are replaced via DefaultQuizGeneration.
type QuizGenerationRequest struct {
	TopicID     int64 `json:"topic_id"`
	NumEasy     int   `json:"num_easy"`
	NumModerate int   `json:"num_moderate"`
	NumHard     int   `json:"num_hard"`
}

// DefaultQuizGeneration returns the standard 7/7/6 question mix for a topic.
func DefaultQuizGeneration(topicID int64) QuizGenerationRequest {
	return QuizGenerationRequest{TopicID: topicID, NumEasy: 7, NumModerate: 7, NumHard: 6}
}

// GenerateQuiz asks the backend to generate a new quiz for a topic. Slow
// endpoint; the AI call runs server-side.
func (c *Client) GenerateQuiz(ctx context.Context, req QuizGenerationRequest) (*domain.Quiz, error) {
	var quiz domain.Quiz
	if err := c.do(ctx, http.MethodPost, pathGenerateQuiz, req, &quiz, callOpts{}); err != nil {
		return nil, fmt.Errorf("client.GenerateQuiz: %w", err)
	}
	return &quiz, nil
}

// AnswerSubmission is one picked option inside an attempt submission.
type AnswerSubmission struct {
	QuestionID int64  `json:"question_id"`
	Answer     string `json:"user_answer"`
}

// AttemptRequest is the payload for submitting a completed quiz run.
type AttemptRequest struct {
	QuizID  int64              `json:"quiz_id"`
	Answers []AnswerSubmission `json:"answers"`
}

// SubmitAttempt grades a quiz run and returns the attempt with per-answer
// results, correct answers and explanations.
func (c *Client) SubmitAttempt(ctx context.Context, req AttemptRequest) (*domain.QuizAttempt, error) {
	var attempt domain.QuizAttempt
	if err := c.do(ctx, http.MethodPost, pathSubmitAttempt, req, &attempt, callOpts{}); err != nil {
		return nil, fmt.Errorf("client.SubmitAttempt: %w", err)
	}
	return &attempt, nil
}

func planPath(id int64) string {
	return fmt.Sprintf("%s%d/", pathPlans, id)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, callOpts{})
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, opts callOpts) error {
	return c.doAttempt(ctx, method, path, body, out, opts, freshAttempt)
}

func (c *Client) doAttempt(ctx context.Context, method, path string, body, out any, opts callOpts, att attempt) error {
	toks, err := c.tokens.Load()
	if err != nil {
		return fmt.Errorf("load tokens: %w", err)
	}
	if !toks.Valid() {
		return ErrNoSession
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+toks.Access)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode == http.StatusUnauthorized && att == freshAttempt {
		if err := c.refreshAccessToken(ctx); err != nil {
			return ErrSessionExpired
		}
		return c.doAttempt(ctx, method, path, body, out, opts, retriedOnce)
	}

	if resp.StatusCode == http.StatusNoContent && opts.allowEmpty {
		return nil
	}

	if resp.StatusCode >= 400 {
		return readAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// refreshAccessToken exchanges the stored refresh token for a new access
// token. Concurrent callers are collapsed into a single network call; all
// waiters share its result. Any failure clears the stored credentials.
func (c *Client) refreshAccessToken(ctx context.Context) error {
	_, err, _ := c.refreshing.Do("refresh", func() (any, error) {
		toks, err := c.tokens.Load()
		if err != nil {
			return nil, fmt.Errorf("load tokens: %w", err)
		}
		if toks.Refresh == "" {
			return nil, ErrSessionExpired
		}

		payload, err := json.Marshal(map[string]string{"refresh": toks.Refresh})
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathJWTRefresh, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.tokens.Clear() //nolint:errcheck // already failing
			return nil, fmt.Errorf("refresh request: %w", err)
		}
		defer resp.Body.Close() //nolint:errcheck // best-effort close

		if resp.StatusCode >= 400 {
			c.tokens.Clear() //nolint:errcheck // already failing
			return nil, ErrSessionExpired
		}

		var data domain.Tokens
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			c.tokens.Clear() //nolint:errcheck // already failing
			return nil, fmt.Errorf("decode refresh response: %w", err)
		}
		if data.Refresh == "" {
			// Server rotated only the access token; keep the old refresh token.
			data.Refresh = toks.Refresh
		}
		if err := c.tokens.Save(data); err != nil {
			return nil, fmt.Errorf("save tokens: %w", err)
		}
		return nil, nil
	})
	return err
}

// readAPIError parses a non-2xx response into an APIError, taking the
// message from the body's detail field when present. A malformed body never
// surfaces a parse error to the caller.
func readAPIError(resp *http.Response) error {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
	if readErr != nil {
		return &APIError{StatusCode: resp.StatusCode, Detail: genericDetail}
	}
	var apiErr struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Detail != "" {
		return &APIError{StatusCode: resp.StatusCode, Detail: apiErr.Detail}
	}
	return &APIError{StatusCode: resp.StatusCode, Detail: genericDetail}
}
