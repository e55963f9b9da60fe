package domain

// GeneratedSchedule is the AI-distributed study plan for a single topic,
// returned by POST /scheduling/generate-schedule/.
type GeneratedSchedule struct {
	Topic      ScheduleTopic   `json:"topic"`
	WeeklyPlan []ScheduleDay   `json:"weekly_plan"`
	Summary    ScheduleSummary `json:"summary,omitempty"`
}

// ScheduleTopic identifies the topic the schedule was generated for.
type ScheduleTopic struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	CourseID    int64  `json:"course_id,omitempty"`
	CourseTitle string `json:"course_title,omitempty"`
}

// ScheduleDay is one weekday's allocation of study sessions.
type ScheduleDay struct {
	DayOfWeek        DayOfWeek         `json:"day_of_week"`
	DayName          string            `json:"day_name,omitempty"`
	AllocatedMinutes int               `json:"allocated_minutes"`
	Sessions         []ScheduleSession `json:"sessions"`
}

// ScheduleSession is a single subtopic allocation.
type ScheduleSession struct {
	Subtopic      string `json:"subtopic"`
	EstimatedTime int    `json:"estimated_time"`
	Difficulty    string `json:"difficulty,omitempty"`
}

// ScheduleSummary carries optional server-side totals.
type ScheduleSummary struct {
	TotalSessions int `json:"total_sessions,omitempty"`
	TotalMinutes  int `json:"total_minutes,omitempty"`
	DaysWithStudy int `json:"days_with_study,omitempty"`
}

// TotalSessions counts sessions across the weekly plan, preferring the
// server's summary figure when present.
func (g *GeneratedSchedule) TotalSessions() int {
	if g == nil {
		return 0
	}
	if g.Summary.TotalSessions > 0 {
		return g.Summary.TotalSessions
	}
	n := 0
	for _, d := range g.WeeklyPlan {
		n += len(d.Sessions)
	}
	return n
}

// DaysWithStudy counts weekdays that received at least one session.
func (g *GeneratedSchedule) DaysWithStudy() int {
	if g == nil {
		return 0
	}
	if g.Summary.DaysWithStudy > 0 {
		return g.Summary.DaysWithStudy
	}
	n := 0
	for _, d := range g.WeeklyPlan {
		if len(d.Sessions) > 0 {
			n++
		}
	}
	return n
}

// SchedulePreview is the locally persisted last-generated schedule, kept
// until the user accepts it (which converts it into study logs).
type SchedulePreview struct {
	Schedule   *GeneratedSchedule `json:"schedule"`
	TopicID    int64              `json:"topic_id"`
	SavedAt    string             `json:"saved_at,omitempty"`
	AcceptedAt string             `json:"accepted_at,omitempty"`
}

// Accepted reports whether the preview was already converted into logs.
func (p *SchedulePreview) Accepted() bool {
	return p != nil && p.AcceptedAt != ""
}
