package domain

import "sort"

// StudyPlan is a persisted weekly recurring study goal: study one course for
// a number of minutes on a fixed day of the week.
type StudyPlan struct {
	ID               int64     `json:"id"`
	Course           int64     `json:"course"`
	CourseTitle      string    `json:"course_title,omitempty"`
	DayOfWeek        DayOfWeek `json:"day_of_week"`
	DayOfWeekDisplay string    `json:"day_of_week_display,omitempty"`
	MinutesPlanned   int       `json:"minutes_planned"`
}

// WeekPlan is the server-computed view of the current calendar week,
// bucketed by day. It is replaced wholesale on every fetch, never patched.
type WeekPlan struct {
	WeekStart             string      `json:"week_start"`
	WeekEnd               string      `json:"week_end"`
	TotalPlannedMinutes   int         `json:"total_planned_minutes"`
	TotalCompletedMinutes int         `json:"total_completed_minutes"`
	Days                  []DayBucket `json:"days"`
}

// DayBucket holds one day's planned sessions and aggregates.
type DayBucket struct {
	DayOfWeek        DayOfWeek           `json:"day_of_week"`
	DayName          string              `json:"day_name,omitempty"`
	Date             string              `json:"date,omitempty"`
	PlannedMinutes   int                 `json:"planned_minutes"`
	CompletedMinutes int                 `json:"completed_minutes"`
	PlannedSessions  []PlanSessionRecord `json:"planned_sessions"`
}

// PlanSessionRecord is the raw per-day session entry inside a WeekPlan
// payload. Fields beyond plan_id are optional; missing ones are filled from
// the plan list when rendering.
type PlanSessionRecord struct {
	PlanID         int64  `json:"plan_id"`
	CourseID       int64  `json:"course_id,omitempty"`
	CourseTitle    string `json:"course_title,omitempty"`
	MinutesPlanned int    `json:"minutes_planned,omitempty"`
}

// PlanSession is the denormalized, render-ready join of a session record
// against the plan map.
type PlanSession struct {
	PlanID         int64
	CourseID       int64
	CourseTitle    string
	MinutesPlanned int
	DayOfWeek      DayOfWeek
}

// Normalize sorts the week's days by day-of-week ascending and guarantees
// every bucket has a non-nil session slice, regardless of what the server
// sent. Safe on a nil receiver.
func (w *WeekPlan) Normalize() {
	if w == nil {
		return
	}
	sort.Slice(w.Days, func(i, j int) bool {
		return w.Days[i].DayOfWeek < w.Days[j].DayOfWeek
	})
	for i := range w.Days {
		if w.Days[i].PlannedSessions == nil {
			w.Days[i].PlannedSessions = []PlanSessionRecord{}
		}
	}
}

// Join resolves a raw session record into a PlanSession, preferring the
// fields of the matching plan and falling back to whatever the record
// carries inline.
func (r PlanSessionRecord) Join(plans map[int64]StudyPlan, day DayOfWeek) PlanSession {
	s := PlanSession{
		PlanID:         r.PlanID,
		CourseID:       r.CourseID,
		CourseTitle:    r.CourseTitle,
		MinutesPlanned: r.MinutesPlanned,
		DayOfWeek:      day,
	}
	if plan, ok := plans[r.PlanID]; ok {
		if s.CourseID == 0 {
			s.CourseID = plan.Course
		}
		if s.CourseTitle == "" {
			s.CourseTitle = plan.CourseTitle
		}
		if s.MinutesPlanned == 0 {
			s.MinutesPlanned = plan.MinutesPlanned
		}
	}
	if s.CourseTitle == "" {
		s.CourseTitle = "Course"
	}
	return s
}
