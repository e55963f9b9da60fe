package domain

import "time"

// StudyLog records a study session that actually happened (or was accepted
// from a generated schedule as future planning).
type StudyLog struct {
	ID             int64     `json:"id"`
	Topic          *int64    `json:"topic,omitempty"`
	Course         int64     `json:"course"`
	Date           string    `json:"date"`
	MinutesStudied int       `json:"minutes_studied"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
