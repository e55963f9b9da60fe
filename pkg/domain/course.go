package domain

import "time"

// Course is a discipline with its nested topic tree, as returned by
// /learning/courses/.
type Course struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Topics      []Topic   `json:"topics,omitempty"`
}

// Topic is a study unit inside a course.
type Topic struct {
	ID                 int64      `json:"id"`
	Title              string     `json:"title"`
	Slug               string     `json:"slug,omitempty"`
	Course             int64      `json:"course"`
	SuggestedStudyPlan string     `json:"suggested_study_plan,omitempty"`
	Order              int        `json:"order"`
	CreatedAt          time.Time  `json:"created_at"`
	Subtopics          []Subtopic `json:"subtopics,omitempty"`
}

// Subtopic is the smallest schedulable piece of content.
type Subtopic struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Details     string `json:"details,omitempty"`
	Order       int    `json:"order"`
	IsCompleted bool   `json:"is_completed"`
}
