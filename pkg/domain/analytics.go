package domain

// StudyEffectiveness is the correlation analysis between study time and quiz
// scores, from /analytics/study-effectiveness/.
type StudyEffectiveness struct {
	CorrelationCoefficient *float64             `json:"correlation_coefficient"`
	Interpretation         string               `json:"interpretation"`
	DataPoints             int                  `json:"data_points"`
	TopicData              []TopicEffectiveness `json:"topic_data,omitempty"`
}

// TopicEffectiveness is one topic's aggregated study/score pair.
type TopicEffectiveness struct {
	TopicID             int64   `json:"topic_id"`
	TopicTitle          string  `json:"topic_title"`
	TotalMinutesStudied int     `json:"total_minutes_studied"`
	AverageQuizScore    float64 `json:"average_quiz_score"`
}
