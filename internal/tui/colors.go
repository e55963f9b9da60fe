package tui

import "github.com/pi2-study/planor/pkg/domain"

// coursePalette are the colors cycled through as courses get their first
// session on the board. Matches the web dashboard's legend.
var coursePalette = []string{
	"#2563eb",
	"#16a34a",
	"#f97316",
	"#9333ea",
	"#dc2626",
	"#0ea5e9",
	"#facc15",
	"#14b8a6",
	"#fb7185",
}

// fallbackCourseColor is used for a course id with no assigned color.
const fallbackCourseColor = "#475569"

// assignCourseColors recomputes the course→color map after a reload.
// Courses that already had a color keep it, new courses take the next
// palette slot (wrapping past the end), and courses that vanished from
// the list are dropped.
func assignCourseColors(prev map[int64]string, courses []domain.Course) map[int64]string {
	next := make(map[int64]string, len(courses))
	for _, c := range courses {
		if col, ok := prev[c.ID]; ok {
			next[c.ID] = col
		}
	}
	for _, c := range courses {
		if _, ok := next[c.ID]; !ok {
			next[c.ID] = coursePalette[len(next)%len(coursePalette)]
		}
	}
	return next
}

// courseColor looks up the color for a course id.
func courseColor(colors map[int64]string, id int64) string {
	if col, ok := colors[id]; ok {
		return col
	}
	return fallbackCourseColor
}
