package domain

import "testing"

func TestWeekPlanNormalizeSortsAndFillsSessions(t *testing.T) {
	w := &WeekPlan{
		Days: []DayBucket{
			{DayOfWeek: Friday},
			{DayOfWeek: Monday, PlannedSessions: []PlanSessionRecord{{PlanID: 1}}},
			{DayOfWeek: Wednesday},
		},
	}
	w.Normalize()

	want := []DayOfWeek{Monday, Wednesday, Friday}
	for i, d := range want {
		if w.Days[i].DayOfWeek != d {
			t.Fatalf("Days[%d].DayOfWeek = %d, want %d", i, w.Days[i].DayOfWeek, d)
		}
	}
	for i := range w.Days {
		if w.Days[i].PlannedSessions == nil {
			t.Errorf("Days[%d].PlannedSessions is nil after Normalize", i)
		}
	}
}

func TestWeekPlanNormalizeNilReceiver(t *testing.T) {
	var w *WeekPlan
	w.Normalize() // must not panic
}

func TestJoinPrefersRecordFields(t *testing.T) {
	plans := map[int64]StudyPlan{
		101: {ID: 101, Course: 7, CourseTitle: "Cálculo I", MinutesPlanned: 90},
	}
	rec := PlanSessionRecord{PlanID: 101, CourseID: 7, CourseTitle: "Cálculo I (novo)", MinutesPlanned: 45}

	sess := rec.Join(plans, Tuesday)
	if sess.CourseTitle != "Cálculo I (novo)" {
		t.Errorf("CourseTitle = %q, want the record's own title", sess.CourseTitle)
	}
	if sess.MinutesPlanned != 45 {
		t.Errorf("MinutesPlanned = %d, want 45", sess.MinutesPlanned)
	}
	if sess.DayOfWeek != Tuesday {
		t.Errorf("DayOfWeek = %d, want Tuesday", sess.DayOfWeek)
	}
}

func TestJoinFallsBackToPlanMap(t *testing.T) {
	plans := map[int64]StudyPlan{
		101: {ID: 101, Course: 7, CourseTitle: "Cálculo I", MinutesPlanned: 90},
	}
	rec := PlanSessionRecord{PlanID: 101}

	sess := rec.Join(plans, Monday)
	if sess.CourseID != 7 {
		t.Errorf("CourseID = %d, want 7 from plan map", sess.CourseID)
	}
	if sess.CourseTitle != "Cálculo I" {
		t.Errorf("CourseTitle = %q, want plan map title", sess.CourseTitle)
	}
	if sess.MinutesPlanned != 90 {
		t.Errorf("MinutesPlanned = %d, want 90 from plan map", sess.MinutesPlanned)
	}
}

func TestJoinUnknownPlanUsesPlaceholderTitle(t *testing.T) {
	rec := PlanSessionRecord{PlanID: 999}
	sess := rec.Join(map[int64]StudyPlan{}, Sunday)
	if sess.CourseTitle != "Course" {
		t.Errorf("CourseTitle = %q, want placeholder", sess.CourseTitle)
	}
	if sess.PlanID != 999 {
		t.Errorf("PlanID = %d, want 999", sess.PlanID)
	}
}
