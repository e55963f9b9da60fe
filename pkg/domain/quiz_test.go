package domain

import (
	"testing"
	"time"
)

func TestSortedChoicesReimposesKeyOrder(t *testing.T) {
	q := QuizQuestion{Choices: map[string]string{"C": "three", "A": "one", "B": "two"}}

	choices := q.SortedChoices()
	if len(choices) != 3 {
		t.Fatalf("len = %d, want 3", len(choices))
	}
	for i, want := range []string{"A", "B", "C"} {
		if choices[i].Key != want {
			t.Errorf("choices[%d].Key = %q, want %q", i, choices[i].Key, want)
		}
	}
	if choices[0].Text != "one" {
		t.Errorf("choices[0].Text = %q, want %q", choices[0].Text, "one")
	}
}

func TestChoiceTextFallsBackToKey(t *testing.T) {
	q := QuizQuestion{Choices: map[string]string{"A": "one"}}
	if got := q.ChoiceText("A"); got != "one" {
		t.Errorf("ChoiceText(A) = %q, want %q", got, "one")
	}
	if got := q.ChoiceText("Z"); got != "Z" {
		t.Errorf("ChoiceText(Z) = %q, want the key itself", got)
	}
}

func TestBestQuizScore(t *testing.T) {
	attempts := []QuizAttempt{
		{Quiz: 5, Score: 40},
		{Quiz: 5, Score: 80},
		{Quiz: 6, Score: 95},
	}

	best, ok := BestQuizScore(attempts, 5)
	if !ok || best != 80 {
		t.Errorf("BestQuizScore(5) = %v, %v, want 80, true", best, ok)
	}
	if _, ok := BestQuizScore(attempts, 7); ok {
		t.Error("unattempted quiz must report no score")
	}
}

func TestLatestQuizAttempt(t *testing.T) {
	old := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	recent := old.Add(48 * time.Hour)
	attempts := []QuizAttempt{
		{ID: 1, Quiz: 5, CompletedAt: old},
		{ID: 2, Quiz: 5, CompletedAt: recent},
		{ID: 3, Quiz: 6, CompletedAt: recent.Add(time.Hour)},
	}

	latest := LatestQuizAttempt(attempts, 5)
	if latest == nil || latest.ID != 2 {
		t.Fatalf("LatestQuizAttempt(5) = %+v, want attempt 2", latest)
	}
	if LatestQuizAttempt(attempts, 9) != nil {
		t.Error("unknown quiz must have no latest attempt")
	}
}
