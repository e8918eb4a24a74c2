package progress

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/lernwerk/lernwerk/internal/course"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testCourse(id, subject string, questions int) course.Course {
	qs := make([]course.Question, questions)
	for i := range qs {
		qs[i] = course.Question{ID: "q", Type: course.TypeMCQ}
	}
	return course.Course{ID: id, Title: "Course " + id, Subject: subject, Questions: qs}
}

func TestRecordCompletionCreatesRecordLazily(t *testing.T) {
	st := NewInMemoryStore()
	day1 := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	agg := NewAggregator(st, fixedClock(day1))

	ctx := context.Background()
	if _, err := st.Get(ctx, "u1"); err != ErrNotFound {
		t.Fatalf("expected no record before first completion, got %v", err)
	}

	if err := agg.RecordCompletion(ctx, "u1", testCourse("c1", "math", 4), 3, 120, "en"); err != nil {
		t.Fatalf("record completion: %v", err)
	}

	rec, err := st.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(rec.CompletedCourses) != 1 {
		t.Fatalf("expected 1 tracked course, got %d", len(rec.CompletedCourses))
	}
	tc := rec.CompletedCourses[0]
	if tc.Score != 3 || tc.TotalQuestions != 4 || tc.Grade != "C" {
		t.Fatalf("tracked record mismatch: %+v", tc)
	}
	if rec.TotalTimeSpentSec != 120 {
		t.Fatalf("total time = %d, want 120", rec.TotalTimeSpentSec)
	}
	if rec.DailyActivity["2026-03-14"] != 120 {
		t.Fatalf("daily bucket = %v", rec.DailyActivity)
	}
	if ss := rec.StatsBySubject["math"]; ss.CoursesCompleted != 1 || ss.TotalTimeSpentSec != 120 {
		t.Fatalf("subject stats = %+v", ss)
	}
	if math.Abs(rec.AverageScore-75) > 1e-9 {
		t.Fatalf("average = %v, want 75", rec.AverageScore)
	}
}

func TestRecordCompletionRecomputesAverageFromHistory(t *testing.T) {
	st := NewInMemoryStore()
	agg := NewAggregator(st, fixedClock(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	// 3/4, 5/10, 1/2 => 9/16 = 56.25%
	completions := []struct {
		course course.Course
		score  int
	}{
		{testCourse("c1", "math", 4), 3},
		{testCourse("c2", "german", 10), 5},
		{testCourse("c3", "math", 2), 1},
	}
	for i, c := range completions {
		if err := agg.RecordCompletion(ctx, "u1", c.course, c.score, 60, "de"); err != nil {
			t.Fatalf("completion %d: %v", i, err)
		}
		rec, _ := st.Get(ctx, "u1")
		if len(rec.CompletedCourses) != i+1 {
			t.Fatalf("history length = %d after %d completions", len(rec.CompletedCourses), i+1)
		}
	}

	rec, _ := st.Get(ctx, "u1")
	if math.Abs(rec.AverageScore-56.25) > 1e-9 {
		t.Fatalf("average = %v, want 56.25", rec.AverageScore)
	}
	// history keeps completion order
	if rec.CompletedCourses[0].CourseID != "c1" || rec.CompletedCourses[2].CourseID != "c3" {
		t.Fatalf("history out of order: %+v", rec.CompletedCourses)
	}
	if ss := rec.StatsBySubject["math"]; ss.CoursesCompleted != 2 || ss.TotalTimeSpentSec != 120 {
		t.Fatalf("math subject stats = %+v", ss)
	}
}

func TestRecordCompletionDailyBuckets(t *testing.T) {
	st := NewInMemoryStore()
	clock := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	agg := NewAggregator(st, now)
	ctx := context.Background()

	_ = agg.RecordCompletion(ctx, "u1", testCourse("c1", "math", 2), 2, 100, "en")
	clock = clock.Add(5 * time.Hour) // same calendar day
	_ = agg.RecordCompletion(ctx, "u1", testCourse("c2", "math", 2), 1, 50, "en")
	clock = clock.Add(24 * time.Hour) // next day
	_ = agg.RecordCompletion(ctx, "u1", testCourse("c3", "math", 2), 0, 30, "en")

	rec, _ := st.Get(ctx, "u1")
	if len(rec.DailyActivity) != 2 {
		t.Fatalf("expected 2 daily buckets, got %v", rec.DailyActivity)
	}
	if rec.DailyActivity["2026-03-14"] != 150 {
		t.Fatalf("same-day completions must accumulate: %v", rec.DailyActivity)
	}
	if rec.DailyActivity["2026-03-15"] != 30 {
		t.Fatalf("next-day completion must open a new bucket: %v", rec.DailyActivity)
	}
}

func TestRecordCompletionGuards(t *testing.T) {
	st := NewInMemoryStore()
	agg := NewAggregator(st, nil)
	ctx := context.Background()

	// missing id and empty question list are caller bugs: logged no-ops
	if err := agg.RecordCompletion(ctx, "u1", course.Course{Title: "no id"}, 1, 10, "en"); err != nil {
		t.Fatalf("guard must not error: %v", err)
	}
	if err := agg.RecordCompletion(ctx, "u1", course.Course{ID: "c1"}, 1, 10, "en"); err != nil {
		t.Fatalf("guard must not error: %v", err)
	}
	if _, err := st.Get(ctx, "u1"); err != ErrNotFound {
		t.Fatalf("guarded calls must not create a record, got %v", err)
	}
}

func TestRecordCompletionLocaleGrades(t *testing.T) {
	st := NewInMemoryStore()
	agg := NewAggregator(st, nil)
	ctx := context.Background()

	_ = agg.RecordCompletion(ctx, "de-user", testCourse("c1", "math", 4), 4, 10, "de")
	_ = agg.RecordCompletion(ctx, "en-user", testCourse("c1", "math", 4), 4, 10, "en")

	de, _ := st.Get(ctx, "de-user")
	en, _ := st.Get(ctx, "en-user")
	if de.CompletedCourses[0].Grade != "1" {
		t.Fatalf("de grade = %q, want 1", de.CompletedCourses[0].Grade)
	}
	if en.CompletedCourses[0].Grade != "A" {
		t.Fatalf("en grade = %q, want A", en.CompletedCourses[0].Grade)
	}
}
