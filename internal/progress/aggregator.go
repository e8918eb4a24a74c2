package progress

import (
	"context"
	"log"
	"time"

	"github.com/lernwerk/lernwerk/internal/course"
	"github.com/lernwerk/lernwerk/internal/quiz"
)

// Aggregator folds completed course attempts into per-user tracking
// records. It is the only effectful core operation; everything it calls
// below (grade calculation) is pure.
type Aggregator struct {
	store Store
	now   func() time.Time
}

func NewAggregator(store Store, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{store: store, now: now}
}

// RecordCompletion merges one finished attempt into the user's tracking
// record. A course without an id or questions indicates a caller bug: the
// call is logged and dropped without touching the store.
func (a *Aggregator) RecordCompletion(ctx context.Context, userID string, c course.Course, score, timeSpentSec int, locale string) error {
	if c.ID == "" || len(c.Questions) == 0 {
		log.Printf("progress: dropping completion for user %s: course %q has no questions", userID, c.ID)
		return nil
	}

	total := len(c.Questions)
	percentage := float64(score) / float64(total) * 100
	now := a.now()
	tracked := TrackedCourse{
		CourseID:       c.ID,
		Title:          c.Title,
		Subject:        c.Subject,
		Score:          score,
		TotalQuestions: total,
		TimeSpentSec:   timeSpentSec,
		CompletedAt:    now.Unix(),
		Grade:          quiz.CalculateGrade(percentage, locale),
	}
	day := now.Format("2006-01-02")

	return a.store.Update(ctx, userID, func(rec *UserTracking, exists bool) error {
		if !exists {
			rec.CompletedCourses = nil
			rec.DailyActivity = map[string]int{}
			rec.StatsBySubject = map[string]SubjectStats{}
		}
		if rec.DailyActivity == nil {
			rec.DailyActivity = map[string]int{}
		}
		if rec.StatsBySubject == nil {
			rec.StatsBySubject = map[string]SubjectStats{}
		}

		rec.CompletedCourses = append(rec.CompletedCourses, tracked)
		rec.TotalTimeSpentSec += timeSpentSec
		rec.DailyActivity[day] += timeSpentSec

		ss := rec.StatsBySubject[c.Subject]
		ss.CoursesCompleted++
		ss.TotalTimeSpentSec += timeSpentSec
		rec.StatsBySubject[c.Subject] = ss

		// Always recomputed over the full history; an incremental running
		// average would drift across many updates.
		var sumScore, sumTotal int
		for _, tc := range rec.CompletedCourses {
			sumScore += tc.Score
			sumTotal += tc.TotalQuestions
		}
		if sumTotal > 0 {
			rec.AverageScore = float64(sumScore) / float64(sumTotal) * 100
		}
		return nil
	})
}
