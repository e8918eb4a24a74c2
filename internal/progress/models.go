package progress

import "github.com/lernwerk/lernwerk/internal/quiz"

// TrackedCourse is one completed course attempt. Immutable once written.
type TrackedCourse struct {
	CourseID       string     `json:"course_id"`
	Title          string     `json:"title"`
	Subject        string     `json:"subject"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"total_questions"`
	TimeSpentSec   int        `json:"time_spent_sec"`
	CompletedAt    int64      `json:"completed_at"`
	Grade          quiz.Grade `json:"grade"`
}

type SubjectStats struct {
	CoursesCompleted  int `json:"courses_completed"`
	TotalTimeSpentSec int `json:"total_time_spent_sec"`
}

// UserTracking is the single mutable aggregate of a user's lifetime
// progress. History is append-only in completion order; the daily and
// subject maps grow by at most one entry per day / subject.
type UserTracking struct {
	UserID            string                  `json:"user_id"`
	TotalTimeSpentSec int                     `json:"total_time_spent_sec"`
	CompletedCourses  []TrackedCourse         `json:"completed_courses"`
	DailyActivity     map[string]int          `json:"daily_activity"` // "2006-01-02" -> seconds
	StatsBySubject    map[string]SubjectStats `json:"stats_by_subject"`
	AverageScore      float64                 `json:"average_score"` // percentage over full history
}
