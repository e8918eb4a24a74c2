package player

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lernwerk/lernwerk/internal/course"
	"github.com/lernwerk/lernwerk/internal/progress"
	"github.com/lernwerk/lernwerk/internal/quiz"
	syncx "github.com/lernwerk/lernwerk/internal/sync"
)

var (
	ErrNotFound        = errors.New("session not found")
	ErrFinished        = errors.New("session already finished")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrNotAnswered     = errors.New("current question not answered yet")
	ErrInvalidAnswer   = errors.New("answer incomplete")
	ErrForbidden       = errors.New("session belongs to another user")
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

// OptionStatus drives render-time styling of mcq options after a check.
type OptionStatus string

const (
	OptionDefault   OptionStatus = "default"
	OptionSelected  OptionStatus = "selected"
	OptionCorrect   OptionStatus = "correct"
	OptionIncorrect OptionStatus = "incorrect"
)

type session struct {
	id       string
	userID   string
	locale   string
	course   course.Course // snapshot with answer keys, frozen at start
	index    int
	score    int
	status   Status
	started  time.Time
	elapsed  int // seconds, set when finishing
	answered []bool
	correct  []bool
	recorded bool // aggregator invoked
}

// View is the learner-facing session state: the current question is served
// without answer keys.
type View struct {
	ID              string           `json:"id"`
	CourseID        string           `json:"course_id"`
	CourseTitle     string           `json:"course_title"`
	Status          Status           `json:"status"`
	QuestionIndex   int              `json:"question_index"`
	TotalQuestions  int              `json:"total_questions"`
	Score           int              `json:"score"`
	Question        *course.Question `json:"question,omitempty"`
	Answered        bool             `json:"answered"`
	FeedbackDelayMS int              `json:"feedback_delay_ms"`
}

// CheckResult is the correctness feedback for one submitted answer.
type CheckResult struct {
	Correct      bool                    `json:"correct"`
	Score        int                     `json:"score"`
	OptionStatus map[string]OptionStatus `json:"option_status,omitempty"` // mcq only
	LastQuestion bool                    `json:"last_question"`
}

type Summary struct {
	Score          int        `json:"score"`
	TotalQuestions int        `json:"total_questions"`
	Grade          quiz.Grade `json:"grade"`
	ElapsedSec     int        `json:"elapsed_sec"`
}

// EventSink receives best-effort lifecycle events (the append-only log).
type EventSink interface {
	Append(ctx context.Context, e syncx.Event) error
}

// Manager sequences play sessions: Start -> Check/Advance per question ->
// Finished. Sessions live in memory; abandoning one writes nothing.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session

	courses course.Store
	agg     *progress.Aggregator
	events  EventSink
	now     func() time.Time

	feedbackDelay time.Duration
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option    { return func(m *Manager) { m.now = now } }
func WithEventSink(s EventSink) Option         { return func(m *Manager) { m.events = s } }
func WithFeedbackDelay(d time.Duration) Option { return func(m *Manager) { m.feedbackDelay = d } }

func NewManager(courses course.Store, agg *progress.Aggregator, opts ...Option) *Manager {
	m := &Manager{
		sessions:      map[string]*session{},
		courses:       courses,
		agg:           agg,
		now:           time.Now,
		feedbackDelay: 2 * time.Second,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Start snapshots the course and opens a session at question 0. Session
// elapsed time runs from here, wall-clock.
func (m *Manager) Start(ctx context.Context, courseID, userID, locale string) (View, error) {
	c, err := m.courses.GetAdmin(ctx, courseID)
	if err != nil {
		return View{}, err
	}
	if len(c.Questions) == 0 {
		return View{}, errors.New("course has no questions")
	}
	s := &session{
		id:       uuid.NewString(),
		userID:   userID,
		locale:   locale,
		course:   c,
		status:   StatusInProgress,
		started:  m.now(),
		answered: make([]bool, len(c.Questions)),
		correct:  make([]bool, len(c.Questions)),
	}
	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	return m.view(s), nil
}

// Validate reports whether the current question's in-progress input is
// complete enough to submit. Pure with respect to session state; safe to
// call on every keystroke.
func (m *Manager) Validate(sessionID, userID string, ans course.Answer) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.get(sessionID, userID)
	if err != nil {
		return false, err
	}
	if s.status == StatusFinished {
		return false, ErrFinished
	}
	return quiz.IsAnswerValid(s.course.Questions[s.index], ans), nil
}

// Check grades the current question's answer. One-shot: the transition
// Unanswered -> Answered happens at most once per question, and only when
// the validator accepts the payload.
func (m *Manager) Check(ctx context.Context, sessionID, userID string, ans course.Answer) (CheckResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.get(sessionID, userID)
	if err != nil {
		return CheckResult{}, err
	}
	if s.status == StatusFinished {
		return CheckResult{}, ErrFinished
	}
	if s.answered[s.index] {
		return CheckResult{}, ErrAlreadyAnswered
	}
	q := s.course.Questions[s.index]
	if !quiz.IsAnswerValid(q, ans) {
		return CheckResult{}, ErrInvalidAnswer
	}

	correct := quiz.CheckAnswer(q, ans)
	s.answered[s.index] = true
	s.correct[s.index] = correct
	if correct {
		s.score++
	}

	res := CheckResult{
		Correct:      correct,
		Score:        s.score,
		LastQuestion: s.index == len(s.course.Questions)-1,
	}
	if q.Type == course.TypeMCQ {
		res.OptionStatus = optionStatuses(q, ans.SelectedOptionID)
	}
	return res, nil
}

// Advance moves to the next question after an answer was checked, resetting
// the per-question input state implicitly (the server holds none). On the
// last question it enters Finished instead and records the completion
// exactly once.
func (m *Manager) Advance(ctx context.Context, sessionID, userID string) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.get(sessionID, userID)
	if err != nil {
		return View{}, err
	}
	if s.status == StatusFinished {
		return View{}, ErrFinished
	}
	if !s.answered[s.index] {
		return View{}, ErrNotAnswered
	}
	if s.index < len(s.course.Questions)-1 {
		s.index++
		return m.view(s), nil
	}
	m.finish(ctx, s)
	return m.view(s), nil
}

// finish enters the summary state and invokes the aggregator once.
// Persistence failures are logged and swallowed: the summary the learner
// sees is already computed in memory.
func (m *Manager) finish(ctx context.Context, s *session) {
	s.status = StatusFinished
	s.elapsed = int(m.now().Sub(s.started) / time.Second)
	if s.recorded {
		return
	}
	s.recorded = true
	if err := m.agg.RecordCompletion(ctx, s.userID, s.course, s.score, s.elapsed, s.locale); err != nil {
		log.Printf("player: record completion for user %s course %s: %v", s.userID, s.course.ID, err)
	}
	if m.events != nil {
		data, _ := json.Marshal(map[string]any{
			"user_id":   s.userID,
			"course_id": s.course.ID,
			"score":     s.score,
			"total":     len(s.course.Questions),
		})
		if err := m.events.Append(ctx, syncx.Event{Type: syncx.EventCourseCompleted, Key: s.id, DataJSON: string(data)}); err != nil {
			log.Printf("player: append event: %v", err)
		}
	}
}

func (m *Manager) Get(sessionID, userID string) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.get(sessionID, userID)
	if err != nil {
		return View{}, err
	}
	return m.view(s), nil
}

func (m *Manager) Summary(sessionID, userID string) (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.get(sessionID, userID)
	if err != nil {
		return Summary{}, err
	}
	if s.status != StatusFinished {
		return Summary{}, errors.New("session still in progress")
	}
	total := len(s.course.Questions)
	pct := float64(s.score) / float64(total) * 100
	return Summary{
		Score:          s.score,
		TotalQuestions: total,
		Grade:          quiz.CalculateGrade(pct, s.locale),
		ElapsedSec:     s.elapsed,
	}, nil
}

// End drops the session (summary -> exit, or abandonment). No mutation
// beyond forgetting the in-memory state.
func (m *Manager) End(sessionID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.get(sessionID, userID); err != nil {
		return err
	}
	delete(m.sessions, sessionID)
	return nil
}

func (m *Manager) get(sessionID, userID string) (*session, error) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	if userID != "" && s.userID != userID {
		return nil, ErrForbidden
	}
	return s, nil
}

func (m *Manager) view(s *session) View {
	v := View{
		ID:              s.id,
		CourseID:        s.course.ID,
		CourseTitle:     s.course.Title,
		Status:          s.status,
		QuestionIndex:   s.index,
		TotalQuestions:  len(s.course.Questions),
		Score:           s.score,
		Answered:        s.answered[s.index],
		FeedbackDelayMS: int(m.feedbackDelay / time.Millisecond),
	}
	if s.status == StatusInProgress {
		q := s.course.Questions[s.index].LearnerView()
		v.Question = &q
	}
	return v
}

// optionStatuses styles every mcq option after a check: the correct option
// is revealed, a wrong selection is marked incorrect.
func optionStatuses(q course.Question, selectedID string) map[string]OptionStatus {
	out := make(map[string]OptionStatus, len(q.Options))
	for _, o := range q.Options {
		switch {
		case o.Correct:
			out[o.ID] = OptionCorrect
		case o.ID == selectedID:
			out[o.ID] = OptionIncorrect
		default:
			out[o.ID] = OptionDefault
		}
	}
	return out
}
