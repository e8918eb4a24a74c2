package course

import (
	"fmt"
	"strings"
)

// Question types routed through the auto-checker.
const (
	TypeMCQ                = "mcq"
	TypeSTI                = "sti" // smart text input
	TypeAlgEquation        = "alg_equation"
	TypeSentenceCorrection = "sentence_correction"
)

// Editor-only extensions: stored and served, never auto-checked.
const (
	TypeHighlightText  = "highlight_text"
	TypeHighlightError = "highlight_error"
	TypeSentenceOrder  = "sentence_order"
)

// STI evaluation modes.
const (
	EvalCaseInsensitive = "case-insensitive"
	EvalExactMatch      = "exact-match"
)

type Option struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct,omitempty"`
}

// Question is a tagged union discriminated by Type; only the fields
// belonging to the tag are meaningful.
type Question struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Prompt string `json:"prompt"`

	Options []Option `json:"options,omitempty"` // mcq

	Accepted []string `json:"accepted,omitempty"`  // sti
	EvalMode string   `json:"eval_mode,omitempty"` // sti: case-insensitive|exact-match

	Equation  string   `json:"equation,omitempty"`  // alg_equation, exactly one '='
	Variables []string `json:"variables,omitempty"` // alg_equation

	Sentence  string `json:"sentence,omitempty"`  // sentence_correction: contains the mistake
	Corrected string `json:"corrected,omitempty"` // sentence_correction: the accepted fix
}

// Answer is the learner's current input for one question, narrowed by the
// question's type tag.
type Answer struct {
	Type             string            `json:"type"`
	SelectedOptionID string            `json:"selected_option_id,omitempty"` // mcq
	Text             string            `json:"text,omitempty"`               // sti, sentence_correction
	Variables        map[string]string `json:"variables,omitempty"`          // alg_equation
}

type Course struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Subject   string     `json:"subject"`
	Audience  string     `json:"audience,omitempty"` // e.g. "grade 5-7"
	Questions []Question `json:"questions"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

// Subjects is the closed set accepted at authoring time.
var Subjects = map[string]bool{
	"math":    true,
	"german":  true,
	"english": true,
	"science": true,
	"history": true,
}

// Validate enforces authoring-time invariants: known subject, non-empty
// question list, exactly one correct mcq option, equation questions whose
// declared variables actually appear in the equation text.
func (c Course) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("course title required")
	}
	if !Subjects[c.Subject] {
		return fmt.Errorf("unknown subject %q", c.Subject)
	}
	if len(c.Questions) == 0 {
		return fmt.Errorf("course needs at least one question")
	}
	for i, q := range c.Questions {
		if err := q.validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

func (q Question) validate() error {
	switch q.Type {
	case TypeMCQ:
		correct := 0
		for _, o := range q.Options {
			if o.Correct {
				correct++
			}
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("mcq needs at least two options")
		}
		if correct != 1 {
			return fmt.Errorf("mcq needs exactly one correct option, got %d", correct)
		}
	case TypeSTI:
		if len(q.Accepted) == 0 {
			return fmt.Errorf("sti needs at least one accepted answer")
		}
		if q.EvalMode != EvalCaseInsensitive && q.EvalMode != EvalExactMatch {
			return fmt.Errorf("sti eval_mode must be %s or %s", EvalCaseInsensitive, EvalExactMatch)
		}
	case TypeAlgEquation:
		if strings.Count(q.Equation, "=") != 1 {
			return fmt.Errorf("equation must contain exactly one '='")
		}
		if len(q.Variables) == 0 {
			return fmt.Errorf("equation question needs at least one variable")
		}
		for _, v := range q.Variables {
			if !strings.Contains(q.Equation, v) {
				return fmt.Errorf("variable %q does not appear in equation", v)
			}
		}
	case TypeSentenceCorrection:
		if strings.TrimSpace(q.Sentence) == "" || strings.TrimSpace(q.Corrected) == "" {
			return fmt.Errorf("sentence correction needs sentence and corrected text")
		}
	case TypeHighlightText, TypeHighlightError, TypeSentenceOrder:
		// editor-only extensions, no authoring invariants yet
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	return nil
}

// LearnerView strips answer keys so the payload is safe to serve to a
// learner mid-session (parity with admin view handled by the store).
func (c Course) LearnerView() Course {
	out := c
	out.Questions = make([]Question, len(c.Questions))
	for i, q := range c.Questions {
		out.Questions[i] = q.LearnerView()
	}
	return out
}

// LearnerView strips a single question's answer key.
func (q Question) LearnerView() Question {
	switch q.Type {
	case TypeMCQ:
		opts := make([]Option, len(q.Options))
		for i, o := range q.Options {
			opts[i] = Option{ID: o.ID, Text: o.Text}
		}
		q.Options = opts
	case TypeSTI:
		q.Accepted = nil
	case TypeSentenceCorrection:
		q.Corrected = ""
	}
	return q
}
