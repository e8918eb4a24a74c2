package quiz

import (
	"testing"

	"github.com/lernwerk/lernwerk/internal/course"
)

func mcqQuestion() course.Question {
	return course.Question{
		ID:   "q1",
		Type: course.TypeMCQ,
		Options: []course.Option{
			{ID: "a", Text: "Berlin"},
			{ID: "b", Text: "Paris", Correct: true},
			{ID: "c", Text: "Rome"},
		},
	}
}

func TestCheckAnswerMCQ(t *testing.T) {
	q := mcqQuestion()
	if !CheckAnswer(q, course.Answer{Type: course.TypeMCQ, SelectedOptionID: "b"}) {
		t.Fatalf("expected correct option to match")
	}
	if CheckAnswer(q, course.Answer{Type: course.TypeMCQ, SelectedOptionID: "a"}) {
		t.Fatalf("expected wrong option to fail")
	}

	// no option flagged correct: nothing matches
	for i := range q.Options {
		q.Options[i].Correct = false
	}
	if CheckAnswer(q, course.Answer{Type: course.TypeMCQ, SelectedOptionID: "b"}) {
		t.Fatalf("expected false when no option is flagged correct")
	}
}

func TestCheckAnswerSTI(t *testing.T) {
	q := course.Question{
		Type:     course.TypeSTI,
		Accepted: []string{"Paris"},
		EvalMode: course.EvalCaseInsensitive,
	}
	if !CheckAnswer(q, course.Answer{Text: "paris"}) {
		t.Fatalf("case-insensitive mode should accept different casing")
	}
	if !CheckAnswer(q, course.Answer{Text: "  Paris  "}) {
		t.Fatalf("surrounding whitespace should be trimmed")
	}

	q.EvalMode = course.EvalExactMatch
	if CheckAnswer(q, course.Answer{Text: "paris"}) {
		t.Fatalf("exact-match mode should reject different casing")
	}
	if !CheckAnswer(q, course.Answer{Text: "Paris"}) {
		t.Fatalf("exact-match mode should accept exact text")
	}

	q.Accepted = []string{"Paris", "City of Light"}
	if !CheckAnswer(q, course.Answer{Text: "City of Light"}) {
		t.Fatalf("any accepted answer should match")
	}
}

func TestCheckAnswerAlgEquation(t *testing.T) {
	q := course.Question{
		Type:      course.TypeAlgEquation,
		Equation:  "2x + 3 = 11",
		Variables: []string{"x"},
	}
	if !CheckAnswer(q, course.Answer{Variables: map[string]string{"x": "4"}}) {
		t.Fatalf("x=4 solves 2x+3=11")
	}
	if CheckAnswer(q, course.Answer{Variables: map[string]string{"x": "3"}}) {
		t.Fatalf("x=3 does not solve 2x+3=11")
	}
	if CheckAnswer(q, course.Answer{Variables: nil}) {
		t.Fatalf("missing bindings must fail closed")
	}
}

func TestCheckAnswerSentenceCorrection(t *testing.T) {
	q := course.Question{
		Type:      course.TypeSentenceCorrection,
		Sentence:  "He go to school.",
		Corrected: "He goes to school.",
	}
	if !CheckAnswer(q, course.Answer{Text: "He goes to school."}) {
		t.Fatalf("exact corrected sentence should match")
	}
	if !CheckAnswer(q, course.Answer{Text: "  He goes to school.  "}) {
		t.Fatalf("trimmed corrected sentence should match")
	}
	if CheckAnswer(q, course.Answer{Text: "he goes to school."}) {
		t.Fatalf("sentence correction is case-sensitive")
	}
}

func TestCheckAnswerUnknownType(t *testing.T) {
	q := course.Question{Type: course.TypeHighlightText}
	if CheckAnswer(q, course.Answer{Text: "anything"}) {
		t.Fatalf("unhandled types must be incorrect")
	}
}
