package quiz

import (
	"testing"

	"github.com/lernwerk/lernwerk/internal/course"
)

func TestIsAnswerValidMCQ(t *testing.T) {
	q := mcqQuestion()
	if IsAnswerValid(q, course.Answer{}) {
		t.Fatalf("no selection must be invalid")
	}
	// any selected id is valid, correctness does not matter here
	if !IsAnswerValid(q, course.Answer{SelectedOptionID: "a"}) {
		t.Fatalf("selected option must be valid")
	}
}

func TestIsAnswerValidText(t *testing.T) {
	for _, typ := range []string{course.TypeSTI, course.TypeSentenceCorrection} {
		q := course.Question{Type: typ}
		if IsAnswerValid(q, course.Answer{Text: "   "}) {
			t.Fatalf("%s: whitespace-only text must be invalid", typ)
		}
		if !IsAnswerValid(q, course.Answer{Text: "an answer"}) {
			t.Fatalf("%s: non-empty text must be valid", typ)
		}
	}
}

func TestIsAnswerValidAlgEquation(t *testing.T) {
	q := course.Question{
		Type:      course.TypeAlgEquation,
		Equation:  "x + y = 10",
		Variables: []string{"x", "y"},
	}
	cases := []struct {
		name string
		vars map[string]string
		want bool
	}{
		{"all bound numeric", map[string]string{"x": "4", "y": "6"}, true},
		{"numeric with spaces", map[string]string{"x": " 4 ", "y": "6"}, true},
		{"missing variable", map[string]string{"x": "4"}, false},
		{"non-numeric", map[string]string{"x": "4", "y": "six"}, false},
		{"empty value", map[string]string{"x": "4", "y": ""}, false},
		{"nil map", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := IsAnswerValid(q, course.Answer{Variables: tc.vars})
			if got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}

	q.Variables = nil
	if IsAnswerValid(q, course.Answer{Variables: map[string]string{"x": "1"}}) {
		t.Fatalf("equation question without declared variables must be invalid")
	}
}

func TestIsAnswerValidUnknownType(t *testing.T) {
	if IsAnswerValid(course.Question{Type: "sentence_order"}, course.Answer{Text: "x"}) {
		t.Fatalf("unknown types must be invalid")
	}
}
