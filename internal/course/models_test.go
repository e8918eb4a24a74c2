package course

import (
	"context"
	"testing"
)

func validCourse() Course {
	return Course{
		ID:      "c1",
		Title:   "Equations 101",
		Subject: "math",
		Questions: []Question{
			{
				ID:   "q1",
				Type: TypeMCQ,
				Options: []Option{
					{ID: "a", Text: "1"},
					{ID: "b", Text: "2", Correct: true},
				},
			},
			{
				ID:       "q2",
				Type:     TypeSTI,
				Accepted: []string{"Paris"},
				EvalMode: EvalCaseInsensitive,
			},
			{
				ID:        "q3",
				Type:      TypeAlgEquation,
				Equation:  "2x + 3 = 11",
				Variables: []string{"x"},
			},
			{
				ID:        "q4",
				Type:      TypeSentenceCorrection,
				Sentence:  "He go home.",
				Corrected: "He goes home.",
			},
		},
	}
}

func TestCourseValidate(t *testing.T) {
	if err := validCourse().Validate(); err != nil {
		t.Fatalf("valid course rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Course)
	}{
		{"empty title", func(c *Course) { c.Title = " " }},
		{"unknown subject", func(c *Course) { c.Subject = "astrology" }},
		{"no questions", func(c *Course) { c.Questions = nil }},
		{"mcq no correct option", func(c *Course) { c.Questions[0].Options[1].Correct = false }},
		{"mcq two correct options", func(c *Course) { c.Questions[0].Options[0].Correct = true }},
		{"sti no accepted answers", func(c *Course) { c.Questions[1].Accepted = nil }},
		{"sti bad eval mode", func(c *Course) { c.Questions[1].EvalMode = "fuzzy" }},
		{"equation without equals", func(c *Course) { c.Questions[2].Equation = "2x + 3" }},
		{"equation variable not present", func(c *Course) { c.Questions[2].Variables = []string{"y"} }},
		{"equation no variables", func(c *Course) { c.Questions[2].Variables = nil }},
		{"sentence correction empty", func(c *Course) { c.Questions[3].Corrected = "" }},
		{"unknown type", func(c *Course) { c.Questions[0] = Question{Type: "cloze"} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validCourse()
			tc.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLearnerViewStripsAnswerKeys(t *testing.T) {
	v := validCourse().LearnerView()
	for _, o := range v.Questions[0].Options {
		if o.Correct {
			t.Fatalf("mcq key leaked")
		}
	}
	if v.Questions[1].Accepted != nil {
		t.Fatalf("sti accepted answers leaked")
	}
	if v.Questions[3].Corrected != "" {
		t.Fatalf("corrected sentence leaked")
	}
	// the equation itself is not a secret, the learner needs it
	if v.Questions[2].Equation == "" {
		t.Fatalf("equation must survive the learner view")
	}
}

func TestInMemoryStoreServesLearnerSafeGet(t *testing.T) {
	st := NewInMemoryStore()
	ctx := context.Background()
	if err := st.Put(ctx, validCourse()); err != nil {
		t.Fatalf("put: %v", err)
	}

	c, err := st.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	for _, o := range c.Questions[0].Options {
		if o.Correct {
			t.Fatalf("learner get must strip keys")
		}
	}

	full, err := st.GetAdmin(ctx, "c1")
	if err != nil {
		t.Fatalf("get admin: %v", err)
	}
	if !full.Questions[0].Options[1].Correct {
		t.Fatalf("admin get must keep keys")
	}

	if _, err := st.Get(ctx, "nope"); err != ErrNotFound {
		t.Fatalf("missing course must be ErrNotFound, got %v", err)
	}
}
