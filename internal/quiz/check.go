package quiz

import (
	"strings"

	"github.com/lernwerk/lernwerk/internal/course"
)

// checkFunc decides correctness for one question type.
type checkFunc func(q course.Question, a course.Answer) bool

var checkers = map[string]checkFunc{
	course.TypeMCQ:                checkMCQ,
	course.TypeSTI:                checkSTI,
	course.TypeAlgEquation:        checkAlgEquation,
	course.TypeSentenceCorrection: checkSentenceCorrection,
}

// CheckAnswer reports whether the submitted answer is correct. Types without
// a checker (editor-only extensions, corrupt data) are incorrect.
func CheckAnswer(q course.Question, a course.Answer) bool {
	c, ok := checkers[q.Type]
	if !ok {
		return false
	}
	return c(q, a)
}

func checkMCQ(q course.Question, a course.Answer) bool {
	for _, o := range q.Options {
		if o.Correct {
			return o.ID == a.SelectedOptionID
		}
	}
	// no option flagged correct: nothing can match
	return false
}

func checkSTI(q course.Question, a course.Answer) bool {
	got := strings.TrimSpace(a.Text)
	for _, want := range q.Accepted {
		want = strings.TrimSpace(want)
		if q.EvalMode == course.EvalCaseInsensitive {
			if strings.EqualFold(got, want) {
				return true
			}
		} else if got == want {
			return true
		}
	}
	return false
}

func checkAlgEquation(q course.Question, a course.Answer) bool {
	return EvaluateEquation(q.Equation, a.Variables)
}

func checkSentenceCorrection(q course.Question, a course.Answer) bool {
	return strings.TrimSpace(a.Text) == strings.TrimSpace(q.Corrected)
}
