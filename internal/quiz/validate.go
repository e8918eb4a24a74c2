package quiz

import (
	"math"
	"strconv"
	"strings"

	"github.com/lernwerk/lernwerk/internal/course"
)

// IsAnswerValid reports whether the learner's current input is complete
// enough to submit. It gates the check action in the UI and is safe to call
// on every keystroke. Unknown question types are never valid.
func IsAnswerValid(q course.Question, a course.Answer) bool {
	switch q.Type {
	case course.TypeMCQ:
		return a.SelectedOptionID != ""
	case course.TypeSTI, course.TypeSentenceCorrection:
		return strings.TrimSpace(a.Text) != ""
	case course.TypeAlgEquation:
		if len(q.Variables) == 0 {
			return false
		}
		for _, name := range q.Variables {
			raw, ok := a.Variables[name]
			if !ok {
				return false
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
