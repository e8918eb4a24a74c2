package quiz

// Grade is a locale-specific grade symbol: "A".."F" (en) or "1".."6" (de).
type Grade string

type band struct {
	min   float64 // inclusive lower bound
	grade Grade
}

// Bands are evaluated highest-first; anything below the last bound falls
// through to the lowest grade.
var (
	bandsDE = []band{{92, "1"}, {81, "2"}, {67, "3"}, {50, "4"}, {23, "5"}}
	bandsEN = []band{{93, "A"}, {85, "B"}, {75, "C"}, {65, "D"}}
)

const (
	lowestDE Grade = "6"
	lowestEN Grade = "F"
)

// CalculateGrade maps a percentage score to the locale's grade symbol.
// Unknown locales use the English bands.
func CalculateGrade(percentage float64, locale string) Grade {
	bands, lowest := bandsEN, lowestEN
	if locale == "de" {
		bands, lowest = bandsDE, lowestDE
	}
	for _, b := range bands {
		if percentage >= b.min {
			return b.grade
		}
	}
	return lowest
}

// gradeRanks orders both alphabets on a single scale, 1 = best. Used for
// sorting mixed-locale course histories.
var gradeRanks = map[Grade]int{
	"A": 1, "1": 1,
	"B": 2, "2": 2,
	"C": 3, "3": 3,
	"D": 4, "4": 4,
	"F": 5, "5": 5,
	"6": 6,
}

// GradeRank returns the cross-locale rank of a grade, or 0 if unknown.
func GradeRank(g Grade) int { return gradeRanks[g] }
