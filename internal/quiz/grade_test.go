package quiz

import "testing"

func TestCalculateGradeBoundaries(t *testing.T) {
	cases := []struct {
		pct    float64
		locale string
		want   Grade
	}{
		{100, "en", "A"},
		{93, "en", "A"},
		{92.999, "en", "B"},
		{85, "en", "B"},
		{75, "en", "C"},
		{65, "en", "D"},
		{64.999, "en", "F"},
		{0, "en", "F"},

		{100, "de", "1"},
		{92, "de", "1"},
		{91.999, "de", "2"},
		{81, "de", "2"},
		{67, "de", "3"},
		{50, "de", "4"},
		{23, "de", "5"},
		{22.999, "de", "6"},
		{0, "de", "6"},

		// unknown locales fall back to the english bands
		{93, "fr", "A"},
		// out-of-range values fall through to the lowest band
		{-5, "en", "F"},
	}
	for _, tc := range cases {
		if got := CalculateGrade(tc.pct, tc.locale); got != tc.want {
			t.Fatalf("CalculateGrade(%v, %q) = %q, want %q", tc.pct, tc.locale, got, tc.want)
		}
	}
}

func TestGradeRankOrdersBothAlphabets(t *testing.T) {
	if GradeRank("A") != GradeRank("1") {
		t.Fatalf("A and 1 must share rank 1")
	}
	if GradeRank("F") != 5 || GradeRank("5") != 5 {
		t.Fatalf("F and 5 must share rank 5")
	}
	if GradeRank("6") != 6 {
		t.Fatalf("6 is the lowest german grade")
	}
	if GradeRank("Z") != 0 {
		t.Fatalf("unknown grades rank 0")
	}
	if !(GradeRank("A") < GradeRank("B") && GradeRank("B") < GradeRank("C")) {
		t.Fatalf("ranks must be ordered best-first")
	}
}
