package quiz

import "testing"

func TestEvaluateEquation(t *testing.T) {
	cases := []struct {
		name     string
		equation string
		answers  map[string]string
		want     bool
	}{
		{"linear solved", "2x + 3 = 11", map[string]string{"x": "4"}, true},
		{"linear wrong", "2x + 3 = 11", map[string]string{"x": "3"}, false},
		{"implicit mul both sides", "3y = 2y + y", map[string]string{"y": "7"}, true},
		{"two variables", "a + b = 10", map[string]string{"a": "4", "b": "6"}, true},
		{"parentheses", "2*(x + 1) = 8", map[string]string{"x": "3"}, true},
		{"power", "x^2 = 16", map[string]string{"x": "4"}, true},
		{"power right assoc", "2^x^2 = 512", map[string]string{"x": "3"}, true},
		{"unary minus", "-x = 5", map[string]string{"x": "-5"}, true},
		{"precedence", "2 + 3 * 4 = 14", map[string]string{}, true},
		{"decimal binding", "2x = 5", map[string]string{"x": "2.5"}, true},
		{"binding with spaces", "x = 1", map[string]string{"x": " 1 "}, true},

		{"no equals", "2x + 3", map[string]string{"x": "4"}, false},
		{"two equals", "x = 1 = 1", map[string]string{"x": "1"}, false},
		{"empty side", "2x + 3 =", map[string]string{"x": "4"}, false},
		{"empty equation", "", nil, false},
		{"unbound variable", "2x + y = 11", map[string]string{"x": "4"}, false},
		{"non-numeric binding", "2x = 8", map[string]string{"x": "four"}, false},
		{"empty binding", "2x = 8", map[string]string{"x": ""}, false},
		{"division by zero", "1/x = 1", map[string]string{"x": "0"}, false},
		{"garbage expression", "2x ++* 3 = 11", map[string]string{"x": "4"}, false},
		{"dangling operator", "2x + = 11", map[string]string{"x": "4"}, false},
		{"unclosed paren", "(2x + 3 = 11", map[string]string{"x": "4"}, false},
		{"bare operators", "= +", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EvaluateEquation(tc.equation, tc.answers); got != tc.want {
				t.Fatalf("EvaluateEquation(%q, %v) = %v, want %v", tc.equation, tc.answers, got, tc.want)
			}
		})
	}
}

func TestEvaluateEquationNeverPanics(t *testing.T) {
	inputs := []string{"", "=", "==", "x=====y", "((((", "2x+3=11=12", ")(", "^=^", "1e309 = 1"}
	for _, in := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("EvaluateEquation(%q) panicked: %v", in, r)
				}
			}()
			EvaluateEquation(in, map[string]string{"x": "1"})
		}()
	}
}

func TestInsertImplicitMul(t *testing.T) {
	cases := map[string]string{
		"2x":        "2*x",
		"2x + 3y":   "2*x + 3*y",
		"x2":        "x2", // variable name, not a product
		"10ab":      "10*ab",
		"2 x":       "2 x", // whitespace breaks the digit/letter adjacency
		"(3)(4)":    "(3)(4)",
		"no digits": "no digits",
	}
	for in, want := range cases {
		if got := insertImplicitMul(in); got != want {
			t.Fatalf("insertImplicitMul(%q) = %q, want %q", in, got, want)
		}
	}
}
