package kalkulator_test

import (
	"errors"
	"math"
	"math/big"
	"testing"

	kalk "github.com/nikolapetrovic58760-cpu/Pametni-kalkulator"
)

func ratsOf(t *testing.T, ss ...string) []*big.Rat {
	t.Helper()
	r := make([]*big.Rat, len(ss))
	for i, s := range ss {
		v, ok := new(big.Rat).SetString(s)
		if !ok {
			t.Fatalf("bad rational in test: %q", s)
		}
		r[i] = v
	}
	return r
}

func TestSolveEquation(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		vr    string
		kind  kalk.SolutionKind
		exact []string
		str   string
	}{
		{"linear", "3*x - 6 = 12", "x", kalk.HasRoots, []string{"6"}, "x = 6"},
		{"linear-both-sides", "2*x + 1 = x + 4", "x", kalk.HasRoots, []string{"3"}, "x = 3"},
		{"linear-rational", "2*x = 1", "x", kalk.HasRoots, []string{"1/2"}, "x = 1/2"},
		{"linear-div", "x/2 = 3", "x", kalk.HasRoots, []string{"6"}, "x = 6"},
		{"linear-neg", "-x = 5", "x", kalk.HasRoots, []string{"-5"}, "x = -5"},
		{"quadratic", "x**2 - 5*x + 6 = 0", "x", kalk.HasRoots, []string{"3", "2"}, "x = 3 or x = 2"},
		{"quadratic-caret", "x^2 - 5*x + 6 = 0", "x", kalk.HasRoots, []string{"3", "2"}, "x = 3 or x = 2"},
		{"quadratic-product", "(x+1)*(x-1) = 0", "x", kalk.HasRoots, []string{"1", "-1"}, "x = 1 or x = -1"},
		{"quadratic-double", "x^2 - 2*x + 1 = 0", "x", kalk.HasRoots, []string{"1"}, "x = 1"},
		{"quadratic-no-roots", "x^2 + 1 = 0", "x", kalk.NoSolution, nil, "no solution"},
		{"identity-const", "5 = 5", "", kalk.Identity, nil, "identically true"},
		{"identity-const-expr", "2 + 2 = 4", "", kalk.Identity, nil, "identically true"},
		{"no-solution-const", "5 = 6", "", kalk.NoSolution, nil, "no solution"},
		{"identity-var", "x = x", "x", kalk.Identity, nil, "identically true: every x is a solution"},
		{"identity-var-expand", "2*(x + 1) = 2*x + 2", "x", kalk.Identity, nil, "identically true: every x is a solution"},
		{"no-solution-var", "x + 1 = x", "x", kalk.NoSolution, nil, "no solution"},
		{"cancel-to-linear", "x^2 + x = x^2 + 3", "x", kalk.HasRoots, []string{"3"}, "x = 3"},
		{"other-name", "3*t - 6 = 12", "t", kalk.HasRoots, []string{"6"}, "t = 6"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := kalk.SolveEquation(c.src)
			if err != nil {
				t.Fatalf("SolveEquation(%q) failed: %v", c.src, err)
			}
			if s.Var != c.vr {
				t.Errorf("wrong variable: want %q, got %q", c.vr, s.Var)
			}
			if s.Kind != c.kind {
				t.Errorf("wrong kind: want %v, got %v", c.kind, s.Kind)
			}
			want := ratsOf(t, c.exact...)
			if len(s.Exact) != len(want) {
				t.Fatalf("wrong number of exact roots: want %v, got %v", want, s.Exact)
			}
			for i, r := range want {
				if s.Exact[i].Cmp(r) != 0 {
					t.Errorf("wrong root %d: want %v, got %v", i, r, s.Exact[i])
				}
			}
			if got := s.String(); got != c.str {
				t.Errorf("wrong rendering: want %q, got %q", c.str, got)
			}
		})
	}
}

func TestSolveEquationApprox(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    []float64
	}{
		{"sqrt2", "x^2 = 2", []float64{math.Sqrt2, -math.Sqrt2}},
		{"golden", "x^2 - x - 1 = 0", []float64{(1 + math.Sqrt(5)) / 2, (1 - math.Sqrt(5)) / 2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := kalk.SolveEquation(c.src)
			if err != nil {
				t.Fatalf("SolveEquation(%q) failed: %v", c.src, err)
			}
			if s.Kind != kalk.HasRoots {
				t.Fatalf("wrong kind: %v", s.Kind)
			}
			if len(s.Exact) != 0 {
				t.Errorf("irrational roots reported as exact: %v", s.Exact)
			}
			if len(s.Approx) != len(c.r) {
				t.Fatalf("wrong number of roots: want %v, got %v", c.r, s.Approx)
			}
			for i, r := range c.r {
				if math.Abs(s.Approx[i]-r) > 1e-9 {
					t.Errorf("wrong root %d: want %g, got %g", i, r, s.Approx[i])
				}
			}
		})
	}
}

func TestSolveEquationErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  any
	}{
		{"no-equals", "5", new(*kalk.EqualsError)},
		{"two-equals", "1=2=3", new(*kalk.EqualsError)},
		{"multivar", "x + y = 1", new(*kalk.MultiVarError)},
		{"cubic", "x^3 = 1", new(*kalk.DegreeError)},
		{"reciprocal", "1/x = 2", new(*kalk.NonPolynomialError)},
		{"exponential", "2^x = 8", new(*kalk.NonPolynomialError)},
		{"modular", "x % 2 = 1", new(*kalk.NonPolynomialError)},
		{"frac-power", "x^0.5 = 2", new(*kalk.NonPolynomialError)},
		{"div-zero", "1/0 = 1", new(*kalk.DomainError)},
		{"empty-rhs", "x =", nil},
		{"garbage", "x + = 1", nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := kalk.SolveEquation(c.src)
			if err == nil {
				t.Fatalf("SolveEquation(%q) = %v, want an error", c.src, s)
			}
			if c.err != nil && !errors.As(err, c.err) {
				t.Errorf("error %#v is not a %T", err, c.err)
			}
		})
	}
}

func TestSolveEquationEqualsCount(t *testing.T) {
	for src, n := range map[string]int{"5": 0, "1=2=3": 2, "= = =": 3} {
		_, err := kalk.SolveEquation(src)
		var ee *kalk.EqualsError
		if !errors.As(err, &ee) {
			t.Fatalf("SolveEquation(%q) error %#v is not *kalk.EqualsError", src, err)
		}
		if ee.Count != n {
			t.Errorf("SolveEquation(%q): wrong count: want %d, got %d", src, n, ee.Count)
		}
	}
}
