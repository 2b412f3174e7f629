package kalkulator

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// identityTol is the tolerance for deciding that an equation with no free
// variable holds identically.
const identityTol = 1e-9

// SolutionKind classifies the outcome of solving an equation.
type SolutionKind int

const (
	// HasRoots indicates a finite set of roots, in Exact and Approx.
	HasRoots SolutionKind = iota
	// Identity indicates the equation holds for every value.
	Identity
	// NoSolution indicates no real value satisfies the equation.
	NoSolution
)

func (k SolutionKind) String() string {
	switch k {
	case HasRoots:
		return "HasRoots"
	case Identity:
		return "Identity"
	case NoSolution:
		return "NoSolution"
	default:
		return "SolutionKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Solution is the outcome of solving an equation.
type Solution struct {
	// Var is the variable solved for, or the empty string when the equation
	// has no variable.
	Var string
	// Kind tells whether the equation has roots, holds identically, or has
	// no solution.
	Kind SolutionKind
	// Exact holds the roots representable as exact rationals.
	Exact []*big.Rat
	// Approx holds the roots only available in floating point, e.g.
	// irrational roots of a quadratic.
	Approx []float64
}

// String renders the solution as text, e.g. "x = 6" or "x = 3 or x = 2".
func (s *Solution) String() string {
	switch s.Kind {
	case Identity:
		if s.Var == "" {
			return "identically true"
		}
		return "identically true: every " + s.Var + " is a solution"
	case NoSolution:
		return "no solution"
	}
	var b strings.Builder
	for _, r := range s.Exact {
		if b.Len() > 0 {
			b.WriteString(" or ")
		}
		b.WriteString(s.Var + " = " + ratstr(r))
	}
	for _, f := range s.Approx {
		if b.Len() > 0 {
			b.WriteString(" or ")
		}
		b.WriteString(s.Var + " = " + strconv.FormatFloat(f, 'g', -1, 64))
	}
	return b.String()
}

// ratstr renders a rational, preferring integer form.
func ratstr(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	return r.RatString()
}

// SolveEquation solves an equation of the form "lhs = rhs" where both sides
// are arithmetic expressions over at most one variable. Each side is parsed
// with the same restricted grammar as Evaluate, folded into a univariate
// polynomial with exact rational coefficients, and solved up to degree two.
// With no variable present the two sides are compared numerically within a
// tolerance of 1e-9.
func SolveEquation(input string) (*Solution, error) {
	if n := strings.Count(input, "="); n != 1 {
		return nil, &EqualsError{Count: n}
	}
	ls, rs, _ := strings.Cut(input, "=")
	le, err := Parse(strings.NewReader(ls))
	if err != nil {
		return nil, err
	}
	re, err := Parse(strings.NewReader(rs))
	if err != nil {
		return nil, err
	}
	vars := le.Vars()
	for _, v := range re.Vars() {
		seen := false
		for _, u := range vars {
			if u == v {
				seen = true
				break
			}
		}
		if !seen {
			vars = append(vars, v)
		}
	}
	if len(vars) > 1 {
		sortstrs(vars)
		return nil, &MultiVarError{Names: vars}
	}
	if len(vars) == 0 {
		return solveConstant(le, re)
	}
	lp, err := le.n.poly()
	if err != nil {
		return nil, err
	}
	rp, err := re.n.poly()
	if err != nil {
		return nil, err
	}
	return solvePoly(vars[0], lp.sub(rp))
}

// solveConstant decides an equation with no free variable by evaluating both
// sides and comparing within identityTol.
func solveConstant(le, re *Expr) (*Solution, error) {
	lctx := NewContext()
	lv := lctx.Eval(le)
	if err := lctx.Err(); err != nil {
		return nil, err
	}
	rctx := NewContext()
	rv := rctx.Eval(re)
	if err := rctx.Err(); err != nil {
		return nil, err
	}
	diff := new(big.Float).Sub(lv, rv)
	diff.Abs(diff)
	if diff.Cmp(big.NewFloat(identityTol)) < 0 {
		return &Solution{Kind: Identity}, nil
	}
	return &Solution{Kind: NoSolution}, nil
}

// solvePoly solves a univariate polynomial equation p = 0.
func solvePoly(vr string, p poly) (*Solution, error) {
	deg := p.degree()
	switch deg {
	case -1:
		// Every coefficient cancelled, e.g. "x = x".
		return &Solution{Var: vr, Kind: Identity}, nil
	case 0:
		// Nonzero constant remains, e.g. "x + 1 = x".
		return &Solution{Var: vr, Kind: NoSolution}, nil
	case 1:
		// c1*v + c0 = 0  =>  v = -c0/c1
		root := new(big.Rat).Neg(p.coeff(0))
		root.Quo(root, p.coeff(1))
		return &Solution{Var: vr, Kind: HasRoots, Exact: []*big.Rat{root}}, nil
	case 2:
		return solveQuadratic(vr, p.coeff(2), p.coeff(1), p.coeff(0)), nil
	default:
		return nil, &DegreeError{Degree: deg}
	}
}

// solveQuadratic solves a*v^2 + b*v + c = 0 with a != 0. Roots with a
// rational square-root discriminant stay exact; the rest fall back to
// floating point.
func solveQuadratic(vr string, a, b, c *big.Rat) *Solution {
	// disc = b^2 - 4ac
	disc := new(big.Rat).Mul(b, b)
	disc.Sub(disc, new(big.Rat).Mul(new(big.Rat).Mul(big.NewRat(4, 1), a), c))
	switch disc.Sign() {
	case -1:
		return &Solution{Var: vr, Kind: NoSolution}
	case 0:
		root := new(big.Rat).Neg(b)
		root.Quo(root, new(big.Rat).Mul(big.NewRat(2, 1), a))
		return &Solution{Var: vr, Kind: HasRoots, Exact: []*big.Rat{root}}
	}
	if sd, ok := ratSqrt(disc); ok {
		twoA := new(big.Rat).Mul(big.NewRat(2, 1), a)
		negB := new(big.Rat).Neg(b)
		r1 := new(big.Rat).Add(negB, sd)
		r1.Quo(r1, twoA)
		r2 := new(big.Rat).Sub(negB, sd)
		r2.Quo(r2, twoA)
		return &Solution{Var: vr, Kind: HasRoots, Exact: []*big.Rat{r1, r2}}
	}
	af, _ := a.Float64()
	bf, _ := b.Float64()
	df, _ := disc.Float64()
	sq := math.Sqrt(df)
	return &Solution{Var: vr, Kind: HasRoots, Approx: []float64{
		(-bf + sq) / (2 * af),
		(-bf - sq) / (2 * af),
	}}
}

// ratSqrt returns the exact square root of a nonnegative rational if both
// numerator and denominator are perfect squares.
func ratSqrt(r *big.Rat) (*big.Rat, bool) {
	sn := new(big.Int).Sqrt(r.Num())
	if new(big.Int).Mul(sn, sn).Cmp(r.Num()) != 0 {
		return nil, false
	}
	sd := new(big.Int).Sqrt(r.Denom())
	if new(big.Int).Mul(sd, sd).Cmp(r.Denom()) != 0 {
		return nil, false
	}
	return new(big.Rat).SetFrac(sn, sd), true
}

// maxPolyExp bounds integer exponents during polynomial folding so that a
// small input cannot demand an enormous expansion.
const maxPolyExp = 64

// poly is a univariate polynomial as a map from degree to coefficient.
// Missing degrees have coefficient zero.
type poly map[int]*big.Rat

func (p poly) coeff(deg int) *big.Rat {
	if c := p[deg]; c != nil {
		return c
	}
	return new(big.Rat)
}

// degree returns the largest degree with a nonzero coefficient, or -1 for
// the zero polynomial.
func (p poly) degree() int {
	deg := -1
	for d, c := range p {
		if c.Sign() != 0 && d > deg {
			deg = d
		}
	}
	return deg
}

// isConst reports whether p has no variable part, and returns its constant
// term if so.
func (p poly) isConst() (*big.Rat, bool) {
	if p.degree() > 0 {
		return nil, false
	}
	return p.coeff(0), true
}

func (p poly) add(q poly) poly {
	r := poly{}
	for d, c := range p {
		r[d] = new(big.Rat).Set(c)
	}
	for d, c := range q {
		if rc := r[d]; rc != nil {
			rc.Add(rc, c)
		} else {
			r[d] = new(big.Rat).Set(c)
		}
	}
	return r
}

func (p poly) neg() poly {
	r := poly{}
	for d, c := range p {
		r[d] = new(big.Rat).Neg(c)
	}
	return r
}

func (p poly) sub(q poly) poly {
	return p.add(q.neg())
}

func (p poly) mul(q poly) poly {
	r := poly{}
	for dp, cp := range p {
		if cp.Sign() == 0 {
			continue
		}
		for dq, cq := range q {
			if cq.Sign() == 0 {
				continue
			}
			t := new(big.Rat).Mul(cp, cq)
			if rc := r[dp+dq]; rc != nil {
				rc.Add(rc, t)
			} else {
				r[dp+dq] = t
			}
		}
	}
	return r
}

// scale multiplies every coefficient by k.
func (p poly) scale(k *big.Rat) poly {
	r := poly{}
	for d, c := range p {
		r[d] = new(big.Rat).Mul(c, k)
	}
	return r
}

// poly folds an AST into a univariate polynomial with exact rational
// coefficients. The caller has already checked that at most one distinct
// variable occurs, so variable references need no name bookkeeping. Shapes
// with no polynomial form, like dividing by the variable or raising it to a
// fractional power, produce a NonPolynomialError.
func (n *node) poly() (poly, error) {
	switch n.kind {
	case nodeNum:
		r, ok := new(big.Rat).SetString(n.name)
		if !ok {
			return nil, &NonPolynomialError{Reason: "literal " + strconv.Quote(n.name) + " has no exact rational form"}
		}
		return poly{0: r}, nil
	case nodeName:
		return poly{1: big.NewRat(1, 1)}, nil
	case nodeNeg:
		p, err := n.left.poly()
		if err != nil {
			return nil, err
		}
		return p.neg(), nil
	case nodeNop:
		return n.left.poly()
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		l, err := n.left.poly()
		if err != nil {
			return nil, err
		}
		r, err := n.right.poly()
		if err != nil {
			return nil, err
		}
		return combine(n.kind, l, r)
	default:
		panic("kalkulator: invalid AST node " + n.kind.String())
	}
}

func combine(kind nodeKind, l, r poly) (poly, error) {
	switch kind {
	case nodeAdd:
		return l.add(r), nil
	case nodeSub:
		return l.sub(r), nil
	case nodeMul:
		return l.mul(r), nil
	case nodeDiv:
		c, ok := r.isConst()
		if !ok {
			return nil, &NonPolynomialError{Reason: "division by an expression containing the variable"}
		}
		if c.Sign() == 0 {
			return nil, &NonPolynomialError{Reason: "division by zero"}
		}
		return l.scale(new(big.Rat).Inv(c)), nil
	case nodeMod:
		lc, lok := l.isConst()
		rc, rok := r.isConst()
		if !lok || !rok {
			return nil, &NonPolynomialError{Reason: "modulo involving the variable"}
		}
		if rc.Sign() == 0 {
			return nil, &NonPolynomialError{Reason: "modulo by zero"}
		}
		return poly{0: ratMod(lc, rc)}, nil
	case nodePow:
		e, ok := r.isConst()
		if !ok {
			return nil, &NonPolynomialError{Reason: "exponent containing the variable"}
		}
		if !e.IsInt() {
			return nil, &NonPolynomialError{Reason: "fractional exponent " + e.RatString()}
		}
		if !e.Num().IsInt64() {
			return nil, &NonPolynomialError{Reason: "exponent " + e.RatString() + " too large"}
		}
		exp := e.Num().Int64()
		if exp < 0 {
			c, cok := l.isConst()
			if !cok {
				return nil, &NonPolynomialError{Reason: "negative exponent on the variable"}
			}
			if c.Sign() == 0 {
				return nil, &NonPolynomialError{Reason: "zero raised to a negative exponent"}
			}
			return poly{0: ratPow(new(big.Rat).Inv(c), -exp)}, nil
		}
		if exp > maxPolyExp {
			return nil, &NonPolynomialError{Reason: "exponent " + e.RatString() + " too large"}
		}
		out := poly{0: big.NewRat(1, 1)}
		for i := int64(0); i < exp; i++ {
			out = out.mul(l)
		}
		return out, nil
	default:
		panic("kalkulator: invalid binary node " + kind.String())
	}
}

// ratMod computes the truncated-division remainder of two rationals.
func ratMod(a, b *big.Rat) *big.Rat {
	q := new(big.Rat).Quo(a, b)
	t := new(big.Int).Quo(q.Num(), q.Denom())
	return new(big.Rat).Sub(a, new(big.Rat).Mul(new(big.Rat).SetInt(t), b))
}

// ratPow raises a rational to a nonnegative integer power.
func ratPow(r *big.Rat, exp int64) *big.Rat {
	out := big.NewRat(1, 1)
	for i := int64(0); i < exp; i++ {
		out.Mul(out, r)
	}
	return out
}

// EqualsError indicates an equation input with the wrong number of "="
// signs.
type EqualsError struct {
	// Count is the number of "=" signs found.
	Count int
}

func (err *EqualsError) Error() string {
	if err.Count == 0 {
		return `equation must contain "="`
	}
	return `equation must contain exactly one "=", found ` + strconv.Itoa(err.Count)
}

// MultiVarError indicates an equation over more than one variable.
type MultiVarError struct {
	// Names are the distinct variable names, sorted.
	Names []string
}

func (err *MultiVarError) Error() string {
	return "equation has more than one variable: " + strings.Join(err.Names, ", ")
}

// NonPolynomialError indicates an equation side with no univariate
// polynomial form.
type NonPolynomialError struct {
	// Reason describes the shape that could not be folded.
	Reason string
}

func (err *NonPolynomialError) Error() string {
	return "not a polynomial equation: " + err.Reason
}

// DegreeError indicates a polynomial equation of higher degree than the
// solver handles.
type DegreeError struct {
	// Degree is the degree of the equation.
	Degree int
}

func (err *DegreeError) Error() string {
	return "cannot solve equations of degree " + strconv.Itoa(err.Degree)
}
