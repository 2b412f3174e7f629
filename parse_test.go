package kalkulator

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		src  string
		tree string
	}{
		{"num", "1", "(1)"},
		{"real", "1.5", "(1.5)"},
		{"name", "x", "(x)"},
		{"neg", "-1", "(-(1))"},
		{"nop", "+1", "(+(1))"},
		{"add", "1+2", "((1) + (2))"},
		{"sub-left-assoc", "1-2-3", "(((1) - (2)) - (3))"},
		{"mul-binds", "1+2*3", "((1) + ((2) * (3)))"},
		{"div", "4/5", "((4) / (5))"},
		{"mod", "7%3", "((7) % (3))"},
		{"mod-binds", "1+7%3", "((1) + ((7) % (3)))"},
		{"pow-right-assoc", "2^3^2", "((2) ^ ((3) ^ (2)))"},
		{"pow-star", "2**3", "((2) ^ (3))"},
		{"pow-mixed", "2**3^2", "((2) ^ ((3) ^ (2)))"},
		{"neg-pow", "-2^2", "(-((2) ^ (2)))"},
		{"pow-neg-exp", "2^-1", "((2) ^ (-(1)))"},
		{"paren", "(1+2)*3", "(((1) + (2)) * (3))"},
		{"nested", "((1))", "(1)"},
		{"spaces", " ( 5 + 3 ) * 2 - 4 ^ 2 ", "((((5) + (3)) * (2)) - ((4) ^ (2)))"},
		{"double-neg", "--1", "(-(-(1)))"},
		{"sub-neg", "1--2", "((1) - (-(2)))"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(strings.NewReader(c.src))
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if s := a.String(); s != c.tree {
				t.Errorf("%q gave wrong tree:\n\twant %s\n\tgot  %s", c.src, c.tree, s)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  any
	}{
		{"empty", "", new(*EmptyExpressionError)},
		{"spaces", "   ", new(*EmptyExpressionError)},
		{"open-only", "(((", new(*BracketError)},
		{"unclosed", "(1+2", new(*BracketError)},
		{"close-only", ")", new(*BracketError)},
		{"extra-close", "1+2)", new(*BracketError)},
		{"empty-parens", "()", new(*EmptyExpressionError)},
		{"trailing-op", "5+", new(*EmptyExpressionError)},
		{"trailing-pow", "5 **", new(*EmptyExpressionError)},
		{"leading-binop", "* 5", new(*OperatorError)},
		{"double-op", "5 * * 4", new(*OperatorError)},
		{"adjacent-nums", "2 3", new(*AdjacentTermError)},
		{"adjacent-paren", "2(3)", new(*AdjacentTermError)},
		{"adjacent-ident", "1 if 2", new(*AdjacentTermError)},
		{"call", "__import__('os')", nil},
		{"list", "[1,2,3]", new(*LexError)},
		{"bad-number", "1.1.1", new(*LexError)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(c.src))
			if err == nil {
				t.Fatalf("%q parsed but should not have", c.src)
			}
			var ie InputError
			if !errors.As(err, &ie) {
				t.Errorf("%q error %#v is not an InputError", c.src, err)
			}
			if c.err == nil {
				return
			}
			// c.err is a pointer to a pointer to the concrete error type.
			if !errors.As(err, c.err) {
				t.Errorf("%q error %#v is not a %v", c.src, err, reflect.TypeOf(c.err).Elem())
			}
		})
	}
}

func TestParseDepth(t *testing.T) {
	deep := strings.Repeat("(", 300) + "1" + strings.Repeat(")", 300)
	_, err := Parse(strings.NewReader(deep))
	var de *DepthError
	if !errors.As(err, &de) {
		t.Fatalf("parsing deep nesting gave %v, not *DepthError", err)
	}
	if de.Limit != DefaultMaxDepth {
		t.Errorf("depth error reports limit %d, want %d", de.Limit, DefaultMaxDepth)
	}

	ok := strings.Repeat("(", 100) + "1" + strings.Repeat(")", 100)
	if _, err := Parse(strings.NewReader(ok)); err != nil {
		t.Errorf("parsing nesting inside the limit failed: %v", err)
	}

	if _, err := Parse(strings.NewReader("((1))"), MaxDepth(1)); err == nil {
		t.Error("MaxDepth(1) did not reject nested input")
	}
	if _, err := Parse(strings.NewReader("1+1"), MaxDepth(1)); err != nil {
		t.Errorf("MaxDepth(1) rejected flat input: %v", err)
	}
}

func TestParseStopOn(t *testing.T) {
	src := strings.NewReader("1+2\n3*4")
	a, err := Parse(src, StopOn('\n'))
	if err != nil {
		t.Fatalf("first line failed to parse: %v", err)
	}
	if s := a.String(); s != "((1) + (2))" {
		t.Errorf("first line gave wrong tree: %s", s)
	}
	b, err := Parse(src, StopOn('\n'))
	if err != nil {
		t.Fatalf("second line failed to parse: %v", err)
	}
	if s := b.String(); s != "((3) * (4))" {
		t.Errorf("second line gave wrong tree: %s", s)
	}
}

func TestVars(t *testing.T) {
	cases := []struct {
		name string
		src  string
		vars []string
	}{
		{"none", "1+2+3", nil},
		{"one", "1+2+x", []string{"x"}},
		{"sort", "z+y+x+w+v", []string{"v", "w", "x", "y", "z"}},
		{"reuse", "a+b+c+b+a", []string{"a", "b", "c"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(strings.NewReader(c.src))
			if err != nil {
				t.Fatalf("%q didn't parse: %v", c.src, err)
			}
			vars := a.Vars()
			if !reflect.DeepEqual(vars, c.vars) {
				t.Errorf("%q gave wrong variable names:\n\twant %q\n\tgot  %q", c.src, c.vars, vars)
			}
		})
	}
}

func TestOpPrecsExist(t *testing.T) {
	for _, r := range Operators {
		b := binop(string(r))
		u := unop(string(r))
		if b.op == nodeNone && u.op == nodeNone {
			t.Errorf("no operator for %c", r)
		}
	}
	if binop("**").op != nodePow {
		t.Error("** is not exponentiation")
	}
}
