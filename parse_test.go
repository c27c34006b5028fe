package decicalc

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// diff finds the first in-order node of n that differs from m, or nil, nil if
// the two ASTs are equal. If any node is nodeNone, it is returned.
func (n *node) diff(m *node) (*node, *node) {
	if n == nil {
		if m != nil {
			return n, m
		}
		return nil, nil
	}
	if m == nil {
		return n, m
	}
	if n.kind == nodeNone || m.kind == nodeNone {
		return n, m
	}
	if n.kind != m.kind {
		return n, m
	}
	switch n.kind {
	case nodeNum:
		if n.name != m.name {
			return n, m
		}
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
		if d, e := n.right.diff(m.right); d != nil || e != nil {
			return d, e
		}
	case nodeNeg, nodePos:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
	default:
		panic(fmt.Errorf("invalid node kind: n=%+v m=%+v", n, m))
	}
	return nil, nil
}

func TestOpPrecsExist(t *testing.T) {
	for _, r := range Operators {
		b := binop(string(r))
		u := unop(string(r))
		if b.op == nodeNone && u.op == nodeNone {
			t.Errorf("no operator for %c", r)
		}
	}
	if binop("**") != binop("^") {
		t.Errorf("** and ^ differ: %v, %v", binop("**"), binop("^"))
	}
}

func TestPrecedenceOrder(t *testing.T) {
	// ** > unary > * / > + -
	order := []operator{binop("**"), unop("-"), binop("*"), binop("+")}
	for i := 1; i < len(order); i++ {
		if !order[i-1].moreBinding(order[i]) {
			t.Errorf("%v should bind more tightly than %v", order[i-1], order[i])
		}
	}
	if binop("-").moreBinding(binop("+")) || binop("/").moreBinding(binop("*")) {
		t.Error("+ - * / should be left-associative")
	}
	if !binop("**").moreBinding(binop("^")) {
		t.Error("** should be right-associative")
	}
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(1)", "1"},
		{"multi", "((((1))))", "1"},
		{"spaces", " 1 +\t2 ", "1+2"},

		{"plus", "+1", "(+(1))"},
		{"neg", "-1", "(-(1))"},
		{"add", "1+2", "((1)+(2))"},
		{"sub", "1-2", "((1)-(2))"},
		{"mul", "1*2", "((1)*(2))"},
		{"div", "1/2", "((1)/(2))"},
		{"pow", "1**2", "((1)**(2))"},
		{"caret", "1^2", "1**2"},

		{"add4", "1+2+3+4", "((1+2)+3)+4"},
		{"sub4", "1-2-3-4", "((1-2)-3)-4"},
		{"mul4", "1*2*3*4", "((1*2)*3)*4"},
		{"div4", "1/2/3/4", "((1/2)/3)/4"},
		{"pow4", "1**2**3**4", "1**(2**(3**4))"},
		{"mixedpow", "1^2**3", "1**(2**3)"},

		{"muladd", "2+3*4", "2+(3*4)"},
		{"negpow", "-2**2", "-(2**2)"},
		{"negmul", "-2*3", "(-2)*3"},
		{"desc", "1**2*3+4", "((1**2)*3)+4"},
		{"asc", "1+2*3**4", "1+(2*(3**4))"},
		{"ascdesc", "1+2*3**4**5*6+7", "(1+((2*(3**(4**5)))*6))+7"},
		{"parens", "(1+2)*3", "(1+2)*3"},
		{"negneg", "--1", "-(-1)"},
		{"negsub", "-1-1", "(-1)-1"},
		{"subneg", "1--1", "1-(-1)"},
		{"addplus", "1++2", "1+(+2)"},
		{"mulneg", "2*-3", "2*(-3)"},
		{"powneg", "2**-1", "2**(-1)"},
		{"pownegpow", "2**-3**-4", "2**(-(3**(-4)))"},
		{"pownegneg", "2**--3", "2**(-(-3))"},
		{"pownegmul", "2**-3*4", "(2**(-3))*4"},
		{"parenneg", "(-2)**2", "(-2)**2"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.a)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.a, err)
			}
			b, err := ParseString(c.b)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.b, err)
			}
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.a, a.n, d, c.b, b.n, e)
			}
		})
	}
}

func TestParseExact(t *testing.T) {
	cases := []struct {
		name string
		src  string
		n    *node
	}{
		{
			name: "literal-verbatim",
			src:  "007.250",
			n:    &node{kind: nodeNum, name: "007.250"},
		},
		{
			name: "neg-pow",
			src:  "-2**2",
			n: &node{
				kind: nodeNeg,
				left: &node{
					kind:  nodePow,
					left:  &node{kind: nodeNum, name: "2"},
					right: &node{kind: nodeNum, name: "2"},
				},
			},
		},
		{
			name: "sub-neg",
			src:  "1 - -0.5",
			n: &node{
				kind: nodeSub,
				left: &node{kind: nodeNum, name: "1"},
				right: &node{
					kind: nodeNeg,
					left: &node{kind: nodeNum, name: "0.5"},
				},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			d, e := a.n.diff(c.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\twant %v which has %v\n\tgot  %v which has %v from %q", c.n, e, a.n, d, c.src)
			}
		})
	}
}

func TestParseString(t *testing.T) {
	cases := []string{
		"1",
		"-1",
		"1+2*3",
		"2**3**2",
		"-(1.5-2)/(3**-2)",
		"+-+1",
	}
	for _, src := range cases {
		a, err := ParseString(src)
		if err != nil {
			t.Fatalf("%q failed to parse: %v", src, err)
		}
		s := a.String()
		b, err := ParseString(s)
		if err != nil {
			t.Fatalf("%q printed as %q, which failed to parse: %v", src, s, err)
		}
		if d, e := a.n.diff(b.n); d != nil || e != nil {
			t.Errorf("%q printed as %q, which parses to %v", src, s, b.n)
		}
	}
	a, _ := ParseString("1+2*3")
	if got, want := a.String(), "((1) + ((2) * (3)))"; got != want {
		t.Errorf("wrong string: want %q, got %q", want, got)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  interface{}
		pos  int
	}{
		{"empty", "", new(*EmptyExpressionError), 1},
		{"blank", "   \t", new(*EmptyExpressionError), 5},
		{"char", "1+a", new(*LexError), 4},
		{"comma", "1,5", new(*LexError), 3},
		{"dots", "1.2.3", new(*LexError), 5},
		{"leading-dot", ".5", new(*LexError), 2},
		{"trailing-dot", "5.", new(*LexError), 3},
		{"trailing-op", "5+", new(*EmptyExpressionError), 3},
		{"trailing-ops", "5++", new(*EmptyExpressionError), 4},
		{"trailing-pow", "5**", new(*EmptyExpressionError), 4},
		{"binary-binary", "2*/3", new(*OperatorError), 3},
		{"triple-star", "2***3", new(*OperatorError), 4},
		{"leading-binary", "*2", new(*OperatorError), 1},
		{"op-before-close", "(2+)", new(*EmptyExpressionError), 4},
		{"op-after-open", "(*2)", new(*OperatorError), 2},
		{"empty-parens", "()", new(*EmptyExpressionError), 2},
		{"unclosed", "(1+2", new(*BracketError), 5},
		{"unopened", "1+2)", new(*BracketError), 4},
		{"close-first", ")", new(*EmptyExpressionError), 1},
		{"juxtapose", "2 3", new(*MissingOperatorError), 3},
		{"implicit-mul", "2(3)", new(*MissingOperatorError), 2},
		{"paren-paren", "(2)(3)", new(*MissingOperatorError), 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if err == nil {
				t.Fatalf("%q parsed to %v", c.src, a)
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("%v does not unwrap to ErrParse", err)
			}
			if !errors.As(err, c.err) {
				t.Errorf("%q gave %#v, want %v", c.src, err, reflect.TypeOf(c.err).Elem())
			}
			var ie InputError
			if !errors.As(err, &ie) {
				t.Fatalf("%#v is not an InputError", err)
			}
			if ie.Pos() != c.pos {
				t.Errorf("%q: error %q at %d, want %d", c.src, err, ie.Pos(), c.pos)
			}
		})
	}
}

func TestParseMaxDepth(t *testing.T) {
	deep := strings.Repeat("(", 20) + "1" + strings.Repeat(")", 20)
	if _, err := ParseString(deep, MaxDepth(30)); err != nil {
		t.Errorf("depth 20 rejected with limit 30: %v", err)
	}
	_, err := ParseString(deep, MaxDepth(10))
	var de *DepthError
	if !errors.As(err, &de) {
		t.Fatalf("depth 20 with limit 10 gave %#v, not a DepthError", err)
	}
	if de.Max != 10 {
		t.Errorf("wrong limit in error: %d", de.Max)
	}
	if _, err := ParseString(deep, MaxDepth(10), MaxDepth(0)); err != nil {
		t.Errorf("limit not removed: %v", err)
	}
	negs := strings.Repeat("-", 50) + "1"
	if _, err := ParseString(negs, MaxDepth(20)); !errors.As(err, &de) {
		t.Errorf("50 unary signs with limit 20 gave %v", err)
	}
}

func TestParseStopOn(t *testing.T) {
	src := strings.NewReader("1 +\n2\n3*4\n")
	var got []string
	for i := 0; i < 2; i++ {
		a, err := Parse(src, StopOn('\n'))
		if err != nil {
			t.Fatalf("expression %d: %v", i, err)
		}
		got = append(got, a.String())
	}
	want := []string{"((1) + (2))", "((3) * (4))"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestStopOnPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("StopOn(',') did not panic")
		}
	}()
	StopOn(',')
}
