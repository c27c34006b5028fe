package decicalc

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Errors to which every *ArithError unwraps.
var (
	ErrDivisionByZero   = errors.New("division by zero")
	ErrOverflow         = errors.New("overflow")
	ErrInvalidOperation = errors.New("invalid operation")
)

// Eval evaluates an expression and returns the result. If an error occurs,
// e.g. a division by zero or a result beyond the context's ceiling, then the
// result is nil and ctx.Err returns the error. The result belongs to the
// caller; later evaluations never modify it.
func (ctx *Context) Eval(e *Expr) *apd.Decimal {
	switch len(ctx.stack) {
	case 0: // do nothing
	case 1:
		// Detach the previous result from the stack.
		ctx.stack[0] = new(apd.Decimal)
		ctx.stack = ctx.stack[:0]
	default:
		panic("decicalc: Eval during Eval")
	}
	err := e.n.eval(ctx)
	ctx.err = err
	if err != nil {
		ctx.stack = ctx.stack[:0]
		return nil
	}
	return ctx.Result()
}

// Result returns the result obtained after evaluating an expression. Panics if
// ctx has not been used to evaluate an expression. Returns nil if an error
// occurred during evaluation.
func (ctx *Context) Result() *apd.Decimal {
	if ctx.err != nil {
		return nil
	}
	switch len(ctx.stack) {
	case 0:
		panic("decicalc: Context.Result called before evaluating any expression")
	case 1:
		return ctx.stack[0]
	default:
		panic("decicalc: inconsistent stack: " + strconv.Itoa(len(ctx.stack)) + " items (bad AST?)")
	}
}

// Err returns the error that occurred while evaluating the last expression
// with ctx, if any.
func (ctx *Context) Err() error {
	return ctx.err
}

// eval pushes the node's value to the context's stack.
func (n *node) eval(ctx *Context) error {
	switch n.kind {
	case nodeNum:
		v, err := ctx.num(n.name)
		if err != nil {
			return err
		}
		r := ctx.push().Set(v)
		return ctx.bound("", r, nil, r)
	case nodeNeg, nodePos:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		x := ctx.top()
		return ctx.unary(n.kind, x, x)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		if err := n.right.eval(ctx); err != nil {
			return err
		}
		r := ctx.pop()
		l := ctx.top()
		return ctx.binary(n.kind, l, l, r)
	default:
		panic("decicalc: invalid AST node " + n.kind.String())
	}
}

// unary sets z to op x, rounded to the context's precision. z may alias x.
func (ctx *Context) unary(op nodeKind, z, x *apd.Decimal) error {
	var r apd.Decimal
	var cond apd.Condition
	var err error
	switch op {
	case nodeNeg:
		cond, err = ctx.arith.Neg(&r, x)
	case nodePos:
		cond, err = ctx.arith.Round(&r, x)
	default:
		panic("decicalc: invalid unary operator " + op.String())
	}
	if err != nil {
		if !underflow(cond) {
			return ctx.fail(op.symbol(), x, nil, cond)
		}
		r.SetFinite(0, 0)
	}
	if err := ctx.bound(op.symbol(), x, nil, &r); err != nil {
		return err
	}
	z.Set(&r)
	return nil
}

// binary sets z to x op y, rounded to the context's precision. z may alias x
// or y.
func (ctx *Context) binary(op nodeKind, z, x, y *apd.Decimal) error {
	var r apd.Decimal
	var cond apd.Condition
	var err error
	switch op {
	case nodeAdd:
		cond, err = ctx.arith.Add(&r, x, y)
	case nodeSub:
		cond, err = ctx.arith.Sub(&r, x, y)
	case nodeMul:
		cond, err = ctx.arith.Mul(&r, x, y)
	case nodeDiv:
		if y.IsZero() {
			return &ArithError{Op: "/", X: copydec(x), Y: copydec(y), Err: ErrDivisionByZero}
		}
		cond, err = ctx.arith.Quo(&r, x, y)
	case nodePow:
		if err := ctx.pow(&r, x, y); err != nil {
			return err
		}
	default:
		panic("decicalc: invalid binary operator " + op.String())
	}
	if err != nil {
		if !underflow(cond) {
			return ctx.fail(op.symbol(), x, y, cond)
		}
		r.SetFinite(0, 0)
	}
	if err := ctx.bound(op.symbol(), x, y, &r); err != nil {
		return err
	}
	z.Set(&r)
	return nil
}

// bound checks that r, the result of applying op to x and y, is within the
// context's ceiling.
func (ctx *Context) bound(op string, x, y, r *apd.Decimal) error {
	if r.Form != apd.Finite {
		return &ArithError{Op: op, X: copydec(x), Y: copydec(y), Err: ErrOverflow}
	}
	if ctx.ceiling == nil {
		return nil
	}
	var a apd.Decimal
	if a.Abs(r).Cmp(ctx.ceiling) > 0 {
		return &ArithError{Op: op, X: copydec(x), Y: copydec(y), Err: ErrOverflow}
	}
	return nil
}

// fail creates the error for a trapped condition from applying op to x and y.
func (ctx *Context) fail(op string, x, y *apd.Decimal, cond apd.Condition) error {
	err := ErrInvalidOperation
	switch {
	case cond.DivisionByZero():
		err = ErrDivisionByZero
	case cond.Overflow(), cond.SystemOverflow():
		err = ErrOverflow
	}
	return &ArithError{Op: op, X: copydec(x), Y: copydec(y), Err: err}
}

// underflow reports whether a failed operation's result was too small in
// magnitude to represent. The result of such an operation is zero.
func underflow(cond apd.Condition) bool {
	if cond.Overflow() || cond.SystemOverflow() {
		return false
	}
	return cond.Underflow() || cond.SystemUnderflow()
}

func copydec(d *apd.Decimal) *apd.Decimal {
	if d == nil {
		return nil
	}
	return new(apd.Decimal).Set(d)
}

// Eval is a shortcut to parse an expression and return its result. Terms may
// nest at most DefaultMaxDepth deep.
func Eval(src io.RuneScanner, opts ...ContextOption) (*apd.Decimal, error) {
	ctx := NewContext(opts...)
	a, err := Parse(src, MaxDepth(DefaultMaxDepth))
	if err != nil {
		return nil, err
	}
	ctx.Eval(a)
	return ctx.Result(), ctx.Err()
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ContextOption) (*apd.Decimal, error) {
	return Eval(strings.NewReader(src), opts...)
}

// ArithError is an error from an arithmetic operation or from constructing a
// number. It unwraps to ErrDivisionByZero, ErrOverflow, or
// ErrInvalidOperation.
type ArithError struct {
	// Op is the operator, e.g. "/" or "**". It is empty for a literal.
	Op string
	// X is the operand of a unary operator, the left operand of a binary one,
	// or the value of an overflowing literal.
	X *apd.Decimal
	// Y is the right operand of a binary operator.
	Y *apd.Decimal
	// Text is the literal that could not be converted to a number.
	Text string
	// Err is the kind of failure.
	Err error
}

func (err *ArithError) Error() string {
	s := err.Err.Error()
	switch {
	case err.X == nil:
		return s + ": literal " + strconv.Quote(err.Text)
	case err.Op == "":
		return s + ": " + err.X.String()
	case err.Y == nil:
		return s + ": " + err.Op + err.X.String()
	default:
		return s + ": " + err.X.String() + " " + err.Op + " " + err.Y.String()
	}
}

func (err *ArithError) Unwrap() error {
	return err.Err
}
