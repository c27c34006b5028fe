package decicalc

import (
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// DefaultPrec is the number of significant digits a context retains when no
// precision is given.
const DefaultPrec = 28

// MaxPrec is the largest precision a context accepts. Some operations work at
// higher precision than the context's, and every working precision must stay
// inside the exponent range of the decimal representation.
const MaxPrec = apd.MaxExponent / 2

// maxNums bounds the literal cache of a context.
const maxNums = 256

// DefaultCeiling returns the largest magnitude a result may have in a context
// created without a Ceiling option, 1e100.
func DefaultCeiling() *apd.Decimal {
	return apd.New(1, 100)
}

// Context is a context for evaluating expressions. It fixes the precision of
// every arithmetic operation and the largest magnitude of any result. It is
// not safe to use a Context concurrently, but independent contexts may be used
// concurrently.
type Context struct {
	stack []*apd.Decimal
	nums  map[string]*apd.Decimal
	// arith carries the precision, rounding, and traps for arithmetic.
	arith apd.Context
	// ceiling is the largest allowed magnitude, or nil for none.
	ceiling *apd.Decimal
	err     error
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	precopt uint32
	ceilopt struct {
		d *apd.Decimal
	}
)

func (precopt) ctxOption() {}
func (ceilopt) ctxOption() {}

// Prec sets the number of significant digits retained by calculations. Panics
// if prec is zero or greater than MaxPrec.
func Prec(prec uint) ContextOption {
	if prec == 0 {
		panic("decicalc: precision must be positive")
	}
	if prec > MaxPrec {
		panic("decicalc: precision " + strconv.FormatUint(uint64(prec), 10) + " exceeds MaxPrec")
	}
	return precopt(prec)
}

// Ceiling sets the largest magnitude allowed for any intermediate or final
// result. A result with a magnitude exactly equal to the ceiling is allowed.
// A nil ceiling removes the limit, leaving only the exponent range of the
// underlying decimal type.
func Ceiling(d *apd.Decimal) ContextOption {
	if d == nil {
		return ceilopt{}
	}
	return ceilopt{new(apd.Decimal).Abs(d)}
}

// NewContext creates a new evaluation context. If no precision is given, the
// default is DefaultPrec; if no ceiling is given, it is DefaultCeiling.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{
		nums:    make(map[string]*apd.Decimal),
		arith:   arith(DefaultPrec),
		ceiling: DefaultCeiling(),
	}
	return ctx.Clone(opts...)
}

// arith creates the decimal context used for arithmetic at a precision.
// Underflow is not trapped, so tiny results round toward zero.
func arith(prec uint32) apd.Context {
	c := apd.BaseContext.WithPrecision(prec)
	c.Rounding = apd.RoundHalfEven
	c.Traps = apd.DefaultTraps &^ (apd.Underflow | apd.Subnormal)
	return *c
}

// Prec returns the number of significant digits to which values are computed
// in the context.
func (ctx *Context) Prec() uint {
	return uint(ctx.arith.Precision)
}

// Ceiling returns a copy of the largest magnitude allowed in the context, or
// nil if there is no limit.
func (ctx *Context) Ceiling() *apd.Decimal {
	if ctx.ceiling == nil {
		return nil
	}
	return new(apd.Decimal).Set(ctx.ceiling)
}

// Clone creates a copy of a context and applies options to it. The returned
// context has no Result and is safe to use to evaluate an expression. Values
// already returned from ctx are unaffected by the clone's options.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		stack:   make([]*apd.Decimal, 0, cap(ctx.stack)),
		nums:    make(map[string]*apd.Decimal),
		arith:   ctx.arith,
		ceiling: ctx.ceiling,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case precopt:
			n.arith = arith(uint32(opt))
		case ceilopt:
			n.ceiling = opt.d
		default:
			panic("decicalc: unknown option type")
		}
	}
	return &n
}

// push ensures a settable value on the stack.
func (ctx *Context) push() *apd.Decimal {
	if len(ctx.stack) < cap(ctx.stack) {
		ctx.stack = ctx.stack[:len(ctx.stack)+1]
		if ctx.stack[len(ctx.stack)-1] == nil {
			ctx.stack[len(ctx.stack)-1] = new(apd.Decimal)
		}
	} else {
		ctx.stack = append(ctx.stack, new(apd.Decimal))
	}
	return ctx.stack[len(ctx.stack)-1]
}

// pop removes the top from the stack and returns it. The returned value may be
// modified by future node evaluations.
func (ctx *Context) pop() *apd.Decimal {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (ctx *Context) top() *apd.Decimal {
	return ctx.stack[len(ctx.stack)-1]
}

// num gets a possibly cached number from its literal text. The number is
// exact, not rounded to the context's precision. The cache is emptied when it
// fills.
func (ctx *Context) num(s string) (*apd.Decimal, error) {
	if r := ctx.nums[s]; r != nil {
		return r, nil
	}
	r, _, err := apd.NewFromString(s)
	if err != nil || r.Form != apd.Finite {
		return nil, &ArithError{Text: s, Err: ErrInvalidOperation}
	}
	if len(ctx.nums) >= maxNums {
		clear(ctx.nums)
	}
	ctx.nums[s] = r
	return r, nil
}
