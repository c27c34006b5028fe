package decicalc

import (
	"math/big"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// pow sets z to x**y. Integer exponents of either sign use repeated
// multiplication; other exponents use the decimal exponential and logarithm,
// which are undefined for negative x. Zero to a non-positive power is
// undefined. z must not alias x or y.
func (ctx *Context) pow(z, x, y *apd.Decimal) error {
	if x.IsZero() && y.Sign() <= 0 {
		return &ArithError{Op: "**", X: copydec(x), Y: copydec(y), Err: ErrInvalidOperation}
	}
	var integ, frac apd.Decimal
	y.Modf(&integ, &frac)
	if frac.IsZero() {
		return ctx.ipow(z, x, y, &integ)
	}
	if cond, err := ctx.arith.Pow(z, x, y); err != nil {
		if !underflow(cond) {
			return ctx.fail("**", x, y, cond)
		}
		z.SetFinite(0, 0)
	}
	return nil
}

// ipow sets z to x**n for an integer n by binary exponentiation. The products
// carry guard digits so that the single final rounding to the context's
// precision matches repeated multiplication at full precision.
func (ctx *Context) ipow(z, x, y, n *apd.Decimal) error {
	s := n.Text('f')
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	e, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return &ArithError{Op: "**", X: copydec(x), Y: copydec(y), Err: ErrInvalidOperation}
	}
	neg := e.Sign() < 0
	e.Abs(e)
	guard := uint32(len(e.String())) + 2
	if guard > MaxPrec {
		guard = MaxPrec
	}
	work := ctx.arith.WithPrecision(ctx.arith.Precision + guard)

	base := new(apd.Decimal).Set(x)
	if neg {
		// x**-n is (1/x)**n, so a tiny result underflows rather than
		// overflowing the positive power. x is nonzero here.
		if cond, err := work.Quo(base, apd.New(1, 0), x); err != nil {
			if !underflow(cond) {
				return ctx.fail("**", x, y, cond)
			}
			base.SetFinite(0, 0)
		}
	}
	acc := apd.New(1, 0)
	var t apd.Decimal
	for i := 0; i < e.BitLen(); i++ {
		if e.Bit(i) != 0 {
			if cond, err := work.Mul(&t, acc, base); err != nil {
				if !underflow(cond) {
					return ctx.fail("**", x, y, cond)
				}
				z.SetFinite(0, 0)
				return nil
			}
			acc.Set(&t)
		}
		if i+1 < e.BitLen() {
			// The highest bit is always set, so a squared base that is too
			// small to represent makes the whole power zero.
			if cond, err := work.Mul(&t, base, base); err != nil {
				if !underflow(cond) {
					return ctx.fail("**", x, y, cond)
				}
				z.SetFinite(0, 0)
				return nil
			}
			base.Set(&t)
		}
	}
	if cond, err := ctx.arith.Round(z, acc); err != nil {
		if !underflow(cond) {
			return ctx.fail("**", x, y, cond)
		}
		z.SetFinite(0, 0)
	}
	return nil
}
