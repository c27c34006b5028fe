package decicalc

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// NaturalPlaces is the FormatConfig.Places value that keeps each result's own
// number of fractional digits.
const NaturalPlaces = -1

// Separators used in display strings. The group separator only ever appears in
// the integer part.
const (
	GroupSeparator = ','
	DecimalPoint   = '.'
)

// FormatConfig controls how Format renders a value.
type FormatConfig struct {
	// Places is the number of fractional digits to which values are
	// quantized, rounding half away from zero. Negative values keep natural
	// precision.
	Places int
	// Grouping inserts a GroupSeparator between each group of three digits in
	// the integer part.
	Grouping bool
	// StripZeros removes trailing zeros from the fractional part, and then
	// the decimal point if nothing follows it.
	StripZeros bool
}

// DefaultFormat quantizes to two places with no grouping or stripping.
var DefaultFormat = FormatConfig{Places: 2}

// Format renders d as a plain decimal string according to cfg. The steps are
// applied in order: quantize, render, group, strip. Zero is never rendered
// with a sign.
func Format(d *apd.Decimal, cfg FormatConfig) string {
	if cfg.Places >= 0 {
		d = quantize(d, cfg.Places)
	}
	s := d.Text('f')
	if d.IsZero() {
		s = strings.TrimPrefix(s, "-")
	}
	if cfg.Grouping {
		s = group(s)
	}
	if cfg.StripZeros {
		s = strip(s)
	}
	return s
}

// quantize rounds d half up to the given number of fractional digits. The
// precision is chosen so that the result always fits. If places is beyond the
// exponent range of the decimal type, d is returned unchanged.
func quantize(d *apd.Decimal, places int) *apd.Decimal {
	if d.Form != apd.Finite || places > apd.MaxExponent {
		return d
	}
	digits := d.NumDigits() + int64(d.Exponent)
	if digits < 1 {
		digits = 1
	}
	c := apd.BaseContext.WithPrecision(uint32(digits + int64(places) + 1))
	c.Rounding = apd.RoundHalfUp
	var r apd.Decimal
	if _, err := c.Quantize(&r, d, int32(-places)); err != nil {
		return d
	}
	return &r
}

// group inserts group separators into the integer part of s.
func group(s string) string {
	var sign string
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	ipart, fpart := s, ""
	if k := strings.IndexByte(s, DecimalPoint); k >= 0 {
		ipart, fpart = s[:k], s[k:]
	}
	if len(ipart) <= 3 {
		return sign + s
	}
	var b strings.Builder
	b.Grow(len(sign) + len(ipart) + len(ipart)/3 + len(fpart))
	b.WriteString(sign)
	k := len(ipart) % 3
	if k == 0 {
		k = 3
	}
	b.WriteString(ipart[:k])
	for ; k < len(ipart); k += 3 {
		b.WriteByte(GroupSeparator)
		b.WriteString(ipart[k : k+3])
	}
	b.WriteString(fpart)
	return b.String()
}

// strip removes trailing fractional zeros and a dangling decimal point.
func strip(s string) string {
	if strings.IndexByte(s, DecimalPoint) < 0 {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, string(DecimalPoint))
}

// Unformat parses a display string produced by Format back into a decimal,
// ignoring group separators.
func Unformat(s string) (*apd.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), string(GroupSeparator), "")
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return d, nil
}
