package decicalc_test

import (
	"testing"

	"github.com/cockroachdb/apd/v3"

	"github.com/zephyrtronium/decicalc"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		name string
		src  string
		cfg  decicalc.FormatConfig
		want string
	}{
		{"default", "14", decicalc.DefaultFormat, "14.00"},
		{"grouped-third", "1000000/3", decicalc.FormatConfig{Places: 2, Grouping: true}, "333,333.33"},
		{"ungrouped-third", "1000000/3", decicalc.FormatConfig{Places: 2}, "333333.33"},
		{"strip-eighth", "1/8", decicalc.FormatConfig{Places: 4, StripZeros: true}, "0.125"},
		{"pad-eighth", "1/8", decicalc.FormatConfig{Places: 4}, "0.1250"},
		{"half-up", "1/8", decicalc.FormatConfig{Places: 2}, "0.13"},
		{"half-up-neg", "-1/8", decicalc.FormatConfig{Places: 2}, "-0.13"},
		{"half-up-even", "0.125+0.12", decicalc.FormatConfig{Places: 2}, "0.25"},
		{"round-up-carry", "999.995", decicalc.FormatConfig{Places: 2, Grouping: true}, "1,000.00"},
		{"zero-places", "2.5", decicalc.FormatConfig{Places: 0}, "3"},
		{"zero-places-grouped", "1234567.5", decicalc.FormatConfig{Places: 0, Grouping: true}, "1,234,568"},
		{"strip-all", "5", decicalc.FormatConfig{Places: 2, StripZeros: true}, "5"},
		{"strip-integer-zeros", "500", decicalc.FormatConfig{Places: 2, StripZeros: true}, "500"},
		{"strip-grouped", "1000000", decicalc.FormatConfig{Places: 3, Grouping: true, StripZeros: true}, "1,000,000"},
		{"neg-zero", "-0.001", decicalc.FormatConfig{Places: 2}, "0.00"},
		{"neg-zero-strip", "-0.001", decicalc.FormatConfig{Places: 2, StripZeros: true}, "0"},
		{"neg-literal-zero", "-0", decicalc.FormatConfig{Places: 1}, "0.0"},
		{"neg-zero-natural", "-0", decicalc.FormatConfig{Places: decicalc.NaturalPlaces}, "0"},
		{"natural", "1/8", decicalc.FormatConfig{Places: decicalc.NaturalPlaces}, "0.125"},
		{"natural-third", "1/3", decicalc.FormatConfig{Places: decicalc.NaturalPlaces}, "0.3333333333333333333333333333"},
		{"natural-grouped", "10**6/8", decicalc.FormatConfig{Places: decicalc.NaturalPlaces, Grouping: true}, "125,000"},
		{"natural-large", "10**30", decicalc.FormatConfig{Places: decicalc.NaturalPlaces, Grouping: true}, "1,000,000,000,000,000,000,000,000,000,000"},
		{"group-neg", "-1234567.891", decicalc.FormatConfig{Places: 2, Grouping: true}, "-1,234,567.89"},
		{"group-short", "123", decicalc.FormatConfig{Places: 2, Grouping: true}, "123.00"},
		{"group-short-neg", "-999", decicalc.FormatConfig{Places: 0, Grouping: true}, "-999"},
		{"group-four", "1000", decicalc.FormatConfig{Places: 0, Grouping: true}, "1,000"},
		{"group-six", "-123456", decicalc.FormatConfig{Places: 1, Grouping: true}, "-123,456.0"},
		{"ceiling", "10**100", decicalc.FormatConfig{Places: 0}, "1" + zeros(100)},
		{"small", "1/10**5", decicalc.FormatConfig{Places: 2}, "0.00"},
		{"small-natural", "1/10**5", decicalc.FormatConfig{Places: decicalc.NaturalPlaces}, "0.00001"},
		{"many-places", "1/3", decicalc.FormatConfig{Places: 30}, "0.333333333333333333333333333300"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := decicalc.EvalString(c.src)
			if err != nil {
				t.Fatalf("%q failed: %v", c.src, err)
			}
			if got := decicalc.Format(r, c.cfg); got != c.want {
				t.Errorf("%q with %+v: want %q, got %q", c.src, c.cfg, c.want, got)
			}
		})
	}
}

func zeros(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}

func TestFormatDoesNotModify(t *testing.T) {
	r, _ := decicalc.EvalString("1/3")
	want := new(apd.Decimal).Set(r)
	decicalc.Format(r, decicalc.FormatConfig{Places: 2, Grouping: true, StripZeros: true})
	if r.Cmp(want) != 0 || r.Exponent != want.Exponent {
		t.Errorf("Format changed its argument from %v to %v", want, r)
	}
}

func TestFormatIdempotent(t *testing.T) {
	cfgs := []decicalc.FormatConfig{
		decicalc.DefaultFormat,
		{Places: 2, Grouping: true},
		{Places: 4, StripZeros: true},
		{Places: 3, Grouping: true, StripZeros: true},
		{Places: decicalc.NaturalPlaces, Grouping: true},
	}
	srcs := []string{"0", "1/3", "-2/3", "1000000/7", "-10**20/9", "1/8", "12345.5"}
	for _, cfg := range cfgs {
		for _, src := range srcs {
			r, err := decicalc.EvalString(src)
			if err != nil {
				t.Fatalf("%q failed: %v", src, err)
			}
			s := decicalc.Format(r, cfg)
			u, err := decicalc.Unformat(s)
			if err != nil {
				t.Errorf("%q with %+v formatted as %q, which does not unformat: %v", src, cfg, s, err)
				continue
			}
			if again := decicalc.Format(u, cfg); again != s {
				t.Errorf("%q with %+v: formatted %q, then %q", src, cfg, s, again)
			}
		}
	}
}

func TestUnformat(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"333,333.33", "333333.33", true},
		{"-1,234,567.89", "-1234567.89", true},
		{"0.125", "0.125", true},
		{" 12 ", "12", true},
		{"", "", false},
		{"1,2,3", "123", true},
		{"Number Too Large", "", false},
	}
	for _, c := range cases {
		d, err := decicalc.Unformat(c.in)
		if !c.ok {
			if err == nil {
				t.Errorf("%q unformatted to %v", c.in, d)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", c.in, err)
			continue
		}
		if d.Text('f') != c.want {
			t.Errorf("%q: want %s, got %s", c.in, c.want, d.Text('f'))
		}
	}
}
