package decicalc

import (
	"strconv"
	"testing"
)

func TestNumCacheBounded(t *testing.T) {
	ctx := NewContext()
	for i := 0; i < 3*maxNums; i++ {
		s := strconv.Itoa(i)
		r, err := ctx.num(s)
		if err != nil {
			t.Fatalf("%q: %v", s, err)
		}
		if got := r.Text('f'); got != s {
			t.Fatalf("%q became %s", s, got)
		}
		if len(ctx.nums) > maxNums {
			t.Fatalf("cache holds %d literals after %d", len(ctx.nums), i+1)
		}
	}
}

func TestCloneDropsNumCache(t *testing.T) {
	ctx := NewContext()
	a, _ := ParseString("1.5 + 2.25")
	ctx.Eval(a)
	if len(ctx.nums) == 0 {
		t.Fatal("evaluation cached nothing")
	}
	n := ctx.Clone(Prec(5))
	if len(n.nums) != 0 {
		t.Errorf("clone kept %d cached literals", len(n.nums))
	}
	if r := n.Eval(a); r == nil || r.Text('f') != "3.75" {
		t.Errorf("clone evaluated %v, %v", r, n.Err())
	}
}
