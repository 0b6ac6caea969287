package size

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"honnef.co/go/sym"
)

func TestNew(t *testing.T) {
	tests := []struct {
		spec               Spec
		min, max, gcd, lcm uint64
	}{
		{Spec{Name: "n", Min: 1, Max: 10}, 1, 10, 1, 2520},
		{Spec{Name: "n", Min: 7, Max: 7}, 7, 7, 1, 7},
		{Spec{Name: "n", Min: 4, Max: 6}, 4, 6, 1, 60},
		{Spec{Name: "b", Min: 2, Max: 64, Pow2: true}, 2, 64, 2, 64},
		{Spec{Name: "k", Min: 8, Max: 24, Gcd: 8, Lcm: 48}, 8, 24, 8, 48},
		{Spec{Name: "wide", Min: 1, Max: 1 << 40, Lcm: 1 << 40}, 1, 1 << 40, 1, 1 << 40},
	}
	for _, tt := range tests {
		s, err := New(tt.spec)
		if err != nil {
			t.Errorf("New(%+v): %s", tt.spec, err)
			continue
		}
		got := [4]uint64{s.MinValue(), s.MaxValue(), s.GcdValue(), s.LcmValue()}
		want := [4]uint64{tt.min, tt.max, tt.gcd, tt.lcm}
		if got != want {
			t.Errorf("New(%+v) = %v, want %v", tt.spec, got, want)
		}
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		spec Spec
		want string
	}{
		{Spec{Name: "", Min: 1, Max: 1}, "invalid size name"},
		{Spec{Name: "2x", Min: 1, Max: 1}, "invalid size name"},
		{Spec{Name: "x", Min: 0, Max: 1}, "min must be positive"},
		{Spec{Name: "x", Min: 5, Max: 4}, "larger than max"},
		{Spec{Name: "x", Min: 3, Max: 8, Pow2: true}, "not powers of two"},
		{Spec{Name: "x", Min: 1, Max: 100}, "overflows"},
		{Spec{Name: "x", Min: 6, Max: 12, Gcd: 4}, "does not divide min"},
		{Spec{Name: "x", Min: 6, Max: 12, Lcm: 30}, "does not divide lcm"},
		{Spec{Name: "x", Min: 6, Max: 12, Gcd: 3, Lcm: 12 * 7}, ""},
		{Spec{Name: "x", Min: 8, Max: 8, Gcd: 8, Lcm: 16}, ""},
		{Spec{Name: "x", Min: 4, Max: 16, Pow2: true, Lcm: 32}, ""},
	}
	for _, tt := range tests {
		_, err := New(tt.spec)
		switch {
		case tt.want == "" && err != nil:
			t.Errorf("New(%+v): unexpected error %s", tt.spec, err)
		case tt.want != "" && err == nil:
			t.Errorf("New(%+v) succeeded, want error containing %q", tt.spec, tt.want)
		case tt.want != "" && !strings.Contains(err.Error(), tt.want):
			t.Errorf("New(%+v) = %q, want error containing %q", tt.spec, err, tt.want)
		}
	}

	if _, err := New(Spec{Name: "x", Min: 1, Max: 64}); !errors.Is(err, ErrOverflow) {
		t.Errorf("got %v, want ErrOverflow", err)
	}
}

func TestTable(t *testing.T) {
	tbl := NewTable()
	for _, name := range []string{"m", "k", "n"} {
		if _, err := tbl.Add(Spec{Name: name, Min: 1, Max: 4}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := tbl.Add(Spec{Name: "k", Min: 2, Max: 2}); err == nil {
		t.Errorf("adding k twice succeeded")
	}
	if got, want := tbl.Names(), []string{"k", "m", "n"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if tbl.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tbl.Len())
	}
	k, ok := tbl.Lookup("k")
	if !ok || k.Name() != "k" || k.MaxValue() != 4 {
		t.Errorf("Lookup(k) = %#v, %t", k, ok)
	}
	if _, ok := tbl.Lookup("z"); ok {
		t.Errorf("Lookup(z) succeeded")
	}
	if got := tbl.Sizes(); len(got) != 3 || got[0] != k {
		t.Errorf("Sizes() = %v", got)
	}
}

func TestCompare(t *testing.T) {
	a := MustNew(Spec{Name: "a", Min: 1, Max: 2})
	b := MustNew(Spec{Name: "b", Min: 1, Max: 2})
	a2 := MustNew(Spec{Name: "a", Min: 1, Max: 2})
	if a.Compare(b) >= 0 || b.Compare(a) <= 0 {
		t.Errorf("a and b are not ordered by name")
	}
	if a.Compare(a) != 0 {
		t.Errorf("a.Compare(a) != 0")
	}
	if a.Compare(a2) == 0 || a.Compare(a2) != -a2.Compare(a) {
		t.Errorf("distinct sizes named a compare as %d and %d", a.Compare(a2), a2.Compare(a))
	}
}

func TestSymbolic(t *testing.T) {
	tbl := NewTable()
	m, _ := tbl.Add(Spec{Name: "m", Min: 16, Max: 1024, Pow2: true})
	n, _ := tbl.Add(Spec{Name: "n", Min: 1, Max: 12})

	tiles := sym.IntAtom(m).DivCeil(16).Mul(sym.IntAtom(n))
	if got, want := tiles.String(), "n*div_ceil(m, 16)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if tiles.MinValue() != 1 || tiles.MaxValue() != 64*12 {
		t.Errorf("%v in [%d, %d]", tiles, tiles.MinValue(), tiles.MaxValue())
	}

	cost := sym.FloatAtom(m).Max(sym.FloatConst[*Size](100))
	if got, want := cost.String(), "max(100, m)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if cost.MinValue() != 100 || cost.MaxValue() != 1024 {
		t.Errorf("%v in [%v, %v]", cost, cost.MinValue(), cost.MaxValue())
	}
}
