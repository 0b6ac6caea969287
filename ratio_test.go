package sym

import (
	"math/big"
	"testing"
)

var (
	x = newSize("x", 1, 10)
	y = newSize("y", 1, 10)
	z = newSize("z", 1, 2)
	p = newSize("p", 4, 16)
	q = newSize("q", 2, 8)

	// sizes of a tiled matrix multiplication that used to collapse
	x12 = newSize("x12", 2, 4)
	x14 = newSize("x14", 2, 16)
	x24 = newSize("x24", 4, 16)
)

func TestRatioString(t *testing.T) {
	tests := []struct {
		in   *Ratio[*size]
		want string
	}{
		{ratio(3, nil, nil), "3"},
		{ratio(1, atoms(x), nil), "x"},
		{ratio(4, atoms(y, x), atoms(z)), "4*x*y/z"},
		{ratio(2, nil, atoms(z)), "2/z"},
		{ratio(4, atoms(x, newSize("k", 3, 3)), nil), "12*x"},
		{ratio(4, atoms(x), atoms(newSize("k", 2, 2))), "2*x"},
		{ratio(3, atoms(x), atoms(newSize("k", 2, 2))), "3*x/k"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestRatioBounds(t *testing.T) {
	tests := []struct {
		in                 *Ratio[*size]
		min, max, gcd, lcm uint64
	}{
		{ratio(7, nil, nil), 7, 7, 7, 7},
		{ratio(4, atoms(x, y), atoms(z)), 2, 400, 2, 400},
		{ratio(256, atoms(x12), atoms(x14, x24)), 2, 128, 2, 128},
		{ratio(4, atoms(x14, x14), nil), 16, 1024, 16, 1024},
		{ratio(8, atoms(p), atoms(q)), 4, 64, 4, 64},
	}
	for _, tt := range tests {
		if got := tt.in.MinValue(); got != tt.min {
			t.Errorf("%v: min = %d, want %d", tt.in, got, tt.min)
		}
		if got := tt.in.MaxValue(); got != tt.max {
			t.Errorf("%v: max = %d, want %d", tt.in, got, tt.max)
		}
		if got := tt.in.GcdValue(); got != tt.gcd {
			t.Errorf("%v: gcd = %d, want %d", tt.in, got, tt.gcd)
		}
		if got := tt.in.LcmValue(); got != tt.lcm {
			t.Errorf("%v: lcm = %d, want %d", tt.in, got, tt.lcm)
		}
	}
}

func TestRatioInexactGcd(t *testing.T) {
	r := ratio(3, atoms(x), atoms(q))
	mustPanic(t, "gcd", func() { r.GcdValue() })
}

func TestRatioMul(t *testing.T) {
	tests := []struct {
		a, b *Ratio[*size]
		want string
	}{
		{ratio(1, atoms(x), atoms(z)), ratio(2, atoms(y, z), nil), "2*x*y"},
		{ratio(1, atoms(x), nil), ratio(1, atoms(x), nil), "x*x"},
		{ratio(3, atoms(x), nil), ratio(5, nil, nil), "15*x"},
		{ratio(5, nil, nil), ratio(1, atoms(y), atoms(z)), "5*y/z"},
		{ratio(0, nil, nil), ratio(1, atoms(y), nil), "0"},
		{ratio(1, atoms(y), atoms(x)), ratio(1, atoms(x), atoms(y)), "1"},
	}
	for _, tt := range tests {
		if got := tt.a.Mul(tt.b).String(); got != tt.want {
			t.Errorf("%v * %v = %q, want %q", tt.a, tt.b, got, tt.want)
		}
	}

	one := ConstRatio[*size](1)
	r := ratio(3, atoms(x), nil)
	if r.Mul(one) != r || one.Mul(r) != r {
		t.Errorf("multiplying by one should return the same ratio")
	}
}

func TestRatioIsMultipleOf(t *testing.T) {
	tests := []struct {
		a, b *Ratio[*size]
		want bool
	}{
		{ratio(4, atoms(x), nil), ratio(2, atoms(x), nil), true},
		{ratio(2, atoms(x), nil), ratio(4, atoms(x), nil), false},
		{ratio(1, atoms(x, x), nil), ratio(1, atoms(x), nil), true},
		{ratio(1, atoms(x), nil), ratio(1, atoms(x, x), nil), false},
		{ratio(1, atoms(x), nil), ratio(2, nil, nil), false},
		{ratio(1, atoms(p), nil), ratio(2, nil, nil), true},
		{ratio(1, atoms(p), nil), ratio(1, atoms(q), nil), false},
		{ratio(0, nil, nil), ratio(1, atoms(q), nil), true},
		{ratio(16, nil, atoms(q)), ratio(2, nil, nil), true},
		{ratio(256, atoms(x12), atoms(x14, x24)), ratio(4, atoms(x14, x14), nil), false},
		{ratio(4, atoms(x14, x14), nil), ratio(256, atoms(x12), atoms(x14, x24)), false},
	}
	for _, tt := range tests {
		if got := tt.a.IsMultipleOf(tt.b); got != tt.want {
			t.Errorf("%v.IsMultipleOf(%v) = %t, want %t", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRatioIsGreaterThan(t *testing.T) {
	tests := []struct {
		a, b *Ratio[*size]
		want bool
	}{
		{ratio(3, atoms(x), nil), ratio(2, atoms(x), nil), true},
		{ratio(2, atoms(x), nil), ratio(3, atoms(x), nil), false},
		{ratio(1, atoms(x, y), nil), ratio(1, atoms(x), nil), true},
		{ratio(1, atoms(x), nil), ratio(5, nil, nil), false},
		{ratio(1, atoms(p), nil), ratio(4, nil, nil), true},
		{ratio(2, atoms(x), nil), ratio(2, atoms(x), nil), true},
	}
	for _, tt := range tests {
		if got := tt.a.IsGreaterThan(tt.b); got != tt.want {
			t.Errorf("%v.IsGreaterThan(%v) = %t, want %t", tt.a, tt.b, got, tt.want)
		}
		if got := tt.b.IsLessThan(tt.a); got != tt.want {
			t.Errorf("%v.IsLessThan(%v) = %t, want %t", tt.b, tt.a, got, tt.want)
		}
	}
}

func TestRatioCompare(t *testing.T) {
	rs := []*Ratio[*size]{
		ratio(1, nil, nil),
		ratio(1, atoms(x), nil),
		ratio(1, atoms(x), atoms(z)),
		ratio(1, atoms(x, y), nil),
		ratio(1, atoms(y), nil),
		ratio(2, nil, nil),
	}
	for i, a := range rs {
		for j, b := range rs {
			got := a.Compare(b)
			want := cmpOrdered(i, j)
			if got != want {
				t.Errorf("%v.Compare(%v) = %d, want %d", a, b, got, want)
			}
		}
	}
	if !ratio(2, atoms(y, x), nil).Equal(ratio(2, atoms(x, y), nil)) {
		t.Errorf("atom order should not matter")
	}
}

func TestRatioNegativeFactor(t *testing.T) {
	mustPanic(t, "NewBigRatio", func() { NewBigRatio(big.NewInt(-1), atoms(x), nil) })
}

func FuzzRatioBounds(f *testing.F) {
	f.Add(uint8(1), uint8(0), uint8(3), uint8(1), uint8(2))
	f.Add(uint8(5), uint8(2), uint8(2), uint8(0), uint8(4))
	f.Fuzz(func(t *testing.T, k, lo, span, nnumer, ndenom uint8) {
		lo %= 8
		span %= 8
		s := newSize("s", 1<<lo, 1<<(lo+span))
		var numer, denom []*size
		for i := uint8(0); i < nnumer%4; i++ {
			numer = append(numer, s)
		}
		factor := uint64(k%16) + 1
		for i := uint8(0); i < ndenom%4; i++ {
			denom = append(denom, s)
			factor *= s.max
		}
		r := NewRatio(factor, numer, denom)
		if r.minBig().Cmp(r.maxBig()) > 0 {
			t.Fatalf("%v: min %v > max %v", r, r.minBig(), r.maxBig())
		}
		if !divides(r.gcdBig(), r.lcmBig()) {
			t.Fatalf("%v: gcd %v does not divide lcm %v", r, r.gcdBig(), r.lcmBig())
		}
		for v := s.min; v <= s.max; v *= 2 {
			val := new(big.Int).SetUint64(factor)
			for range numer {
				val.Mul(val, bigU64(v))
			}
			for range denom {
				val.Quo(val, bigU64(v))
			}
			if val.Cmp(r.minBig()) < 0 || val.Cmp(r.maxBig()) > 0 {
				t.Fatalf("%v at s=%d: %v not in [%v, %v]", r, v, val, r.minBig(), r.maxBig())
			}
			if !divides(r.gcdBig(), val) || !divides(val, r.lcmBig()) {
				t.Fatalf("%v at s=%d: %v not between gcd %v and lcm %v", r, v, val, r.gcdBig(), r.lcmBig())
			}
		}
	})
}
