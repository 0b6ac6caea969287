package sym

import (
	"fmt"
	"math"
	"math/big"
	"strconv"

	"golang.org/x/exp/constraints"
)

var bigOne = big.NewInt(1)

func bigU64(v uint64) *big.Int { return new(big.Int).SetUint64(v) }

func isOneBig(v *big.Int) bool { return v.Cmp(bigOne) == 0 }

// product multiplies init by f(a) for every atom a.
func product[P Atom[P]](init *big.Int, atoms []P, f func(P) uint64) *big.Int {
	out := new(big.Int).Set(init)
	for _, a := range atoms {
		out.Mul(out, bigU64(f(a)))
	}
	return out
}

func bigLcm(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return new(big.Int)
	}
	g := new(big.Int).GCD(nil, nil, a, b)
	out := new(big.Int).Quo(a, g)
	return out.Mul(out, b)
}

func bigMin(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

func bigMax(a, b *big.Int) *big.Int {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// divides reports whether d divides n. Zero only divides zero.
func divides(d, n *big.Int) bool {
	if d.Sign() == 0 {
		return n.Sign() == 0
	}
	return new(big.Int).Rem(n, d).Sign() == 0
}

func bigCeilDiv(n, d *big.Int) *big.Int {
	q, m := new(big.Int).QuoRem(n, d, new(big.Int))
	if m.Sign() != 0 {
		q.Add(q, bigOne)
	}
	return q
}

func bigFloat(v *big.Int) float64 {
	f, _ := new(big.Float).SetInt(v).Float64()
	return f
}

func toU64(v *big.Int, what string, expr fmt.Stringer) uint64 {
	if !v.IsUint64() {
		panic(fmt.Sprintf("unable to represent %s of %v as a uint64: %v", what, expr, v))
	}
	return v.Uint64()
}

func ceilDiv[T constraints.Unsigned](n, d T) T {
	if n%d == 0 {
		return n / d
	}
	return n/d + 1
}

func cmpOrdered[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpF64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case a == b:
		return 0
	case math.IsNaN(a) && !math.IsNaN(b):
		return -1
	case !math.IsNaN(a) && math.IsNaN(b):
		return 1
	default:
		return 0
	}
}

// mulInterval multiplies two intervals.
func mulInterval(alo, ahi, blo, bhi float64) (float64, float64) {
	if alo >= 0 && blo >= 0 {
		return alo * blo, ahi * bhi
	}
	ps := [4]float64{alo * blo, alo * bhi, ahi * blo, ahi * bhi}
	lo, hi := ps[0], ps[0]
	for _, p := range ps[1:] {
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}
	return lo, hi
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
