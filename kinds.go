package sym

import "math/big"

type (
	ratioBound = *big.Int

	lcmKind[P Atom[P]] struct{}
	minKind[P Atom[P]] struct{}

	fmaxKind[P Atom[P]] struct{}
	fminKind[P Atom[P]] struct{}
)

func (lcmKind[P]) String() string { return "lcm" }

// The bounds of an lcm are divisibility bounds: the result is a multiple
// of lo and a divisor of hi.
func (lcmKind[P]) bounds(r *Ratio[P]) (ratioBound, ratioBound) { return r.gcdBig(), r.lcmBig() }
func (lcmKind[P]) merge(lo, hi, slo, shi ratioBound) (ratioBound, ratioBound) {
	return bigLcm(lo, slo), bigLcm(hi, shi)
}
func (lcmKind[P]) absorbs(lo, _ ratioBound, r *Ratio[P]) bool { return divides(r.lcmBig(), lo) }
func (lcmKind[P]) dominates(a, b *Ratio[P]) bool { return a.IsMultipleOf(b) }
func (lcmKind[P]) head(lo, _ ratioBound) ratioBound { return lo }
func (lcmKind[P]) single(lo, _ ratioBound, r *Ratio[P]) bool { return divides(lo, r.gcdBig()) }
func (lcmKind[P]) cmpConst(a, b ratioBound) int { return a.Cmp(b) }
func (lcmKind[P]) cmpArg(a, b *Ratio[P]) int { return a.Compare(b) }
func (lcmKind[P]) formatConst(c ratioBound) string { return c.String() }

func (minKind[P]) String() string { return "min" }
func (minKind[P]) bounds(r *Ratio[P]) (ratioBound, ratioBound) {
	return r.minBig(), r.maxBig()
}
func (minKind[P]) merge(lo, hi, slo, shi ratioBound) (ratioBound, ratioBound) {
	return bigMin(lo, slo), bigMin(hi, shi)
}

// min(c, r) = c if c <= r.min. This check is O(1) and covers most
// insertions.
func (minKind[P]) absorbs(_, hi ratioBound, r *Ratio[P]) bool { return r.minBig().Cmp(hi) >= 0 }
func (minKind[P]) dominates(a, b *Ratio[P]) bool { return a.IsLessThan(b) }
func (minKind[P]) head(_, hi ratioBound) ratioBound { return hi }
func (minKind[P]) single(_, hi ratioBound, r *Ratio[P]) bool { return r.maxBig().Cmp(hi) <= 0 }
func (minKind[P]) cmpConst(a, b ratioBound) int { return a.Cmp(b) }
func (minKind[P]) cmpArg(a, b *Ratio[P]) int { return a.Compare(b) }
func (minKind[P]) formatConst(c ratioBound) string { return c.String() }

func (fmaxKind[P]) String() string { return "max" }
func (fmaxKind[P]) bounds(f *Float[P]) (float64, float64) {
	return f.MinValue(), f.MaxValue()
}
func (fmaxKind[P]) merge(lo, hi, slo, shi float64) (float64, float64) {
	return maxF(lo, slo), maxF(hi, shi)
}
func (fmaxKind[P]) absorbs(lo, _ float64, f *Float[P]) bool { return f.MaxValue() <= lo }

// a dominates b if a >= b by more than the tolerance. Operands that are
// close to each other are both kept.
func (fmaxKind[P]) dominates(a, b *Float[P]) bool {
	return a.Equal(b) || !ltClose(diffOf(a).sub(diffOf(b)).minValue(), 0)
}
func (fmaxKind[P]) head(lo, _ float64) float64 { return lo }

// The reduction may have folded a constant larger than the minimum of the
// single operand.
func (fmaxKind[P]) single(lo, _ float64, f *Float[P]) bool { return gtClose(f.MinValue(), lo) }
func (fmaxKind[P]) cmpConst(a, b float64) int { return cmpF64(a, b) }
func (fmaxKind[P]) cmpArg(a, b *Float[P]) int { return a.Compare(b) }
func (fmaxKind[P]) formatConst(c float64) string { return formatFloat(c) }

func (fminKind[P]) String() string { return "min" }
func (fminKind[P]) bounds(f *Float[P]) (float64, float64) {
	return f.MinValue(), f.MaxValue()
}
func (fminKind[P]) merge(lo, hi, slo, shi float64) (float64, float64) {
	return minF(lo, slo), minF(hi, shi)
}
func (fminKind[P]) absorbs(_, hi float64, f *Float[P]) bool { return f.MinValue() >= hi }
func (fminKind[P]) dominates(a, b *Float[P]) bool {
	return a.Equal(b) || !gtClose(diffOf(a).sub(diffOf(b)).maxValue(), 0)
}
func (fminKind[P]) head(_, hi float64) float64 { return hi }
func (fminKind[P]) single(_, hi float64, f *Float[P]) bool { return ltClose(f.MaxValue(), hi) }
func (fminKind[P]) cmpConst(a, b float64) int { return cmpF64(a, b) }
func (fminKind[P]) cmpArg(a, b *Float[P]) int { return a.Compare(b) }
func (fminKind[P]) formatConst(c float64) string { return formatFloat(c) }

func maxF(a, b float64) float64 {
	if a >= b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a <= b {
		return a
	}
	return b
}
