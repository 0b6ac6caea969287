package sym

import (
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/exp/slices"
)

// A Ratio is the integer factor*Π(numer)/Π(denom). The caller
// guarantees that it evaluates to an integer for every admissible value
// of its atoms.
//
// Ratios are immutable. Both atom lists are sorted, and atoms whose
// value is fixed are folded into the factor.
type Ratio[P Atom[P]] struct {
	factor *big.Int
	numer  []P
	denom  []P
}

func NewRatio[P Atom[P]](factor uint64, numer, denom []P) *Ratio[P] {
	return NewBigRatio(bigU64(factor), numer, denom)
}

// NewBigRatio returns the ratio factor*Π(numer)/Π(denom). It does not
// cancel atoms that appear in both lists.
func NewBigRatio[P Atom[P]](factor *big.Int, numer, denom []P) *Ratio[P] {
	if factor.Sign() < 0 {
		panic(fmt.Sprintf("negative ratio factor %v", factor))
	}
	r := &Ratio[P]{factor: new(big.Int).Set(factor)}
	for _, a := range numer {
		if a.MinValue() == a.MaxValue() {
			r.factor.Mul(r.factor, bigU64(a.MinValue()))
		} else {
			r.numer = append(r.numer, a)
		}
	}
	for _, a := range denom {
		if v := bigU64(a.MinValue()); a.MinValue() == a.MaxValue() && v.Sign() != 0 && divides(v, r.factor) {
			r.factor.Quo(r.factor, v)
		} else {
			r.denom = append(r.denom, a)
		}
	}
	slices.SortFunc(r.numer, atomLess[P])
	slices.SortFunc(r.denom, atomLess[P])
	return r
}

func ConstRatio[P Atom[P]](c uint64) *Ratio[P] {
	return &Ratio[P]{factor: bigU64(c)}
}

func bigConstRatio[P Atom[P]](c *big.Int) *Ratio[P] {
	return &Ratio[P]{factor: new(big.Int).Set(c)}
}

// AtomRatio returns the ratio consisting of the single atom a.
func AtomRatio[P Atom[P]](a P) *Ratio[P] {
	return NewRatio(1, []P{a}, nil)
}

func (r *Ratio[P]) Factor() *big.Int { return new(big.Int).Set(r.factor) }
func (r *Ratio[P]) Numer() []P       { return slices.Clone(r.numer) }
func (r *Ratio[P]) Denom() []P       { return slices.Clone(r.denom) }

func (r *Ratio[P]) isConst() bool { return len(r.numer) == 0 && len(r.denom) == 0 }

func (r *Ratio[P]) IsOne() bool { return r.isConst() && isOneBig(r.factor) }

func (r *Ratio[P]) IsZero() bool { return r.factor.Sign() == 0 }

// Constant returns the value of r if it doesn't depend on any atom.
func (r *Ratio[P]) Constant() (*big.Int, bool) {
	if !r.isConst() {
		return nil, false
	}
	return new(big.Int).Set(r.factor), true
}

func (r *Ratio[P]) ToU32() (uint32, bool) {
	if !r.isConst() || !r.factor.IsUint64() || r.factor.Uint64() > 1<<32-1 {
		return 0, false
	}
	return uint32(r.factor.Uint64()), true
}

// bound computes factor*Π(num(numer))/Π(den(denom)). If exact is set, a
// division with a remainder panics.
func (r *Ratio[P]) bound(num, den func(P) uint64, exact bool, what string) *big.Int {
	n := product(r.factor, r.numer, num)
	if len(r.denom) == 0 {
		return n
	}
	d := product(bigOne, r.denom, den)
	if d.Sign() == 0 {
		panic(fmt.Sprintf("%s of %v divides by zero", what, r))
	}
	q, m := new(big.Int).QuoRem(n, d, new(big.Int))
	if exact && m.Sign() != 0 {
		panic(fmt.Sprintf("%s of %v is not an integer: %v/%v", what, r, n, d))
	}
	return q
}

func (r *Ratio[P]) minBig() *big.Int { return r.bound(atomMin[P], atomMax[P], false, "min value") }
func (r *Ratio[P]) maxBig() *big.Int { return r.bound(atomMax[P], atomMin[P], false, "max value") }
func (r *Ratio[P]) gcdBig() *big.Int { return r.bound(atomGcd[P], atomLcm[P], true, "gcd value") }
func (r *Ratio[P]) lcmBig() *big.Int { return r.bound(atomLcm[P], atomGcd[P], true, "lcm value") }

func (r *Ratio[P]) MinValue() uint64 { return toU64(r.minBig(), "min value", r) }
func (r *Ratio[P]) MaxValue() uint64 { return toU64(r.maxBig(), "max value", r) }
func (r *Ratio[P]) GcdValue() uint64 { return toU64(r.gcdBig(), "gcd value", r) }
func (r *Ratio[P]) LcmValue() uint64 { return toU64(r.lcmBig(), "lcm value", r) }

// IsMultipleOf reports whether r is provably an integer multiple of o
// for every admissible value of the atoms.
func (r *Ratio[P]) IsMultipleOf(o *Ratio[P]) bool {
	if r.IsZero() {
		return true
	}
	rn, on := splitAtoms(r.numer, o.numer)
	rd, od := splitAtoms(r.denom, o.denom)

	// r/o = r.factor*Π(rn)*Π(od) / (o.factor*Π(on)*Π(rd))
	lhs := product(product(r.factor, rn, atomGcd[P]), od, atomGcd[P])
	rhs := product(product(o.factor, on, atomLcm[P]), rd, atomLcm[P])
	return divides(rhs, lhs)
}

// IsGreaterThan reports whether r >= o for every admissible value of the
// atoms.
func (r *Ratio[P]) IsGreaterThan(o *Ratio[P]) bool {
	rn, on := splitAtoms(r.numer, o.numer)
	rd, od := splitAtoms(r.denom, o.denom)

	lhs := product(product(r.factor, rn, atomMin[P]), od, atomMin[P])
	rhs := product(product(o.factor, on, atomMax[P]), rd, atomMax[P])
	return lhs.Cmp(rhs) >= 0
}

// IsLessThan reports whether r <= o for every admissible value of the
// atoms.
func (r *Ratio[P]) IsLessThan(o *Ratio[P]) bool {
	return o.IsGreaterThan(r)
}

func (r *Ratio[P]) Mul(o *Ratio[P]) *Ratio[P] {
	if o.IsOne() {
		return r
	}
	if r.IsOne() {
		return o
	}
	if c, ok := o.Constant(); ok {
		return r.MulBig(c)
	}
	if c, ok := r.Constant(); ok {
		return o.MulBig(c)
	}
	numer, denom := splitAtoms(mergeAtoms(r.numer, o.numer), mergeAtoms(r.denom, o.denom))
	return &Ratio[P]{
		factor: new(big.Int).Mul(r.factor, o.factor),
		numer:  numer,
		denom:  denom,
	}
}

func (r *Ratio[P]) MulBig(c *big.Int) *Ratio[P] {
	if isOneBig(c) {
		return r
	}
	if c.Sign() == 0 {
		return ConstRatio[P](0)
	}
	return &Ratio[P]{
		factor: new(big.Int).Mul(r.factor, c),
		numer:  r.numer,
		denom:  r.denom,
	}
}

func (r *Ratio[P]) MulU64(c uint64) *Ratio[P] { return r.MulBig(bigU64(c)) }

// divExact divides the factor of r by d, if d divides it and the
// quotient is still an integer for every value of the denominator.
func (r *Ratio[P]) divExact(d uint64) (*Ratio[P], bool) {
	dd := bigU64(d)
	if !divides(dd, r.factor) {
		return nil, false
	}
	if len(r.denom) > 0 && !divides(product(dd, r.denom, atomLcm[P]), product(r.factor, r.numer, atomGcd[P])) {
		return nil, false
	}
	return &Ratio[P]{
		factor: new(big.Int).Quo(r.factor, dd),
		numer:  r.numer,
		denom:  r.denom,
	}, true
}

// Compare orders ratios by factor, then numerator, then denominator.
func (r *Ratio[P]) Compare(o *Ratio[P]) int {
	if r == o {
		return 0
	}
	if c := r.factor.Cmp(o.factor); c != 0 {
		return c
	}
	if c := slices.CompareFunc(r.numer, o.numer, compareAtoms[P]); c != 0 {
		return c
	}
	return slices.CompareFunc(r.denom, o.denom, compareAtoms[P])
}

func (r *Ratio[P]) Equal(o *Ratio[P]) bool { return r.Compare(o) == 0 }

func (r *Ratio[P]) String() string {
	var b strings.Builder
	if len(r.numer) == 0 {
		b.WriteString(r.factor.String())
	} else {
		if !isOneBig(r.factor) {
			b.WriteString(r.factor.String())
			b.WriteByte('*')
		}
		for i, a := range r.numer {
			if i > 0 {
				b.WriteByte('*')
			}
			b.WriteString(a.String())
		}
	}
	for _, a := range r.denom {
		b.WriteByte('/')
		b.WriteString(a.String())
	}
	return b.String()
}
