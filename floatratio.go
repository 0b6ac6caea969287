package sym

import (
	"fmt"
	"strings"
)

// A FloatRatio is the real number factor*numer/denom, where numer and
// denom are symbolic integers.
//
// When numer and denom are both plain ratios, they are normalized to
// products of atoms with no atom in common, and their factors are moved
// into the float factor.
type FloatRatio[P Atom[P]] struct {
	factor float64
	numer  *Int[P]
	denom  *Int[P]
}

func NewFloatRatio[P Atom[P]](factor float64, numer, denom *Int[P]) *FloatRatio[P] {
	if denom.IsZero() {
		panic(fmt.Sprintf("%v/%v divides by zero", numer, denom))
	}
	one := IntConst[P](1)
	if c, ok := numer.Constant(); ok {
		factor *= bigFloat(c)
		numer = one
	}
	if c, ok := denom.Constant(); ok {
		factor /= bigFloat(c)
		denom = one
	}
	if factor == 0 {
		return &FloatRatio[P]{factor: 0, numer: one, denom: one}
	}
	nr, nok := numer.AsRatio()
	dr, dok := denom.AsRatio()
	if nok && dok {
		factor *= bigFloat(nr.factor) / bigFloat(dr.factor)
		top, bottom := splitAtoms(mergeAtoms(nr.numer, dr.denom), mergeAtoms(nr.denom, dr.numer))
		numer = IntFromRatio(&Ratio[P]{factor: bigU64(1), numer: top})
		denom = IntFromRatio(&Ratio[P]{factor: bigU64(1), numer: bottom})
	}
	return &FloatRatio[P]{factor: factor, numer: numer, denom: denom}
}

func floatRatioOf[P Atom[P]](r *Ratio[P]) *FloatRatio[P] {
	return NewFloatRatio(1, IntFromRatio(r), IntConst[P](1))
}

func floatRatioConst[P Atom[P]](c float64) *FloatRatio[P] {
	one := IntConst[P](1)
	return &FloatRatio[P]{factor: c, numer: one, denom: one}
}

func (r *FloatRatio[P]) Factor() float64 { return r.factor }
func (r *FloatRatio[P]) Numer() *Int[P]  { return r.numer }
func (r *FloatRatio[P]) Denom() *Int[P]  { return r.denom }

// AsF64 returns the value of r if it doesn't depend on any atom.
func (r *FloatRatio[P]) AsF64() (float64, bool) {
	if r.numer.IsOne() && r.denom.IsOne() {
		return r.factor, true
	}
	return 0, false
}

func (r *FloatRatio[P]) IsOne() bool {
	c, ok := r.AsF64()
	return ok && c == 1
}

// atoms returns the atoms of the numerator and denominator if both are
// plain products of atoms.
func (r *FloatRatio[P]) atoms() (numer, denom []P, ok bool) {
	numer, nok := plainAtoms(r.numer)
	denom, dok := plainAtoms(r.denom)
	return numer, denom, nok && dok
}

func plainAtoms[P Atom[P]](i *Int[P]) ([]P, bool) {
	r, ok := i.AsRatio()
	if !ok || !isOneBig(r.factor) || len(r.denom) != 0 {
		return nil, false
	}
	return r.numer, true
}

func (r *FloatRatio[P]) MinValue() float64 {
	if r.factor >= 0 {
		return r.factor * bigFloat(r.numer.minBig()) / bigFloat(r.denom.maxBig())
	}
	return r.factor * bigFloat(r.numer.maxBig()) / bigFloat(r.denom.minBig())
}

func (r *FloatRatio[P]) MaxValue() float64 {
	if r.factor >= 0 {
		return r.factor * bigFloat(r.numer.maxBig()) / bigFloat(r.denom.minBig())
	}
	return r.factor * bigFloat(r.numer.minBig()) / bigFloat(r.denom.maxBig())
}

func (r *FloatRatio[P]) Mul(o *FloatRatio[P]) *FloatRatio[P] {
	if o.IsOne() {
		return r
	}
	if r.IsOne() {
		return o
	}
	return NewFloatRatio(r.factor*o.factor, r.numer.Mul(o.numer), r.denom.Mul(o.denom))
}

func (r *FloatRatio[P]) MulF64(c float64) *FloatRatio[P] {
	if c == 1 {
		return r
	}
	if c == 0 {
		return floatRatioConst[P](0)
	}
	return &FloatRatio[P]{factor: r.factor * c, numer: r.numer, denom: r.denom}
}

func (r *FloatRatio[P]) DivInt(i *Int[P]) *FloatRatio[P] {
	return NewFloatRatio(r.factor, r.numer, r.denom.Mul(i))
}

func (r *FloatRatio[P]) withFactor(f float64) *FloatRatio[P] {
	if f == r.factor {
		return r
	}
	return &FloatRatio[P]{factor: f, numer: r.numer, denom: r.denom}
}

func (r *FloatRatio[P]) Compare(o *FloatRatio[P]) int {
	if r == o {
		return 0
	}
	if c := r.numer.Compare(o.numer); c != 0 {
		return c
	}
	if c := r.denom.Compare(o.denom); c != 0 {
		return c
	}
	return cmpF64(r.factor, o.factor)
}

func (r *FloatRatio[P]) String() string {
	var b strings.Builder
	switch {
	case r.numer.IsOne():
		b.WriteString(formatFloat(r.factor))
	case r.factor == 1:
		b.WriteString(r.numer.String())
	case r.factor == -1:
		b.WriteByte('-')
		b.WriteString(r.numer.String())
	default:
		b.WriteString(formatFloat(r.factor))
		b.WriteByte('*')
		b.WriteString(r.numer.String())
	}
	if !r.denom.IsOne() {
		if denom, ok := plainAtoms(r.denom); ok {
			for _, a := range denom {
				b.WriteByte('/')
				b.WriteString(a.String())
			}
		} else {
			fmt.Fprintf(&b, "/(%v)", r.denom)
		}
	}
	return b.String()
}
