package sym

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"golang.org/x/exp/slices"
)

type floatOp uint8

const (
	floatMul floatOp = iota
	floatReduction
	floatDiff
	floatDivCeil
)

// A Float is a symbolic real number. It is either a float ratio
// multiplied by a list of other Floats, the min or max of Floats, a
// weighted sum, or the ceiling division of an Int by a constant.
//
// Like Ints, Floats are immutable and every constructor returns a
// simplified value.
type Float[P Atom[P]] struct {
	op floatOp

	// floatMul
	ratio *FloatRatio[P]
	args  []*Float[P]

	// floatReduction
	red *Reduction[float64, *Float[P]]

	// floatDiff
	diff *Diff[P]

	// floatDivCeil
	lhs *Int[P]
	k   uint32
}

func FloatConst[P Atom[P]](c float64) *Float[P] {
	if math.IsNaN(c) || math.IsInf(c, 0) {
		panic(fmt.Sprintf("invalid float constant %v", c))
	}
	return floatFromRatio(floatRatioConst[P](c))
}

func FloatFromRatio[P Atom[P]](r *FloatRatio[P]) *Float[P] { return floatFromRatio(r) }

func floatFromRatio[P Atom[P]](r *FloatRatio[P]) *Float[P] {
	return &Float[P]{op: floatMul, ratio: r}
}

func FloatAtom[P Atom[P]](a P) *Float[P] { return IntAtom(a).ToSymbolicFloat() }

// newFloatMul returns ratio*Π(args). It takes ownership of args.
func newFloatMul[P Atom[P]](ratio *FloatRatio[P], args []*Float[P]) *Float[P] {
	if c, ok := ratio.AsF64(); ok && c == 0 {
		return FloatConst[P](0)
	}
	if len(args) == 0 {
		return floatFromRatio(ratio)
	}
	slices.SortFunc(args, func(a, b *Float[P]) bool { return a.Compare(b) < 0 })
	return &Float[P]{op: floatMul, ratio: ratio, args: args}
}

func newFloatReduction[P Atom[P]](red *Reduction[float64, *Float[P]]) *Float[P] {
	if red.IsConstant() {
		return FloatConst[P](red.Constant())
	}
	if red.IsSingleValue() {
		return red.args[0]
	}
	return &Float[P]{op: floatReduction, red: red}
}

func buildFloat[P Atom[P]](kind reductionKind[float64, *Float[P]], operands []*Float[P]) *Float[P] {
	return newFloatReduction(reduce(kind, operands))
}

// MaxFloat returns the maximum of fs.
func MaxFloat[P Atom[P]](fs ...*Float[P]) *Float[P] {
	if len(fs) == 0 {
		panic("empty max")
	}
	out := fs[0]
	for _, f := range fs[1:] {
		out = out.Max(f)
	}
	return out
}

// MinFloat returns the minimum of fs.
func MinFloat[P Atom[P]](fs ...*Float[P]) *Float[P] {
	if len(fs) == 0 {
		panic("empty min")
	}
	out := fs[0]
	for _, f := range fs[1:] {
		out = out.Min(f)
	}
	return out
}

// FloatDivCeil returns ceil(i / d) as a Float.
func FloatDivCeil[P Atom[P]](i *Int[P], d uint32) *Float[P] {
	if d == 0 {
		panic(fmt.Sprintf("division of %v by zero", i))
	}
	if d == 1 {
		return i.ToSymbolicFloat()
	}
	dd := bigU64(uint64(d))
	if c, ok := i.Constant(); ok {
		return FloatConst[P](bigFloat(bigCeilDiv(c, dd)))
	}
	if i.minBig().Sign() > 0 && i.maxBig().Cmp(dd) <= 0 {
		return FloatConst[P](1)
	}
	if r, ok := i.AsRatio(); ok && divides(dd, r.gcdBig()) {
		return floatFromRatio(floatRatioOf(r).MulF64(1 / float64(d)))
	}
	return &Float[P]{op: floatDivCeil, lhs: i, k: d}
}

func (f *Float[P]) isReduction(kind string) bool {
	return f.op == floatReduction && f.red.kind.String() == kind
}

// AsF64 returns the value of f if it is a constant.
func (f *Float[P]) AsF64() (float64, bool) {
	if f.op == floatMul && len(f.args) == 0 {
		return f.ratio.AsF64()
	}
	return 0, false
}

// ToF64 returns the value of f once every atom it depends on is known.
// It panics on reductions and sums, which have no single value.
func (f *Float[P]) ToF64() (float64, bool) {
	switch f.op {
	case floatDivCeil:
		v, ok := f.lhs.ToU32()
		if !ok {
			return 0, false
		}
		return float64(ceilDiv(v, f.k)), true
	case floatMul:
		n, nok := f.ratio.numer.ToU32()
		d, dok := f.ratio.denom.ToU32()
		if !nok || !dok {
			return 0, false
		}
		out := f.ratio.factor * float64(n) / float64(d)
		for _, arg := range f.args {
			v, ok := arg.ToF64()
			if !ok {
				return 0, false
			}
			out *= v
		}
		return out, true
	default:
		panic(fmt.Sprintf("cannot convert %v to a number", f))
	}
}

func (f *Float[P]) MinValue() float64 {
	switch f.op {
	case floatMul:
		lo, _ := f.mulBounds()
		if t, ok := f.tightMin(); ok && t > lo {
			return t
		}
		return lo
	case floatReduction:
		return f.red.lo
	case floatDiff:
		return f.diff.minValue()
	case floatDivCeil:
		return bigFloat(bigCeilDiv(f.lhs.minBig(), bigU64(uint64(f.k))))
	default:
		panic(fmt.Sprintf("unreachable: %d", f.op))
	}
}

func (f *Float[P]) MaxValue() float64 {
	switch f.op {
	case floatMul:
		_, hi := f.mulBounds()
		return hi
	case floatReduction:
		return f.red.hi
	case floatDiff:
		return f.diff.maxValue()
	case floatDivCeil:
		return bigFloat(bigCeilDiv(f.lhs.maxBig(), bigU64(uint64(f.k))))
	default:
		panic(fmt.Sprintf("unreachable: %d", f.op))
	}
}

func (f *Float[P]) mulBounds() (lo, hi float64) {
	lo, hi = f.ratio.MinValue(), f.ratio.MaxValue()
	for _, arg := range f.args {
		lo, hi = mulInterval(lo, hi, arg.MinValue(), arg.MaxValue())
	}
	return lo, hi
}

// tightMin bounds a product containing ceiling divisions from below.
// Atoms that a ceiling division shares with the surrounding ratio are
// folded into the division instead of being bounded separately.
func (f *Float[P]) tightMin() (float64, bool) {
	if f.ratio.factor < 0 {
		return 0, false
	}
	numer, denom, ok := f.ratio.atoms()
	if !ok {
		return 0, false
	}
	type divCeil struct {
		factor *big.Int
		numer  []P
		denom  []P
		d      uint32
	}
	var dcs []divCeil
	var others []*Float[P]
	for _, arg := range f.args {
		if arg.op != floatDivCeil {
			if arg.MinValue() < 0 {
				return 0, false
			}
			others = append(others, arg)
			continue
		}
		r, ok := arg.lhs.AsRatio()
		if !ok {
			return 0, false
		}
		dcs = append(dcs, divCeil{r.factor, r.numer, r.denom, arg.k})
	}
	if len(dcs) == 0 {
		return 0, false
	}

	min := f.ratio.factor
	if len(dcs) == 1 {
		dc := dcs[0]
		numer, denom = slices.Clone(numer), slices.Clone(denom)
		n := new(big.Int).Set(dc.factor)
		d := bigU64(uint64(dc.d))
		for _, a := range dc.numer {
			// ceil(k*a/d)/a >= ceil(k*lcm/d)/lcm
			if j := slices.Index(denom, a); j >= 0 {
				denom = slices.Delete(denom, j, j+1)
				n.Mul(n, bigU64(a.LcmValue()))
				min /= float64(a.LcmValue())
			} else {
				n.Mul(n, bigU64(a.GcdValue()))
			}
		}
		for _, a := range dc.denom {
			// a*ceil(k/(d*a)) >= gcd*ceil(k/(d*gcd))
			if j := slices.Index(numer, a); j >= 0 {
				numer = slices.Delete(numer, j, j+1)
				d.Mul(d, bigU64(a.GcdValue()))
				min *= float64(a.GcdValue())
			} else {
				d.Mul(d, bigU64(a.LcmValue()))
			}
		}
		min *= bigFloat(bigCeilDiv(n, d))
	} else {
		for _, dc := range dcs {
			n := product(dc.factor, dc.numer, atomGcd[P])
			d := product(bigU64(uint64(dc.d)), dc.denom, atomLcm[P])
			min *= bigFloat(bigCeilDiv(n, d))
		}
	}
	for _, a := range numer {
		min *= float64(a.MinValue())
	}
	for _, a := range denom {
		min /= float64(a.MaxValue())
	}
	for _, o := range others {
		min *= o.MinValue()
	}
	return min, true
}

// mapReduction applies fn to the constant and every operand of the
// reduction f and reduces the results with kind.
func (f *Float[P]) mapReduction(kind reductionKind[float64, *Float[P]], fn func(*Float[P]) *Float[P]) *Float[P] {
	ops := f.red.operands(FloatConst[P])
	for i, op := range ops {
		ops[i] = fn(op)
	}
	debugf("distribute over %v: %v", f, ops)
	return buildFloat(kind, ops)
}

func (f *Float[P]) AddF64(c float64) *Float[P] {
	if c == 0 {
		return f
	}
	var out *Float[P]
	if v, ok := f.AsF64(); ok {
		out = FloatConst[P](v + c)
	} else if f.op == floatReduction {
		out = f.mapReduction(f.red.kind, func(x *Float[P]) *Float[P] { return x.AddF64(c) })
	} else {
		out = diffOf(f).addConst(c).float()
	}
	if verifying() {
		verifyBounds(out, f.MinValue()+c, f.MaxValue()+c, "%v + %v", f, c)
	}
	return out
}

func (f *Float[P]) SubF64(c float64) *Float[P] { return f.AddF64(-c) }

// Add returns f + o. Adding a value to a min or max distributes it over
// the operands of the reduction; the sum of two reductions is kept as a
// sum.
func (f *Float[P]) Add(o *Float[P]) *Float[P] {
	if c, ok := o.AsF64(); ok {
		return f.AddF64(c)
	}
	if c, ok := f.AsF64(); ok {
		return o.AddF64(c)
	}
	switch {
	case f.op == floatReduction && o.op != floatReduction:
		return f.mapReduction(f.red.kind, func(x *Float[P]) *Float[P] { return x.Add(o) })
	case o.op == floatReduction && f.op != floatReduction:
		return o.mapReduction(o.red.kind, func(x *Float[P]) *Float[P] { return x.Add(f) })
	}
	return diffOf(f).add(diffOf(o)).float()
}

func (f *Float[P]) Sub(o *Float[P]) *Float[P] {
	if f.FastEq(o) || f.Compare(o) == 0 {
		return FloatConst[P](0)
	}
	if c, ok := o.AsF64(); ok {
		return f.AddF64(-c)
	}
	if f.op == floatReduction && o.op != floatReduction {
		return f.mapReduction(f.red.kind, func(x *Float[P]) *Float[P] { return x.Sub(o) })
	}
	return diffOf(f).sub(diffOf(o)).float()
}

func (f *Float[P]) Neg() *Float[P] { return f.MulF64(-1) }

func (f *Float[P]) MulF64(c float64) *Float[P] {
	if c == 1 {
		return f
	}
	if c == 0 {
		return FloatConst[P](0)
	}
	var out *Float[P]
	switch f.op {
	case floatMul:
		if len(f.args) == 0 {
			out = floatFromRatio(f.ratio.MulF64(c))
		} else {
			out = &Float[P]{op: floatMul, ratio: f.ratio.MulF64(c), args: f.args}
		}
	case floatDiff:
		out = f.diff.scale(c).float()
	case floatReduction:
		kind := f.red.kind
		if c < 0 {
			kind = flipped(kind)
		}
		out = f.mapReduction(kind, func(x *Float[P]) *Float[P] { return x.MulF64(c) })
	case floatDivCeil:
		out = newFloatMul(floatRatioConst[P](c), []*Float[P]{f})
	default:
		panic(fmt.Sprintf("unreachable: %d", f.op))
	}
	if verifying() && c > 0 {
		verifyBounds(out, f.MinValue()*c, f.MaxValue()*c, "%v * %v", f, c)
	}
	return out
}

// verifyBounds checks the bounds of out against the interval [lo, hi]
// computed from the operands. Both are sound, but may differ in
// precision, so they only have to overlap.
func verifyBounds[P Atom[P]](out *Float[P], lo, hi float64, f string, args ...interface{}) {
	olo, ohi := out.MinValue(), out.MaxValue()
	verifyf(ltClose(olo, ohi) && ltClose(olo, hi) && gtClose(ohi, lo),
		f+" = %v: bounds [%v, %v] disagree with [%v, %v]", append(args, out, olo, ohi, lo, hi)...)
}

func flipped[P Atom[P]](kind reductionKind[float64, *Float[P]]) reductionKind[float64, *Float[P]] {
	if kind.String() == "max" {
		return fminKind[P]{}
	}
	return fmaxKind[P]{}
}

func (f *Float[P]) DivF64(c float64) *Float[P] {
	if c == 0 {
		panic(fmt.Sprintf("division of %v by zero", f))
	}
	return f.MulF64(1 / c)
}

func (f *Float[P]) Mul(o *Float[P]) *Float[P] {
	if c, ok := o.AsF64(); ok {
		return f.MulF64(c)
	}
	if c, ok := f.AsF64(); ok {
		return o.MulF64(c)
	}

	// max(a, b)*r = max(a*r, b*r) for r >= 0
	if f.op == floatMul && len(f.args) == 0 && o.op == floatReduction && f.MinValue() >= 0 {
		return o.mapReduction(o.red.kind, func(x *Float[P]) *Float[P] { return x.Mul(f) })
	}
	if o.op == floatMul && len(o.args) == 0 && f.op == floatReduction && o.MinValue() >= 0 {
		return f.mapReduction(f.red.kind, func(x *Float[P]) *Float[P] { return x.Mul(o) })
	}

	if f.op == floatDiff && o.op != floatDiff {
		return f.diff.mulFloat(o)
	}
	if o.op == floatDiff && f.op != floatDiff {
		return o.diff.mulFloat(f)
	}

	ratio := floatRatioConst[P](1)
	var args []*Float[P]
	for _, x := range [2]*Float[P]{f, o} {
		if x.op == floatMul {
			ratio = ratio.Mul(x.ratio)
			args = append(args, x.args...)
		} else {
			args = append(args, x)
		}
	}
	return newFloatMul(ratio, args)
}

// mulFloat distributes the product over the terms of d.
func (d *Diff[P]) mulFloat(o *Float[P]) *Float[P] {
	out := o.MulF64(d.constant)
	for _, t := range d.terms {
		out = out.Add(t.value.Mul(o).MulF64(t.weight))
	}
	return out
}

func (f *Float[P]) MulRatio(r *FloatRatio[P]) *Float[P] { return f.Mul(floatFromRatio(r)) }

func (f *Float[P]) MulInt(i *Int[P]) *Float[P] { return f.Mul(i.ToSymbolicFloat()) }

func (f *Float[P]) DivInt(i *Int[P]) *Float[P] {
	return f.Mul(floatFromRatio(NewFloatRatio(1, IntConst[P](1), i)))
}

// operands returns the operands f contributes to a reduction of the
// given kind. Reductions of the same kind are flattened.
func (f *Float[P]) operands(kind reductionKind[float64, *Float[P]]) []*Float[P] {
	if f.isReduction(kind.String()) {
		return f.red.operands(FloatConst[P])
	}
	return []*Float[P]{f}
}

func (f *Float[P]) Max(o *Float[P]) *Float[P] {
	if f.MinValue() >= o.MaxValue() {
		return f
	}
	if o.MinValue() >= f.MaxValue() {
		return o
	}
	kind := fmaxKind[P]{}
	return buildFloat[P](kind, append(f.operands(kind), o.operands(kind)...))
}

func (f *Float[P]) Min(o *Float[P]) *Float[P] {
	if f.MaxValue() <= o.MinValue() {
		return f
	}
	if o.MaxValue() <= f.MinValue() {
		return o
	}
	kind := fminKind[P]{}
	return buildFloat[P](kind, append(f.operands(kind), o.operands(kind)...))
}

// FastEq reports whether f and o are the same node or equal constants.
func (f *Float[P]) FastEq(o *Float[P]) bool {
	if f == o {
		return true
	}
	fc, fok := f.AsF64()
	oc, ook := o.AsF64()
	return fok && ook && fc == oc
}

func (f *Float[P]) Equal(o *Float[P]) bool { return f.FastEq(o) || f.Compare(o) == 0 }

// Compare defines the canonical order of floats.
func (f *Float[P]) Compare(o *Float[P]) int {
	if f == o {
		return 0
	}
	if c := cmpOrdered(f.op, o.op); c != 0 {
		return c
	}
	switch f.op {
	case floatMul:
		if c := slices.CompareFunc(f.args, o.args, (*Float[P]).Compare); c != 0 {
			return c
		}
		return f.ratio.Compare(o.ratio)
	case floatReduction:
		return f.red.compare(o.red)
	case floatDiff:
		return f.diff.compare(o.diff)
	case floatDivCeil:
		if c := f.lhs.Compare(o.lhs); c != 0 {
			return c
		}
		return cmpOrdered(f.k, o.k)
	default:
		panic(fmt.Sprintf("unreachable: %d", f.op))
	}
}

func (f *Float[P]) String() string {
	switch f.op {
	case floatMul:
		if len(f.args) == 0 {
			return f.ratio.String()
		}
		var b strings.Builder
		switch c, ok := f.ratio.AsF64(); {
		case ok && c == 1:
		case ok && c == -1:
			b.WriteByte('-')
		default:
			b.WriteString(f.ratio.String())
			b.WriteByte('*')
		}
		for i, arg := range f.args {
			if i > 0 {
				b.WriteByte('*')
			}
			if arg.op == floatDiff {
				fmt.Fprintf(&b, "(%v)", arg)
			} else {
				b.WriteString(arg.String())
			}
		}
		return b.String()
	case floatReduction:
		return f.red.String()
	case floatDiff:
		return f.diff.String()
	case floatDivCeil:
		return fmt.Sprintf("div_ceil(%v, %d)", f.lhs, f.k)
	default:
		panic(fmt.Sprintf("unreachable: %d", f.op))
	}
}
