package sym

import (
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/exp/slices"
)

type intOp uint8

const (
	intMul intOp = iota
	intLcm
	intMin
	intDivCeil
	intSub
)

// An Int is a symbolic non-negative integer. It is either a ratio
// multiplied by a list of other Ints, the lcm or min of ratios, the
// ceiling division of an Int by a constant, or an Int minus a constant.
//
// Ints are immutable and may be shared freely between expressions. Every
// constructor returns a simplified value.
type Int[P Atom[P]] struct {
	op intOp

	// intMul
	ratio *Ratio[P]
	args  []*Int[P]

	// intLcm, intMin
	red *Reduction[ratioBound, *Ratio[P]]

	// intDivCeil, intSub
	lhs *Int[P]
	k   uint32
}

func IntFromRatio[P Atom[P]](r *Ratio[P]) *Int[P] {
	return &Int[P]{op: intMul, ratio: r}
}

func IntConst[P Atom[P]](c uint64) *Int[P] { return IntFromRatio(ConstRatio[P](c)) }

func bigIntConst[P Atom[P]](c *big.Int) *Int[P] { return IntFromRatio(bigConstRatio[P](c)) }

func IntAtom[P Atom[P]](a P) *Int[P] { return IntFromRatio(AtomRatio(a)) }

// NewLcm returns the least common multiple of ratios.
func NewLcm[P Atom[P]](ratios ...*Ratio[P]) *Int[P] {
	return newIntReduction(intLcm, reduce[ratioBound, *Ratio[P]](lcmKind[P]{}, ratios))
}

// NewMin returns the minimum of ratios.
func NewMin[P Atom[P]](ratios ...*Ratio[P]) *Int[P] {
	return newIntReduction(intMin, reduce[ratioBound, *Ratio[P]](minKind[P]{}, ratios))
}

func newIntReduction[P Atom[P]](op intOp, red *Reduction[ratioBound, *Ratio[P]]) *Int[P] {
	if red.IsConstant() {
		return bigIntConst[P](red.Constant())
	}
	if red.IsSingleValue() {
		return IntFromRatio(red.args[0])
	}
	return &Int[P]{op: op, red: red}
}

// Product returns the product of ints, or one if ints is empty.
func Product[P Atom[P]](ints ...*Int[P]) *Int[P] {
	out := IntConst[P](1)
	for _, i := range ints {
		out = out.Mul(i)
	}
	return out
}

// AsRatio returns the ratio of i if i is a plain ratio.
func (i *Int[P]) AsRatio() (*Ratio[P], bool) {
	if i.op == intMul && len(i.args) == 0 {
		return i.ratio, true
	}
	return nil, false
}

// Constant returns the value of i if it doesn't depend on any atom.
func (i *Int[P]) Constant() (*big.Int, bool) {
	if r, ok := i.AsRatio(); ok {
		return r.Constant()
	}
	return nil, false
}

func (i *Int[P]) IsOne() bool {
	r, ok := i.AsRatio()
	return ok && r.IsOne()
}

func (i *Int[P]) IsZero() bool {
	r, ok := i.AsRatio()
	return ok && r.IsZero()
}

func (i *Int[P]) minBig() *big.Int {
	switch i.op {
	case intMul:
		out := i.ratio.minBig()
		for _, arg := range i.args {
			out.Mul(out, arg.minBig())
		}
		return out
	case intLcm:
		// The lcm is a multiple of every operand, hence at least as large.
		out := i.red.lo
		for _, arg := range i.red.args {
			out = bigMax(out, arg.minBig())
		}
		return new(big.Int).Set(out)
	case intMin:
		return new(big.Int).Set(i.red.lo)
	case intDivCeil:
		return bigCeilDiv(i.lhs.minBig(), big.NewInt(int64(i.k)))
	case intSub:
		out := i.lhs.minBig()
		if out.Cmp(big.NewInt(int64(i.k))) < 0 {
			panic(fmt.Sprintf("%v can be negative", i))
		}
		return out.Sub(out, big.NewInt(int64(i.k)))
	default:
		panic(fmt.Sprintf("unreachable: %d", i.op))
	}
}

func (i *Int[P]) maxBig() *big.Int {
	switch i.op {
	case intMul:
		out := i.ratio.maxBig()
		for _, arg := range i.args {
			out.Mul(out, arg.maxBig())
		}
		return out
	case intLcm, intMin:
		return new(big.Int).Set(i.red.hi)
	case intDivCeil:
		return bigCeilDiv(i.lhs.maxBig(), big.NewInt(int64(i.k)))
	case intSub:
		out := i.lhs.maxBig()
		return out.Sub(out, big.NewInt(int64(i.k)))
	default:
		panic(fmt.Sprintf("unreachable: %d", i.op))
	}
}

func (i *Int[P]) MinValue() uint64 { return toU64(i.minBig(), "min value", i) }
func (i *Int[P]) MaxValue() uint64 { return toU64(i.maxBig(), "max value", i) }

// ToU32 returns the value of i if it is known and fits in 32 bits.
func (i *Int[P]) ToU32() (uint32, bool) {
	lo, hi := i.minBig(), i.maxBig()
	if lo.Cmp(hi) != 0 || !lo.IsUint64() || lo.Uint64() > 1<<32-1 {
		return 0, false
	}
	return uint32(lo.Uint64()), true
}

func (i *Int[P]) Mul(o *Int[P]) *Int[P] {
	if o.IsOne() {
		return i
	}
	if i.IsOne() {
		return o
	}
	if c, ok := o.Constant(); ok {
		return i.MulBig(c)
	}
	if c, ok := i.Constant(); ok {
		return o.MulBig(c)
	}
	if r, ok := o.AsRatio(); ok {
		return i.MulRatio(r)
	}
	if r, ok := i.AsRatio(); ok {
		return o.MulRatio(r)
	}

	ratio := ConstRatio[P](1)
	var args []*Int[P]
	for _, x := range [2]*Int[P]{i, o} {
		if x.op == intMul {
			ratio = ratio.Mul(x.ratio)
			args = append(args, x.args...)
		} else {
			args = append(args, x)
		}
	}
	return newIntMul(ratio, args)
}

func newIntMul[P Atom[P]](ratio *Ratio[P], args []*Int[P]) *Int[P] {
	if ratio.IsZero() {
		return IntConst[P](0)
	}
	slices.SortFunc(args, func(a, b *Int[P]) bool { return a.Compare(b) < 0 })
	return &Int[P]{op: intMul, ratio: ratio, args: args}
}

func (i *Int[P]) MulU64(c uint64) *Int[P] { return i.MulBig(bigU64(c)) }

func (i *Int[P]) MulBig(c *big.Int) *Int[P] {
	if isOneBig(c) {
		return i
	}
	if c.Sign() == 0 {
		return IntConst[P](0)
	}
	var out *Int[P]
	switch i.op {
	case intMul:
		out = &Int[P]{op: intMul, ratio: i.ratio.MulBig(c), args: i.args}
	case intLcm, intMin:
		args := make([]*Ratio[P], len(i.red.args))
		for j, arg := range i.red.args {
			args[j] = arg.MulBig(c)
		}
		lo := new(big.Int).Mul(i.red.lo, c)
		hi := new(big.Int).Mul(i.red.hi, c)
		out = newIntReduction(i.op, i.red.scaled(lo, hi, args))
	default:
		out = &Int[P]{op: intMul, ratio: bigConstRatio[P](c), args: []*Int[P]{i}}
	}
	if verifying() {
		lo := new(big.Int).Mul(i.minBig(), c)
		hi := new(big.Int).Mul(i.maxBig(), c)
		olo, ohi := out.minBig(), out.maxBig()
		verifyf(olo.Cmp(ohi) <= 0 && olo.Cmp(hi) <= 0 && lo.Cmp(ohi) <= 0,
			"%v * %v = %v: bounds [%v, %v] disagree with [%v, %v]", i, c, out, olo, ohi, lo, hi)
	}
	return out
}

func (i *Int[P]) MulRatio(r *Ratio[P]) *Int[P] {
	if c, ok := r.Constant(); ok {
		return i.MulBig(c)
	}
	switch i.op {
	case intMul:
		return newIntMul(i.ratio.Mul(r), slices.Clone(i.args))
	case intLcm, intMin:
		// The constant becomes a symbolic operand, so the reduction has to
		// be built again.
		ops := i.red.operands(bigConstRatio[P])
		for j, op := range ops {
			ops[j] = op.Mul(r)
		}
		return newIntReduction(i.op, reduce(i.red.kind, ops))
	default:
		return newIntMul(r, []*Int[P]{i})
	}
}

// DivCeil returns ceil(i / d).
func (i *Int[P]) DivCeil(d uint32) *Int[P] {
	if d == 0 {
		panic(fmt.Sprintf("division of %v by zero", i))
	}
	if d == 1 {
		return i
	}
	dd := bigU64(uint64(d))
	if c, ok := i.Constant(); ok {
		return bigIntConst[P](bigCeilDiv(c, dd))
	}
	if i.minBig().Sign() > 0 && i.maxBig().Cmp(dd) <= 0 {
		return IntConst[P](1)
	}
	if i.op == intMul {
		if r, ok := i.ratio.divExact(uint64(d)); ok {
			return newIntMul(r, slices.Clone(i.args))
		}
	}
	return &Int[P]{op: intDivCeil, lhs: i, k: d}
}

// SubU32 returns i - k. It panics if i can be smaller than k.
func (i *Int[P]) SubU32(k uint32) *Int[P] {
	if k == 0 {
		return i
	}
	kk := bigU64(uint64(k))
	if i.minBig().Cmp(kk) < 0 {
		panic(fmt.Sprintf("%v - %d can be negative", i, k))
	}
	if c, ok := i.Constant(); ok {
		return bigIntConst[P](c.Sub(c, kk))
	}
	return &Int[P]{op: intSub, lhs: i, k: k}
}

// ToSymbolicFloat converts i to a Float with the same bounds. It panics
// if i is an lcm, which has no float counterpart.
func (i *Int[P]) ToSymbolicFloat() *Float[P] {
	switch i.op {
	case intMul:
		f := floatFromRatio(floatRatioOf(i.ratio))
		if len(i.args) == 0 {
			return f
		}
		args := make([]*Float[P], len(i.args))
		for j, arg := range i.args {
			args[j] = arg.ToSymbolicFloat()
		}
		return newFloatMul(f.ratio, args)
	case intLcm:
		panic(fmt.Sprintf("cannot convert %v to a float", i))
	case intMin:
		fops := make([]*Float[P], 0, len(i.red.args)+1)
		fops = append(fops, FloatConst[P](bigFloat(i.red.Constant())))
		for _, r := range i.red.args {
			fops = append(fops, IntFromRatio(r).ToSymbolicFloat())
		}
		return newFloatReduction(reduce[float64, *Float[P]](fminKind[P]{}, fops))
	case intDivCeil:
		return &Float[P]{op: floatDivCeil, lhs: i.lhs, k: i.k}
	case intSub:
		return i.lhs.ToSymbolicFloat().AddF64(-float64(i.k))
	default:
		panic(fmt.Sprintf("unreachable: %d", i.op))
	}
}

// Floatable reports whether i can be converted by ToSymbolicFloat.
func (i *Int[P]) Floatable() bool {
	switch i.op {
	case intMul:
		for _, arg := range i.args {
			if !arg.Floatable() {
				return false
			}
		}
		return true
	case intLcm:
		return false
	case intSub:
		return i.lhs.Floatable()
	default:
		return true
	}
}

// FastEq reports whether i and o are the same node or equal constants.
func (i *Int[P]) FastEq(o *Int[P]) bool {
	if i == o {
		return true
	}
	ic, iok := i.Constant()
	oc, ook := o.Constant()
	return iok && ook && ic.Cmp(oc) == 0
}

func (i *Int[P]) Equal(o *Int[P]) bool { return i.FastEq(o) || i.Compare(o) == 0 }

// Simplified returns i if it is already in simplified form, which every
// constructor guarantees.
func (i *Int[P]) Simplified() *Int[P] {
	switch i.op {
	case intLcm, intMin:
		if i.red.IsConstant() || i.red.IsSingleValue() {
			return newIntReduction(i.op, i.red)
		}
	}
	return i
}

// Compare defines the canonical order of ints.
func (i *Int[P]) Compare(o *Int[P]) int {
	if i == o {
		return 0
	}
	if c := cmpOrdered(i.op, o.op); c != 0 {
		return c
	}
	switch i.op {
	case intMul:
		if c := i.ratio.Compare(o.ratio); c != 0 {
			return c
		}
		return slices.CompareFunc(i.args, o.args, (*Int[P]).Compare)
	case intLcm, intMin:
		return i.red.compare(o.red)
	default:
		if c := cmpOrdered(i.k, o.k); c != 0 {
			return c
		}
		return i.lhs.Compare(o.lhs)
	}
}

func (i *Int[P]) String() string {
	switch i.op {
	case intMul:
		if len(i.args) == 0 {
			return i.ratio.String()
		}
		var b strings.Builder
		if !i.ratio.IsOne() {
			b.WriteString(i.ratio.String())
			b.WriteByte('*')
		}
		for j, arg := range i.args {
			if j > 0 {
				b.WriteByte('*')
			}
			if arg.op == intSub {
				fmt.Fprintf(&b, "(%v)", arg)
			} else {
				b.WriteString(arg.String())
			}
		}
		return b.String()
	case intLcm, intMin:
		return i.red.String()
	case intDivCeil:
		return fmt.Sprintf("div_ceil(%v, %d)", i.lhs, i.k)
	case intSub:
		return fmt.Sprintf("%v - %d", i.lhs, i.k)
	default:
		panic(fmt.Sprintf("unreachable: %d", i.op))
	}
}
