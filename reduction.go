package sym

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// reductionKind is the strategy that specializes a Reduction. C is the
// type of the bounds and of the folded constant, S the type of the
// operands.
type reductionKind[C, S any] interface {
	String() string

	// bounds returns the bounds of an operand. An operand whose bounds
	// are equal is a constant.
	bounds(s S) (lo, hi C)
	// merge folds the bounds of an operand into the bounds of the
	// reduction.
	merge(lo, hi, slo, shi C) (C, C)
	// absorbs reports whether the reduction of the folded constant and s
	// is provably the folded constant.
	absorbs(lo, hi C, s S) bool
	// dominates reports whether b can be dropped from a reduction that
	// contains a.
	dominates(a, b S) bool
	// head returns the constant that takes part in the reduction.
	head(lo, hi C) C
	// single reports whether s alone realizes a reduction with the given
	// bounds.
	single(lo, hi C, s S) bool

	cmpConst(a, b C) int
	cmpArg(a, b S) int
	formatConst(c C) string
}

// A Reduction is the lcm, min or max of a constant and a minimal
// generating set of operands. No operand is dominated by another one,
// and the operands are sorted.
type Reduction[C, S any] struct {
	kind   reductionKind[C, S]
	lo, hi C
	args   []S
}

// reduce builds the reduction of operands. It panics if operands is
// empty.
func reduce[C, S any](kind reductionKind[C, S], operands []S) *Reduction[C, S] {
	if len(operands) == 0 {
		panic("empty " + kind.String())
	}
	red := &Reduction[C, S]{kind: kind}
	for i, s := range operands {
		slo, shi := kind.bounds(s)
		if i == 0 {
			red.lo, red.hi = slo, shi
		} else {
			red.lo, red.hi = kind.merge(red.lo, red.hi, slo, shi)
		}
		if kind.cmpConst(slo, shi) == 0 {
			continue
		}
		red.insert(s)
	}

	// The bounds may have moved since an operand was kept.
	args := red.args[:0]
	for _, s := range red.args {
		if !kind.absorbs(red.lo, red.hi, s) {
			args = append(args, s)
		}
	}
	red.args = args
	slices.SortFunc(red.args, func(a, b S) bool { return kind.cmpArg(a, b) < 0 })
	debugf("%s: %d operands, kept %d: %v", kind, len(operands), len(red.args), red)
	return red
}

func (red *Reduction[C, S]) insert(s S) {
	if red.kind.absorbs(red.lo, red.hi, s) {
		return
	}
	for _, k := range red.args {
		if red.kind.dominates(k, s) {
			return
		}
	}
	args := red.args[:0]
	for _, k := range red.args {
		if !red.kind.dominates(s, k) {
			args = append(args, k)
		}
	}
	red.args = append(args, s)
}

// scaled returns a reduction with new bounds and operands. The operands
// must already be mapped through a monotone function.
func (red *Reduction[C, S]) scaled(lo, hi C, args []S) *Reduction[C, S] {
	out := &Reduction[C, S]{kind: red.kind, lo: lo, hi: hi, args: args}
	slices.SortFunc(out.args, func(a, b S) bool { return red.kind.cmpArg(a, b) < 0 })
	return out
}

func (red *Reduction[C, S]) Kind() string { return red.kind.String() }

// Bounds returns the bounds of the reduction. For lcm, these are the
// divisibility bounds.
func (red *Reduction[C, S]) Bounds() (lo, hi C) { return red.lo, red.hi }

// Constant returns the constant that takes part in the reduction.
func (red *Reduction[C, S]) Constant() C { return red.kind.head(red.lo, red.hi) }

func (red *Reduction[C, S]) Args() []S { return slices.Clone(red.args) }

func (red *Reduction[C, S]) IsConstant() bool {
	return red.kind.cmpConst(red.lo, red.hi) == 0 || len(red.args) == 0
}

func (red *Reduction[C, S]) IsSingleValue() bool {
	return len(red.args) == 1 && red.kind.single(red.lo, red.hi, red.args[0])
}

// operands returns the constant followed by the kept operands.
func (red *Reduction[C, S]) operands(lift func(C) S) []S {
	out := make([]S, 0, len(red.args)+1)
	out = append(out, lift(red.Constant()))
	return append(out, red.args...)
}

func (red *Reduction[C, S]) compare(o *Reduction[C, S]) int {
	if red == o {
		return 0
	}
	if c := strings.Compare(red.kind.String(), o.kind.String()); c != 0 {
		return c
	}
	if c := slices.CompareFunc(red.args, o.args, red.kind.cmpArg); c != 0 {
		return c
	}
	if c := red.kind.cmpConst(red.lo, o.lo); c != 0 {
		return c
	}
	return red.kind.cmpConst(red.hi, o.hi)
}

func (red *Reduction[C, S]) String() string {
	var b strings.Builder
	b.WriteString(red.kind.String())
	b.WriteByte('(')
	b.WriteString(red.kind.formatConst(red.Constant()))
	for _, s := range red.args {
		b.WriteString(", ")
		fmt.Fprint(&b, s)
	}
	b.WriteByte(')')
	return b.String()
}
