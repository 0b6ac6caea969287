package sym

import (
	"strings"

	"golang.org/x/exp/slices"
)

type term[P Atom[P]] struct {
	weight float64
	value  *Float[P]
}

// A Diff is the weighted sum constant + Σ weight*value. Terms are sorted
// by value, no value appears twice, and no weight is zero. Weights that
// are merely close to zero are kept: the value they multiply may be
// large enough to matter.
type Diff[P Atom[P]] struct {
	constant float64
	terms    []term[P]
}

// diffOf returns f as a weighted sum. A product with a constant factor
// becomes a single term weighted by that factor.
func diffOf[P Atom[P]](f *Float[P]) *Diff[P] {
	if c, ok := f.AsF64(); ok {
		return &Diff[P]{constant: c}
	}
	switch f.op {
	case floatDiff:
		return f.diff
	case floatMul:
		w := f.ratio.factor
		if w == 1 || w == 0 {
			break
		}
		naked := f.ratio.withFactor(1)
		var t *Float[P]
		if naked.IsOne() && len(f.args) == 1 {
			t = f.args[0]
		} else {
			t = &Float[P]{op: floatMul, ratio: naked, args: f.args}
		}
		return &Diff[P]{terms: []term[P]{{weight: w, value: t}}}
	}
	return &Diff[P]{terms: []term[P]{{weight: 1, value: f}}}
}

// combine returns d + sign*o.
func (d *Diff[P]) combine(o *Diff[P], sign float64) *Diff[P] {
	out := &Diff[P]{
		constant: d.constant + sign*o.constant,
		terms:    make([]term[P], 0, len(d.terms)+len(o.terms)),
	}
	push := func(t term[P]) {
		if t.weight != 0 {
			out.terms = append(out.terms, t)
		}
	}
	i, j := 0, 0
	for i < len(d.terms) && j < len(o.terms) {
		switch c := d.terms[i].value.Compare(o.terms[j].value); {
		case c == 0:
			push(term[P]{d.terms[i].weight + sign*o.terms[j].weight, d.terms[i].value})
			i++
			j++
		case c < 0:
			push(d.terms[i])
			i++
		default:
			push(term[P]{sign * o.terms[j].weight, o.terms[j].value})
			j++
		}
	}
	for ; i < len(d.terms); i++ {
		push(d.terms[i])
	}
	for ; j < len(o.terms); j++ {
		push(term[P]{sign * o.terms[j].weight, o.terms[j].value})
	}
	return out
}

func (d *Diff[P]) add(o *Diff[P]) *Diff[P] { return d.combine(o, 1) }
func (d *Diff[P]) sub(o *Diff[P]) *Diff[P] { return d.combine(o, -1) }

func (d *Diff[P]) addConst(c float64) *Diff[P] {
	return &Diff[P]{constant: d.constant + c, terms: d.terms}
}

func (d *Diff[P]) scale(c float64) *Diff[P] {
	if c == 0 {
		return &Diff[P]{}
	}
	out := &Diff[P]{constant: d.constant * c, terms: make([]term[P], len(d.terms))}
	for i, t := range d.terms {
		out.terms[i] = term[P]{t.weight * c, t.value}
	}
	return out
}

// Each term contributes the bound that is sound for the sign of its
// weight.
func (d *Diff[P]) minValue() float64 {
	out := d.constant
	for _, t := range d.terms {
		if t.weight > 0 {
			out += t.weight * t.value.MinValue()
		} else {
			out += t.weight * t.value.MaxValue()
		}
	}
	return out
}

func (d *Diff[P]) maxValue() float64 {
	out := d.constant
	for _, t := range d.terms {
		if t.weight > 0 {
			out += t.weight * t.value.MaxValue()
		} else {
			out += t.weight * t.value.MinValue()
		}
	}
	return out
}

// float returns the simplest Float equal to d.
func (d *Diff[P]) float() *Float[P] {
	switch {
	case len(d.terms) == 0:
		return FloatConst[P](d.constant)
	case d.constant == 0 && len(d.terms) == 1:
		return d.terms[0].value.MulF64(d.terms[0].weight)
	default:
		return &Float[P]{op: floatDiff, diff: d}
	}
}

func (d *Diff[P]) compare(o *Diff[P]) int {
	if d == o {
		return 0
	}
	c := slices.CompareFunc(d.terms, o.terms, func(a, b term[P]) int {
		if c := a.value.Compare(b.value); c != 0 {
			return c
		}
		return cmpF64(a.weight, b.weight)
	})
	if c != 0 {
		return c
	}
	return cmpF64(d.constant, o.constant)
}

func (d *Diff[P]) String() string {
	var b strings.Builder
	first := true
	if d.constant != 0 || len(d.terms) == 0 {
		b.WriteString(formatFloat(d.constant))
		first = false
	}
	for _, t := range d.terms {
		w := t.weight
		switch {
		case w < 0 && first:
			b.WriteByte('-')
			w = -w
		case w < 0:
			b.WriteString(" - ")
			w = -w
		case !first:
			b.WriteString(" + ")
		}
		first = false
		if w != 1 {
			b.WriteString(formatFloat(w))
			b.WriteByte('*')
		}
		b.WriteString(t.value.String())
	}
	return b.String()
}
