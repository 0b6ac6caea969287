package sym

import (
	"fmt"
	"strings"
	"testing"
)

// size is a test atom.
type size struct {
	name     string
	min, max uint64
	gcd, lcm uint64
}

// newSize returns a size whose divisibility bounds are its range, as for
// a size that only takes powers of two.
func newSize(name string, min, max uint64) *size { return &size{name, min, max, min, max} }

// newRangeSize returns a size that takes every value in [min, max].
func newRangeSize(name string, min, max uint64) *size {
	l := uint64(1)
	for v := min; v <= max; v++ {
		l = l / gcd(l, v) * v
	}
	return &size{name, min, max, 1, l}
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func (s *size) MinValue() uint64 { return s.min }
func (s *size) MaxValue() uint64 { return s.max }
func (s *size) GcdValue() uint64 { return s.gcd }
func (s *size) LcmValue() uint64 { return s.lcm }
func (s *size) Compare(o *size) int { return strings.Compare(s.name, o.name) }
func (s *size) String() string { return s.name }
func (s *size) GoString() string { return fmt.Sprintf("%s[%d, %d]", s.name, s.min, s.max) }
func atoms(as ...*size) []*size { return as }
func ratio(f uint64, n, d []*size) *Ratio[*size] { return NewRatio(f, n, d) }

func flt(s *size) *Float[*size] { return FloatAtom(s) }

func cst(c float64) *Float[*size] { return FloatConst[*size](c) }

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("%s: expected a panic", name)
		}
	}()
	fn()
}
