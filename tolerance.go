package sym

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Tolerance controls how float comparisons treat rounding error. Two
// values l and r are close if |l-r| < Abs + Rel*|r|.
//
// The tolerance is only ever used to keep more terms in a reduction than
// strictly needed, or to recognize that a single term realizes a
// reduction. Bounds are always computed from every operand.
type Tolerance struct {
	Abs float64
	Rel float64
}

var DefaultTolerance = Tolerance{Abs: 1e-8, Rel: 1e-5}

func (t Tolerance) IsClose(l, r float64) bool {
	return math.Abs(l-r) < t.Abs+t.Rel*math.Abs(r)
}

// LtClose reports whether l < r or l is close to r.
func (t Tolerance) LtClose(l, r float64) bool {
	return l < r || t.IsClose(l, r)
}

// GtClose reports whether l > r or l is close to r.
func (t Tolerance) GtClose(l, r float64) bool {
	return l > r || t.IsClose(l, r)
}

func (t Tolerance) valid() bool {
	return t.Abs >= 0 && t.Rel >= 0 && !math.IsInf(t.Abs, 0) && !math.IsInf(t.Rel, 0)
}

var tolerance atomic.Value

func init() {
	tolerance.Store(DefaultTolerance)
}

// CurrentTolerance returns the tolerance used by float reductions.
func CurrentTolerance() Tolerance {
	return tolerance.Load().(Tolerance)
}

// SetTolerance changes the tolerance used by float reductions and
// returns the previous one. Expressions that were already built are not
// affected.
func SetTolerance(t Tolerance) Tolerance {
	if !t.valid() {
		panic(fmt.Sprintf("invalid tolerance %+v", t))
	}
	return tolerance.Swap(t).(Tolerance)
}

func isClose(l, r float64) bool { return CurrentTolerance().IsClose(l, r) }
func ltClose(l, r float64) bool { return CurrentTolerance().LtClose(l, r) }
func gtClose(l, r float64) bool { return CurrentTolerance().GtClose(l, r) }
