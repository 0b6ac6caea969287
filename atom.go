package sym

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Atom is implemented by the symbolic leaves of an expression: problem
// sizes whose exact value is not known, only bounded.
//
// MinValue and MaxValue bound the value the atom takes. GcdValue and
// LcmValue bound it in the divisibility lattice: every admissible value
// is a multiple of GcdValue and a divisor of LcmValue.
//
// Compare must define a total order that agrees with ==. It is used to
// keep every list of atoms sorted, which is what makes expressions
// canonical.
type Atom[P any] interface {
	comparable
	fmt.Stringer

	MinValue() uint64
	MaxValue() uint64
	GcdValue() uint64
	LcmValue() uint64
	Compare(other P) int
}

func atomMin[P Atom[P]](a P) uint64 { return a.MinValue() }
func atomMax[P Atom[P]](a P) uint64 { return a.MaxValue() }
func atomGcd[P Atom[P]](a P) uint64 { return a.GcdValue() }
func atomLcm[P Atom[P]](a P) uint64 { return a.LcmValue() }

func atomLess[P Atom[P]](a, b P) bool { return a.Compare(b) < 0 }

func compareAtoms[P Atom[P]](a, b P) int { return a.Compare(b) }

func sortedAtoms[P Atom[P]](atoms []P) []P {
	out := slices.Clone(atoms)
	slices.SortFunc(out, atomLess[P])
	return out
}

// mergeAtoms merges two sorted lists into a new sorted list.
func mergeAtoms[P Atom[P]](a, b []P) []P {
	if len(a) == 0 {
		return slices.Clone(b)
	}
	if len(b) == 0 {
		return slices.Clone(a)
	}
	out := make([]P, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if b[j].Compare(a[i]) < 0 {
			out = append(out, b[j])
			j++
		} else {
			out = append(out, a[i])
			i++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// splitAtoms walks two sorted lists and returns the atoms that only
// appear in a and the atoms that only appear in b. Equal atoms are
// paired one to one, so duplicates are handled like a multiset.
func splitAtoms[P Atom[P]](a, b []P) (aOnly, bOnly []P) {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch c := a[i].Compare(b[j]); {
		case c == 0:
			i++
			j++
		case c < 0:
			aOnly = append(aOnly, a[i])
			i++
		default:
			bOnly = append(bOnly, b[j])
			j++
		}
	}
	aOnly = append(aOnly, a[i:]...)
	bOnly = append(bOnly, b[j:]...)
	return aOnly, bOnly
}
