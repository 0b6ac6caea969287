// Package size implements named problem-size parameters. A Size is only
// known to lie in a range and to divide, or be divided by, some bounds;
// it is the atom of symbolic bound expressions.
package size

import (
	"errors"
	"fmt"
	"go/token"
	"math/bits"
	"strings"
	"sync/atomic"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Spec describes a size the way problem files declare it. Zero values
// for Gcd and Lcm select the defaults.
type Spec struct {
	Name string `toml:"name" yaml:"name" json:"name"`
	Min  uint64 `toml:"min" yaml:"min" json:"min"`
	Max  uint64 `toml:"max" yaml:"max" json:"max"`
	Gcd  uint64 `toml:"gcd" yaml:"gcd" json:"gcd,omitempty"`
	Lcm  uint64 `toml:"lcm" yaml:"lcm" json:"lcm,omitempty"`
	// Pow2 restricts the size to powers of two.
	Pow2 bool `toml:"pow2" yaml:"pow2" json:"pow2,omitempty"`
}

// A Size is a problem-size parameter. Sizes are compared by name, so two
// sizes that are used in the same expression must have distinct names;
// Table enforces that.
type Size struct {
	name               string
	min, max, gcd, lcm uint64
	pow2               bool
	// seq breaks ties between equally named sizes from different tables.
	seq uint64
}

var seq uint64

var ErrOverflow = errors.New("least common multiple overflows 64 bits")

// New validates spec and returns the size it describes.
func New(spec Spec) (*Size, error) {
	if !token.IsIdentifier(spec.Name) {
		return nil, fmt.Errorf("invalid size name %q", spec.Name)
	}
	if spec.Min == 0 {
		return nil, fmt.Errorf("size %s: min must be positive", spec.Name)
	}
	if spec.Min > spec.Max {
		return nil, fmt.Errorf("size %s: min %d is larger than max %d", spec.Name, spec.Min, spec.Max)
	}

	s := &Size{
		name: spec.Name,
		min:  spec.Min,
		max:  spec.Max,
		pow2: spec.Pow2,
		seq:  atomic.AddUint64(&seq, 1),
	}
	if spec.Pow2 {
		if !isPow2(spec.Min) || !isPow2(spec.Max) {
			return nil, fmt.Errorf("size %s: bounds [%d, %d] are not powers of two", spec.Name, spec.Min, spec.Max)
		}
		s.gcd, s.lcm = spec.Min, spec.Max
	} else {
		s.gcd = 1
		if spec.Lcm == 0 {
			l, err := rangeLcm(spec.Min, spec.Max)
			if err != nil {
				return nil, fmt.Errorf("size %s: %w", spec.Name, err)
			}
			s.lcm = l
		}
	}

	if spec.Gcd != 0 {
		if spec.Min%spec.Gcd != 0 {
			return nil, fmt.Errorf("size %s: gcd %d does not divide min %d", spec.Name, spec.Gcd, spec.Min)
		}
		s.gcd = spec.Gcd
	}
	if spec.Lcm != 0 {
		if spec.Lcm%spec.Max != 0 {
			return nil, fmt.Errorf("size %s: max %d does not divide lcm %d", spec.Name, spec.Max, spec.Lcm)
		}
		if spec.Lcm%s.gcd != 0 {
			return nil, fmt.Errorf("size %s: gcd %d does not divide lcm %d", spec.Name, s.gcd, spec.Lcm)
		}
		s.lcm = spec.Lcm
	}
	return s, nil
}

// MustNew is like New but panics on invalid specs.
func MustNew(spec Spec) *Size {
	s, err := New(spec)
	if err != nil {
		panic(err)
	}
	return s
}

func isPow2(v uint64) bool { return v&(v-1) == 0 }

// rangeLcm returns the least common multiple of every integer in [lo, hi].
func rangeLcm(lo, hi uint64) (uint64, error) {
	out := uint64(1)
	for v := lo; ; v++ {
		g := gcd(out, v)
		h, l := bits.Mul64(out, v/g)
		if h != 0 {
			return 0, ErrOverflow
		}
		out = l
		if v == hi {
			return out, nil
		}
	}
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func (s *Size) Name() string     { return s.name }
func (s *Size) MinValue() uint64 { return s.min }
func (s *Size) MaxValue() uint64 { return s.max }
func (s *Size) GcdValue() uint64 { return s.gcd }
func (s *Size) LcmValue() uint64 { return s.lcm }
func (s *Size) Pow2() bool       { return s.pow2 }

// Spec returns the spec that produces an equivalent size.
func (s *Size) Spec() Spec {
	return Spec{Name: s.name, Min: s.min, Max: s.max, Gcd: s.gcd, Lcm: s.lcm, Pow2: s.pow2}
}

func (s *Size) Compare(o *Size) int {
	if c := strings.Compare(s.name, o.name); c != 0 {
		return c
	}
	switch {
	case s.seq < o.seq:
		return -1
	case s.seq > o.seq:
		return 1
	default:
		return 0
	}
}

func (s *Size) String() string { return s.name }

func (s *Size) GoString() string {
	if s.pow2 {
		return fmt.Sprintf("%s[%d, %d, pow2]", s.name, s.min, s.max)
	}
	return fmt.Sprintf("%s[%d, %d]", s.name, s.min, s.max)
}

// A Table holds the sizes of one problem, indexed by name.
type Table struct {
	sizes map[string]*Size
}

func NewTable() *Table {
	return &Table{sizes: map[string]*Size{}}
}

// Add creates the size described by spec and adds it to the table.
func (t *Table) Add(spec Spec) (*Size, error) {
	if _, ok := t.sizes[spec.Name]; ok {
		return nil, fmt.Errorf("size %s declared twice", spec.Name)
	}
	s, err := New(spec)
	if err != nil {
		return nil, err
	}
	t.sizes[s.name] = s
	return s, nil
}

func (t *Table) Lookup(name string) (*Size, bool) {
	s, ok := t.sizes[name]
	return s, ok
}

// Names returns the names of all sizes in the table, sorted.
func (t *Table) Names() []string {
	names := maps.Keys(t.sizes)
	slices.Sort(names)
	return names
}

// Sizes returns all sizes in the table, sorted by name.
func (t *Table) Sizes() []*Size {
	out := make([]*Size, 0, len(t.sizes))
	for _, name := range t.Names() {
		out = append(out, t.sizes[name])
	}
	return out
}

func (t *Table) Len() int { return len(t.sizes) }
