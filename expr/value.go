package expr

import (
	"fmt"
	"math/big"

	"honnef.co/go/sym"
	"honnef.co/go/sym/size"
)

type (
	Int   = sym.Int[*size.Size]
	Float = sym.Float[*size.Size]
)

// A Value is a parsed expression. Exactly one of Int and Float is set.
type Value struct {
	Int   *Int
	Float *Float
}

func (v Value) IsInt() bool { return v.Int != nil }

func (v Value) String() string {
	if v.Int != nil {
		return v.Int.String()
	}
	return v.Float.String()
}

// Bounds returns the smallest and largest value v can take.
func (v Value) Bounds() (min, max float64) {
	if v.Int != nil {
		return float64(v.Int.MinValue()), float64(v.Int.MaxValue())
	}
	return v.Float.MinValue(), v.Float.MaxValue()
}

// AsFloat converts v to a Float. Lcms have no float counterpart.
func (v Value) AsFloat() (*Float, error) {
	if v.Float != nil {
		return v.Float, nil
	}
	if !v.Int.Floatable() {
		return nil, fmt.Errorf("cannot convert %v to a float", v.Int)
	}
	return v.Int.ToSymbolicFloat(), nil
}

func (v Value) constant() (float64, bool) {
	if v.Float != nil {
		return v.Float.AsF64()
	}
	c, ok := v.Int.Constant()
	if !ok {
		return 0, false
	}
	f, _ := new(big.Float).SetInt(c).Float64()
	return f, true
}

func (v Value) ratio() (*sym.Ratio[*size.Size], bool) {
	if v.Int == nil {
		return nil, false
	}
	return v.Int.AsRatio()
}

func intValue(i *Int) Value     { return Value{Int: i} }
func floatValue(f *Float) Value { return Value{Float: f} }
