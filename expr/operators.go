package expr

import (
	"errors"
	"fmt"

	"honnef.co/go/sym"
	"honnef.co/go/sym/size"
)

type operator struct {
	min, max int // max < 0 means any number of operands
	fn       func(args []Value) (Value, error)
}

func (o operator) arity() string {
	switch {
	case o.max < 0:
		return fmt.Sprintf("at least %d operands", o.min)
	case o.min == 1 && o.max == 1:
		return "one operand"
	case o.min == o.max:
		return fmt.Sprintf("%d operands", o.min)
	default:
		return fmt.Sprintf("%d to %d operands", o.min, o.max)
	}
}

var operators = map[string]operator{
	"add":      {1, -1, evalAdd},
	"sub":      {2, 2, evalSub},
	"mul":      {1, -1, evalMul},
	"div":      {2, 2, evalDiv},
	"max":      {1, -1, evalMax},
	"min":      {1, -1, evalMin},
	"lcm":      {1, -1, evalLcm},
	"div_ceil": {2, 2, evalDivCeil},
	"float":    {1, 1, evalFloat},
}

func floats(args []Value) ([]*Float, error) {
	out := make([]*Float, len(args))
	for i, arg := range args {
		f, err := arg.AsFloat()
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func ints(args []Value) ([]*Int, bool) {
	out := make([]*Int, len(args))
	for i, arg := range args {
		if arg.Int == nil {
			return nil, false
		}
		out[i] = arg.Int
	}
	return out, true
}

func ratios(args []Value) ([]*sym.Ratio[*size.Size], bool) {
	out := make([]*sym.Ratio[*size.Size], len(args))
	for i, arg := range args {
		r, ok := arg.ratio()
		if !ok {
			return nil, false
		}
		out[i] = r
	}
	return out, true
}

func evalAdd(args []Value) (Value, error) {
	fs, err := floats(args)
	if err != nil {
		return Value{}, err
	}
	out := fs[0]
	for _, f := range fs[1:] {
		out = out.Add(f)
	}
	return floatValue(out), nil
}

// Subtracting a constant from an integer that is never smaller than it
// gives an integer.
func evalSub(args []Value) (Value, error) {
	a, b := args[0], args[1]
	if a.Int != nil && b.Int != nil {
		if k, ok := b.Int.ToU32(); ok && a.Int.MinValue() >= uint64(k) {
			return intValue(a.Int.SubU32(k)), nil
		}
	}
	fs, err := floats(args)
	if err != nil {
		return Value{}, err
	}
	return floatValue(fs[0].Sub(fs[1])), nil
}

func evalMul(args []Value) (Value, error) {
	if is, ok := ints(args); ok {
		return intValue(sym.Product(is...)), nil
	}
	fs, err := floats(args)
	if err != nil {
		return Value{}, err
	}
	out := fs[0]
	for _, f := range fs[1:] {
		out = out.Mul(f)
	}
	return floatValue(out), nil
}

// The divisor must be a constant or an integer that cannot be zero.
func evalDiv(args []Value) (Value, error) {
	a, b := args[0], args[1]
	if c, ok := b.constant(); ok && c == 0 {
		return Value{}, errors.New("division by zero")
	}
	if b.Int != nil {
		if b.Int.MinValue() == 0 {
			return Value{}, fmt.Errorf("divisor %v can be zero", b.Int)
		}
		if a.Int != nil {
			return floatValue(sym.FloatFromRatio(sym.NewFloatRatio(1, a.Int, b.Int))), nil
		}
		return floatValue(a.Float.DivInt(b.Int)), nil
	}
	c, ok := b.constant()
	if !ok {
		return Value{}, fmt.Errorf("divisor %v must be an integer or a constant", b)
	}
	fa, err := a.AsFloat()
	if err != nil {
		return Value{}, err
	}
	return floatValue(fa.DivF64(c)), nil
}

func evalMax(args []Value) (Value, error) {
	fs, err := floats(args)
	if err != nil {
		return Value{}, err
	}
	return floatValue(sym.MaxFloat(fs...)), nil
}

// The min of ratios is an integer.
func evalMin(args []Value) (Value, error) {
	if rs, ok := ratios(args); ok {
		return intValue(sym.NewMin(rs...)), nil
	}
	fs, err := floats(args)
	if err != nil {
		return Value{}, err
	}
	return floatValue(sym.MinFloat(fs...)), nil
}

func evalLcm(args []Value) (Value, error) {
	rs, ok := ratios(args)
	if !ok {
		return Value{}, errors.New("operands must be products and quotients of sizes")
	}
	for _, r := range rs {
		if r.IsZero() {
			return Value{}, errors.New("operand is zero")
		}
	}
	return intValue(sym.NewLcm(rs...)), nil
}

func evalDivCeil(args []Value) (Value, error) {
	a, b := args[0], args[1]
	if a.Int == nil {
		return Value{}, fmt.Errorf("dividend %v is not an integer", a)
	}
	var k uint32
	ok := b.Int != nil
	if ok {
		k, ok = b.Int.ToU32()
	}
	if !ok || k == 0 {
		return Value{}, fmt.Errorf("divisor %v is not a positive 32-bit constant", b)
	}
	return intValue(a.Int.DivCeil(k)), nil
}

func evalFloat(args []Value) (Value, error) {
	f, err := args[0].AsFloat()
	if err != nil {
		return Value{}, err
	}
	return floatValue(f), nil
}
