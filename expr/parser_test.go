package expr

import (
	"strings"
	"testing"

	"honnef.co/go/sym"
	"honnef.co/go/sym/size"
)

func testSizes(t testing.TB) *size.Table {
	tbl := size.NewTable()
	for _, spec := range []size.Spec{
		{Name: "x", Min: 1, Max: 10},
		{Name: "y", Min: 1, Max: 10},
		{Name: "m", Min: 16, Max: 1024, Pow2: true},
	} {
		if _, err := tbl.Add(spec); err != nil {
			t.Fatal(err)
		}
	}
	return tbl
}

func TestParse(t *testing.T) {
	sizes := testSizes(t)
	tests := []struct {
		in    string
		want  string
		isInt bool
	}{
		{"x", "x", true},
		{"42", "42", true},
		{"2.5", "2.5", false},
		{"(mul 4 x)", "4*x", true},
		{"(mul x 0.5)", "0.5*x", false},
		{"(div_ceil (mul 4 x) 8)", "div_ceil(4*x, 8)", true},
		{"(div_ceil m 16)", "div_ceil(m, 16)", true},
		{"(add (max x 3) 1)", "max(4, 1 + x)", false},
		{"(sub x 1)", "x - 1", true},
		{"(sub x 2)", "-2 + x", false},
		{"(div x 4)", "0.25*x", false},
		{"(div 3 y)", "3/y", false},
		{"(lcm x y)", "lcm(1, x, y)", true},
		{"(min x y 5)", "min(5, x, y)", true},
		{"(min x 2.5)", "min(2.5, x)", false},
		{"(float (div_ceil x 3))", "div_ceil(x, 3)", false},
		{"(add (mul x y) (sub (mul x y) 1))", "-1 + 2*x*y", false},
		{"; cost of one tile\n(max\n  x\n  3) ; trailing", "max(3, x)", false},
	}
	for _, tt := range tests {
		v, err := Parse(sizes, tt.in)
		if err != nil {
			t.Errorf("Parse(%q): %s", tt.in, err)
			continue
		}
		if got := v.String(); got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if v.IsInt() != tt.isInt {
			t.Errorf("Parse(%q).IsInt() = %t, want %t", tt.in, v.IsInt(), tt.isInt)
		}
	}
}

func TestParseBounds(t *testing.T) {
	sizes := testSizes(t)
	tests := []struct {
		in       string
		min, max float64
	}{
		{"x", 1, 10},
		{"(mul 4 x)", 4, 40},
		{"(div_ceil (mul 4 x) 8)", 1, 5},
		{"(add (max x 3) 1)", 4, 11},
		{"(sub x 1)", 0, 9},
		{"(sub x 2)", -1, 8},
		{"(div x 4)", 0.25, 2.5},
		{"(min x y 5)", 1, 5},
		{"(min x 2.5)", 1, 2.5},
		{"(float (div_ceil x 3))", 1, 4},
	}
	for _, tt := range tests {
		v, err := Parse(sizes, tt.in)
		if err != nil {
			t.Errorf("Parse(%q): %s", tt.in, err)
			continue
		}
		lo, hi := v.Bounds()
		if !sym.DefaultTolerance.IsClose(lo, tt.min) || !sym.DefaultTolerance.IsClose(hi, tt.max) {
			t.Errorf("%s in [%v, %v], want [%v, %v]", v, lo, hi, tt.min, tt.max)
		}
	}
}

func TestParseErrors(t *testing.T) {
	sizes := testSizes(t)
	tests := []struct {
		in   string
		want string
	}{
		{"(foo x)", "<input>:1:2: unknown operator foo"},
		{"(add x", "<input>:1:7: expected expression, found 'EOF'"},
		{"()", "<input>:1:2: expected operator, found ')'"},
		{"x y", "<input>:1:3: expected end of input, found y"},
		{"z", "<input>:1:1: unknown size z"},
		{"(add\n  x\n  zz)", "<input>:3:3: unknown size zz"},
		{"(sub x)", "<input>:1:2: sub takes 2 operands, got 1"},
		{"(float x y)", "<input>:1:2: float takes one operand, got 2"},
		{"(max)", "<input>:1:2: max takes at least 1 operands, got 0"},
		{"12ab", `<input>:1:1: malformed number "12a"`},
		{"(add x #)", `<input>:1:8: unexpected character '#'`},
		{"1e400", "<input>:1:1: float 1e400 out of range"},
		{"99999999999999999999999", "<input>:1:1: integer 99999999999999999999999 out of range"},
		{"(div x (sub x 1))", "<input>:1:2: div: divisor x - 1 can be zero"},
		{"(div x (add x 1))", "<input>:1:2: div: divisor 1 + x must be an integer or a constant"},
		{"(div x 0)", "<input>:1:2: div: division by zero"},
		{"(lcm x 2.5)", "<input>:1:2: lcm: operands must be products and quotients of sizes"},
		{"(lcm x 0)", "<input>:1:2: lcm: operand is zero"},
		{"(float (lcm x y))", "<input>:1:2: float: cannot convert lcm(1, x, y) to a float"},
		{"(div_ceil x 0)", "<input>:1:2: div_ceil: divisor 0 is not a positive 32-bit constant"},
		{"(div_ceil 2.5 2)", "<input>:1:2: div_ceil: dividend 2.5 is not an integer"},
	}
	for _, tt := range tests {
		_, err := Parse(sizes, tt.in)
		if err == nil {
			t.Errorf("Parse(%q) succeeded, want %q", tt.in, tt.want)
			continue
		}
		if err.Error() != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, err, tt.want)
		}
	}
}

func TestParseUnrepresentable(t *testing.T) {
	sizes := testSizes(t)
	in := "(mul" + strings.Repeat(" x", 20) + ")"
	_, err := Parse(sizes, in)
	if err == nil || !strings.Contains(err.Error(), "unable to represent") {
		t.Errorf("Parse(%q) = %v, want an overflow error", in, err)
	}
}

func TestParserFilename(t *testing.T) {
	p := &Parser{Sizes: testSizes(t), Filename: "cost.toml"}
	_, err := p.Parse("(add x\n  (mul y w))")
	if want := "cost.toml:2:10: unknown size w"; err == nil || err.Error() != want {
		t.Errorf("got %v, want %q", err, want)
	}
	p.Names = map[string]Value{"w": MustParse(p.Sizes, "(mul 2 x)")}
	v, err := p.Parse("(add x\n  (mul y w))")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := v.String(), "x + 2*x*y"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if _, err := (&Parser{}).Parse("x"); err == nil {
		t.Errorf("parsing without sizes succeeded")
	}
}

func FuzzParse(f *testing.F) {
	for _, seed := range []string{
		"x",
		"(add (max x 3) 1)",
		"(div_ceil (mul 4 x) 8)",
		"(min x y 5)",
		"(sub (mul x y) 1)",
		"(div (float (lcm x m)) y)",
		"(mul (div_ceil m 16) (div 1 m))",
		"(max (sub x 2) (mul -0.5 y))",
	} {
		f.Add(seed)
	}
	sizes := testSizes(f)
	f.Fuzz(func(t *testing.T, in string) {
		v, err := Parse(sizes, in)
		if err != nil {
			return
		}
		_ = v.String()
		lo, hi := v.Bounds()
		if lo > hi && !sym.DefaultTolerance.IsClose(lo, hi) {
			t.Fatalf("%q: %v has bounds [%v, %v]", in, v, lo, hi)
		}
	})
}
