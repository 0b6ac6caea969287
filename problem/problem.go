// Package problem loads problem files and computes the bounds of the
// expressions they declare.
//
// A problem file declares sizes and named expressions over them, in TOML
// or YAML:
//
//	[[size]]
//	name = "x"
//	min = 1
//	max = 10
//
//	[[int]]
//	name = "tiles"
//	expr = "(div_ceil (mul 4 x) 8)"
//
//	[[float]]
//	name = "cost"
//	expr = "(add (max x 3) tiles)"
//
// Expressions may refer to sizes and to expressions declared before them.
// Integer expressions are declared before float expressions.
package problem

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go/token"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"honnef.co/go/sym/expr"
	"honnef.co/go/sym/size"
)

// File is the decoded form of a problem file.
type File struct {
	Sizes  []size.Spec `toml:"size" yaml:"size"`
	Ints   []Decl      `toml:"int" yaml:"int"`
	Floats []Decl      `toml:"float" yaml:"float"`
}

type Decl struct {
	Name string `toml:"name" yaml:"name"`
	Expr string `toml:"expr" yaml:"expr"`
}

type Format int

const (
	TOML Format = iota
	YAML
)

// FormatOf picks the format of a problem file from its extension.
func FormatOf(path string) (Format, error) {
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return 0, fmt.Errorf("%s: unknown problem file extension %q", path, ext)
	}
}

// Decode decodes a problem file. Unknown keys are errors.
func Decode(r io.Reader, format Format) (*File, error) {
	var f File
	switch format {
	case TOML:
		meta, err := toml.DecodeReader(r, &f)
		if err != nil {
			return nil, err
		}
		if keys := meta.Undecoded(); len(keys) > 0 {
			return nil, fmt.Errorf("unknown key %s", keys[0])
		}
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && err != io.EOF {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown format %d", format)
	}
	return &f, nil
}

// A Problem is a problem file whose expressions have been parsed.
type Problem struct {
	Name  string
	Sizes *size.Table
	Exprs []Expr
}

type Expr struct {
	Name  string
	Value expr.Value
}

// Build creates the sizes of f and parses its expressions. name is used
// in error messages.
func (f *File) Build(name string) (*Problem, error) {
	prob := &Problem{Name: name, Sizes: size.NewTable()}
	for _, spec := range f.Sizes {
		if _, err := prob.Sizes.Add(spec); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	p := &expr.Parser{Sizes: prob.Sizes, Names: map[string]expr.Value{}}
	declare := func(d Decl, isInt bool) error {
		if _, ok := prob.Sizes.Lookup(d.Name); ok {
			return fmt.Errorf("%s: %s is already declared as a size", name, d.Name)
		}
		if _, ok := p.Names[d.Name]; ok {
			return fmt.Errorf("%s: %s declared twice", name, d.Name)
		}
		if !token.IsIdentifier(d.Name) {
			return fmt.Errorf("%s: invalid expression name %q", name, d.Name)
		}
		p.Filename = name + "[" + d.Name + "]"
		v, err := p.Parse(d.Expr)
		if err != nil {
			return err
		}
		if isInt && !v.IsInt() {
			return fmt.Errorf("%s: %s: %v is not an integer", name, d.Name, v)
		}
		if !isInt {
			fv, err := v.AsFloat()
			if err != nil {
				return fmt.Errorf("%s: %s: %w", name, d.Name, err)
			}
			v = expr.Value{Float: fv}
		}
		if lo, hi := v.Bounds(); math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			return fmt.Errorf("%s: %s: bounds of %v are not finite", name, d.Name, v)
		}
		p.Names[d.Name] = v
		prob.Exprs = append(prob.Exprs, Expr{Name: d.Name, Value: v})
		return nil
	}
	for _, d := range f.Ints {
		if err := declare(d, true); err != nil {
			return nil, err
		}
	}
	for _, d := range f.Floats {
		if err := declare(d, false); err != nil {
			return nil, err
		}
	}
	return prob, nil
}

// Load reads, decodes and builds the problem file at path.
func Load(path string) (*Problem, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Decode(bytes.NewReader(b), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f.Build(path)
}

// A Report describes the bounds of one expression.
type Report struct {
	Name string      `json:"name"`
	Kind string      `json:"kind"`
	Expr string      `json:"expr"`
	Min  json.Number `json:"min"`
	Max  json.Number `json:"max"`
}

func (r Report) String() string {
	return fmt.Sprintf("%s = %s in [%s, %s]", r.Name, r.Expr, r.Min, r.Max)
}

// Reports returns one report per expression, in declaration order.
func (prob *Problem) Reports() []Report {
	out := make([]Report, len(prob.Exprs))
	for i, e := range prob.Exprs {
		r := Report{Name: e.Name, Expr: e.Value.String()}
		if e.Value.IsInt() {
			r.Kind = "int"
			r.Min = json.Number(strconv.FormatUint(e.Value.Int.MinValue(), 10))
			r.Max = json.Number(strconv.FormatUint(e.Value.Int.MaxValue(), 10))
		} else {
			r.Kind = "float"
			r.Min = json.Number(strconv.FormatFloat(e.Value.Float.MinValue(), 'g', -1, 64))
			r.Max = json.Number(strconv.FormatFloat(e.Value.Float.MaxValue(), 'g', -1, 64))
		}
		out[i] = r
	}
	return out
}
