// Package expr parses a small s-expression language into symbolic
// bound expressions over the sizes of a size.Table.
//
//	Expr ::= Int | Float | Ident | '(' Op Expr* ')'
//	Op   ::= add | sub | mul | div | max | min | lcm | div_ceil | float
//
// Integer literals, sizes and the results of lcm, div_ceil, integer
// subtraction and products of integers are symbolic integers; everything
// else is a symbolic float.
package expr

import (
	"errors"
	"fmt"
	"go/token"
	"strconv"

	"honnef.co/go/sym"
	"honnef.co/go/sym/size"
)

type Parser struct {
	Sizes *size.Table
	// Names holds named values that expressions may refer to. They
	// shadow sizes of the same name.
	Names map[string]Value
	// Filename is used in error messages. It defaults to "<input>".
	Filename string

	f    *token.File
	lex  *lexer
	cur  item
	last *item
}

// Parse parses the single expression s.
func Parse(sizes *size.Table, s string) (Value, error) {
	p := &Parser{Sizes: sizes}
	return p.Parse(s)
}

// MustParse is like Parse but panics on errors.
func MustParse(sizes *size.Table, s string) Value {
	v, err := Parse(sizes, s)
	if err != nil {
		panic(err)
	}
	return v
}

func (p *Parser) Parse(s string) (Value, error) {
	if p.Sizes == nil {
		return Value{}, errors.New("parser has no size table")
	}
	name := p.Filename
	if name == "" {
		name = "<input>"
	}
	p.f = token.NewFileSet().AddFile(name, -1, len(s))
	p.lex = newLexer(p.f, s)
	p.cur = item{}
	p.last = nil

	v, err := p.expr()
	if err != nil {
		return Value{}, err
	}
	if _, ok := p.accept(itemEOF); !ok {
		return Value{}, p.unexpectedToken("end of input")
	}
	return v, nil
}

func (p *Parser) next() item {
	if p.last != nil {
		n := *p.last
		p.last = nil
		return n
	}
	p.cur = p.lex.next()
	return p.cur
}

func (p *Parser) rewind() {
	p.last = &p.cur
}

func (p *Parser) accept(typ itemType) (item, bool) {
	n := p.next()
	if n.typ == typ {
		return n, true
	}
	p.rewind()
	return item{}, false
}

func (p *Parser) position(it item) token.Position {
	return p.f.Position(p.f.Pos(it.pos))
}

func (p *Parser) errorf(it item, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s", p.position(it), fmt.Sprintf(format, args...))
}

func (p *Parser) unexpectedToken(valid string) error {
	if p.cur.typ == itemError {
		return p.errorf(p.cur, "%s", p.cur.val)
	}
	var got string
	switch p.cur.typ {
	case itemInt, itemFloat, itemIdent:
		got = p.cur.val
	default:
		got = "'" + p.cur.typ.String() + "'"
	}
	return p.errorf(p.cur, "expected %s, found %s", valid, got)
}

func (p *Parser) expr() (Value, error) {
	n := p.next()
	switch n.typ {
	case itemInt:
		c, err := strconv.ParseUint(n.val, 10, 64)
		if err != nil {
			return Value{}, p.errorf(n, "integer %s out of range", n.val)
		}
		return intValue(sym.IntConst[*size.Size](c)), nil
	case itemFloat:
		c, err := strconv.ParseFloat(n.val, 64)
		if err != nil {
			return Value{}, p.errorf(n, "float %s out of range", n.val)
		}
		return floatValue(sym.FloatConst[*size.Size](c)), nil
	case itemIdent:
		if v, ok := p.Names[n.val]; ok {
			return v, nil
		}
		s, ok := p.Sizes.Lookup(n.val)
		if !ok {
			return Value{}, p.errorf(n, "unknown size %s", n.val)
		}
		return intValue(sym.IntAtom(s)), nil
	case itemLeftParen:
		op, ok := p.accept(itemIdent)
		if !ok {
			return Value{}, p.unexpectedToken("operator")
		}
		var args []Value
		for {
			if _, ok := p.accept(itemRightParen); ok {
				break
			}
			arg, err := p.expr()
			if err != nil {
				return Value{}, err
			}
			args = append(args, arg)
		}
		return p.apply(op, args)
	default:
		return Value{}, p.unexpectedToken("expression")
	}
}

// apply evaluates the operator op. The algebra panics with a message
// when an operation is undefined for its operands, such as a
// subtraction that can become negative; those panics are reported as
// errors at the operator.
func (p *Parser) apply(op item, args []Value) (v Value, err error) {
	o, ok := operators[op.val]
	if !ok {
		return Value{}, p.errorf(op, "unknown operator %s", op.val)
	}
	if len(args) < o.min || (o.max >= 0 && len(args) > o.max) {
		return Value{}, p.errorf(op, "%s takes %s, got %d", op.val, o.arity(), len(args))
	}

	defer func() {
		if r := recover(); r != nil {
			msg, ok := r.(string)
			if !ok {
				panic(r)
			}
			v, err = Value{}, p.errorf(op, "%s: %s", op.val, msg)
		}
	}()
	v, err = o.fn(args)
	if err != nil {
		return Value{}, p.errorf(op, "%s: %s", op.val, err)
	}
	// Compute the bounds now, so that values that cannot be represented
	// are rejected here.
	v.Bounds()
	return v, nil
}
