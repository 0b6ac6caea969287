package expr

import (
	"fmt"
	"go/token"
	"unicode"
	"unicode/utf8"
)

type item struct {
	typ itemType
	val string
	pos int
}

type itemType int

const (
	itemError itemType = iota
	itemLeftParen
	itemRightParen
	itemInt
	itemFloat
	itemIdent
	itemEOF
)

func (typ itemType) String() string {
	switch typ {
	case itemError:
		return "ERROR"
	case itemLeftParen:
		return "("
	case itemRightParen:
		return ")"
	case itemInt:
		return "integer"
	case itemFloat:
		return "float"
	case itemIdent:
		return "identifier"
	case itemEOF:
		return "EOF"
	default:
		return fmt.Sprintf("itemType(%d)", int(typ))
	}
}

const eof = -1

type lexer struct {
	f *token.File

	input string
	start int
	pos   int
	width int
}

func newLexer(f *token.File, input string) *lexer {
	return &lexer{f: f, input: input}
}

func (l *lexer) nextRune() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	if r == '\n' {
		l.f.AddLine(l.pos)
	}
	return r
}

func (l *lexer) backup() {
	l.pos -= l.width
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *lexer) emit(typ itemType) item {
	it := item{typ: typ, val: l.input[l.start:l.pos], pos: l.start}
	l.start = l.pos
	return it
}

func (l *lexer) errorf(format string, args ...interface{}) item {
	it := item{typ: itemError, val: fmt.Sprintf(format, args...), pos: l.start}
	l.start = l.pos
	return it
}

// next returns the next item of the input. After the end of the input
// it keeps returning itemEOF.
func (l *lexer) next() item {
	for {
		r := l.nextRune()
		switch {
		case r == eof:
			return l.emit(itemEOF)
		case r == ';':
			// comment until the end of the line
			for r := l.nextRune(); r != '\n' && r != eof; r = l.nextRune() {
			}
			l.start = l.pos
		case unicode.IsSpace(r):
			l.start = l.pos
		case r == '(':
			return l.emit(itemLeftParen)
		case r == ')':
			return l.emit(itemRightParen)
		case r == '-' || r == '.' || isDigit(r):
			return l.number()
		case r == '_' || unicode.IsLetter(r):
			return l.ident()
		default:
			return l.errorf("unexpected character %q", r)
		}
	}
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func (l *lexer) digits() bool {
	seen := false
	for isDigit(l.peek()) {
		l.nextRune()
		seen = true
	}
	return seen
}

// number scans a decimal literal. Literals with a sign, a fraction or an
// exponent are floats.
func (l *lexer) number() item {
	l.backup()
	typ := itemInt
	if l.peek() == '-' {
		l.nextRune()
		typ = itemFloat
	}
	ok := l.digits()
	if l.peek() == '.' {
		l.nextRune()
		typ = itemFloat
		ok = l.digits() || ok
	}
	if !ok {
		return l.errorf("malformed number %q", l.input[l.start:l.pos])
	}
	if r := l.peek(); r == 'e' || r == 'E' {
		l.nextRune()
		typ = itemFloat
		if r := l.peek(); r == '+' || r == '-' {
			l.nextRune()
		}
		if !l.digits() {
			return l.errorf("malformed number %q", l.input[l.start:l.pos])
		}
	}
	if r := l.peek(); r == '_' || unicode.IsLetter(r) || isDigit(r) {
		l.nextRune()
		return l.errorf("malformed number %q", l.input[l.start:l.pos])
	}
	return l.emit(typ)
}

func (l *lexer) ident() item {
	for {
		r := l.peek()
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.nextRune()
	}
	return l.emit(itemIdent)
}
