package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// tokenType is the kind of a lexical token
type tokenType int

const (
	tokenEOF tokenType = iota
	tokenLeftParen
	tokenRightParen
	tokenSymbol
	tokenString
)

type token struct {
	typ   tokenType
	value string
	line  int
}

// lexer tokenizes S-expressions from an io.Reader
type lexer struct {
	reader *bufio.Reader
	peeked *rune
	line   int
}

func newLexer(r io.Reader) *lexer {
	return &lexer{reader: bufio.NewReader(r), line: 1}
}

// next reads the next token from the input
func (l *lexer) next() (token, error) {
	// Skip whitespace and comments
	for {
		ch, err := l.peek()
		if err == io.EOF {
			return token{typ: tokenEOF, line: l.line}, nil
		}
		if err != nil {
			return token{}, err
		}

		if unicode.IsSpace(ch) {
			l.read()
			continue
		}

		// comments run from ';' or '#' to the end of the line
		if ch == ';' || ch == '#' {
			for {
				c, err := l.read()
				if err != nil || c == '\n' {
					break
				}
			}
			continue
		}
		break
	}

	ch, _ := l.peek()
	switch ch {
	case '(':
		l.read()
		return token{typ: tokenLeftParen, value: "(", line: l.line}, nil
	case ')':
		l.read()
		return token{typ: tokenRightParen, value: ")", line: l.line}, nil
	case '"':
		return l.readString()
	default:
		return l.readSymbol()
	}
}

func (l *lexer) peek() (rune, error) {
	if l.peeked != nil {
		return *l.peeked, nil
	}
	ch, _, err := l.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	l.peeked = &ch
	return ch, nil
}

func (l *lexer) read() (rune, error) {
	var ch rune
	if l.peeked != nil {
		ch = *l.peeked
		l.peeked = nil
	} else {
		var err error
		ch, _, err = l.reader.ReadRune()
		if err != nil {
			return 0, err
		}
	}
	if ch == '\n' {
		l.line++
	}
	return ch, nil
}

// readString reads a quoted string with backslash escapes
func (l *lexer) readString() (token, error) {
	line := l.line
	l.read()

	var sb strings.Builder
	for {
		ch, err := l.read()
		if err == io.EOF {
			return token{}, fmt.Errorf("line %d: unexpected EOF in string", line)
		}
		if err != nil {
			return token{}, err
		}

		if ch == '"' {
			break
		}
		if ch == '\\' {
			next, err := l.read()
			if err != nil {
				return token{}, fmt.Errorf("line %d: unexpected EOF after backslash", line)
			}
			switch next {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			default:
				sb.WriteRune(next)
			}
			continue
		}
		sb.WriteRune(ch)
	}
	return token{typ: tokenString, value: sb.String(), line: line}, nil
}

// readSymbol reads an unquoted symbol (identifier, number, etc.)
func (l *lexer) readSymbol() (token, error) {
	line := l.line
	var sb strings.Builder
	for {
		ch, err := l.peek()
		if err == io.EOF {
			break
		}
		if err != nil {
			return token{}, err
		}
		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' || ch == ';' {
			break
		}
		l.read()
		sb.WriteRune(ch)
	}
	return token{typ: tokenSymbol, value: sb.String(), line: line}, nil
}

// Sexp is a node of a parsed trace: an Atom or a *List.
type Sexp interface {
	IsLeaf() bool
	LeafCount() int
	Line() int
	String() string
}

// Atom is a symbol, number or quoted string.
type Atom struct {
	Value  string
	Quoted bool
	line   int
}

func (a Atom) IsLeaf() bool   { return true }
func (a Atom) LeafCount() int { return 1 }
func (a Atom) Line() int      { return a.line }

func (a Atom) String() string {
	if a.Quoted {
		return strconv.Quote(a.Value)
	}
	return a.Value
}

// Float reads the atom as a number; "inf" and "-inf" are accepted.
func (a Atom) Float() (float64, error) {
	if a.Quoted {
		return 0, fmt.Errorf("line %d: expected a number, got string %q", a.line, a.Value)
	}
	v, err := strconv.ParseFloat(a.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: expected a number, got %q", a.line, a.Value)
	}
	return v, nil
}

// Bool reads the atom as true/false (also yes/no).
func (a Atom) Bool() (bool, error) {
	switch a.Value {
	case "true", "yes":
		return true, nil
	case "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("line %d: expected true or false, got %q", a.line, a.Value)
}

// List is a parenthesized list of nodes.
type List struct {
	elements []Sexp
	line     int
}

func (l *List) IsLeaf() bool   { return false }
func (l *List) LeafCount() int { return len(l.elements) }
func (l *List) Line() int      { return l.line }

func (l *List) String() string {
	parts := make([]string, len(l.elements))
	for i, e := range l.elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Get returns the element at index, or nil.
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.elements) {
		return nil
	}
	return l.elements[index]
}

// Len returns the number of elements.
func (l *List) Len() int { return len(l.elements) }

// Head returns the leading symbol of the list, "" if it has none.
func (l *List) Head() string {
	if a, ok := l.Get(0).(Atom); ok && !a.Quoted {
		return a.Value
	}
	return ""
}

// Args returns the elements after the head.
func (l *List) Args() []Sexp {
	if len(l.elements) == 0 {
		return nil
	}
	return l.elements[1:]
}

// parser parses S-expressions from a lexer
type parser struct {
	lexer   *lexer
	current token
}

// ParseSexp parses every top-level expression in r.
func ParseSexp(r io.Reader) ([]Sexp, error) {
	p := &parser{lexer: newLexer(r)}
	var result []Sexp

	if err := p.advance(); err != nil {
		return nil, err
	}
	for p.current.typ != tokenEOF {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		result = append(result, expr)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (p *parser) advance() error {
	tok, err := p.lexer.next()
	if err != nil {
		return err
	}
	p.current = tok
	return nil
}

func (p *parser) parseExpr() (Sexp, error) {
	switch p.current.typ {
	case tokenLeftParen:
		return p.parseList()
	case tokenSymbol:
		return Atom{Value: p.current.value, line: p.current.line}, nil
	case tokenString:
		return Atom{Value: p.current.value, Quoted: true, line: p.current.line}, nil
	case tokenRightParen:
		return nil, fmt.Errorf("line %d: unexpected ')'", p.current.line)
	default:
		return nil, fmt.Errorf("line %d: unexpected EOF", p.current.line)
	}
}

func (p *parser) parseList() (Sexp, error) {
	list := &List{line: p.current.line}
	for {
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch p.current.typ {
		case tokenRightParen:
			return list, nil
		case tokenEOF:
			return nil, fmt.Errorf("line %d: unexpected EOF in list opened on line %d", p.current.line, list.line)
		}
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list.elements = append(list.elements, elem)
	}
}
