package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokEdge
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokEquals
	tokComma
	tokSemi
)

var tokenNames = map[tokenKind]string{
	tokEOF:      "end of input",
	tokIdent:    "identifier",
	tokString:   "string",
	tokEdge:     "edge operator",
	tokLBrace:   "'{'",
	tokRBrace:   "'}'",
	tokLBracket: "'['",
	tokRBracket: "']'",
	tokEquals:   "'='",
	tokComma:    "','",
	tokSemi:     "';'",
}

var punct = map[rune]tokenKind{
	'{': tokLBrace, '}': tokRBrace,
	'[': tokLBracket, ']': tokRBracket,
	'=': tokEquals, ',': tokComma, ';': tokSemi,
}

func (k tokenKind) String() string { return tokenNames[k] }

type token struct {
	kind tokenKind
	text string
	pos  Pos
}

// lexer splits source text into tokens. Whitespace and comments are
// skipped; newlines carry no meaning.
type lexer struct {
	src  string
	off  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

// all tokenizes the whole input. The last token is always tokEOF.
func (l *lexer) all() ([]token, error) {
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) peekRune(ahead int) rune {
	off := l.off
	for i := 0; i < ahead; i++ {
		if off >= len(l.src) {
			return 0
		}
		_, size := utf8.DecodeRuneInString(l.src[off:])
		off += size
	}
	if off >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[off:])
	return r
}

func (l *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.off:])
	l.off += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) pos() Pos { return Pos{Line: l.line, Col: l.col} }

func (l *lexer) skipSpaceAndComments() error {
	for l.off < len(l.src) {
		r := l.peekRune(0)
		switch {
		case unicode.IsSpace(r):
			l.advance()
		case r == '#', r == '/' && l.peekRune(1) == '/':
			for l.off < len(l.src) && l.peekRune(0) != '\n' {
				l.advance()
			}
		case r == '/' && l.peekRune(1) == '*':
			start := l.pos()
			l.advance()
			l.advance()
			for {
				if l.off >= len(l.src) {
					return &SyntaxError{Pos: start, Msg: "unterminated comment"}
				}
				if l.peekRune(0) == '*' && l.peekRune(1) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) next() (token, error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return token{}, err
	}
	start := l.pos()
	if l.off >= len(l.src) {
		return token{kind: tokEOF, pos: start}, nil
	}

	for _, op := range []string{OpBoth, OpForward, OpBackward, OpNone} {
		if strings.HasPrefix(l.src[l.off:], op) {
			for range op {
				l.advance()
			}
			return token{kind: tokEdge, text: op, pos: start}, nil
		}
	}

	r := l.peekRune(0)
	if kind, ok := punct[r]; ok {
		l.advance()
		return token{kind: kind, text: string(r), pos: start}, nil
	}

	if r == '"' || r == '\'' {
		return l.lexString(start)
	}
	if isIdentRune(r) {
		var b strings.Builder
		for l.off < len(l.src) && isIdentRune(l.peekRune(0)) {
			b.WriteRune(l.advance())
		}
		return token{kind: tokIdent, text: b.String(), pos: start}, nil
	}
	return token{}, &SyntaxError{Pos: start, Msg: "unexpected character " + quoteRune(r)}
}

func (l *lexer) lexString(start Pos) (token, error) {
	quote := l.advance()
	var b strings.Builder
	for {
		if l.off >= len(l.src) {
			return token{}, &SyntaxError{Pos: start, Msg: "unterminated string"}
		}
		r := l.advance()
		switch {
		case r == quote:
			return token{kind: tokString, text: b.String(), pos: start}, nil
		case r == '\\' && l.off < len(l.src):
			esc := l.advance()
			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			default:
				b.WriteRune(esc)
			}
		default:
			b.WriteRune(r)
		}
	}
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r) || r > unicode.MaxASCII && !unicode.IsSpace(r)
}

func quoteRune(r rune) string {
	return "'" + string(r) + "'"
}
