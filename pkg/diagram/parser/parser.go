package parser

import (
	"fmt"

	"github.com/matzehuels/actdiag/pkg/errors"
	"github.com/matzehuels/actdiag/pkg/source"
)

// SyntaxError describes malformed source text.
type SyntaxError struct {
	File string
	Pos  Pos
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: syntax error: %s", e.File, e.Pos.Line, e.Pos.Col, e.Msg)
	}
	return fmt.Sprintf("line %d, column %d: syntax error: %s", e.Pos.Line, e.Pos.Col, e.Msg)
}

// ParseText parses in-memory source text.
func ParseText(text string) (*Diagram, error) {
	return parse(text, "")
}

// ParsePath reads and parses the named file.
func ParsePath(path string) (*Diagram, error) {
	text, err := source.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(text, path)
}

func parse(text, file string) (*Diagram, error) {
	toks, err := newLexer(text).all()
	if err == nil {
		p := &parser{toks: toks}
		var d *Diagram
		if d, err = p.diagram(); err == nil {
			return d, nil
		}
	}
	if se, ok := err.(*SyntaxError); ok {
		se.File = file
	}
	return nil, errors.Wrap(errors.ErrCodeSyntax, err, "")
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) unexpected(tok token, want string) error {
	if tok.kind == tokEOF {
		return p.errorf(tok, "unexpected end of input, expected %s", want)
	}
	return p.errorf(tok, "unexpected %s %q, expected %s", tok.kind, tok.text, want)
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.next()
	if tok.kind != kind {
		return tok, p.unexpected(tok, kind.String())
	}
	return tok, nil
}

// diagram = ("actdiag" | "diagram") [ID] "{" stmts "}"
func (p *parser) diagram() (*Diagram, error) {
	head := p.next()
	if head.kind != tokIdent || (head.text != "actdiag" && head.text != "diagram") {
		return nil, p.unexpected(head, `"actdiag" or "diagram"`)
	}
	d := &Diagram{Type: head.text}
	if tok := p.peek(); tok.kind == tokIdent || tok.kind == tokString {
		d.ID = p.next().text
	}
	open, err := p.expect(tokLBrace)
	if err != nil {
		return nil, err
	}
	if d.Stmts, err = p.stmts(open, true); err != nil {
		return nil, err
	}
	if tok := p.next(); tok.kind != tokEOF {
		return nil, p.unexpected(tok, "end of input")
	}
	return d, nil
}

// stmts parses statements up to and including the closing brace.
func (p *parser) stmts(open token, allowLanes bool) ([]Stmt, error) {
	var out []Stmt
	for {
		tok := p.peek()
		switch tok.kind {
		case tokRBrace:
			p.next()
			return out, nil
		case tokSemi:
			p.next()
			continue
		case tokEOF:
			return nil, p.errorf(open, "unterminated block, missing '}'")
		}

		if tok.kind == tokIdent && tok.text == "lane" && p.isLaneStart() {
			if !allowLanes {
				return nil, p.errorf(tok, "lanes cannot be nested")
			}
			lane, err := p.lane()
			if err != nil {
				return nil, err
			}
			out = append(out, lane)
			continue
		}

		stmt, err := p.stmt()
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
}

// isLaneStart distinguishes "lane foo {" and "lane {" from a node that
// happens to be called lane.
func (p *parser) isLaneStart() bool {
	next := p.peekAt(1)
	if next.kind == tokLBrace {
		return true
	}
	return (next.kind == tokIdent || next.kind == tokString) && p.peekAt(2).kind == tokLBrace
}

// lane = "lane" [ID] "{" stmts "}"
func (p *parser) lane() (*LaneStmt, error) {
	kw := p.next()
	lane := &LaneStmt{At: kw.pos}
	if tok := p.peek(); tok.kind == tokIdent || tok.kind == tokString {
		lane.ID = p.next().text
	}
	open, err := p.expect(tokLBrace)
	if err != nil {
		return nil, err
	}
	if lane.Stmts, err = p.stmts(open, false); err != nil {
		return nil, err
	}
	return lane, nil
}

// stmt = ID "=" value | ID [attrs] | ID (edgeop ID)+ [attrs]
func (p *parser) stmt() (Stmt, error) {
	first := p.next()
	if first.kind != tokIdent && first.kind != tokString {
		return nil, p.unexpected(first, "statement")
	}

	switch p.peek().kind {
	case tokEquals:
		if first.kind != tokIdent {
			return nil, p.unexpected(first, "attribute name")
		}
		p.next()
		value, err := p.value()
		if err != nil {
			return nil, err
		}
		return &AttrStmt{Attr{At: first.pos, Name: first.text, Value: value}}, nil

	case tokEdge:
		edge := &EdgeStmt{At: first.pos, Nodes: []string{first.text}}
		for p.peek().kind == tokEdge {
			edge.Ops = append(edge.Ops, p.next().text)
			id := p.next()
			if id.kind != tokIdent && id.kind != tokString {
				return nil, p.unexpected(id, "node identifier")
			}
			edge.Nodes = append(edge.Nodes, id.text)
		}
		attrs, err := p.attrs()
		if err != nil {
			return nil, err
		}
		edge.Attrs = attrs
		return edge, nil

	default:
		attrs, err := p.attrs()
		if err != nil {
			return nil, err
		}
		return &NodeStmt{At: first.pos, ID: first.text, Attrs: attrs}, nil
	}
}

// attrs = [ "[" [attr ("," attr)* [","]] "]" ]
func (p *parser) attrs() ([]Attr, error) {
	if p.peek().kind != tokLBracket {
		return nil, nil
	}
	p.next()
	var out []Attr
	for {
		tok := p.next()
		switch tok.kind {
		case tokRBracket:
			return out, nil
		case tokIdent:
		default:
			return nil, p.unexpected(tok, "attribute name or ']'")
		}

		attr := Attr{At: tok.pos, Name: tok.text}
		if p.peek().kind == tokEquals {
			p.next()
			value, err := p.value()
			if err != nil {
				return nil, err
			}
			attr.Value = value
		}
		out = append(out, attr)

		switch sep := p.peek(); sep.kind {
		case tokComma, tokSemi:
			p.next()
		case tokRBracket:
		default:
			p.next()
			return nil, p.unexpected(sep, "',' or ']'")
		}
	}
}

func (p *parser) value() (string, error) {
	tok := p.next()
	if tok.kind != tokIdent && tok.kind != tokString {
		return "", p.unexpected(tok, "value")
	}
	return tok.text, nil
}
