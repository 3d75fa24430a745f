package parser

import "fmt"

// Pos is a 1-based line and column in the source text.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// Diagram is the root of the syntax tree.
type Diagram struct {
	Type  string // "actdiag" or "diagram"
	ID    string // optional diagram name
	Stmts []Stmt
}

// Stmt is a statement inside a diagram or lane body.
type Stmt interface {
	Pos() Pos
}

// Attr is a single key = value pair.
type Attr struct {
	At    Pos
	Name  string
	Value string
}

// AttrStmt sets an attribute on the enclosing diagram or lane.
type AttrStmt struct {
	Attr
}

// NodeStmt declares a node and optionally sets its attributes.
type NodeStmt struct {
	At    Pos
	ID    string
	Attrs []Attr
}

// EdgeStmt is a chain of nodes joined by edge operators. Ops has one entry
// less than Nodes.
type EdgeStmt struct {
	At    Pos
	Nodes []string
	Ops   []string
	Attrs []Attr
}

// LaneStmt groups nodes into a lane.
type LaneStmt struct {
	At    Pos
	ID    string
	Stmts []Stmt
}

func (s *AttrStmt) Pos() Pos { return s.At }
func (s *NodeStmt) Pos() Pos { return s.At }
func (s *EdgeStmt) Pos() Pos { return s.At }
func (s *LaneStmt) Pos() Pos { return s.At }

// Edge operators.
const (
	OpForward  = "->"
	OpBackward = "<-"
	OpBoth     = "<->"
	OpNone     = "--"
)
