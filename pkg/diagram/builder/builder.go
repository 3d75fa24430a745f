// Package builder turns an actdiag syntax tree into a positioned
// [diagram.Diagram].
//
// Lanes become columns in declaration order. Nodes that are never placed in
// a lane share an implicit trailing lane. Rows come from the longest path
// over the edges, so every activity sits below all of its predecessors;
// two activities that would share a cell in the same lane are pushed apart
// vertically.
package builder

import (
	stderrors "errors"
	"fmt"
	"image/color"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/matzehuels/actdiag/pkg/dag"
	"github.com/matzehuels/actdiag/pkg/diagram"
	"github.com/matzehuels/actdiag/pkg/diagram/parser"
	"github.com/matzehuels/actdiag/pkg/errors"
)

// Build converts tree into a positioned diagram. With separate set, the
// result also carries one sub-diagram per non-empty lane in Groups.
func Build(tree *parser.Diagram, separate bool) (*diagram.Diagram, error) {
	b := &builder{
		d:     diagram.New(),
		nodes: make(map[string]*diagram.Node),
		lanes: make(map[string]*diagram.Lane),
	}
	b.d.Name = tree.ID

	if err := b.stmts(tree.Stmts, nil); err != nil {
		return nil, err
	}
	b.assignImplicitLane()

	if err := place(b.d); err != nil {
		return nil, err
	}
	if separate {
		groups, err := split(b.d)
		if err != nil {
			return nil, err
		}
		b.d.Groups = groups
	}
	return b.d, nil
}

type builder struct {
	d     *diagram.Diagram
	nodes map[string]*diagram.Node
	lanes map[string]*diagram.Lane
}

func buildErr(pos parser.Pos, format string, args ...any) error {
	return errors.New(errors.ErrCodeBuild, "line %d: %s", pos.Line, fmt.Sprintf(format, args...))
}

func (b *builder) stmts(stmts []parser.Stmt, lane *diagram.Lane) error {
	for _, s := range stmts {
		var err error
		switch s := s.(type) {
		case *parser.AttrStmt:
			if lane != nil {
				err = laneAttr(lane, s.Attr)
			} else {
				err = b.diagramAttr(s.Attr)
			}
		case *parser.NodeStmt:
			var n *diagram.Node
			if n, err = b.node(s.ID, s.At, lane); err == nil {
				err = nodeAttrs(n, s.Attrs)
			}
		case *parser.EdgeStmt:
			err = b.edges(s, lane)
		case *parser.LaneStmt:
			err = b.lane(s)
		default:
			err = buildErr(s.Pos(), "unsupported statement %T", s)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) lane(s *parser.LaneStmt) error {
	id := s.ID
	if id == "" {
		id = fmt.Sprintf("lane%d", len(b.d.Lanes)+1)
	}
	if _, dup := b.lanes[id]; dup {
		return buildErr(s.At, "lane %q is defined twice", id)
	}
	l := &diagram.Lane{
		ID:     id,
		Label:  s.ID,
		Color:  diagram.DefaultLaneColor,
		Column: len(b.d.Lanes),
	}
	b.lanes[id] = l
	b.d.Lanes = append(b.d.Lanes, l)
	return b.stmts(s.Stmts, l)
}

// node returns the node called id, creating it on first use. A node
// mentioned inside a lane is bound to that lane; binding it to a second
// lane is an error.
func (b *builder) node(id string, pos parser.Pos, lane *diagram.Lane) (*diagram.Node, error) {
	n, ok := b.nodes[id]
	if !ok {
		n = &diagram.Node{
			ID:        id,
			Label:     id,
			Color:     diagram.DefaultNodeColor,
			TextColor: diagram.DefaultTextColor,
		}
		b.nodes[id] = n
		b.d.Nodes = append(b.d.Nodes, n)
	}
	if lane != nil {
		if n.Lane != nil && n.Lane != lane {
			return nil, buildErr(pos, "node %q belongs to lanes %q and %q", id, n.Lane.ID, lane.ID)
		}
		n.Lane = lane
	}
	return n, nil
}

func (b *builder) edges(s *parser.EdgeStmt, lane *diagram.Lane) error {
	chain := make([]*diagram.Node, len(s.Nodes))
	for i, id := range s.Nodes {
		n, err := b.node(id, s.At, lane)
		if err != nil {
			return err
		}
		chain[i] = n
	}

	for i, op := range s.Ops {
		e := &diagram.Edge{
			From:  chain[i],
			To:    chain[i+1],
			Color: diagram.DefaultLineColor,
			Style: diagram.LineSolid,
		}
		switch op {
		case parser.OpForward:
			e.Dir = diagram.DirForward
		case parser.OpBackward:
			e.From, e.To = e.To, e.From
			e.Dir = diagram.DirForward
		case parser.OpBoth:
			e.Dir = diagram.DirBoth
		case parser.OpNone:
			e.Dir = diagram.DirNone
		default:
			return buildErr(s.At, "unknown edge operator %q", op)
		}
		if err := edgeAttrs(e, s.Attrs); err != nil {
			return err
		}
		b.d.Edges = append(b.d.Edges, e)
	}
	return nil
}

func (b *builder) assignImplicitLane() {
	var implicit *diagram.Lane
	for _, n := range b.d.Nodes {
		if n.Lane != nil {
			continue
		}
		if implicit == nil {
			implicit = &diagram.Lane{
				Color:  diagram.DefaultLaneColor,
				Column: len(b.d.Lanes),
			}
			b.d.Lanes = append(b.d.Lanes, implicit)
		}
		n.Lane = implicit
	}
}

// place assigns rows. Rows start from the longest-path layering and are
// then compacted in topological order so that no two nodes share a cell.
func place(d *diagram.Diagram) error {
	g := dag.New()
	for _, n := range d.Nodes {
		if err := g.AddNode(dag.Node{ID: n.ID}); err != nil {
			return errors.Wrap(errors.ErrCodeBuild, err, "node %q", n.ID)
		}
	}
	var undirected []*diagram.Edge
	for _, e := range d.Edges {
		if e.Dir == diagram.DirNone || e.Dir == diagram.DirBoth {
			undirected = append(undirected, e)
			continue
		}
		if err := g.AddEdge(dag.Edge{From: e.From.ID, To: e.To.ID}); err != nil {
			return errors.Wrap(errors.ErrCodeBuild, err, "edge %s -> %s", e.From.ID, e.To.ID)
		}
	}
	// Edges without a single direction order rows only where they agree
	// with the arrows and with each other; a -- b next to b -- a is not a
	// cycle.
	for _, e := range undirected {
		if g.Reaches(e.To.ID, e.From.ID) {
			continue
		}
		if err := g.AddEdge(dag.Edge{From: e.From.ID, To: e.To.ID}); err != nil {
			return errors.Wrap(errors.ErrCodeBuild, err, "edge %s -- %s", e.From.ID, e.To.ID)
		}
	}
	if err := g.Validate(); err != nil {
		if stderrors.Is(err, dag.ErrGraphHasCycle) {
			return errors.New(errors.ErrCodeBuild, "edges form a cycle; activities must flow in one direction")
		}
		return errors.Wrap(errors.ErrCodeBuild, err, "")
	}
	dag.AssignLayers(g)

	layer := make(map[string]int, len(d.Nodes))
	decl := make(map[string]int, len(d.Nodes))
	for i, n := range d.Nodes {
		dn, _ := g.Node(n.ID)
		layer[n.ID] = dn.Row
		decl[n.ID] = i
	}
	order := slices.Clone(d.Nodes)
	slices.SortStableFunc(order, func(a, b *diagram.Node) int {
		if c := layer[a.ID] - layer[b.ID]; c != 0 {
			return c
		}
		return decl[a.ID] - decl[b.ID]
	})

	type cell struct {
		lane *diagram.Lane
		row  int
	}
	taken := make(map[cell]bool, len(d.Nodes))
	byID := make(map[string]*diagram.Node, len(d.Nodes))
	for _, n := range d.Nodes {
		byID[n.ID] = n
	}
	for _, n := range order {
		row := 0
		for _, p := range g.Parents(n.ID) {
			row = max(row, byID[p].Row+1)
		}
		for taken[cell{n.Lane, row}] {
			row++
		}
		n.Row = row
		taken[cell{n.Lane, row}] = true
	}
	return nil
}

// split builds one single-lane diagram per non-empty lane. Only edges whose
// ends both lie in the lane are kept.
func split(d *diagram.Diagram) ([]*diagram.Diagram, error) {
	var groups []*diagram.Diagram
	for _, l := range d.Lanes {
		g := &diagram.Diagram{
			Name:       l.ID,
			NodeWidth:  d.NodeWidth,
			NodeHeight: d.NodeHeight,
			SpanWidth:  d.SpanWidth,
			SpanHeight: d.SpanHeight,
			FontSize:   d.FontSize,
		}
		lane := *l
		lane.Column = 0
		g.Lanes = []*diagram.Lane{&lane}

		copies := make(map[*diagram.Node]*diagram.Node)
		for _, n := range d.Nodes {
			if n.Lane != l {
				continue
			}
			c := *n
			c.Lane = &lane
			copies[n] = &c
			g.Nodes = append(g.Nodes, &c)
		}
		if len(g.Nodes) == 0 {
			continue
		}
		for _, e := range d.Edges {
			from, okF := copies[e.From]
			to, okT := copies[e.To]
			if okF && okT {
				c := *e
				c.From, c.To = from, to
				g.Edges = append(g.Edges, &c)
			}
		}
		if err := place(g); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func (b *builder) diagramAttr(a parser.Attr) error {
	switch a.Name {
	case "node_width":
		return positiveInt(a, &b.d.NodeWidth)
	case "node_height":
		return positiveInt(a, &b.d.NodeHeight)
	case "span_width":
		return positiveInt(a, &b.d.SpanWidth)
	case "span_height":
		return positiveInt(a, &b.d.SpanHeight)
	case "fontsize", "default_fontsize":
		v, err := strconv.ParseFloat(a.Value, 64)
		if err != nil || v <= 0 {
			return buildErr(a.At, "%s must be a positive number, got %q", a.Name, a.Value)
		}
		b.d.FontSize = v
		return nil
	default:
		return buildErr(a.At, "unknown diagram attribute %q", a.Name)
	}
}

func laneAttr(l *diagram.Lane, a parser.Attr) error {
	switch a.Name {
	case "label":
		l.Label = a.Value
		return nil
	case "color":
		return parseColor(a, &l.Color)
	default:
		return buildErr(a.At, "unknown lane attribute %q", a.Name)
	}
}

func nodeAttrs(n *diagram.Node, attrs []parser.Attr) error {
	for _, a := range attrs {
		var err error
		switch a.Name {
		case "label":
			n.Label = a.Value
		case "color":
			err = parseColor(a, &n.Color)
		case "textcolor":
			err = parseColor(a, &n.TextColor)
		default:
			err = buildErr(a.At, "unknown node attribute %q", a.Name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func edgeAttrs(e *diagram.Edge, attrs []parser.Attr) error {
	for _, a := range attrs {
		var err error
		switch a.Name {
		case "label":
			e.Label = a.Value
		case "color":
			err = parseColor(a, &e.Color)
		case "style":
			switch s := diagram.LineStyle(strings.ToLower(a.Value)); s {
			case diagram.LineSolid, diagram.LineDashed, diagram.LineDotted:
				e.Style = s
			default:
				err = buildErr(a.At, "unknown edge style %q", a.Value)
			}
		default:
			err = buildErr(a.At, "unknown edge attribute %q", a.Name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func positiveInt(a parser.Attr, dst *int) error {
	v, err := strconv.Atoi(a.Value)
	if err != nil || v <= 0 {
		return buildErr(a.At, "%s must be a positive integer, got %q", a.Name, a.Value)
	}
	*dst = v
	return nil
}

// parseColor accepts SVG colour names and #rgb / #rrggbb hex values.
func parseColor(a parser.Attr, dst *color.RGBA) error {
	v := strings.ToLower(strings.TrimSpace(a.Value))
	if c, ok := colornames.Map[v]; ok {
		*dst = c
		return nil
	}
	if hex, ok := strings.CutPrefix(v, "#"); ok {
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if n, err := strconv.ParseUint(hex, 16, 32); err == nil && len(hex) == 6 {
			*dst = color.RGBA{uint8(n >> 16), uint8(n >> 8), uint8(n), 0xff}
			return nil
		}
	}
	return buildErr(a.At, "invalid color %q", a.Value)
}
