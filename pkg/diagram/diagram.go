// Package diagram holds the positioned diagram graph produced by the
// builder and consumed by the renderers.
//
// Lanes are columns, rows grow downwards. All geometry is in pixels at
// scale 1; renderers scale it themselves.
package diagram

import "image/color"

// Default geometry, matching the classic actdiag look.
const (
	DefaultNodeWidth  = 128
	DefaultNodeHeight = 40
	DefaultSpanWidth  = 64
	DefaultSpanHeight = 40
	DefaultFontSize   = 11.0

	// Margin is the blank border around the whole image.
	Margin = 24
	// HeaderHeight is the height of the lane title row.
	HeaderHeight = 40
)

// Default colours.
var (
	DefaultNodeColor = color.RGBA{0xff, 0xff, 0xff, 0xff}
	DefaultLaneColor = color.RGBA{0xff, 0xff, 0xde, 0xff}
	DefaultTextColor = color.RGBA{0x00, 0x00, 0x00, 0xff}
	DefaultLineColor = color.RGBA{0x00, 0x00, 0x00, 0xff}
)

// Direction says where an edge draws arrow heads.
type Direction int

const (
	DirForward  Direction = iota // head at To
	DirBackward                  // head at From
	DirBoth                      // heads at both ends
	DirNone                      // no heads
)

// LineStyle is the stroke pattern of an edge.
type LineStyle string

const (
	LineSolid  LineStyle = "solid"
	LineDashed LineStyle = "dashed"
	LineDotted LineStyle = "dotted"
)

// Diagram is a fully positioned activity diagram.
type Diagram struct {
	Name       string
	NodeWidth  int
	NodeHeight int
	SpanWidth  int
	SpanHeight int
	FontSize   float64

	Lanes []*Lane
	Nodes []*Node
	Edges []*Edge

	// Groups holds one sub-diagram per lane when the diagram was built in
	// separate mode. It is nil otherwise.
	Groups []*Diagram
}

// Lane is a column of activities.
type Lane struct {
	ID     string
	Label  string
	Color  color.RGBA
	Column int
}

// Node is an activity box.
type Node struct {
	ID        string
	Label     string
	Color     color.RGBA
	TextColor color.RGBA
	Lane      *Lane
	Row       int
}

// Edge connects two activities.
type Edge struct {
	From  *Node
	To    *Node
	Dir   Direction
	Label string
	Color color.RGBA
	Style LineStyle
}

// Rect is an axis-aligned box.
type Rect struct {
	X, Y, W, H float64
}

// CenterX returns the horizontal centre of r.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical centre of r.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// New returns an empty diagram with default geometry.
func New() *Diagram {
	return &Diagram{
		NodeWidth:  DefaultNodeWidth,
		NodeHeight: DefaultNodeHeight,
		SpanWidth:  DefaultSpanWidth,
		SpanHeight: DefaultSpanHeight,
		FontSize:   DefaultFontSize,
	}
}

// RowCount returns the number of rows in use.
func (d *Diagram) RowCount() int {
	rows := 0
	for _, n := range d.Nodes {
		rows = max(rows, n.Row+1)
	}
	return rows
}

func (d *Diagram) laneWidth() float64  { return float64(d.NodeWidth + d.SpanWidth) }
func (d *Diagram) rowHeight() float64  { return float64(d.NodeHeight + d.SpanHeight) }
func (d *Diagram) bodyHeight() float64 { return float64(d.RowCount()) * d.rowHeight() }

// Width returns the image width in pixels.
func (d *Diagram) Width() float64 {
	return 2*Margin + float64(len(d.Lanes))*d.laneWidth()
}

// Height returns the image height in pixels.
func (d *Diagram) Height() float64 {
	return 2*Margin + HeaderHeight + d.bodyHeight()
}

// LaneRect returns the full column of lane l, title included.
func (d *Diagram) LaneRect(l *Lane) Rect {
	return Rect{
		X: Margin + float64(l.Column)*d.laneWidth(),
		Y: Margin,
		W: d.laneWidth(),
		H: HeaderHeight + d.bodyHeight(),
	}
}

// HeaderRect returns the title cell of lane l.
func (d *Diagram) HeaderRect(l *Lane) Rect {
	r := d.LaneRect(l)
	r.H = HeaderHeight
	return r
}

// NodeRect returns the box of node n.
func (d *Diagram) NodeRect(n *Node) Rect {
	lane := d.LaneRect(n.Lane)
	return Rect{
		X: lane.X + float64(d.SpanWidth)/2,
		Y: Margin + HeaderHeight + float64(d.SpanHeight)/2 + float64(n.Row)*d.rowHeight(),
		W: float64(d.NodeWidth),
		H: float64(d.NodeHeight),
	}
}

// Point is a position in pixels.
type Point struct {
	X, Y float64
}

// EdgePath returns the polyline of edge e, from its From node to its To
// node. Edges within one lane run straight down; edges across lanes leave
// the bottom of the source, turn at mid-span and enter the top of the
// target. Upward edges attach to the sides.
func (d *Diagram) EdgePath(e *Edge) []Point {
	from, to := d.NodeRect(e.From), d.NodeRect(e.To)

	switch {
	case e.To.Row > e.From.Row:
		start := Point{from.CenterX(), from.Y + from.H}
		end := Point{to.CenterX(), to.Y}
		if start.X == end.X {
			return []Point{start, end}
		}
		midY := end.Y - float64(d.SpanHeight)/2
		return []Point{start, {start.X, midY}, {end.X, midY}, end}
	case e.To.Row == e.From.Row && from.X != to.X:
		if from.X < to.X {
			return []Point{{from.X + from.W, from.CenterY()}, {to.X, to.CenterY()}}
		}
		return []Point{{from.X, from.CenterY()}, {to.X + to.W, to.CenterY()}}
	default:
		// Same cell or pointing upwards: route around the right side.
		outX := max(from.X+from.W, to.X+to.W) + float64(d.SpanWidth)/4
		return []Point{
			{from.X + from.W, from.CenterY()},
			{outX, from.CenterY()},
			{outX, to.CenterY()},
			{to.X + to.W, to.CenterY()},
		}
	}
}
