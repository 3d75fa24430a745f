package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/color"
	"strings"

	"github.com/matzehuels/actdiag/pkg/diagram"
	"github.com/matzehuels/actdiag/pkg/fontmap"
)

const svgDoctype = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">
`

const arrowSize = 8.0

// RenderSVG draws d as an SVG document. With nodoctype the XML
// declaration and DOCTYPE are left out.
func RenderSVG(d *diagram.Diagram, fm *fontmap.FontMap, nodoctype bool) []byte {
	w, h := d.Width(), d.Height()
	family := "sans-serif"
	if fm != nil {
		if name := fm.Name(fontmap.FamilyDefault); name != "" {
			family = name + ", sans-serif"
		}
	}

	var buf bytes.Buffer
	if !nodoctype {
		buf.WriteString(svgDoctype)
	}
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	renderDefs(&buf, d)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.0f" height="%.0f" fill="#ffffff"/>`+"\n", w, h)
	fmt.Fprintf(&buf, `  <g font-family="%s" font-size="%.1f">`+"\n", escapeText(family), d.FontSize)

	for _, l := range d.Lanes {
		renderLane(&buf, d, l)
	}
	for _, e := range d.Edges {
		renderEdge(&buf, d, e)
	}
	for _, n := range d.Nodes {
		renderNode(&buf, d, n)
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

// renderDefs emits one arrow marker per edge colour.
func renderDefs(buf *bytes.Buffer, d *diagram.Diagram) {
	seen := make(map[string]bool)
	buf.WriteString("  <defs>\n")
	for _, e := range d.Edges {
		c := hexColor(e.Color)
		if seen[c] {
			continue
		}
		seen[c] = true
		fmt.Fprintf(buf, `    <marker id="%s" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="%.0f" markerHeight="%.0f" orient="auto-start-reverse">`+"\n",
			markerID(e.Color), arrowSize, arrowSize)
		fmt.Fprintf(buf, `      <path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/>`+"\n", c)
		buf.WriteString("    </marker>\n")
	}
	buf.WriteString("  </defs>\n")
}

func renderLane(buf *bytes.Buffer, d *diagram.Diagram, l *diagram.Lane) {
	r := d.LaneRect(l)
	hr := d.HeaderRect(l)
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="#000000"/>`+"\n",
		r.X, r.Y, r.W, r.H, hexColor(l.Color))
	fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#000000"/>`+"\n",
		hr.X, hr.Y+hr.H, hr.X+hr.W, hr.Y+hr.H)
	renderText(buf, hr, l.Label, diagram.DefaultTextColor, d.FontSize)
}

func renderNode(buf *bytes.Buffer, d *diagram.Diagram, n *diagram.Node) {
	r := d.NodeRect(n)
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="%s" stroke="#000000"/>`+"\n",
		r.X, r.Y, r.W, r.H, hexColor(n.Color))
	renderText(buf, r, n.Label, n.TextColor, d.FontSize)
}

func renderEdge(buf *bytes.Buffer, d *diagram.Diagram, e *diagram.Edge) {
	pts := d.EdgePath(e)
	var path strings.Builder
	for i, p := range pts {
		if i == 0 {
			fmt.Fprintf(&path, "M %.1f %.1f", p.X, p.Y)
		} else {
			fmt.Fprintf(&path, " L %.1f %.1f", p.X, p.Y)
		}
	}

	attrs := ""
	if dash := dashArray(e.Style); dash != "" {
		attrs += fmt.Sprintf(` stroke-dasharray="%s"`, dash)
	}
	marker := fmt.Sprintf("url(#%s)", markerID(e.Color))
	if e.Dir == diagram.DirForward || e.Dir == diagram.DirBoth {
		attrs += fmt.Sprintf(` marker-end="%s"`, marker)
	}
	if e.Dir == diagram.DirBackward || e.Dir == diagram.DirBoth {
		attrs += fmt.Sprintf(` marker-start="%s"`, marker)
	}
	fmt.Fprintf(buf, `    <path d="%s" fill="none" stroke="%s"%s/>`+"\n", path.String(), hexColor(e.Color), attrs)

	if e.Label != "" {
		mid := labelAnchor(pts)
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" fill="%s">%s</text>`+"\n",
			mid.X+4, mid.Y-4, hexColor(e.Color), escapeText(e.Label))
	}
}

// renderText centres possibly multi-line text inside r.
func renderText(buf *bytes.Buffer, r diagram.Rect, text string, c color.RGBA, size float64) {
	if text == "" {
		return
	}
	lines := strings.Split(text, "\n")
	lineHeight := size * 1.2
	top := r.CenterY() - lineHeight*float64(len(lines)-1)/2
	for i, line := range lines {
		y := top + float64(i)*lineHeight + size/3
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" fill="%s" text-anchor="middle">%s</text>`+"\n",
			r.CenterX(), y, hexColor(c), escapeText(line))
	}
}

// labelAnchor returns the midpoint of the longest segment of pts.
func labelAnchor(pts []diagram.Point) diagram.Point {
	best, bestLen := 0, -1.0
	for i := 0; i+1 < len(pts); i++ {
		dx, dy := pts[i+1].X-pts[i].X, pts[i+1].Y-pts[i].Y
		if l := dx*dx + dy*dy; l > bestLen {
			best, bestLen = i, l
		}
	}
	a, b := pts[best], pts[best+1]
	return diagram.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

func dashArray(s diagram.LineStyle) string {
	switch s {
	case diagram.LineDashed:
		return "4 4"
	case diagram.LineDotted:
		return "2 2"
	}
	return ""
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func markerID(c color.RGBA) string {
	return fmt.Sprintf("arrow-%02x%02x%02x", c.R, c.G, c.B)
}

// escapeText escapes s for use in both text and attribute values.
func escapeText(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
