package render

import (
	"bytes"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/actdiag/pkg/diagram"
	"github.com/matzehuels/actdiag/pkg/errors"
	"github.com/matzehuels/actdiag/pkg/fontmap"
)

// antialiasScale is the supersampling factor used with --antialias.
const antialiasScale = 2

// RenderPNG rasterises d. With antialias the image is drawn at twice the
// size and downsampled with a Lanczos filter.
func RenderPNG(d *diagram.Diagram, fm *fontmap.FontMap, antialias bool) ([]byte, error) {
	if fm == nil {
		var err error
		if fm, err = fontmap.NewWithFinder(nil, "", nil); err != nil {
			return nil, err
		}
	}
	if err := checkGlyphs(d, fm); err != nil {
		return nil, err
	}

	scale := 1.0
	if antialias {
		scale = antialiasScale
	}
	face, err := fm.Face(fontmap.FamilyDefault, d.FontSize*scale)
	if err != nil {
		return nil, err
	}

	w, h := int(math.Ceil(d.Width())), int(math.Ceil(d.Height()))
	p := &painter{
		dc:    gg.NewContext(int(float64(w)*scale), int(float64(h)*scale)),
		scale: scale,
		face:  face,
		d:     d,
	}
	p.paint()

	img := p.dc.Image()
	if antialias {
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode png")
	}
	return buf.Bytes(), nil
}

// checkGlyphs fails with ErrCodeEncoding when the default font cannot
// draw one of the diagram's labels.
func checkGlyphs(d *diagram.Diagram, fm *fontmap.FontMap) error {
	labels := make([]string, 0, len(d.Lanes)+len(d.Nodes)+len(d.Edges))
	for _, l := range d.Lanes {
		labels = append(labels, l.Label)
	}
	for _, n := range d.Nodes {
		labels = append(labels, n.Label)
	}
	for _, e := range d.Edges {
		labels = append(labels, e.Label)
	}
	for _, text := range labels {
		ok, r, err := fm.Covers(fontmap.FamilyDefault, text)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New(errors.ErrCodeEncoding, "font %s has no glyph for %q", fm.Path(fontmap.FamilyDefault), r)
		}
	}
	return nil
}

// painter draws diagram geometry, scaling every coordinate itself so text
// is rendered from a face of the right size instead of being stretched.
type painter struct {
	dc    *gg.Context
	scale float64
	face  font.Face
	d     *diagram.Diagram
}

func (p *painter) s(v float64) float64 { return v * p.scale }

func (p *painter) paint() {
	p.dc.SetColor(color.White)
	p.dc.Clear()
	p.dc.SetFontFace(p.face)
	p.dc.SetLineWidth(p.s(1))

	for _, l := range p.d.Lanes {
		p.lane(l)
	}
	for _, e := range p.d.Edges {
		p.edge(e)
	}
	for _, n := range p.d.Nodes {
		p.node(n)
	}
}

func (p *painter) rect(r diagram.Rect, radius float64, fill color.Color) {
	if radius > 0 {
		p.dc.DrawRoundedRectangle(p.s(r.X), p.s(r.Y), p.s(r.W), p.s(r.H), p.s(radius))
	} else {
		p.dc.DrawRectangle(p.s(r.X), p.s(r.Y), p.s(r.W), p.s(r.H))
	}
	p.dc.SetColor(fill)
	p.dc.FillPreserve()
	p.dc.SetColor(diagram.DefaultLineColor)
	p.dc.Stroke()
}

func (p *painter) lane(l *diagram.Lane) {
	r := p.d.LaneRect(l)
	hr := p.d.HeaderRect(l)
	p.rect(r, 0, l.Color)
	p.dc.SetColor(diagram.DefaultLineColor)
	p.dc.DrawLine(p.s(hr.X), p.s(hr.Y+hr.H), p.s(hr.X+hr.W), p.s(hr.Y+hr.H))
	p.dc.Stroke()
	p.text(hr, l.Label, diagram.DefaultTextColor)
}

func (p *painter) node(n *diagram.Node) {
	r := p.d.NodeRect(n)
	p.rect(r, 4, n.Color)
	p.text(r, n.Label, n.TextColor)
}

func (p *painter) edge(e *diagram.Edge) {
	pts := p.d.EdgePath(e)
	p.dc.SetColor(e.Color)
	switch e.Style {
	case diagram.LineDashed:
		p.dc.SetDash(p.s(4), p.s(4))
	case diagram.LineDotted:
		p.dc.SetDash(p.s(2), p.s(2))
	}
	p.dc.MoveTo(p.s(pts[0].X), p.s(pts[0].Y))
	for _, pt := range pts[1:] {
		p.dc.LineTo(p.s(pt.X), p.s(pt.Y))
	}
	p.dc.Stroke()
	p.dc.SetDash()

	n := len(pts)
	if e.Dir == diagram.DirForward || e.Dir == diagram.DirBoth {
		p.arrow(pts[n-2], pts[n-1])
	}
	if e.Dir == diagram.DirBackward || e.Dir == diagram.DirBoth {
		p.arrow(pts[1], pts[0])
	}

	if e.Label != "" {
		mid := labelAnchor(pts)
		p.dc.DrawString(e.Label, p.s(mid.X+4), p.s(mid.Y-4))
	}
}

// arrow fills a head at tip pointing away from from.
func (p *painter) arrow(from, tip diagram.Point) {
	angle := math.Atan2(tip.Y-from.Y, tip.X-from.X)
	spread := math.Pi / 7
	p.dc.MoveTo(p.s(tip.X), p.s(tip.Y))
	p.dc.LineTo(p.s(tip.X-arrowSize*math.Cos(angle-spread)), p.s(tip.Y-arrowSize*math.Sin(angle-spread)))
	p.dc.LineTo(p.s(tip.X-arrowSize*math.Cos(angle+spread)), p.s(tip.Y-arrowSize*math.Sin(angle+spread)))
	p.dc.ClosePath()
	p.dc.Fill()
}

// text centres possibly multi-line text inside r.
func (p *painter) text(r diagram.Rect, text string, c color.Color) {
	if text == "" {
		return
	}
	lines := strings.Split(text, "\n")
	lineHeight := p.d.FontSize * 1.2
	top := r.CenterY() - lineHeight*float64(len(lines)-1)/2
	p.dc.SetColor(c)
	for i, line := range lines {
		p.dc.DrawStringAnchored(line, p.s(r.CenterX()), p.s(top+float64(i)*lineHeight), 0.5, 0.5)
	}
}
