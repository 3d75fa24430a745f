package pipeline

import (
	"github.com/matzehuels/actdiag/pkg/diagram"
	"github.com/matzehuels/actdiag/pkg/diagram/builder"
	"github.com/matzehuels/actdiag/pkg/diagram/parser"
	"github.com/matzehuels/actdiag/pkg/fontmap"
	"github.com/matzehuels/actdiag/pkg/render"
)

// Parser turns diagram source into a syntax tree.
type Parser interface {
	ParseText(text string) (*parser.Diagram, error)
	ParsePath(path string) (*parser.Diagram, error)
}

// Builder turns a syntax tree into a positioned diagram.
type Builder interface {
	Build(tree *parser.Diagram, separate bool) (*diagram.Diagram, error)
}

// FontMaps creates the font map for a run.
type FontMaps interface {
	Create(fonts []string, mapFile string) (*fontmap.FontMap, error)
}

// Renderers creates a drawer for a diagram.
type Renderers interface {
	New(format Format, d *diagram.Diagram, path string, fm *fontmap.FontMap, opts render.Options) (render.Drawer, error)
}

type defaultParser struct{}

func (defaultParser) ParseText(text string) (*parser.Diagram, error) { return parser.ParseText(text) }
func (defaultParser) ParsePath(path string) (*parser.Diagram, error) { return parser.ParsePath(path) }

type defaultBuilder struct{}

func (defaultBuilder) Build(tree *parser.Diagram, separate bool) (*diagram.Diagram, error) {
	return builder.Build(tree, separate)
}

type defaultFontMaps struct{}

func (defaultFontMaps) Create(fonts []string, mapFile string) (*fontmap.FontMap, error) {
	return fontmap.New(fonts, mapFile)
}

type defaultRenderers struct{}

func (defaultRenderers) New(format Format, d *diagram.Diagram, path string, fm *fontmap.FontMap, opts render.Options) (render.Drawer, error) {
	return render.New(format, d, path, fm, opts)
}
