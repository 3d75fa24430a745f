// Package fontmap resolves the fonts used to draw diagram text.
//
// A FontMap maps font families to TrueType files. The default family is
// chosen in this order:
//
//  1. the first --font path that exists
//  2. the "sansserif" entry of the --fontmap file
//  3. a well-known system font found with go-findfont
//  4. the Go font embedded in the binary
//
// Font files are only checked for presence here; they are parsed lazily
// the first time a renderer asks for a face.
package fontmap

import (
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/go-ini/ini"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/actdiag/pkg/errors"
)

// FamilyDefault is the family every diagram text uses unless told otherwise.
const FamilyDefault = "sansserif"

// sectionFontmap is the ini section holding family = path entries.
const sectionFontmap = "fontmap"

// EmbeddedName is reported as the path of the built-in fallback font.
const EmbeddedName = "<embedded:goregular>"

// systemCandidates are tried, in order, when no font was configured.
var systemCandidates = []string{
	"DejaVuSans.ttf",
	"LiberationSans-Regular.ttf",
	"Arial.ttf",
	"Helvetica.ttf",
	"ipagp.ttf",
	"VL-PGothic-Regular.ttf",
}

// FontMap maps families to font files. It is safe for concurrent use.
type FontMap struct {
	paths map[string]string

	// Missing lists configured font paths that did not exist.
	Missing []string

	mu    sync.Mutex
	fonts map[string]*truetype.Font
}

// Finder locates a font file by base name. It matches findfont.Find.
type Finder func(name string) (string, error)

// New builds a FontMap from the --font paths and the optional --fontmap
// file, searching the system with findfont when neither yields a default.
func New(fonts []string, mapFile string) (*FontMap, error) {
	return NewWithFinder(fonts, mapFile, findfont.Find)
}

// NewWithFinder is New with a custom system font finder. A nil finder
// skips the system search.
func NewWithFinder(fonts []string, mapFile string, find Finder) (*FontMap, error) {
	m := &FontMap{
		paths: make(map[string]string),
		fonts: make(map[string]*truetype.Font),
	}

	if mapFile != "" {
		if err := m.loadMapFile(mapFile); err != nil {
			return nil, err
		}
	}

	for _, path := range fonts {
		if exists(path) {
			m.paths[FamilyDefault] = path
			break
		}
		m.Missing = append(m.Missing, path)
	}

	if _, ok := m.paths[FamilyDefault]; !ok && find != nil {
		for _, name := range systemCandidates {
			if path, err := find(name); err == nil && exists(path) {
				m.paths[FamilyDefault] = path
				break
			}
		}
	}
	return m, nil
}

func (m *FontMap) loadMapFile(path string) error {
	if !exists(path) {
		m.Missing = append(m.Missing, path)
		return nil
	}
	cfg, err := ini.Load(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read fontmap %s", path)
	}
	for _, key := range cfg.Section(sectionFontmap).Keys() {
		family := normalizeFamily(key.Name())
		fontPath := strings.TrimSpace(key.String())
		if !exists(fontPath) {
			m.Missing = append(m.Missing, fontPath)
			continue
		}
		m.paths[family] = fontPath
	}
	return nil
}

func normalizeFamily(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Path returns the file used for family, falling back to the default
// family, or EmbeddedName when the built-in font is used.
func (m *FontMap) Path(family string) string {
	if p, ok := m.paths[normalizeFamily(family)]; ok {
		return p
	}
	if p, ok := m.paths[FamilyDefault]; ok {
		return p
	}
	return EmbeddedName
}

// Families returns the configured family names in sorted order.
func (m *FontMap) Families() []string {
	families := make([]string, 0, len(m.paths))
	for f := range m.paths {
		families = append(families, f)
	}
	slices.Sort(families)
	return families
}

// Font returns the parsed font for family.
func (m *FontMap) Font(family string) (*truetype.Font, error) {
	path := m.Path(family)

	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.fonts[path]; ok {
		return f, nil
	}

	data := goregular.TTF
	if path != EmbeddedName {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "read font")
		}
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "parse font %s", path)
	}
	m.fonts[path] = f
	return f, nil
}

// Face returns a drawable face of family at size points (72 DPI).
func (m *FontMap) Face(family string, size float64) (font.Face, error) {
	f, err := m.Font(family)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}

// Name returns the family name stored inside the font file, for use in
// SVG font-family attributes.
func (m *FontMap) Name(family string) string {
	f, err := m.Font(family)
	if err != nil {
		return ""
	}
	return f.Name(truetype.NameIDFontFamily)
}

// Covers reports whether family has a glyph for every printable rune of
// text, and returns the first rune that is missing otherwise.
func (m *FontMap) Covers(family, text string) (bool, rune, error) {
	f, err := m.Font(family)
	if err != nil {
		return false, 0, err
	}
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			continue
		}
		if f.Index(r) == 0 {
			return false, r, nil
		}
	}
	return true, 0, nil
}
