package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/actdiag/pkg/diagram"
	"github.com/matzehuels/actdiag/pkg/errors"
	"github.com/matzehuels/actdiag/pkg/fontmap"
	"github.com/matzehuels/actdiag/pkg/observability"
)

// Options are the drawing switches taken from the command line.
type Options struct {
	Antialias bool // supersample PNG output
	NoDoctype bool // omit the XML declaration and DOCTYPE from SVG output
}

// Drawer renders one diagram. Draw must succeed before Save.
type Drawer interface {
	// Draw renders every page into memory.
	Draw(ctx context.Context) error
	// Save writes the pages drawn by Draw to disk.
	Save(ctx context.Context) error
	// Outputs returns the files Save writes, in order.
	Outputs() []string
}

// page is one output file.
type page struct {
	d    *diagram.Diagram
	path string
	data []byte
}

type drawer struct {
	format Format
	fm     *fontmap.FontMap
	opts   Options
	pages  []*page
	drawn  bool
}

// New prepares a Drawer writing d to path in format. A diagram with
// Groups produces one numbered file per group instead of a single file.
// A nil fm uses the built-in font.
func New(format Format, d *diagram.Diagram, path string, fm *fontmap.FontMap, opts Options) (Drawer, error) {
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format: %s", format)
	}
	if d == nil {
		return nil, errors.New(errors.ErrCodeInternal, "nothing to draw")
	}
	if fm == nil {
		var err error
		if fm, err = fontmap.NewWithFinder(nil, "", nil); err != nil {
			return nil, err
		}
	}

	r := &drawer{format: format, fm: fm, opts: opts}
	if len(d.Groups) == 0 {
		r.pages = []*page{{d: d, path: path}}
		return r, nil
	}
	for i, g := range d.Groups {
		r.pages = append(r.pages, &page{d: g, path: GroupPath(path, format, i)})
	}
	return r, nil
}

// GroupPath returns the file name of the i-th (zero based) group image:
// the format extension of path, if present, is replaced by _<i+1>.<ext>.
func GroupPath(path string, format Format, i int) string {
	ext := "." + format.Ext()
	base := path
	if strings.EqualFold(filepath.Ext(path), ext) {
		base = path[:len(path)-len(ext)]
	}
	return fmt.Sprintf("%s_%d%s", base, i+1, ext)
}

func (r *drawer) Outputs() []string {
	out := make([]string, len(r.pages))
	for i, p := range r.pages {
		out[i] = p.path
	}
	return out
}

func (r *drawer) Draw(ctx context.Context) error {
	for _, p := range r.pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := r.drawPage(ctx, p.d)
		if err != nil {
			return err
		}
		p.data = data
	}
	r.drawn = true
	return nil
}

func (r *drawer) drawPage(ctx context.Context, d *diagram.Diagram) ([]byte, error) {
	switch r.format {
	case FormatSVG:
		return RenderSVG(d, r.fm, r.opts.NoDoctype), nil
	case FormatPNG:
		return RenderPNG(d, r.fm, r.opts.Antialias)
	case FormatPDF:
		return ToPDF(ctx, RenderSVG(d, r.fm, true))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format: %s", r.format)
	}
}

func (r *drawer) Save(ctx context.Context) error {
	if !r.drawn {
		return errors.New(errors.ErrCodeInternal, "save called before draw")
	}
	for _, p := range r.pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeFile(p.path, p.data); err != nil {
			observability.Output().OnWriteError(ctx, p.path, err)
			return err
		}
		observability.Output().OnWrite(ctx, p.path, len(p.data))
	}
	return nil
}

// writeFile writes data to a temporary file next to path and renames it
// into place, so a failed write never leaves a truncated image behind.
func writeFile(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".actdiag-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "")
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}
