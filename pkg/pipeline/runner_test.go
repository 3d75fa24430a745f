package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/actdiag/pkg/diagram"
	"github.com/matzehuels/actdiag/pkg/diagram/parser"
	"github.com/matzehuels/actdiag/pkg/errors"
	"github.com/matzehuels/actdiag/pkg/fontmap"
	"github.com/matzehuels/actdiag/pkg/observability"
	"github.com/matzehuels/actdiag/pkg/render"
)

// calls records the collaborator calls made during a run.
type calls struct {
	mu  sync.Mutex
	log []string
}

func (c *calls) add(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = append(c.log, s)
}

type fakeParser struct {
	c   *calls
	err error
}

func (p fakeParser) ParseText(text string) (*parser.Diagram, error) {
	p.c.add("parse-text:" + text)
	return &parser.Diagram{Type: "actdiag"}, p.err
}

func (p fakeParser) ParsePath(path string) (*parser.Diagram, error) {
	p.c.add("parse-path:" + path)
	return &parser.Diagram{Type: "actdiag"}, p.err
}

type fakeBuilder struct {
	c   *calls
	err error
}

func (b fakeBuilder) Build(tree *parser.Diagram, separate bool) (*diagram.Diagram, error) {
	if separate {
		b.c.add("build:separate")
	} else {
		b.c.add("build")
	}
	if b.err != nil {
		return nil, b.err
	}
	return diagram.New(), nil
}

type fakeFontMaps struct {
	c   *calls
	err error
}

func (f fakeFontMaps) Create(fonts []string, mapFile string) (*fontmap.FontMap, error) {
	f.c.add("fontmap:" + strings.Join(fonts, ",") + "|" + mapFile)
	if f.err != nil {
		return nil, f.err
	}
	return fontmap.NewWithFinder(nil, "", nil)
}

type fakeRenderers struct {
	c       *calls
	drawErr error
	saveErr error
}

func (f fakeRenderers) New(format Format, d *diagram.Diagram, path string, fm *fontmap.FontMap, opts render.Options) (render.Drawer, error) {
	f.c.add("new:" + string(format) + ":" + path)
	return &fakeDrawer{c: f.c, path: path, drawErr: f.drawErr, saveErr: f.saveErr}, nil
}

type fakeDrawer struct {
	c       *calls
	path    string
	drawErr error
	saveErr error
}

func (d *fakeDrawer) Draw(context.Context) error { d.c.add("draw"); return d.drawErr }
func (d *fakeDrawer) Save(context.Context) error { d.c.add("save"); return d.saveErr }
func (d *fakeDrawer) Outputs() []string          { return []string{d.path} }

type fakes struct {
	parseErr, fontErr, buildErr, drawErr, saveErr error
}

func newTestRunner(c *calls, f fakes) *Runner {
	return &Runner{
		Parser:    fakeParser{c: c, err: f.parseErr},
		Builder:   fakeBuilder{c: c, err: f.buildErr},
		FontMaps:  fakeFontMaps{c: c, err: f.fontErr},
		Renderers: fakeRenderers{c: c, drawErr: f.drawErr, saveErr: f.saveErr},
		Logger:    log.NewWithOptions(io.Discard, log.Options{}),
	}
}

func TestExecuteStageOrder(t *testing.T) {
	c := &calls{}
	r := newTestRunner(c, fakes{})
	opts := Options{
		Input:   "flow.diag",
		Format:  FormatSVG,
		Output:  "flow.svg",
		Fonts:   []string{"a.ttf", "b.ttf"},
		FontMap: "map.ini",
	}

	res, err := r.Execute(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	want := []string{
		"parse-path:flow.diag",
		"fontmap:a.ttf,b.ttf|map.ini",
		"build",
		"new:SVG:flow.svg",
		"draw",
		"save",
	}
	if diff := cmp.Diff(want, c.log); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if !slices.Equal(res.Outputs, []string{"flow.svg"}) {
		t.Errorf("Outputs = %v, want [flow.svg]", res.Outputs)
	}
}

func TestExecuteLogsResolvedFont(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRunner(&calls{}, fakes{})
	r.Logger = log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	if _, err := r.Execute(context.Background(), Options{Input: "a.diag", Format: FormatSVG, Output: "a.svg"}, nil); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"resolved font", "families="} {
		if !strings.Contains(out, want) {
			t.Errorf("debug log missing %q:\n%s", want, out)
		}
	}
}

func TestExecuteStdinUsesParseText(t *testing.T) {
	c := &calls{}
	r := newTestRunner(c, fakes{})
	opts := Options{Input: "-", Format: FormatPNG, Output: "output.png", Separate: false}

	if _, err := r.Execute(context.Background(), opts, strings.NewReader("actdiag { a -> b }")); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if c.log[0] != "parse-text:actdiag { a -> b }" {
		t.Errorf("first call = %q, want parse-text", c.log[0])
	}
}

func TestExecuteStdinInvalidUTF8(t *testing.T) {
	c := &calls{}
	r := newTestRunner(c, fakes{})
	opts := Options{Input: "-", Format: FormatPNG, Output: "output.png"}

	_, err := r.Execute(context.Background(), opts, strings.NewReader("actdiag { \xff }"))
	if !errors.Is(err, errors.ErrCodeInvalidEncoding) {
		t.Fatalf("Execute() error = %v, want INVALID_ENCODING", err)
	}
	if len(c.log) != 0 {
		t.Errorf("no collaborator should run, got %v", c.log)
	}
}

func TestExecuteShortCircuits(t *testing.T) {
	boom := stderrors.New("boom")
	tests := []struct {
		name      string
		fakes     fakes
		wantStage string
		wantCalls []string
	}{
		{"parse", fakes{parseErr: boom}, "parse: ", []string{"parse-path:in.diag"}},
		{"fontmap", fakes{fontErr: boom}, "fontmap: ", []string{"parse-path:in.diag", "fontmap:|"}},
		{"build", fakes{buildErr: boom}, "build: ", []string{"parse-path:in.diag", "fontmap:|", "build"}},
		{"draw", fakes{drawErr: boom}, "draw: ", []string{"parse-path:in.diag", "fontmap:|", "build", "new:PNG:in.png", "draw"}},
		{"save", fakes{saveErr: boom}, "save: ", []string{"parse-path:in.diag", "fontmap:|", "build", "new:PNG:in.png", "draw", "save"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &calls{}
			r := newTestRunner(c, tt.fakes)
			_, err := r.Execute(context.Background(), Options{Input: "in.diag", Format: FormatPNG, Output: "in.png"}, nil)
			if !stderrors.Is(err, boom) {
				t.Fatalf("Execute() error = %v, want boom", err)
			}
			if !strings.HasPrefix(err.Error(), tt.wantStage) {
				t.Errorf("error %q should start with %q", err, tt.wantStage)
			}
			if diff := cmp.Diff(tt.wantCalls, c.log); diff != "" {
				t.Errorf("calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExecuteCanceled(t *testing.T) {
	c := &calls{}
	r := newTestRunner(c, fakes{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Execute(ctx, Options{Input: "in.diag", Format: FormatPNG, Output: "in.png"}, nil)
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("Execute() error = %v, want context.Canceled", err)
	}
	if len(c.log) != 0 {
		t.Errorf("no stage should run, got %v", c.log)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) OnStageStart(_ context.Context, s observability.Stage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "start:"+string(s))
}

func (h *recordingHooks) OnStageComplete(_ context.Context, s observability.Stage, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	status := "ok"
	if err != nil {
		status = "error"
	}
	h.events = append(h.events, "done:"+string(s)+":"+status)
}

func TestExecuteEmitsHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	r := newTestRunner(&calls{}, fakes{buildErr: stderrors.New("bad")})
	_, _ = r.Execute(context.Background(), Options{Input: "in.diag", Format: FormatPNG, Output: "in.png"}, nil)

	want := []string{
		"start:parse", "done:parse:ok",
		"start:fontmap", "done:fontmap:ok",
		"start:build", "done:build:error",
	}
	if diff := cmp.Diff(want, hooks.events); diff != "" {
		t.Errorf("hook events mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteEndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "flow.diag")
	src := "actdiag {\n  write -> convert -> image\n  lane user { write; image }\n  lane actdiag { convert }\n}\n"
	if err := os.WriteFile(in, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "flow.svg")

	r := NewRunner(log.NewWithOptions(io.Discard, log.Options{}))
	res, err := r.Execute(context.Background(), Options{Input: in, Format: FormatSVG, Output: out}, nil)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.Stats.LaneCount != 2 || res.Stats.NodeCount != 3 || res.Stats.EdgeCount != 2 {
		t.Errorf("Stats = %+v, want 2 lanes, 3 nodes, 2 edges", res.Stats)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("output is not an SVG document")
	}
}

func TestExecuteSyntaxErrorWritesNothing(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bad.diag")
	if err := os.WriteFile(in, []byte("actdiag {\n  a -> \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "bad.png")

	r := NewRunner(log.NewWithOptions(io.Discard, log.Options{}))
	_, err := r.Execute(context.Background(), Options{Input: in, Format: FormatPNG, Output: out}, nil)
	if !errors.Is(err, errors.ErrCodeSyntax) {
		t.Fatalf("Execute() error = %v, want SYNTAX", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no output should be written on a syntax error")
	}
}
