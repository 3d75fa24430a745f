package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/actdiag/pkg/diagram"
	"github.com/matzehuels/actdiag/pkg/diagram/parser"
	"github.com/matzehuels/actdiag/pkg/fontmap"
	"github.com/matzehuels/actdiag/pkg/observability"
	"github.com/matzehuels/actdiag/pkg/render"
	"github.com/matzehuels/actdiag/pkg/source"
)

// Runner executes the pipeline with a fixed set of collaborators.
//
// The Runner holds no per-run state, so one Runner can execute many runs.
type Runner struct {
	Parser    Parser
	Builder   Builder
	FontMaps  FontMaps
	Renderers Renderers
	Logger    *log.Logger
}

// NewRunner creates a runner wired to the real parser, builder, font map
// and renderer. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Parser:    defaultParser{},
		Builder:   defaultBuilder{},
		FontMaps:  defaultFontMaps{},
		Renderers: defaultRenderers{},
		Logger:    logger,
	}
}

// Execute runs parse → fontmap → build → draw → save. stdin is only read
// when opts.Input is "-". Stage failures are wrapped with the stage name;
// a canceled ctx stops the run before the next stage starts.
func (r *Runner) Execute(ctx context.Context, opts Options, stdin io.Reader) (*Result, error) {
	result := &Result{}
	var (
		tree   *parser.Diagram
		fm     *fontmap.FontMap
		d      *diagram.Diagram
		drawer render.Drawer
		err    error
	)

	// Stage 1: Parse
	result.Stats.ParseTime, err = r.stage(ctx, observability.StageParse, func() error {
		tree, err = r.parse(opts, stdin)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Stage 2: Font map
	result.Stats.FontMapTime, err = r.stage(ctx, observability.StageFontMap, func() error {
		fm, err = r.FontMaps.Create(opts.Fonts, opts.FontMap)
		return err
	})
	if err != nil {
		return nil, err
	}
	if fm != nil {
		for _, p := range fm.Missing {
			r.Logger.Warn("font file not found", "path", p)
		}
		r.Logger.Debug("resolved font",
			"path", fm.Path(fontmap.FamilyDefault),
			"families", fm.Families())
	}

	// Stage 3: Build
	result.Stats.BuildTime, err = r.stage(ctx, observability.StageBuild, func() error {
		d, err = r.Builder.Build(tree, opts.Separate)
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Stats.LaneCount = len(d.Lanes)
	result.Stats.NodeCount = len(d.Nodes)
	result.Stats.EdgeCount = len(d.Edges)

	// Stage 4: Draw
	result.Stats.DrawTime, err = r.stage(ctx, observability.StageDraw, func() error {
		drawer, err = r.Renderers.New(opts.Format, d, opts.Output, fm, opts.RenderOptions())
		if err != nil {
			return err
		}
		return drawer.Draw(ctx)
	})
	if err != nil {
		return nil, err
	}

	// Stage 5: Save
	result.Stats.SaveTime, err = r.stage(ctx, observability.StageSave, func() error {
		return drawer.Save(ctx)
	})
	if err != nil {
		return nil, err
	}

	result.Outputs = drawer.Outputs()
	for _, p := range result.Outputs {
		r.Logger.Debug("wrote output", "path", p)
	}
	r.Logger.Debug("pipeline finished",
		"lanes", result.Stats.LaneCount,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.Total())
	return result, nil
}

func (r *Runner) parse(opts Options, stdin io.Reader) (*parser.Diagram, error) {
	if !opts.IsStdin() {
		return r.Parser.ParsePath(opts.Input)
	}
	text, err := source.ReadStdin(stdin)
	if err != nil {
		return nil, err
	}
	return r.Parser.ParseText(text)
}

// stage runs fn as the named stage: it checks ctx, emits hooks, times the
// call and wraps any error with the stage name.
func (r *Runner) stage(ctx context.Context, s observability.Stage, fn func() error) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, s)
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	hooks.OnStageComplete(ctx, s, elapsed, err)

	if err != nil {
		return elapsed, fmt.Errorf("%s: %w", s, err)
	}
	r.Logger.Debug("stage complete", "stage", s, "duration", elapsed)
	return elapsed, nil
}
