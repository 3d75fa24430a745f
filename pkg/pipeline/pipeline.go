// Package pipeline drives one actdiag run.
//
// A run is strictly sequential and stops at the first failure:
//
//  1. Parse: read the source (file or stdin) into a syntax tree
//  2. FontMap: resolve the fonts used for text
//  3. Build: turn the tree into a positioned diagram
//  4. Draw: render the image in memory
//  5. Save: write the image to its output path
//
// The stages talk to their collaborators through the narrow interfaces in
// collaborators.go, so tests can swap any of them out.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:  "flow.diag",
//	    Format: pipeline.FormatSVG,
//	    Output: "flow.svg",
//	}, os.Stdin)
package pipeline

import (
	"time"

	"github.com/matzehuels/actdiag/pkg/render"
	"github.com/matzehuels/actdiag/pkg/source"
)

// =============================================================================
// Default Values - Single Source of Truth for the CLI
// =============================================================================

// Format is an output image format.
type Format = render.Format

// Format constants for output formats.
const (
	FormatSVG = render.FormatSVG
	FormatPNG = render.FormatPNG
	FormatPDF = render.FormatPDF
)

// DefaultFormat is the format used when none is requested.
const DefaultFormat = render.DefaultFormat

// StdinOutputBase is the output base name used when reading from stdin.
const StdinOutputBase = "output"

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options is the fully resolved configuration of one run. It is built by
// the CLI resolver and never modified afterwards.
type Options struct {
	// Input is the source path, or "-" for standard input.
	Input string
	// Format is the output image format.
	Format Format
	// Output is the resolved destination path.
	Output string

	// Fonts are candidate font files in priority order; the rc file's
	// fontpath, if any, is the last entry.
	Fonts []string
	// FontMap is an optional font map file.
	FontMap string

	Antialias bool
	Separate  bool
	NoDoctype bool

	// Config is the rc file that was read, if any.
	Config string
}

// IsStdin reports whether the source is standard input.
func (o Options) IsStdin() bool { return source.IsStdin(o.Input) }

// RenderOptions returns the switches passed to the renderer.
func (o Options) RenderOptions() render.Options {
	return render.Options{Antialias: o.Antialias, NoDoctype: o.NoDoctype}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Outputs are the files written, in order.
	Outputs []string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LaneCount int
	NodeCount int
	EdgeCount int

	ParseTime   time.Duration
	FontMapTime time.Duration
	BuildTime   time.Duration
	DrawTime    time.Duration
	SaveTime    time.Duration
}

// Total returns the summed duration of all stages.
func (s Stats) Total() time.Duration {
	return s.ParseTime + s.FontMapTime + s.BuildTime + s.DrawTime + s.SaveTime
}
