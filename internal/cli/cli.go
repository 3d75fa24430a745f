// Package cli implements the actdiag command-line interface.
//
// actdiag is a single command: it reads one diagram source, resolves the
// flags into pipeline options and runs the pipeline once.
//
//	actdiag [flags] infile
//
// All diagnostics go to stderr. Failures are reported by Report as one
// "ERROR:" line and mapped to an exit code.
package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/actdiag/pkg/pipeline"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for the command.
type CLI struct {
	Logger *log.Logger
	Stdin  io.Reader
	Stderr io.Writer
	Env    Env

	// newRunner builds the pipeline runner; tests replace it.
	newRunner func(*log.Logger) *pipeline.Runner
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:    newLogger(w, level),
		Stdin:     os.Stdin,
		Stderr:    w,
		Env:       DefaultEnv(),
		newRunner: pipeline.NewRunner,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// run executes the pipeline for resolved options and prints the result.
func (c *CLI) run(ctx context.Context, opts pipeline.Options, args []string) error {
	p := newPrinter(c.Stderr)
	if len(args) > 1 {
		p.printWarning("ignoring extra arguments: %s", strings.Join(args[1:], " "))
	}
	if opts.Config != "" {
		c.Logger.Debug("read config", "path", opts.Config)
	}

	res, err := c.newRunner(c.Logger).Execute(ctx, opts, c.Stdin)
	if err != nil {
		return err
	}

	p.printSuccess("Generated %s", opts.Format)
	for _, out := range res.Outputs {
		p.printFile(out)
	}
	return nil
}
