package cli

import (
	stderrors "errors"
	"io/fs"
	"os"
	"os/exec"
	"slices"

	"github.com/matzehuels/actdiag/pkg/config"
	"github.com/matzehuels/actdiag/pkg/errors"
	"github.com/matzehuels/actdiag/pkg/pipeline"
	"github.com/matzehuels/actdiag/pkg/render"
)

// ErrNoInput is returned by Resolve when no input file was given. The
// command prints its usage and exits successfully.
var ErrNoInput = stderrors.New("no input file")

// Flags holds the raw command-line flag values.
type Flags struct {
	Antialias bool
	Config    string
	Output    string
	Fonts     []string
	FontMap   string
	Separate  bool
	Type      string
	NoDoctype bool
}

// Env is the part of the process environment Resolve looks at.
type Env struct {
	// Home is the user's home directory; "" disables the default rc file.
	Home     string
	Stat     func(name string) (fs.FileInfo, error)
	LookPath func(file string) (string, error)
}

// DefaultEnv returns the real process environment.
func DefaultEnv() Env {
	home, _ := os.UserHomeDir()
	return Env{Home: home, Stat: os.Stat, LookPath: exec.LookPath}
}

// Resolve validates flags and arguments and returns the options for one
// run. Checks run in a fixed order and the first failure wins. The only
// file access is the config lookup; nothing is written.
func Resolve(args []string, f Flags, env Env) (pipeline.Options, error) {
	if len(args) == 0 {
		return pipeline.Options{}, ErrNoInput
	}

	format, err := render.ParseFormat(f.Type)
	if err != nil {
		return pipeline.Options{}, err
	}

	if format == render.FormatPDF {
		if _, err := env.LookPath(render.PDFTool); err != nil {
			return pipeline.Options{}, errors.New(errors.ErrCodeUnsupported,
				"could not output PDF format; Install librsvg (%s)", render.PDFTool)
		}
	}

	if f.Separate && format != render.FormatSVG {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "--separate option work in SVG images.")
	}

	cfgPath, err := configPath(f.Config, env)
	if err != nil {
		return pipeline.Options{}, err
	}

	fonts := slices.Clone(f.Fonts)
	if cfgPath != "" {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return pipeline.Options{}, err
		}
		if cfg.FontPath != "" {
			fonts = append(fonts, cfg.FontPath)
		}
	}

	input := args[0]
	return pipeline.Options{
		Input:     input,
		Format:    format,
		Output:    OutputPath(input, format, f.Output),
		Fonts:     fonts,
		FontMap:   f.FontMap,
		Antialias: f.Antialias,
		Separate:  f.Separate,
		NoDoctype: f.NoDoctype,
		Config:    cfgPath,
	}, nil
}

// configPath returns the rc file to read, or "" for none. An explicit path
// must exist; a missing default is ignored.
func configPath(explicit string, env Env) (string, error) {
	if explicit != "" {
		if _, err := env.Stat(explicit); err != nil {
			return "", errors.New(errors.ErrCodeInvalidConfig, "config file is not found: %s", explicit)
		}
		return explicit, nil
	}
	def := config.DefaultPath(env.Home)
	if def == "" {
		return "", nil
	}
	if info, err := env.Stat(def); err != nil || info.IsDir() {
		return "", nil
	}
	return def, nil
}
