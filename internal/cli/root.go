package cli

import (
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/actdiag/pkg/buildinfo"
	"github.com/matzehuels/actdiag/pkg/errors"
	"github.com/matzehuels/actdiag/pkg/pipeline"
)

// RootCommand creates the actdiag command.
func (c *CLI) RootCommand() *cobra.Command {
	var f Flags

	root := &cobra.Command{
		Use:   "actdiag [flags] infile",
		Short: "actdiag generates activity-diagram images from text",
		Long: `actdiag reads an activity diagram written in the actdiag language and
writes it as a PNG, SVG or PDF image. Use - as infile to read from stdin.`,
		Version:       buildinfo.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := Resolve(args, f, c.Env)
			if stderrors.Is(err, ErrNoInput) {
				cmd.SetOut(c.Stderr)
				return cmd.Help()
			}
			if err != nil {
				return err
			}
			return c.run(cmd.Context(), opts, args)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "")
	})

	flags := root.Flags()
	flags.BoolVarP(&f.Antialias, "antialias", "a", false, "pass diagram image to anti-alias filter")
	flags.StringVarP(&f.Config, "config", "c", "", "read configurations from `FILE`")
	flags.StringVarP(&f.Output, "output", "o", "", "write diagram to `FILE`")
	flags.StringArrayVarP(&f.Fonts, "font", "f", nil, "use `FONT` to draw diagram (repeatable)")
	flags.StringVar(&f.FontMap, "fontmap", "", "use `FONTMAP` file to draw diagram")
	flags.BoolVarP(&f.Separate, "separate", "s", false, "separate diagram images for each lane (SVG only)")
	flags.StringVarP(&f.Type, "type", "T", string(pipeline.DefaultFormat), "output diagram as `TYPE` format (PNG, SVG, PDF)")
	flags.BoolVar(&f.NoDoctype, "nodoctype", false, "do not output doctype definition tags (SVG only)")

	return root
}
