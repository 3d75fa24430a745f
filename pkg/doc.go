// Package pkg provides the libraries behind the actdiag command.
//
// # Overview
//
// actdiag turns a textual activity diagram into an image. Lanes are
// columns, activities are boxes and edges are arrows running top to
// bottom. The pkg directory is organized into these areas:
//
//  1. [diagram] - the source language and the positioned diagram model
//  2. [render] - SVG, PNG and PDF output
//  3. [pipeline] - orchestration (parse → fontmap → build → draw → save)
//  4. support packages: [config], [fontmap], [source], [errors],
//     [observability], [buildinfo] and [dag]
//
// # Architecture
//
// The data flow of one run:
//
//	source text (file or stdin)
//	         ↓
//	    [diagram/parser] (syntax tree)
//	         ↓
//	    [diagram/builder] + [dag] (lanes, rows, edges)
//	         ↓
//	    [render] with [fontmap] (image bytes)
//	         ↓
//	    SVG/PNG/PDF file
//
// # Quick Start
//
//	tree, _ := parser.ParseText(`actdiag { write -> convert -> image }`)
//	d, _ := builder.Build(tree, false)
//	svg := render.RenderSVG(d, nil, false)
//
// Or run the whole pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:  "flow.diag",
//	    Format: pipeline.FormatPNG,
//	    Output: "flow.png",
//	}, os.Stdin)
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/actdiag/pkg/diagram
// [diagram/parser]: https://pkg.go.dev/github.com/matzehuels/actdiag/pkg/diagram/parser
// [diagram/builder]: https://pkg.go.dev/github.com/matzehuels/actdiag/pkg/diagram/builder
// [render]: https://pkg.go.dev/github.com/matzehuels/actdiag/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/actdiag/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/actdiag/pkg/config
// [fontmap]: https://pkg.go.dev/github.com/matzehuels/actdiag/pkg/fontmap
// [source]: https://pkg.go.dev/github.com/matzehuels/actdiag/pkg/source
// [errors]: https://pkg.go.dev/github.com/matzehuels/actdiag/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/actdiag/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/actdiag/pkg/buildinfo
// [dag]: https://pkg.go.dev/github.com/matzehuels/actdiag/pkg/dag
package pkg
