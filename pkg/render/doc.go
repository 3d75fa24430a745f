// Package render draws a positioned diagram as SVG, PNG or PDF.
//
// Rendering is split in two steps so that nothing touches the disk until
// the whole image exists in memory:
//
//	d, err := render.New(render.FormatPNG, diagram, "flow.png", fm, render.Options{})
//	if err != nil {
//	    return err
//	}
//	if err := d.Draw(ctx); err != nil {
//	    return err
//	}
//	return d.Save(ctx)
//
// SVG is written by hand. PNG is rasterised with fogleman/gg; with
// antialiasing on, the image is drawn at twice the size and scaled
// down with a Lanczos filter. PDF goes through the SVG renderer and the
// external rsvg-convert tool from librsvg.
//
// When a diagram carries Groups (separate mode), one file per group is
// written next to the requested path: flow_1.svg, flow_2.svg, and so on.
package render
