package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/matzehuels/actdiag/pkg/errors"
)

// PDFTool is the external program used for PDF export.
const PDFTool = "rsvg-convert"

// PDFInstallHint tells the user how to get PDFTool.
const PDFInstallHint = "Install librsvg (macOS: brew install librsvg, Linux: apt install librsvg2-bin)"

// ToPDF converts SVG bytes to PDF using rsvg-convert.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath(PDFTool); err != nil {
		return nil, errors.New(errors.ErrCodeRender, "%s export requires %s; %s", format, PDFTool, PDFInstallHint)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, PDFTool, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, fmt.Errorf("%v: %s", err, bytes.TrimSpace(errBuf.Bytes())), "%s", PDFTool)
	}
	return out.Bytes(), nil
}
