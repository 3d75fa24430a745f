package render

import (
	"slices"
	"strings"

	"github.com/matzehuels/actdiag/pkg/errors"
)

// Format is an output image format.
type Format string

// Supported formats.
const (
	FormatSVG Format = "SVG"
	FormatPNG Format = "PNG"
	FormatPDF Format = "PDF"
)

// DefaultFormat is used when no -T flag is given.
const DefaultFormat = FormatPNG

// Formats lists the supported formats.
var Formats = []Format{FormatSVG, FormatPNG, FormatPDF}

// ParseFormat upper-cases s and checks it against Formats.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToUpper(strings.TrimSpace(s)))
	if slices.Contains(Formats, f) {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format: %s", strings.ToUpper(s))
}

// Ext returns the lower-case file extension for f, without the dot.
func (f Format) Ext() string { return strings.ToLower(string(f)) }

func (f Format) String() string { return string(f) }
