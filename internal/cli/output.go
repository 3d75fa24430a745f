package cli

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/actdiag/pkg/pipeline"
	"github.com/matzehuels/actdiag/pkg/source"
)

// OutputPath returns where the image for input is written. An explicit
// path always wins. Standard input writes output.<ext> in the working
// directory. Otherwise the last extension of the file name is replaced,
// so a.b.c becomes a.b.<ext> and a name without a dot gains one.
func OutputPath(input string, format pipeline.Format, explicit string) string {
	if explicit != "" {
		return explicit
	}
	ext := "." + format.Ext()
	if source.IsStdin(input) {
		return pipeline.StdinOutputBase + ext
	}
	dir, base := filepath.Split(input)
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return dir + base + ext
}
