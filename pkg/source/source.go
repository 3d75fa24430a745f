// Package source reads diagram source text from a file or standard input.
//
// The whole input is materialised before parsing; there is no streaming.
// Text must be valid UTF-8. A leading byte order mark is dropped.
package source

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/matzehuels/actdiag/pkg/errors"
)

// Stdin is the positional argument that selects standard input.
const Stdin = "-"

// StdinName is how standard input is named in messages.
const StdinName = "<stdin>"

// IsStdin reports whether arg selects standard input.
func IsStdin(arg string) bool { return arg == Stdin }

// ReadStdin reads all of r and decodes it as UTF-8.
func ReadStdin(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "read %s", StdinName)
	}
	return decode(data, StdinName)
}

// ReadFile reads the named file and decodes it as UTF-8.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "")
		}
		return "", errors.Wrap(errors.ErrCodeIO, err, "")
	}
	return decode(data, path)
}

func decode(data []byte, name string) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New(errors.ErrCodeInvalidEncoding, "%s is not valid UTF-8 text", name)
	}
	text, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidEncoding, err, "decode %s", name)
	}
	return string(bytes.ReplaceAll(text, []byte("\r\n"), []byte("\n"))), nil
}
