package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/actdiag/pkg/errors"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

// Fixed hints for text encoding failures.
const (
	msgDecode = "UnicodeDecodeError caught (input must be UTF-8 text)"
	msgEncode = "UnicodeEncodeError caught (check your font settings)"
)

// Report writes err to w as a single "ERROR: <message>" line and returns
// the process exit code. A nil err reports nothing and returns ExitOK; an
// interrupted run returns ExitInterrupted silently.
func Report(w io.Writer, err error) int {
	if err == nil || stderrors.Is(err, ErrNoInput) {
		return ExitOK
	}
	if stderrors.Is(err, context.Canceled) {
		return ExitInterrupted
	}

	code := ExitFailure
	if errors.IsUsage(err) {
		code = ExitUsage
	}

	fmt.Fprintln(w, errorTag(w)+" "+oneLine(message(err)))
	return code
}

// message picks the text shown for err.
func message(err error) string {
	switch {
	case errors.Is(err, errors.ErrCodeInvalidEncoding):
		return msgDecode
	case errors.Is(err, errors.ErrCodeEncoding):
		return msgEncode
	}
	return errors.UserMessage(err)
}

// oneLine folds a multi-line message onto a single line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// errorTag renders "ERROR:" styled for w; it is plain text when w is not
// a terminal.
func errorTag(w io.Writer) string {
	return lipgloss.NewRenderer(w).NewStyle().Bold(true).Foreground(colorRed).Render("ERROR:")
}
