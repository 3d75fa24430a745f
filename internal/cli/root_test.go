package cli

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleSource = `actdiag {
  write -> convert -> image

  lane user {
     label = "User"
     write [label = "Writing reST"];
     image [label = "Get diagram IMAGE"];
  }
  lane actdiag {
     convert [label = "Convert reST to Image"];
  }
}
`

// execute runs the command with args and returns the exit code and
// everything written to stderr.
func execute(t *testing.T, stdin string, args ...string) (int, string) {
	t.Helper()
	var stderr bytes.Buffer
	c := New(&stderr, LogInfo)
	c.Env = testEnv(t)
	c.Stdin = strings.NewReader(stdin)

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&stderr)
	root.SetErr(&stderr)
	code := Report(&stderr, root.ExecuteContext(context.Background()))
	return code, stderr.String()
}

func TestRootNoInputPrintsHelp(t *testing.T) {
	code, out := execute(t, "")
	if code != ExitOK {
		t.Errorf("exit = %d, want 0", code)
	}
	if !strings.Contains(out, "Usage:") || strings.Contains(out, "ERROR:") {
		t.Errorf("expected usage help, got:\n%s", out)
	}
}

func TestRootVersion(t *testing.T) {
	code, out := execute(t, "", "--version")
	if code != ExitOK {
		t.Errorf("exit = %d, want 0", code)
	}
	if !strings.Contains(out, "actdiag version dev") || !strings.Contains(out, "commit: none") {
		t.Errorf("unexpected version output:\n%s", out)
	}
}

func TestRootPNGRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "flow.diag"), sampleSource)

	code, out := execute(t, "", in)
	if code != ExitOK {
		t.Fatalf("exit = %d, output:\n%s", code, out)
	}

	f, err := os.Open(filepath.Join(dir, "flow.png"))
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if img.Bounds().Empty() {
		t.Error("PNG is empty")
	}
	if !strings.Contains(out, "Generated PNG") {
		t.Errorf("missing success line in:\n%s", out)
	}
}

func TestRootMalformedSourceWritesNothing(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "bad.diag"), "actdiag {\n  lane a {\n")

	code, out := execute(t, "", "-T", "svg", in)
	if code != ExitFailure {
		t.Errorf("exit = %d, want 1", code)
	}
	if !strings.HasPrefix(out, "ERROR: ") || strings.Count(out, "\n") != 1 {
		t.Errorf("want one ERROR line, got:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "bad.svg")); !os.IsNotExist(err) {
		t.Error("no output should be written for malformed source")
	}
}

func TestRootStdin(t *testing.T) {
	out := filepath.Join(t.TempDir(), "stdin.svg")
	code, log := execute(t, sampleSource, "-T", "SVG", "--nodoctype", "-o", out, "-")
	if code != ExitOK {
		t.Fatalf("exit = %d, output:\n%s", code, log)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "<svg") {
		t.Error("--nodoctype output should start with <svg")
	}
}

func TestRootStdinInvalidUTF8(t *testing.T) {
	out := filepath.Join(t.TempDir(), "x.svg")
	code, log := execute(t, "actdiag { \xff\xfe }", "-T", "svg", "-o", out, "-")
	if code != ExitFailure {
		t.Errorf("exit = %d, want 1", code)
	}
	if log != "ERROR: "+msgDecode+"\n" {
		t.Errorf("output = %q", log)
	}
}

func TestRootSeparate(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "flow.diag"), sampleSource)

	code, out := execute(t, "", "-T", "svg", "--separate", in)
	if code != ExitOK {
		t.Fatalf("exit = %d, output:\n%s", code, out)
	}
	for _, name := range []string{"flow_1.svg", "flow_2.svg"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestRootUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad type", []string{"-T", "gif", "x.diag"}, "ERROR: unknown format: GIF\n"},
		{"separate png", []string{"-s", "x.diag"}, "ERROR: --separate option work in SVG images.\n"},
		{"missing config", []string{"-c", "/nonexistent/rc", "x.diag"}, "ERROR: config file is not found: /nonexistent/rc\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out := execute(t, "", tt.args...)
			if code != ExitUsage {
				t.Errorf("exit = %d, want 2", code)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestRootUnknownFlag(t *testing.T) {
	code, out := execute(t, "", "--bogus", "x.diag")
	if code != ExitUsage {
		t.Errorf("exit = %d, want 2", code)
	}
	if !strings.HasPrefix(out, "ERROR: unknown flag") {
		t.Errorf("output = %q", out)
	}
}

func TestRootMissingInputFile(t *testing.T) {
	code, out := execute(t, "", filepath.Join(t.TempDir(), "missing.diag"))
	if code != ExitFailure {
		t.Errorf("exit = %d, want 1", code)
	}
	if !strings.Contains(out, "no such file or directory") {
		t.Errorf("output should carry the OS message, got %q", out)
	}
}
