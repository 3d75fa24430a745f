package parser

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/actdiag/pkg/errors"
)

const sample = `
actdiag {
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

func TestParseTextSample(t *testing.T) {
	got, err := ParseText(sample)
	if err != nil {
		t.Fatalf("ParseText() error: %v", err)
	}

	want := &Diagram{
		Type: "actdiag",
		Stmts: []Stmt{
			&EdgeStmt{At: Pos{3, 3}, Nodes: []string{"write", "convert", "image"}, Ops: []string{"->", "->"}},
			&LaneStmt{At: Pos{5, 3}, ID: "user", Stmts: []Stmt{
				&AttrStmt{Attr{At: Pos{6, 6}, Name: "label", Value: "User"}},
				&NodeStmt{At: Pos{7, 6}, ID: "write", Attrs: []Attr{{At: Pos{7, 13}, Name: "label", Value: "Writing reST"}}},
				&NodeStmt{At: Pos{8, 6}, ID: "image", Attrs: []Attr{{At: Pos{8, 13}, Name: "label", Value: "Get diagram IMAGE"}}},
			}},
			&LaneStmt{At: Pos{10, 3}, ID: "actdiag", Stmts: []Stmt{
				&NodeStmt{At: Pos{11, 6}, ID: "convert", Attrs: []Attr{{At: Pos{11, 15}, Name: "label", Value: "Convert reST to Image"}}},
			}},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseText() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTextStatements(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Stmt
	}{
		{
			name: "diagram attribute",
			src:  `actdiag { span_width = 64 }`,
			want: []Stmt{&AttrStmt{Attr{At: Pos{1, 11}, Name: "span_width", Value: "64"}}},
		},
		{
			name: "edge operators and attrs",
			src:  `actdiag { a <-> b -- c <- d [color = red, style = dashed] }`,
			want: []Stmt{&EdgeStmt{
				At:    Pos{1, 11},
				Nodes: []string{"a", "b", "c", "d"},
				Ops:   []string{OpBoth, OpNone, OpBackward},
				Attrs: []Attr{{At: Pos{1, 30}, Name: "color", Value: "red"}, {At: Pos{1, 43}, Name: "style", Value: "dashed"}},
			}},
		},
		{
			name: "quoted ids and comments",
			src:  "actdiag {\n  // line comment\n  \"first step\" -> B # trailing\n  /* block\n comment */ B;\n}",
			want: []Stmt{
				&EdgeStmt{At: Pos{3, 3}, Nodes: []string{"first step", "B"}, Ops: []string{"->"}},
				&NodeStmt{At: Pos{5, 13}, ID: "B"},
			},
		},
		{
			name: "string escapes",
			src:  `actdiag { A [label = "say \"hi\"\nnow"] }`,
			want: []Stmt{&NodeStmt{At: Pos{1, 11}, ID: "A", Attrs: []Attr{{At: Pos{1, 14}, Name: "label", Value: "say \"hi\"\nnow"}}}},
		},
		{
			name: "node named lane",
			src:  `actdiag { lane -> b }`,
			want: []Stmt{&EdgeStmt{At: Pos{1, 11}, Nodes: []string{"lane", "b"}, Ops: []string{"->"}}},
		},
		{
			name: "anonymous lane",
			src:  `actdiag { lane { A } }`,
			want: []Stmt{&LaneStmt{At: Pos{1, 11}, Stmts: []Stmt{&NodeStmt{At: Pos{1, 18}, ID: "A"}}}},
		},
		{
			name: "unicode ids",
			src:  `actdiag { 開始 -> 終了 }`,
			want: []Stmt{&EdgeStmt{At: Pos{1, 11}, Nodes: []string{"開始", "終了"}, Ops: []string{"->"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseText(tt.src)
			if err != nil {
				t.Fatalf("ParseText() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got.Stmts); diff != "" {
				t.Errorf("ParseText() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseTextNamedDiagram(t *testing.T) {
	got, err := ParseText(`diagram flow { A }`)
	if err != nil {
		t.Fatalf("ParseText() error: %v", err)
	}
	if got.Type != "diagram" || got.ID != "flow" {
		t.Errorf("Type/ID = %q/%q, want diagram/flow", got.Type, got.ID)
	}
}

func TestParseTextSyntaxErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		line    int
		wantMsg string
	}{
		{"unterminated block", "actdiag {\n  A -> B\n", 1, "unterminated block"},
		{"missing header", "{ A }", 1, `expected "actdiag" or "diagram"`},
		{"dangling edge", "actdiag {\n A -> }", 2, "expected node identifier"},
		{"unterminated string", `actdiag { A [label = "x] }`, 1, "unterminated string"},
		{"unterminated comment", "actdiag { /* A }", 1, "unterminated comment"},
		{"bad character", "actdiag { A ! B }", 1, "unexpected character '!'"},
		{"nested lane", "actdiag { lane a { lane b { C } } }", 1, "lanes cannot be nested"},
		{"missing attr separator", `actdiag { A [label = x color = y] }`, 1, "expected ',' or ']'"},
		{"trailing tokens", "actdiag { A } B", 1, "expected end of input"},
		{"empty input", "", 1, "unexpected end of input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseText(tt.src)
			if err == nil {
				t.Fatal("ParseText() should fail")
			}
			if !errors.Is(err, errors.ErrCodeSyntax) {
				t.Errorf("error code = %q, want SYNTAX", errors.GetCode(err))
			}
			var se *SyntaxError
			if !stderrors.As(err, &se) {
				t.Fatalf("error %v does not wrap *SyntaxError", err)
			}
			if se.Pos.Line != tt.line {
				t.Errorf("line = %d, want %d", se.Pos.Line, tt.line)
			}
			if !strings.Contains(se.Msg, tt.wantMsg) {
				t.Errorf("message %q should contain %q", se.Msg, tt.wantMsg)
			}
		})
	}
}

func TestParsePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flow.diag")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ParsePath(path)
	if err != nil {
		t.Fatalf("ParsePath() error: %v", err)
	}
	if len(got.Stmts) != 3 {
		t.Errorf("len(Stmts) = %d, want 3", len(got.Stmts))
	}
}

func TestParsePathErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ParsePath(filepath.Join(dir, "missing.diag"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: code = %q, want FILE_NOT_FOUND", errors.GetCode(err))
	}

	bad := filepath.Join(dir, "bad.diag")
	if err := os.WriteFile(bad, []byte("actdiag {\n A -> B"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = ParsePath(bad)
	if !errors.Is(err, errors.ErrCodeSyntax) {
		t.Fatalf("bad file: code = %q, want SYNTAX", errors.GetCode(err))
	}
	if !strings.HasPrefix(errors.UserMessage(err), bad+":1:9:") {
		t.Errorf("UserMessage() = %q, want file:line:col prefix", errors.UserMessage(err))
	}
}
