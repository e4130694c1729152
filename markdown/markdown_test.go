package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"heading", "## Respirer", []string{"<h2>Respirer</h2>"}},
		{"bold and italic", "**gras** et *italique*", []string{"<strong>gras</strong>", "<em>italique</em>"}},
		{"link", "[site](https://example.com)", []string{`<a href="https://example.com">site</a>`}},
		{"list", "- un\n- deux", []string{"<ul>", "<li>un</li>", "<li>deux</li>"}},
		{"table", "| a | b |\n|---|---|\n| 1 | 2 |", []string{"<table>", "<th>a</th>", "<td>2</td>"}},
		{"strikethrough", "~~barré~~", []string{"<del>barré</del>"}},
		{"code highlighting", "```go\nfunc main() {}\n```", []string{`class="chroma"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHTML(tt.input)
			if err != nil {
				t.Fatalf("ToHTML: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("ToHTML(%q) = %q, missing %q", tt.input, got, w)
				}
			}
		})
	}
}

func TestToHTMLHeadingsHaveNoIDs(t *testing.T) {
	got, err := ToHTML("## Un\n\n## Deux")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if strings.Contains(got, "id=") {
		t.Errorf("headings should not carry ids, got %q", got)
	}
}

func TestToHTMLDropsRawHTML(t *testing.T) {
	got, err := ToHTML("<script>alert(1)</script>\n\ntexte")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("raw html should be omitted, got %q", got)
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("*x*").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "<em>x</em>") {
		t.Errorf("got %q", buf.String())
	}
}
