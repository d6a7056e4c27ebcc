package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/resume-session/internal"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		session *internal.SessionRecord
		want    []string
		notWant []string
	}{
		{
			name:    "basic session",
			session: internal.CreateTestRecord("test1"),
			want: []string{
				"# Session test1",
				"**Updated:** 2024-03-01T12:00:00Z",
				"**Messages:** 2",
				"## Resume",
				"**Name:** Ada Lovelace",
				"- **Experience:** Engineer at Analytical Engines (1842-01 - Present), 1 responsibilities",
				"- **Project:** Bernoulli numbers [Analytical Engine]",
				"## Messages",
				"**human:**",
				"Hello, I want to build a resume.",
				"**assistant:**",
			},
		},
		{
			name:    "empty resume",
			session: internal.CreateTestRecordWithMessages("test2", nil),
			want: []string{
				"**Messages:** 0",
				"_No sections filled yet._",
			},
			notWant: []string{"**Updated:**"},
		},
		{
			name: "legacy roles are normalized",
			session: internal.CreateTestRecordWithMessages("test3", []internal.RawMessage{
				{Role: "user", Content: "hi"},
				{Role: "system", Content: "hello"},
			}),
			want:    []string{"**human:**\n\nhi", "**assistant:**\n\nhello"},
			notWant: []string{"**user:**", "**system:**"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&MarkdownExporter{}).Export(tt.session, &buf); err != nil {
				t.Fatalf("MarkdownExporter.Export() error = %v", err)
			}

			output := buf.String()
			for _, wantStr := range tt.want {
				if !strings.Contains(output, wantStr) {
					t.Errorf("Output should contain %q, got:\n%s", wantStr, output)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(output, s) {
					t.Errorf("Output should not contain %q", s)
				}
			}
		})
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bold", in: "**bold**", want: "\\*\\*bold\\*\\*"},
		{name: "underline", in: "__x__", want: "\\_\\_x\\_\\_"},
		{name: "code block untouched", in: "```\n**x**\n```", want: "```\n**x**\n```"},
		{name: "plain", in: "plain text", want: "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeMarkdown(tt.in); got != tt.want {
				t.Errorf("escapeMarkdown() = %q, want %q", got, tt.want)
			}
		})
	}
}
