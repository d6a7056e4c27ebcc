package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iksnae/resume-session/internal"
	"github.com/iksnae/resume-session/internal/latex"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	renderOutput string
	renderInput  string
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render [session-id]",
	Short: "Render a résumé as LaTeX",
	Long: `Render the résumé of a session, or a résumé document read with --input,
as a complete LaTeX source file. The output goes to stdout unless -o is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var doc *internal.Resume
		switch {
		case renderInput != "" && len(args) == 0:
			var err error
			if doc, err = readResume(cmd.InOrStdin(), renderInput); err != nil {
				return err
			}
		case renderInput == "" && len(args) == 1:
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			defer ws.Close()
			if err := ws.load(context.Background(), args[0]); err != nil {
				return err
			}
			doc = ws.store.Snapshot(args[0]).Resume
		default:
			return errors.New("specify either a session id or --input")
		}

		out := latex.Render(doc)
		if err := writeOutput(cmd.OutOrStdout(), renderOutput, out); err != nil {
			return &internal.ExportError{Format: "tex", Path: renderOutput, Err: err}
		}
		if latex.IsDiagnostic(out) {
			return fmt.Errorf("render failed: %s", strings.TrimPrefix(out, latex.DiagnosticPrefix))
		}
		if renderOutput != "" {
			internal.PrintSuccess(cmd.ErrOrStderr(), fmt.Sprintf("Wrote %s", renderOutput))
		}
		return nil
	},
}

// readResume decodes a résumé document from JSON or YAML. Files ending in
// .json use encoding/json; everything else, stdin included, goes through YAML.
func readResume(stdin io.Reader, path string) (*internal.Resume, error) {
	data, err := readSource(stdin, path)
	if err != nil {
		return nil, err
	}

	doc := internal.NewResume()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, doc)
	} else {
		err = yaml.Unmarshal(data, doc)
	}
	if err != nil {
		return nil, &internal.ParseError{Source: "resume", Key: path, Err: err}
	}
	doc.Normalize()
	return doc, nil
}

func writeOutput(stdout io.Writer, path, content string) error {
	if path == "" {
		_, err := io.WriteString(stdout, content)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "Write the LaTeX source to this file")
	renderCmd.Flags().StringVarP(&renderInput, "input", "i", "", "Render a résumé document (JSON or YAML, - for stdin) instead of a session")
}
