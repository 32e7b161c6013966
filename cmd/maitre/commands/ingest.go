// ABOUTME: Ingest command adding document files to the vector store
// ABOUTME: Re-ingesting a file replaces its previous chunks
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [file...]",
		Short: "Add documents to the store",
		Long: `Extract, chunk, embed, and store one or more document files.

Supported formats: PDF, DOCX, plain text, and images (via OCR).
Ingesting a file again replaces its previously stored chunks.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runIngest,
		Example: `  maitre ingest report.pdf
  maitre ingest notes.md scan.png`,
	}

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	app, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var failed int
	for _, path := range args {
		res, err := app.docs.IngestFile(cmd.Context(), path)
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", path, err)
			continue
		}

		if format == "json" {
			data, err := json.Marshal(res)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			continue
		}
		fmt.Fprintf(out, "✓ %s: %d chunks stored\n", res.Filename, res.Chunks)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}
