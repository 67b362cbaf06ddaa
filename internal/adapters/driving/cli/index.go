package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driving"
)

var (
	indexDocumentID string
	indexTitle      string
	indexMeta       []string
)

var indexCmd = &cobra.Command{
	Use:   "index [file]",
	Short: "Ingest a text file into the embedding store",
	Long: `Reads a text file, splits it into overlapping word windows, embeds
each window via the configured provider and stores the chunk records.

A provider failure aborts the remaining chunks; chunks stored before the
failure are kept, so a retry can start from a clean slate with
'retrieva documents delete' first.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexDocumentID, "id", "", "document ID (generated when omitted)")
	indexCmd.Flags().StringVar(&indexTitle, "title", "", "document title (defaults to the file name)")
	indexCmd.Flags().StringArrayVar(&indexMeta, "meta", nil, "chunk metadata as key=value (repeatable)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	path := args[0]
	text, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	title := indexTitle
	if title == "" {
		title = filepath.Base(path)
	}

	metadata, err := parseMetadata(indexMeta)
	if err != nil {
		return err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	result, err := indexService.Ingest(context.Background(), driving.IngestRequest{
		DocumentID: indexDocumentID,
		Title:      title,
		URI:        absPath,
		Text:       string(text),
		Metadata:   metadata,
	})
	if err != nil {
		return fmt.Errorf("could not index this document, try again: %w", err)
	}

	cmd.Printf("Indexed %q as %s: %d chunks (%d dimensions)\n",
		title, result.DocumentID, result.ChunkCount, result.Dimensions)
	return nil
}

// parseMetadata converts repeated key=value flags into a metadata map.
func parseMetadata(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	metadata := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata %q, expected key=value", pair)
		}
		metadata[key] = value
	}
	return metadata, nil
}
