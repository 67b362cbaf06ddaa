package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var reindexAll bool

var reindexCmd = &cobra.Command{
	Use:   "reindex [documentID]",
	Short: "Re-ingest a document from its source file",
	Long: `Deletes a document's chunks and re-embeds its source text, so a
document whose chunk count shrank never leaves stale chunks behind.

With --all the entire store is cleared and every registered document is
re-ingested from its recorded source path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReindex,
}

func init() {
	reindexCmd.Flags().BoolVar(&reindexAll, "all", false, "clear the store and re-ingest every document")
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	ctx := context.Background()

	if reindexAll {
		return runReindexAll(ctx, cmd)
	}

	if len(args) == 0 {
		return errors.New("provide a document ID or --all")
	}

	result, err := indexService.Reindex(ctx, args[0])
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	cmd.Printf("Reindexed %s: %d chunks\n", result.DocumentID, result.ChunkCount)
	return nil
}

func runReindexAll(ctx context.Context, cmd *cobra.Command) error {
	docs, err := indexService.Documents(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	if err := indexService.Reset(ctx); err != nil {
		return err
	}

	for _, doc := range docs {
		// Reindex re-reads each document from its recorded URI. The
		// documents table was cleared by Reset, so re-register first.
		if err := chunkStore.SaveDocument(ctx, &doc); err != nil {
			return fmt.Errorf("restore document %s: %w", doc.ID, err)
		}
		result, err := indexService.Reindex(ctx, doc.ID)
		if err != nil {
			return fmt.Errorf("reindex %s: %w", doc.ID, err)
		}
		cmd.Printf("Reindexed %s: %d chunks\n", result.DocumentID, result.ChunkCount)
	}

	cmd.Printf("Reindexed %d documents\n", len(docs))
	return nil
}
