package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage indexed documents",
	RunE:  runDocumentsList,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed documents and their chunk counts",
	RunE:  runDocumentsList,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete [documentID]",
	Short: "Delete a document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsDelete,
}

var documentsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the total number of stored chunks",
	RunE:  runDocumentsCount,
}

func init() {
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	documentsCmd.AddCommand(documentsCountCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}
	ctx := context.Background()

	docs, err := indexService.Documents(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents indexed.")
		return nil
	}

	for _, doc := range docs {
		count, err := indexService.CountByDocument(ctx, doc.ID)
		if err != nil {
			return fmt.Errorf("count chunks of %s: %w", doc.ID, err)
		}
		title := doc.Title
		if title == "" {
			title = "(untitled)"
		}
		cmd.Printf("%s  %s  %d chunks\n", doc.ID, title, count)
	}
	return nil
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	if err := indexService.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	cmd.Printf("Deleted %s\n", args[0])
	return nil
}

func runDocumentsCount(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}

	count, err := indexService.Count(context.Background())
	if err != nil {
		return fmt.Errorf("count failed: %w", err)
	}
	cmd.Printf("%d\n", count)
	return nil
}
