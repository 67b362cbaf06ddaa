package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/retrieva-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

var (
	queryTopK     int
	queryDocument string
	queryJSON     bool
)

var (
	queryTitleStyle = lipgloss.NewStyle().Bold(true)
	queryScoreStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	queryMetaStyle  = lipgloss.NewStyle().Faint(true)
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Retrieve the stored chunks most similar to a query",
	Long: `Embeds the query text and ranks every stored chunk by cosine
similarity, returning the top K. Ties keep insertion order.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default 5)")
	queryCmd.Flags().StringVar(&queryDocument, "document", "", "restrict to one document ID")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	// Flag wins over the configured default; the service falls back to
	// its own default when neither is set.
	k := queryTopK
	if k <= 0 {
		k = configStore.GetInt(configfile.KeyDefaultTopK)
	}

	results, err := queryService.Query(context.Background(), args[0], domain.QueryOptions{
		K:          k,
		DocumentID: queryDocument,
	})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, results)
	}
	return outputQueryText(cmd, results)
}

func outputQueryJSON(cmd *cobra.Command, results []domain.RetrievedChunk) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryText(cmd *cobra.Command, results []domain.RetrievedChunk) error {
	if len(results) == 0 {
		cmd.Println("No relevant content found.")
		return nil
	}

	for i, r := range results {
		header := fmt.Sprintf("[%d] %s #%d", i+1, r.DocumentID, r.ChunkIndex)
		score := fmt.Sprintf("(%.4f)", r.Similarity)
		cmd.Printf("%s %s\n", queryTitleStyle.Render(header), queryScoreStyle.Render(score))
		cmd.Printf("    %s\n", snippet(r.Content, 200))
		if len(r.Metadata) > 0 {
			cmd.Printf("    %s\n", queryMetaStyle.Render(fmt.Sprintf("%v", r.Metadata)))
		}
		cmd.Println()
	}
	return nil
}

// snippet truncates content for terminal display, never splitting a
// multi-byte rune.
func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "…"
}
