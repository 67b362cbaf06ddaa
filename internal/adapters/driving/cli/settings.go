package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	configfile "github.com/custodia-labs/retrieva-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the embedding provider, chunking parameters and
query defaults. Settings live in a TOML file under the config directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value by key. Integer and float values are
stored typed; everything else is stored as a string.

Known keys:
  embedding.provider    openai or ollama
  embedding.model       provider model name
  embedding.base_url    override the provider endpoint
  embedding.dimensions  embedding vector size
  embedding.rate_limit  provider calls per second
  chunking.chunk_size   words per chunk
  chunking.overlap      words shared between adjacent chunks
  query.top_k           default result count`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Set the provider API key",
	Long:  `Prompts for the API key without echoing it to the terminal.`,
	RunE:  runSettingsSetKey,
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Remove a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsUnset,
}

var settingsPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the configured embedding provider is reachable",
	Long: `Makes a lightweight request to the configured provider without
running inference, so a broken endpoint or bad API key shows up before
the first ingestion.`,
	RunE: runSettingsPing,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsSetKeyCmd)
	settingsCmd.AddCommand(settingsUnsetCmd)
	settingsCmd.AddCommand(settingsPingCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	provider := configStore.GetString(configfile.KeyProvider)
	if provider == "" {
		provider = "openai (default)"
	}
	cmd.Printf("  Provider: %s\n", provider)
	if model := configStore.GetString(configfile.KeyModel); model != "" {
		cmd.Printf("  Model: %s\n", model)
	} else {
		cmd.Printf("  Model: (provider default)\n")
	}
	if baseURL := configStore.GetString(configfile.KeyBaseURL); baseURL != "" {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if apiKey := configStore.GetString(configfile.KeyAPIKey); apiKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	if dims := configStore.GetInt(configfile.KeyDimensions); dims > 0 {
		cmd.Printf("  Dimensions: %d\n", dims)
	}
	if rps := configStore.GetFloat(configfile.KeyEmbedRate); rps > 0 {
		cmd.Printf("  Rate limit: %.1f calls/s\n", rps)
	}
	cmd.Println()

	cmd.Println("[Chunking]")
	if size := configStore.GetInt(configfile.KeyChunkSize); size > 0 {
		cmd.Printf("  Chunk size: %d words\n", size)
	} else {
		cmd.Printf("  Chunk size: 1000 words (default)\n")
	}
	if overlap, ok := configStore.Get(configfile.KeyOverlap); ok {
		cmd.Printf("  Overlap: %v words\n", overlap)
	} else {
		cmd.Printf("  Overlap: 100 words (default)\n")
	}
	cmd.Println()

	cmd.Println("[Query]")
	if k := configStore.GetInt(configfile.KeyDefaultTopK); k > 0 {
		cmd.Printf("  Top K: %d\n", k)
	} else {
		cmd.Printf("  Top K: 5 (default)\n")
	}
	cmd.Println()
	cmd.Printf("Config file: %s\n", configStore.Path())
	return nil
}

func runSettingsSet(_ *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	var value any = raw
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		value = n
	} else if f, err := strconv.ParseFloat(raw, 64); err == nil {
		value = f
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func runSettingsSetKey(cmd *cobra.Command, _ []string) error {
	cmd.Print("API key: ")
	apiKey := readPassword()
	cmd.Println()

	if apiKey == "" {
		return fmt.Errorf("empty API key")
	}
	if err := configStore.Set(configfile.KeyAPIKey, apiKey); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	cmd.Println("API key saved.")
	return nil
}

func runSettingsUnset(_ *cobra.Command, args []string) error {
	if err := configStore.Delete(args[0]); err != nil {
		return fmt.Errorf("failed to unset %s: %w", args[0], err)
	}
	return nil
}

func runSettingsPing(cmd *cobra.Command, _ []string) error {
	svc := newEmbeddingService()
	if svc == nil {
		return domain.ErrEmbeddingUnavailable
	}
	defer svc.Close() //nolint:errcheck

	if err := svc.Ping(cmd.Context()); err != nil {
		return fmt.Errorf("provider unreachable: %w", err)
	}
	cmd.Printf("Provider reachable (model %s, %d dimensions)\n", svc.ModelName(), svc.Dimensions())
	return nil
}

// readPassword reads a line from stdin, without echo when attached to a
// terminal.
func readPassword() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// maskAPIKey partially hides an API key for display.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
