package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	configfile "github.com/custodia-labs/retrieva-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/retrieva-cli/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/retrieva-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/retrieva-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/retrieva-cli/internal/chunker"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driving"
	"github.com/custodia-labs/retrieva-cli/internal/core/services"
	"github.com/custodia-labs/retrieva-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagVerbose   bool
	flagDataDir   string
	flagConfigDir string
)

// Services shared by the commands. Populated by initServices; the config
// store is always available after the root pre-run.
var (
	configStore  driven.ConfigStore
	chunkStore   driven.ChunkStore
	indexService driving.IndexService
	queryService driving.QueryService
)

var rootCmd = &cobra.Command{
	Use:   "retrieva",
	Short: "Chunk, embed and retrieve document text by similarity",
	Long: `Retrieva ingests documents into an embedding store and answers
similarity queries over the stored chunks.

Text is split into overlapping word windows, each window is embedded via
the configured provider (OpenAI or Ollama) and stored in a local SQLite
database. Queries embed the query text and rank every stored chunk by
cosine similarity.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)

		var err error
		configStore, err = configfile.NewConfigStore(flagConfigDir)
		if err != nil {
			return fmt.Errorf("open config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if chunkStore != nil {
			chunkStore.Close() //nolint:errcheck // best-effort close on exit
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.retrieva/data)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.retrieva)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices opens the chunk store and wires the core services.
// Called by commands that touch the store; config-only commands skip it.
func initServices() error {
	store, err := sqlite.NewStore(flagDataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	chunkStore = store

	embeddingService := newEmbeddingService()

	chunkOpts := []chunker.Option{}
	if size := configStore.GetInt(configfile.KeyChunkSize); size > 0 {
		chunkOpts = append(chunkOpts, chunker.WithChunkSize(size))
	}
	if overlap, ok := configStore.Get(configfile.KeyOverlap); ok {
		if n, isInt := overlap.(int64); isInt {
			chunkOpts = append(chunkOpts, chunker.WithOverlap(int(n)))
		}
	}
	c, err := chunker.New(chunkOpts...)
	if err != nil {
		return fmt.Errorf("chunking config: %w", err)
	}

	var limiter *rate.Limiter
	if rps := configStore.GetFloat(configfile.KeyEmbedRate); rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}

	indexService = services.NewIndexService(chunkStore, embeddingService, c, limiter)
	queryService = services.NewQueryService(chunkStore, embeddingService)
	return nil
}

// newEmbeddingService builds the embedding adapter from configuration.
// Returns nil when no provider is usable; services then degrade to
// domain.ErrEmbeddingUnavailable.
func newEmbeddingService() driven.EmbeddingService {
	provider := configStore.GetString(configfile.KeyProvider)
	if provider == "" {
		provider = "openai"
	}

	switch provider {
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    configStore.GetString(configfile.KeyBaseURL),
			Model:      configStore.GetString(configfile.KeyModel),
			Dimensions: configStore.GetInt(configfile.KeyDimensions),
		})
	case "openai":
		apiKey := configStore.GetString(configfile.KeyAPIKey)
		if apiKey == "" {
			logger.Warn("No API key configured; run 'retrieva settings set-key'")
			return nil
		}
		svc, err := openai.NewEmbeddingService(openai.Config{
			APIKey:     apiKey,
			BaseURL:    configStore.GetString(configfile.KeyBaseURL),
			Model:      configStore.GetString(configfile.KeyModel),
			Dimensions: configStore.GetInt(configfile.KeyDimensions),
		})
		if err != nil {
			logger.Warn("Embedding provider misconfigured: %v", err)
			return nil
		}
		return svc
	default:
		logger.Warn("Unknown embedding provider %q", provider)
		return nil
	}
}
