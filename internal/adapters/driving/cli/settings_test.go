package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configfile "github.com/custodia-labs/retrieva-cli/internal/adapters/driven/config/file"
)

func TestSettingsCmd_Use(t *testing.T) {
	assert.Equal(t, "settings", settingsCmd.Use)
}

func TestSettingsShow_Defaults(t *testing.T) {
	setupTestDirs(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "openai (default)")
	assert.Contains(t, out, "API Key: (not set)")
	assert.Contains(t, out, "1000 words (default)")
	assert.Contains(t, out, "Top K: 5 (default)")
}

func TestSettingsSet_TypedValues(t *testing.T) {
	setupTestDirs(t)

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"settings", "set", "chunking.chunk_size", "500"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, 500, configStore.GetInt(configfile.KeyChunkSize))

	rootCmd.SetArgs([]string{"settings", "set", "embedding.rate_limit", "2.5"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, 2.5, configStore.GetFloat(configfile.KeyEmbedRate))

	rootCmd.SetArgs([]string{"settings", "set", "embedding.provider", "ollama"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "ollama", configStore.GetString(configfile.KeyProvider))
}

func TestSettingsUnset(t *testing.T) {
	setupTestDirs(t)

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"settings", "set", "embedding.provider", "ollama"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()
	require.NoError(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"settings", "unset", "embedding.provider"})
	require.NoError(t, rootCmd.Execute())

	_, ok := configStore.Get(configfile.KeyProvider)
	assert.False(t, ok)
}

func TestSettingsPing_WithoutProvider(t *testing.T) {
	setupTestDirs(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "ping"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	// Default provider is openai and no API key is configured.
	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding service unavailable")
}

func TestSettingsPing_ReachableProvider(t *testing.T) {
	setupTestDirs(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"settings", "set", "embedding.provider", "ollama"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()
	require.NoError(t, rootCmd.Execute())
	rootCmd.SetArgs([]string{"settings", "set", "embedding.base_url", server.URL})
	require.NoError(t, rootCmd.Execute())

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "ping"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, buf.String(), "Provider reachable")
	assert.Contains(t, buf.String(), "nomic-embed-text")
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey(""))
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-a...wxyz", maskAPIKey("sk-abcdefghijklmnopqrstuvwxyz"))
}
