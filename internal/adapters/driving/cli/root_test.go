package cli

import (
	"testing"
)

// setupTestDirs points the config and data directories at temp dirs so
// command tests never touch the real home directory.
func setupTestDirs(t *testing.T) {
	t.Helper()

	originalConfigDir := flagConfigDir
	originalDataDir := flagDataDir
	flagConfigDir = t.TempDir()
	flagDataDir = t.TempDir()

	t.Cleanup(func() {
		flagConfigDir = originalConfigDir
		flagDataDir = originalDataDir
		if chunkStore != nil {
			chunkStore.Close() //nolint:errcheck
			chunkStore = nil
		}
		indexService = nil
		queryService = nil
		configStore = nil
	})
}
