package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexCmd_Use(t *testing.T) {
	assert.Equal(t, "index [file]", indexCmd.Use)
}

func TestIndexCmd_Short(t *testing.T) {
	assert.Equal(t, "Ingest a text file into the embedding store", indexCmd.Short)
}

func TestIndexCmd_RequiresExactlyOneArg(t *testing.T) {
	setupTestDirs(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestIndexCmd_HasFlags(t *testing.T) {
	require.NotNil(t, indexCmd.Flags().Lookup("id"))
	require.NotNil(t, indexCmd.Flags().Lookup("title"))
	require.NotNil(t, indexCmd.Flags().Lookup("meta"))
}

func TestIndexCmd_MissingFile(t *testing.T) {
	setupTestDirs(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index", "/nonexistent/file.txt"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
}

func TestParseMetadata(t *testing.T) {
	metadata, err := parseMetadata([]string{"lang=en", "source=manual"})
	require.NoError(t, err)
	assert.Equal(t, "en", metadata["lang"])
	assert.Equal(t, "manual", metadata["source"])
}

func TestParseMetadata_Empty(t *testing.T) {
	metadata, err := parseMetadata(nil)
	require.NoError(t, err)
	assert.Nil(t, metadata)
}

func TestParseMetadata_Invalid(t *testing.T) {
	_, err := parseMetadata([]string{"novalue"})
	assert.Error(t, err)

	_, err = parseMetadata([]string{"=value"})
	assert.Error(t, err)
}

func TestParseMetadata_ValueWithEquals(t *testing.T) {
	metadata, err := parseMetadata([]string{"query=a=b"})
	require.NoError(t, err)
	assert.Equal(t, "a=b", metadata["query"])
}
