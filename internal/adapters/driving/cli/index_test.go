package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexCmd_Use(t *testing.T) {
	assert.Equal(t, "index [doc-id]", indexCmd.Use)
}

func TestIndexCmd_HasRebuildFlag(t *testing.T) {
	flag := indexCmd.Flags().Lookup("rebuild")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestIndexCmd_RunsToCompletion(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	doc, err := libraryService.Ingest(context.Background(), "notes/a.md", "Test Doc")
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", doc.ID})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err = rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "completed")
	assert.Contains(t, buf.String(), "100%")
}

func TestIndexCmd_AlreadyIndexed(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	doc, err := libraryService.Ingest(context.Background(), "notes/a.md", "Test Doc")
	require.NoError(t, err)
	require.NoError(t, indexerService.Run(context.Background(), doc.ID))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", doc.ID})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err = rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Already indexed")
}

func TestIndexCmd_RebuildThenReindex(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	doc, err := libraryService.Ingest(context.Background(), "notes/a.md", "Test Doc")
	require.NoError(t, err)
	require.NoError(t, indexerService.Run(context.Background(), doc.ID))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", "--rebuild", doc.ID})
	defer func() {
		rootCmd.SetArgs(nil)
		indexRebuild = false
	}()

	err = rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Existing index discarded")
	assert.Contains(t, buf.String(), "completed")
}

func TestFinalizeCmd_CompletesJob(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	doc, err := libraryService.Ingest(context.Background(), "notes/a.md", "Test Doc")
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"finalize", doc.ID})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err = rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Job finalized")
}

func TestStatusCmd_SingleDocument(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	doc, err := libraryService.Ingest(context.Background(), "notes/a.md", "Test Doc")
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status", doc.ID})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err = rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), doc.ID)
	assert.Contains(t, buf.String(), "queued")
}

func TestStatusCmd_AllJobsEmpty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No indexing jobs")
}

func TestIndexCmd_ServiceNotConfigured(t *testing.T) {
	oldService := indexerService
	indexerService = nil
	defer func() {
		indexerService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index", "doc-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "indexer service not configured")
}
