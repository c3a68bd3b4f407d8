package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-labs/lectern/internal/adapters/driven/storage/memory"
	"github.com/inkwell-labs/lectern/internal/core/domain"
	"github.com/inkwell-labs/lectern/internal/core/services"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_HasContextFlag(t *testing.T) {
	flag := askCmd.Flags().Lookup("context")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)
}

func TestAskCmd_PrintsAnswer(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "what is the wave speed?"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "A grounded answer.")
}

func TestAskCmd_ContextFlagShowsRanking(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	doc, err := libraryService.Ingest(context.Background(), "notes/a.md", "Waves")
	require.NoError(t, err)
	require.NoError(t, indexerService.Run(context.Background(), doc.ID))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "--context", "wave equation speed"})
	defer func() {
		rootCmd.SetArgs(nil)
		askShowContext = false
	}()

	err = rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Context:")
}

func TestAskCmd_NoteFlagCapturesAnswer(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "--note", "what holds?"})
	defer func() {
		rootCmd.SetArgs(nil)
		askSaveNote = false
	}()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Captured as note")

	notes, err := noteService.List(context.Background(), domain.NoteStatusActive)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "A grounded answer.", notes[0].Content)
}

func TestAskCmd_NoGeneratorConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	retrievalService = services.NewRetrieval(
		memory.NewDocumentStore(), memory.NewNoteStore(), nil, domain.DefaultScoreWeights())

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "lectern config llm")
}

func TestAskCmd_ServiceNotConfigured(t *testing.T) {
	oldService := retrievalService
	retrievalService = nil
	defer func() {
		retrievalService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "retrieval service not configured")
}
