package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonitorCmd_Use(t *testing.T) {
	assert.Equal(t, "monitor", monitorCmd.Use)
}

func TestMonitorCmd_Long(t *testing.T) {
	assert.Contains(t, monitorCmd.Long, "resume")
	assert.Contains(t, monitorCmd.Long, "finalize")
}

func TestMonitorCmd_ServicesNotConfigured(t *testing.T) {
	oldIndexer := indexerService
	oldLibrary := libraryService
	indexerService = nil
	libraryService = nil
	defer func() {
		indexerService = oldIndexer
		libraryService = oldLibrary
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"monitor"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "services not configured")
}
