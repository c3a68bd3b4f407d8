// Package cli implements the lectern command-line interface using
// cobra. Commands hold no business logic; they parse input, call the
// driving ports and format output.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/inkwell-labs/lectern/internal/core/ports/driven"
	"github.com/inkwell-labs/lectern/internal/core/ports/driving"
	"github.com/inkwell-labs/lectern/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected by the composition root before Execute.
var (
	libraryService   driving.LibraryService
	indexerService   driving.Indexer
	retrievalService driving.RetrievalService
	noteService      driving.NoteService
	schedulerService driving.Scheduler
	configStore      driven.ConfigStore
	watchFunc        func(ctx context.Context, dir string) error
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "lectern",
	Short: "Index documents and ask questions against them",
	Long: `Lectern builds a local knowledge index from your documents.

Documents are chunked, feature-extracted and stored in SQLite; an
optional generator service analyzes the indexed material and answers
questions grounded in it.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Services bundles everything the CLI needs from the composition root.
type Services struct {
	Library   driving.LibraryService
	Indexer   driving.Indexer
	Retrieval driving.RetrievalService
	Notes     driving.NoteService
	Config    driven.ConfigStore

	// Scheduler auto-resumes cooled-down jobs while long-running
	// commands are open; nil disables it.
	Scheduler driving.Scheduler

	// Watch runs the directory watcher; nil disables --watch.
	Watch func(ctx context.Context, dir string) error
}

// SetServices wires the service implementations into the commands.
func SetServices(s Services) {
	libraryService = s.Library
	indexerService = s.Indexer
	retrievalService = s.Retrieval
	noteService = s.Notes
	schedulerService = s.Scheduler
	configStore = s.Config
	watchFunc = s.Watch
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
