// Command lectern is the entry point for the lectern CLI.
package main

import (
	"fmt"
	"os"
	"time"

	configfile "github.com/inkwell-labs/lectern/internal/adapters/driven/config/file"
	"github.com/inkwell-labs/lectern/internal/adapters/driven/fetch"
	"github.com/inkwell-labs/lectern/internal/adapters/driven/llm/ollama"
	"github.com/inkwell-labs/lectern/internal/adapters/driven/llm/openai"
	"github.com/inkwell-labs/lectern/internal/adapters/driven/storage/sqlite"
	"github.com/inkwell-labs/lectern/internal/adapters/driving/cli"
	"github.com/inkwell-labs/lectern/internal/core/ports/driven"
	"github.com/inkwell-labs/lectern/internal/core/services"
	"github.com/inkwell-labs/lectern/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// resumeCheckInterval is how often the scheduler looks for jobs whose
// rate-limit cooldown has elapsed.
const resumeCheckInterval = time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	settings := configfile.IndexingSettings(cfg)
	weights := configfile.ScoreWeights(cfg)

	store, err := sqlite.NewStore(cfg.GetString(configfile.KeyDataDir))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("closing store: %v", cerr)
		}
	}()

	docStore := store.DocumentStore()
	jobStore := store.JobStore()
	noteStore := store.NoteStore()

	generator := buildGenerator(cfg)
	if generator != nil {
		defer func() {
			if cerr := generator.Close(); cerr != nil {
				logger.Warn("closing generator: %v", cerr)
			}
		}()
	}

	library := services.NewLibrary(docStore, jobStore, fetch.NewFileFetcher(), settings)
	indexer := services.NewIndexer(docStore, jobStore, generator, settings)
	retrieval := services.NewRetrieval(docStore, noteStore, generator, weights)
	notes := services.NewNotes(noteStore)
	scheduler := services.NewScheduler(jobStore, indexer, resumeCheckInterval)
	watcher := services.NewWatcher(library)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Library:   library,
		Indexer:   indexer,
		Retrieval: retrieval,
		Notes:     notes,
		Config:    cfg,
		Scheduler: scheduler,
		Watch:     watcher.Watch,
	})

	return cli.Execute()
}

// buildGenerator constructs the configured LLM provider, or nil when
// none is configured. Commands that need a generator report that
// themselves.
func buildGenerator(cfg driven.ConfigStore) driven.Generator {
	switch cfg.GetString(configfile.KeyProvider) {
	case "openai":
		gen, err := openai.New(openai.Config{
			APIKey:  cfg.GetString(configfile.KeyAPIKey),
			BaseURL: cfg.GetString(configfile.KeyBaseURL),
			Model:   cfg.GetString(configfile.KeyModel),
		})
		if err != nil {
			logger.Warn("openai provider unavailable: %v", err)
			return nil
		}
		return gen
	case "ollama":
		return ollama.New(ollama.Config{
			BaseURL: cfg.GetString(configfile.KeyBaseURL),
			Model:   cfg.GetString(configfile.KeyModel),
		})
	default:
		return nil
	}
}
