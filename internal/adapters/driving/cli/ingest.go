package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Add a document to the library",
	Long: `Fetch a document, store it and queue an indexing job for it.

With --watch the given path is treated as a directory and monitored:
every new or modified markdown, text or LaTeX file is ingested
automatically until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var (
	ingestTitle string
	ingestWatch bool
	ingestIndex bool
)

func init() {
	ingestCmd.Flags().StringVarP(&ingestTitle, "title", "t", "", "Document title (defaults to the file name)")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "Watch a directory and ingest changed files")
	ingestCmd.Flags().BoolVarP(&ingestIndex, "index", "i", false, "Start indexing immediately after ingesting")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	if ingestWatch {
		return runIngestWatch(cmd, args[0])
	}

	ctx := context.Background()
	doc, err := libraryService.Ingest(ctx, args[0], ingestTitle)
	if err != nil {
		return fmt.Errorf("failed to ingest: %w", err)
	}

	cmd.Printf("Ingested %q\n", doc.Title)
	cmd.Printf("  ID: %s\n", doc.ID)
	cmd.Printf("  Size: %d characters\n", len(doc.Content))
	if doc.Structured {
		cmd.Println("  Chunking: section-wise (headings detected)")
	} else {
		cmd.Println("  Chunking: fixed windows")
	}

	if !ingestIndex {
		cmd.Printf("\nRun 'lectern index %s' to build the index.\n", doc.ID)
		return nil
	}
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}
	cmd.Println()
	return runIndexJob(cmd, doc.ID)
}

func runIngestWatch(cmd *cobra.Command, dir string) error {
	if watchFunc == nil {
		return errors.New("watcher not configured")
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("--watch requires a directory, got %s", dir)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)
	if err := watchFunc(ctx, dir); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
