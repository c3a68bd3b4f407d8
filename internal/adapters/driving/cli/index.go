package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkwell-labs/lectern/internal/core/domain"
)

var indexCmd = &cobra.Command{
	Use:   "index [doc-id]",
	Short: "Start or resume indexing a document",
	Long: `Run the indexing pipeline for a document.

Interrupted or errored jobs resume from their last persisted batch.
Jobs paused by a rate limit resume automatically once their cooldown
elapses; running this command resumes them immediately.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

var indexRebuild bool

var finalizeCmd = &cobra.Command{
	Use:   "finalize [doc-id]",
	Short: "Complete a job immediately, skipping remaining analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runFinalize,
}

var statusCmd = &cobra.Command{
	Use:   "status [doc-id]",
	Short: "Show indexing progress",
	Long:  `Show progress for one document's job, or all jobs when no ID is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func init() {
	indexCmd.Flags().BoolVar(&indexRebuild, "rebuild", false, "Discard existing chunks and re-index from scratch")
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(finalizeCmd)
	rootCmd.AddCommand(statusCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	docID := args[0]
	if indexRebuild {
		if err := indexerService.Rebuild(context.Background(), docID); err != nil {
			return fmt.Errorf("failed to rebuild: %w", err)
		}
		cmd.Println("Existing index discarded.")
	}
	return runIndexJob(cmd, docID)
}

// runIndexJob drives a blocking indexing run with cancellation on
// interrupt. Shared with 'ingest --index'.
func runIndexJob(cmd *cobra.Command, docID string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd.Printf("Indexing %s...\n", docID)
	err := indexerService.Run(ctx, docID)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		cmd.Println("Interrupted; progress saved. Re-run to resume.")
		return nil
	case errors.Is(err, domain.ErrJobCompleted):
		cmd.Println("Already indexed. Use --rebuild to start over.")
		return nil
	default:
		return fmt.Errorf("indexing failed: %w", err)
	}

	job, err := indexerService.Status(context.Background(), docID)
	if err != nil {
		return fmt.Errorf("failed to read status: %w", err)
	}
	printJob(cmd, job)
	return nil
}

func runFinalize(cmd *cobra.Command, args []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	if err := indexerService.Finalize(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to finalize: %w", err)
	}
	cmd.Println("Job finalized.")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}
	ctx := context.Background()

	if len(args) == 1 {
		job, err := indexerService.Status(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to read status: %w", err)
		}
		printJob(cmd, job)
		return nil
	}

	jobs, err := indexerService.Jobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}
	if len(jobs) == 0 {
		cmd.Println("No indexing jobs.")
		return nil
	}
	for i := range jobs {
		printJob(cmd, &jobs[i])
		cmd.Println()
	}
	return nil
}

func printJob(cmd *cobra.Command, job *domain.IndexingJob) {
	cmd.Printf("Document %s\n", job.DocumentID)
	cmd.Printf("  Phase: %s (%d%%)\n", job.Phase, job.Progress)

	if job.TotalChunks > 0 {
		cmd.Printf("  Chunks: %d/%d\n", job.ChunkCount, job.TotalChunks)
	}
	if job.ThroughputPerMinute > 0 && !job.Phase.IsTerminal() {
		cmd.Printf("  Throughput: %.1f/min", job.ThroughputPerMinute)
		if job.ETASeconds > 0 {
			cmd.Printf(", ETA %s", (time.Duration(job.ETASeconds) * time.Second).String())
		}
		cmd.Println()
	}
	if job.Notice != "" {
		cmd.Printf("  Notice: %s\n", job.Notice)
		if !job.ResumeAt.IsZero() {
			cmd.Printf("  Auto-resume at: %s\n", job.ResumeAt.Format(time.RFC3339))
		}
	}
	if job.LastError != "" {
		cmd.Printf("  Error: %s\n", job.LastError)
		cmd.Println("  Run 'lectern index' again to resume.")
	}
	if job.Summary != "" {
		cmd.Printf("  Summary: %s\n", job.Summary)
	}
}
