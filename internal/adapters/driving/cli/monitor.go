package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/inkwell-labs/lectern/internal/adapters/driving/tui"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Launch the interactive indexing monitor",
	Long: `Launch the terminal UI for watching indexing jobs.

The monitor shows all jobs with live progress bars, lets you resume
paused or errored jobs and finalize jobs without waiting for analysis.

Controls:
  ↑/k, ↓/j - Navigate jobs
  Enter    - Resume selected job
  f        - Finalize selected job
  r        - Refresh now
  q        - Quit`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	if indexerService == nil || libraryService == nil {
		return errors.New("services not configured")
	}

	// Panic recovery so terminal state is restorable with a stack trace
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in monitor: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	// The monitor is long-running, so keep the auto-resume scheduler
	// alive while it is open.
	if schedulerService != nil {
		schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
		defer schedulerCancel()

		go func() {
			if err := schedulerService.Start(schedulerCtx); err != nil {
				fmt.Fprintf(os.Stderr, "scheduler stopped: %v\n", err)
			}
		}()
		defer func() {
			if err := schedulerService.Stop(); err != nil {
				fmt.Fprintf(os.Stderr, "scheduler stop error: %v\n", err)
			}
		}()
	}

	app, err := tui.NewApp(&tui.Ports{
		Indexer: indexerService,
		Library: libraryService,
	})
	if err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("monitor error: %w", err)
	}
	return nil
}
