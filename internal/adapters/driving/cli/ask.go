package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkwell-labs/lectern/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question against the indexed documents",
	Long: `Rank indexed chunks and learning notes against the question,
assemble a context window from the best matches and generate an
answer grounded in it.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

var (
	askShowContext bool
	askSaveNote    bool
)

func init() {
	askCmd.Flags().BoolVarP(&askShowContext, "context", "c", false, "Show the ranked context used for the answer")
	askCmd.Flags().BoolVarP(&askSaveNote, "note", "n", false, "Capture the answer as a learning note")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	answer, err := retrievalService.Ask(context.Background(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrGeneratorUnavailable) {
			return errors.New("no generator configured; run 'lectern config llm' first")
		}
		return fmt.Errorf("failed to answer: %w", err)
	}

	cmd.Println(answer.Text)

	if askSaveNote {
		if noteService == nil {
			return errors.New("note service not configured")
		}
		note, err := noteService.Add(context.Background(), answer.Text, "")
		if err != nil {
			return fmt.Errorf("failed to capture note: %w", err)
		}
		cmd.Printf("\nCaptured as note %s\n", note.ID)
	}

	if !askShowContext {
		return nil
	}

	cmd.Println()
	cmd.Println("Context:")
	for _, rc := range answer.Chunks {
		label := rc.Chunk.DocumentID
		if len(rc.Chunk.SectionPath) > 0 {
			label = strings.Join(rc.Chunk.SectionPath, " > ")
		}
		cmd.Printf("  [%.2f] %s\n", rc.Score, label)
	}
	for _, rn := range answer.Notes {
		cmd.Printf("  [%.2f] note: %s\n", rn.Score, rn.Note.Content)
	}
	return nil
}
