package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwell-labs/lectern/internal/core/domain"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Manage learning notes",
	Long: `Learning notes are short observations captured during study
sessions. Active notes participate in answer ranking with their own
weighting; archived notes are kept but ignored.`,
}

var notesAddCmd = &cobra.Command{
	Use:   "add [content]",
	Short: "Capture a learning note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotesAdd,
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learning notes",
	RunE:  runNotesList,
}

var notesArchiveCmd = &cobra.Command{
	Use:   "archive [note-id]",
	Short: "Archive a note, removing it from ranking",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotesArchive,
}

var (
	notesTurnID   string
	notesArchived bool
)

func init() {
	notesAddCmd.Flags().StringVar(&notesTurnID, "turn", "", "Conversation turn the note came from")
	notesListCmd.Flags().BoolVarP(&notesArchived, "archived", "a", false, "List archived notes instead of active ones")

	notesCmd.AddCommand(notesAddCmd)
	notesCmd.AddCommand(notesListCmd)
	notesCmd.AddCommand(notesArchiveCmd)
	rootCmd.AddCommand(notesCmd)
}

func runNotesAdd(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	note, err := noteService.Add(context.Background(), args[0], notesTurnID)
	if err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}

	cmd.Printf("Note %s captured (%d keywords)\n", note.ID, len(note.Keywords))
	return nil
}

func runNotesList(cmd *cobra.Command, _ []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	status := domain.NoteStatusActive
	if notesArchived {
		status = domain.NoteStatusArchived
	}

	notes, err := noteService.List(context.Background(), status)
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}
	if len(notes) == 0 {
		cmd.Printf("No %s notes.\n", status)
		return nil
	}

	for i := range notes {
		n := &notes[i]
		cmd.Printf("  %s  %s\n", n.ID, n.Content)
		cmd.Printf("      %s", n.CreatedAt.Format("2006-01-02 15:04"))
		if n.TurnID != "" {
			cmd.Printf("  (turn %s)", n.TurnID)
		}
		cmd.Println()
	}
	cmd.Printf("\nTotal: %d notes\n", len(notes))
	return nil
}

func runNotesArchive(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	if err := noteService.Archive(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to archive note: %w", err)
	}
	cmd.Println("Note archived.")
	return nil
}
