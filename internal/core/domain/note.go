package domain

import "time"

// NoteStatus tracks whether a learning note is live or archived.
type NoteStatus string

// Available note statuses.
const (
	NoteStatusActive   NoteStatus = "active"
	NoteStatusArchived NoteStatus = "archived"
)

// LearningNote is a short free-text snippet captured opportunistically
// during conversation. Notes are read-only after creation except for
// their status field, and participate in retrieval ranking with their
// own weighting.
type LearningNote struct {
	// ID is the unique identifier for the note.
	ID string

	// Content is the note text.
	Content string

	// Keywords are lowercase tokens extracted from the content.
	Keywords []string

	// TurnID optionally links the note to the conversation turn that
	// produced it.
	TurnID string

	// Status is active or archived. The only mutable field.
	Status NoteStatus

	// CreatedAt is when the note was captured.
	CreatedAt time.Time
}

// ContainsNumber reports whether any keyword or the content itself
// carries a digit. Used by the scorer's numeric prior for notes.
func (n *LearningNote) ContainsNumber() bool {
	for _, r := range n.Content {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
