// Package messages defines the Bubbletea messages shared across the
// monitor components.
package messages

import (
	"time"

	"github.com/inkwell-labs/lectern/internal/core/domain"
)

// JobsLoaded carries a refreshed job snapshot, paired with the
// document titles keyed by document ID.
type JobsLoaded struct {
	Jobs   []domain.IndexingJob
	Titles map[string]string
	Err    error
}

// PollTick triggers the next scheduled job refresh.
type PollTick struct {
	At time.Time
}

// ActionDone reports the outcome of a resume or finalize request.
type ActionDone struct {
	DocumentID string
	Err        error
}
