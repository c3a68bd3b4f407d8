package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrJobInProgress indicates an indexing run is already active
	// for the document in this process.
	ErrJobInProgress = errors.New("indexing job in progress")

	// ErrJobCompleted indicates the job is terminal and cannot be
	// resumed without a rebuild.
	ErrJobCompleted = errors.New("indexing job already completed")

	// ErrGeneratorUnavailable indicates the text-generation service
	// is not configured. The analysis phase and ask command are
	// disabled without it.
	ErrGeneratorUnavailable = errors.New("generator service unavailable")

	// ErrRateLimited indicates the remote service rejected a call
	// for exceeding its rate limit.
	ErrRateLimited = errors.New("rate limited")
)

// RateLimitError is the structured form of a rate-limit rejection,
// set at the adapter boundary so callers never have to parse message
// text. It matches ErrRateLimited under errors.Is.
type RateLimitError struct {
	// RetryAfter is the server-suggested cooldown, zero if unknown.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

// Is makes RateLimitError match ErrRateLimited.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// IsRateLimited reports whether err is rate-limit-shaped. The
// structured RateLimitError is authoritative; the substring fallback
// covers opaque errors from services that only expose message text.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate") ||
		strings.Contains(msg, "too many")
}
