package driven

import "context"

// Fetcher retrieves raw text content for a stored file handle or path.
type Fetcher interface {
	// Fetch returns the text content at uri.
	Fetch(ctx context.Context, uri string) (string, error)
}
