// Package session produces the rendered portfolio document the extractor
// consumes. The pipeline treats it as an opaque source of one HTML page.
package session

import "context"

// DocumentSource returns one fully rendered HTML document per run.
// Close must be safe to call exactly once on every exit path.
type DocumentSource interface {
	Document(ctx context.Context) (string, error)
	Close() error
}
