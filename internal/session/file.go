package session

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads an already-rendered document from disk. Used for offline
// runs and tests; the pipeline cannot tell it apart from a live browser.
type FileSource struct {
	Path string
}

func (s *FileSource) Document(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("session: read %s: %w", s.Path, err)
	}
	return string(data), nil
}

func (s *FileSource) Close() error { return nil }
