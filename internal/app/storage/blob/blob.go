// Package blob reaches the remote container that holds source audio.
package blob

import (
	"context"
	"io"

	"audio-pipeline/internal/app/util/files"
)

// Store is the read side of a remote blob container.
type Store interface {
	// Open returns the object's bytes and size. A missing object yields an error of kind not_found.
	Open(ctx context.Context, name string) (io.ReadCloser, int64, error)

	// List returns every object name in the container.
	List(ctx context.Context) ([]string, error)
}

// ListAudio lists the objects in s that look like audio files.
func ListAudio(ctx context.Context, s Store) ([]string, error) {
	names, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return files.FilterAudioNames(names), nil
}
