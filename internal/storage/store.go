package storage

import (
	"context"
	"io"

	"github.com/fathima-sithara/sampling-service/internal/models"
)

// VideoStore is the Media Store. Objects are addressed by a generated id but
// looked up by (userID, filename); when a pair was uploaded more than once
// the most recent upload wins.
type VideoStore interface {
	// Upload streams r into a new object and returns its id. On failure no
	// partial object is left behind.
	Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (*models.Video, error)
	// Download opens the latest object for (userID, filename). The caller
	// closes the returned reader.
	Download(ctx context.Context, userID, filename string) (*models.Video, io.ReadCloser, error)
	List(ctx context.Context) ([]*models.Video, error)
}
