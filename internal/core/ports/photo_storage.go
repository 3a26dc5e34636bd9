package ports

import (
	"context"
)

// StoredPhoto references an uploaded proof photo. The thumbnail is produced
// out of band; its URL follows the storage adapter's key convention and may
// 404 until the resizer catches up.
type StoredPhoto struct {
	URL          string
	ThumbnailURL string
}

// PhotoStorage stores proof-of-pickup and proof-of-delivery photos.
type PhotoStorage interface {
	Store(ctx context.Context, data []byte, mimeType string) (StoredPhoto, error)
}
