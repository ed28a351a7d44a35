// Package keybackups tracks encrypted key backups kept in object storage.
// The rows hold the object keys; the blobs themselves live in the bucket.
package keybackups

import "context"

type Repository interface {
	// DeleteByIdentity removes the backup rows of identity and returns the
	// object keys they pointed to, so the caller can delete the blobs.
	DeleteByIdentity(ctx context.Context, identity string) ([]string, error)
}
