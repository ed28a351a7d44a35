// Package keypackages stores the published key packages of each identity.
// Other members use them to add the identity to encrypted groups; a key
// reset removes all of them.
package keypackages

import "context"

type Repository interface {
	// DeleteByIdentity removes every key package of identity and reports how
	// many were removed. Zero is not an error.
	DeleteByIdentity(ctx context.Context, identity string) (int64, error)
}
