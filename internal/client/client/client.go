package client

import (
	"context"
)

// Client is the client's view of the remote key service.
type Client interface {
	// ResetKeyData invalidates all end-to-end key data the server holds for
	// identity ("<userName>@<domain>").
	ResetKeyData(ctx context.Context, identity string) error
	Ping(ctx context.Context) error
	Close() error
}
