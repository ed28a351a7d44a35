// Package migrations embeds the goose migrations of the client's metadata
// database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
