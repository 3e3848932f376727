package migrations

import "embed"

// FS holds the goose migrations of the seller stats database.
//
//go:embed *.sql
var FS embed.FS
