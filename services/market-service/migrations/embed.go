// Package migrations embeds the market-service goose migrations so the api
// binary can apply them on start.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
