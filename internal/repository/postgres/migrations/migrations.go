// Package migrations embeds the goose SQL migrations of the workspace schema.
// Table names are written as ${TABLE_PREFIX}name and substituted at run time.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
