package migrations

import "embed"

// FS contains embedded SQLite migrations for logbook storage.
//
//go:embed *.sql
var FS embed.FS
