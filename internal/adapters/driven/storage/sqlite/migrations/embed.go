// Package migrations embeds the SQL schema migrations for the
// lectern SQLite store.
package migrations

import "embed"

// FS holds the migration files embedded at compile time, applied in
// lexical order.
//
//go:embed *.sql
var FS embed.FS
