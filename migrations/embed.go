// Package migrations embeds the SQL migration files so the goose
// programmatic API can apply them at server startup and in test setup.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
// Feeding this to a goose.Provider means the schema ships inside the
// binary instead of depending on a filesystem path at runtime.
//
//go:embed *.sql
var FS embed.FS
