// Package migrations embeds the versioned DDL applied at startup so the
// binary carries its own schema and has no runtime dependency on the
// filesystem layout it was built from.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
