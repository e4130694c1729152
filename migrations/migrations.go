// Package migrations embeds the schema of each supported database dialect.
package migrations

import "embed"

// FS holds one directory of numbered migrations per dialect.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
