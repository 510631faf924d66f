package migrations

import "embed"

// FS contains the per-dialect schema migrations.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
