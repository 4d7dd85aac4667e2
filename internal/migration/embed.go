package migration

import "embed"

//go:embed sql
var migrationFS embed.FS
