// Package db embeds the SQL migrations so binaries do not depend on the
// working directory.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS

const MigrationsDir = "migrations"
