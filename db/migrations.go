// Package db carries the schema migrations applied by cmd/migration.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
