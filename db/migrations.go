// Package db embeds the Postgres schema migrations.
package db

import "embed"

// Migrations holds the *.up.sql files, applied in lexical order.
//
//go:embed migrations/*.up.sql
var Migrations embed.FS
