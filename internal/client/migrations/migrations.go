// Package migrations embeds the goose schema migrations for both supported
// stores. Each dialect lives in its own directory of the embedded FS.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS
