// Package migrations embeds the SQL schema migrations applied at startup
// and by the migrate subcommand.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
