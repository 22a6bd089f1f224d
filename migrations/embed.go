// Package migrations embeds the schema migrations applied by
// "refset-server migrate up".
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
