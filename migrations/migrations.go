// Package migrations embebe los scripts SQL del esquema.
package migrations

import "embed"

// Files scripts en orden lexicográfico (NNN_nombre.sql).
//
//go:embed *.sql
var Files embed.FS
