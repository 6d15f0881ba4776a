// Package schema holds the table definitions for each supported backend.
package schema

import "embed"

//go:embed *.sql
var FS embed.FS
