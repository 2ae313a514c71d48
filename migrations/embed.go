// Package migrations holds the goose SQL migrations for the Travel Log schema.
// cmd/api applies them at boot when AUTO_MIGRATE is on; testutil applies them
// to the integration test database.
package migrations

import "embed"

// FS is the set of numbered *.sql migrations, in goose format.
//
//go:embed *.sql
var FS embed.FS
