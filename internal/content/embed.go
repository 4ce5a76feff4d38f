// Package content provides the static game data tables: unit, technology,
// ability, improvement, structure and faction definitions, plus the
// data-driven modifier table. The engine consumes these through a Registry
// passed in explicitly; nothing in this package is mutated after loading.
package content

import "embed"

// dataFS embeds all JSON files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS
