// Package appfs embeds the static assets shipped with the binary.
package appfs

import "embed"

//go:embed migrations templates
var FS embed.FS
