// ABOUTME: Embeds HTML templates into the binary using go:embed

package web

import "embed"

//go:embed templates/*.html templates/partials/*.html
var templateFS embed.FS
