// Package web embeds the static browser client and serves it over HTTP.
// The client generates a session identifier once per device, keeps it in
// localStorage, and sends it with every API request.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// Handler serves the embedded client files, with index.html at the root.
func Handler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Unreachable: the static directory is compiled into the binary.
		panic(err)
	}
	return http.FileServerFS(sub)
}
