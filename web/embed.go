// Package web provides the embedded stylesheet for the viewer page. The
// router serves it at /static/ and the static export copies it next to
// the generated pages.
package web

import (
	"embed"
	"io/fs"
)

// StylesheetName is the file every page links to under the static prefix.
const StylesheetName = "app.css"

//go:embed all:static
var StaticFS embed.FS

// Static returns the static/ tree with the directory prefix stripped.
func Static() fs.FS {
	sub, err := fs.Sub(StaticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
