// Package templates holds the server-rendered pages
package templates

import (
	"embed"
	"html/template"
)

//go:embed html/*.html
var files embed.FS

// Parse parses every embedded page template
func Parse() (*template.Template, error) {
	return template.New("pages").ParseFS(files, "html/*.html")
}

// Must is Parse that panics on a malformed template
func Must() *template.Template {
	return template.Must(Parse())
}
