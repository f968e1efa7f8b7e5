// Package web holds the embedded HTML templates served by the front end.
package web

import "embed"

//go:embed templates/*.html
var TemplateFiles embed.FS
