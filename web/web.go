// Package web embeds the page templates and static assets.
package web

import "embed"

// StaticFiles holds the stylesheet and client script under static/.
//
//go:embed static
var StaticFiles embed.FS

// Templates holds the html/template sources under templates/.
//
//go:embed templates/*.html
var Templates embed.FS
