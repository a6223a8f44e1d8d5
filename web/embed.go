// Package web provides the embedded static shell served to the browser.
package web

import "embed"

// StaticFS contains the embedded static assets.
//
//go:embed all:static
var StaticFS embed.FS
