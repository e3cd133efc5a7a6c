package main

import (
	"embed"
	"io/fs"
)

// Embed the stylesheet and other static assets
//
//go:embed web/static/*
var staticFiles embed.FS

// staticFS returns the embedded assets rooted at web/static
func staticFS() (fs.FS, error) {
	return fs.Sub(staticFiles, "web/static")
}
