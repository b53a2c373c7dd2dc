package main

import (
	"embed"
	"io/fs"
)

// The touch pad page, the viewer and their scripts.
//
//go:embed frontend
var frontendFiles embed.FS

// getFrontendFS returns the frontend files with "frontend/" stripped from
// their names.
func getFrontendFS() fs.FS {
	sub, err := fs.Sub(frontendFiles, "frontend")
	if err != nil {
		panic(err)
	}
	return sub
}
