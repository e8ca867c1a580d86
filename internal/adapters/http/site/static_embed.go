package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

// assets is the embedded dashboard rooted at static/.
var assets fs.FS = func() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return staticFS
	}
	return sub
}()

// FS returns an http.FileSystem for the embedded dashboard assets.
func FS() http.FileSystem {
	return http.FS(assets)
}
