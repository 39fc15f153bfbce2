package server

import (
	"embed"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
)

//go:embed static/*
var staticFiles embed.FS

// staticFS is rooted at static/ so request paths map directly onto it
var staticFS = mustSub(staticFiles, "static")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic("Failed to create " + dir + " sub filesystem: " + err.Error())
	}
	return sub
}

// streamAsset writes one embedded asset with a content type taken from its
// extension. fs.ValidPath rejects "..", absolute and empty names.
func streamAsset(w http.ResponseWriter, fsys fs.FS, name string) error {
	if !fs.ValidPath(name) {
		return fmt.Errorf("invalid asset path %q: %w", name, fs.ErrInvalid)
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}

	ctype := mime.TypeByExtension(strings.ToLower(path.Ext(name)))
	if ctype == "" {
		ctype = http.DetectContentType(data)
	}
	if strings.HasPrefix(ctype, "text/") && !strings.Contains(strings.ToLower(ctype), "charset=") {
		ctype += "; charset=utf-8"
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
