package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	layoutTemplate  = "layout.html"
)

//go:embed templates/*
var templateFiles embed.FS

var templateFS = mustSub(templateFiles, "templates")

// ParseTemplate parses a page template together with the shared layout
func ParseTemplate(name string) (*template.Template, error) {
	return template.New(name).ParseFS(templateFS, layoutTemplate, name)
}

// mustParseTemplate is used by handler constructors, which run once at startup
func mustParseTemplate(name string) *template.Template {
	tmpl, err := ParseTemplate(name)
	if err != nil {
		panic("Failed to parse " + name + " template: " + err.Error())
	}
	return tmpl
}

// basePage holds the fields every page layout reads
type basePage struct {
	AppName string
	Admin   bool
}

func (s *Server) basePage(admin bool) basePage {
	return basePage{AppName: s.appName, Admin: admin}
}

// renderPage buffers the output so a template error can still become a 500
func renderPage(w http.ResponseWriter, tmpl *template.Template, status int, data any) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Err(err).Str("template", tmpl.Name()).Msg("Failed to render template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
