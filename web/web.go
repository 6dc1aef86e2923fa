// Package web holds the server-rendered page templates.
package web

import (
	"embed"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every page into one set; each page is named after its file (e.g. "home.html").
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs()).ParseFS(templateFS, "templates/*.html")
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.UTC().Format("02 Jan 2006 15:04")
		},
		// excerpt cuts s to n characters on a rune boundary.
		"excerpt": func(s string, n int) string {
			r := []rune(strings.TrimSpace(s))
			if len(r) <= n {
				return string(r)
			}
			return string(r[:n]) + "…"
		},
		"fieldError": func(errs map[string]string, field string) string {
			return errs[field]
		},
	}
}
