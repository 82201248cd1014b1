// Package templates holds the embedded HTML views and the template engine
// the web server renders them with.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed *.html
var files embed.FS

// Engine renders the embedded views. It satisfies the fiber Views
// interface so handlers can use c.Render.
type Engine struct {
	templates *template.Template
}

func New() (*Engine, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"percent": func(confidence float64) string {
			return fmt.Sprintf("%.1f%%", confidence*100)
		},
	}).ParseFS(files, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Engine{templates: tmpl}, nil
}

func (e *Engine) Load() error {
	return nil
}

func (e *Engine) Render(w io.Writer, name string, binding interface{}, layout ...string) error {
	return e.templates.ExecuteTemplate(w, name+".html", binding)
}
