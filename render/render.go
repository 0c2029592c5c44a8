// Package render turns the article list into the static index page.
//
// Everything coming from feeds is untrusted and goes through html/template,
// which escapes it for the context it lands in.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/scipunch/currentcapital/config"
	"github.com/scipunch/currentcapital/fetcher/types"
)

//go:embed templates/*.html
var templates embed.FS

// DateLayout is how publication dates appear on the page
const DateLayout = "02 Jan 2006 15:04"

type Renderer struct {
	tmpl *template.Template
	site config.Site
}

type page struct {
	Site     config.Site
	Articles []types.Article
	Year     int
}

func New(site config.Site) (*Renderer, error) {
	tmpl, err := template.New("index.html").
		Funcs(template.FuncMap{"published": published}).
		ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates with %w", err)
	}
	return &Renderer{tmpl: tmpl, site: site}, nil
}

// Render writes the full page for articles. now only decides the footer year.
func (r *Renderer) Render(w io.Writer, articles []types.Article, now time.Time) error {
	err := r.tmpl.Execute(w, page{
		Site:     r.site,
		Articles: articles,
		Year:     now.Year(),
	})
	if err != nil {
		return fmt.Errorf("failed to render page with %w", err)
	}
	return nil
}

func published(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
