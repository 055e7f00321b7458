// Package render renders the post list page and its load-more fragments.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/nDmitry/spacetraveling/internal/blog"
	"github.com/nDmitry/spacetraveling/internal/entity"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// AssetNames lists the files served next to the page
var AssetNames = []string{"logo.svg", "app.js", "styles.css"}

// HomeData is the data of the full page
type HomeData struct {
	Title   string
	FeedURL string
	Posts   []entity.DisplayPost
	// MoreURL is fetched by the load-more control, the control is not
	// rendered when empty.
	MoreURL string
}

type Renderer struct {
	tmpl *template.Template
}

// New parses the templates. Dates are displayed in loc.
func New(loc *time.Location) (*Renderer, error) {
	if loc == nil {
		loc = time.UTC
	}

	funcs := template.FuncMap{
		"formatDate": func(t time.Time) string {
			return blog.FormatDate(t, loc)
		},
		"isoDate": func(t time.Time) string {
			return t.In(loc).Format(time.RFC3339)
		},
	}

	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.gohtml")

	if err != nil {
		return nil, fmt.Errorf("could not parse templates: %w", err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

// Home renders the full page
func (r *Renderer) Home(w io.Writer, data HomeData) error {
	if err := r.tmpl.ExecuteTemplate(w, "home", data); err != nil {
		return fmt.Errorf("could not render home page: %w", err)
	}

	return nil
}

// Posts renders the post items only
func (r *Renderer) Posts(w io.Writer, posts []entity.DisplayPost) error {
	if err := r.tmpl.ExecuteTemplate(w, "posts", HomeData{Posts: posts}); err != nil {
		return fmt.Errorf("could not render posts: %w", err)
	}

	return nil
}

// Fragment renders posts appended by the load-more control. nextURL is
// where the control goes next, empty when there is nothing left.
func (r *Renderer) Fragment(posts []entity.DisplayPost, nextURL string) (*entity.Fragment, error) {
	var buf bytes.Buffer

	if err := r.Posts(&buf, posts); err != nil {
		return nil, err
	}

	return &entity.Fragment{HTML: buf.String(), NextPage: nextURL}, nil
}

// Assets returns the static files referenced by the page
func Assets() fs.FS {
	sub, err := fs.Sub(staticFS, "static")

	if err != nil {
		panic(fmt.Errorf("static assets are not embedded: %w", err))
	}

	return sub
}
