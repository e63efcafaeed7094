// Package render turns explorer views into HTML.
package render

import (
	"bytes"
	"html/template"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"ipxplorer/internal/explorer"
	"ipxplorer/internal/models"
	"ipxplorer/web"
)

// Renderer executes the embedded page templates.
type Renderer struct {
	tmpl *template.Template
	md   goldmark.Markdown
}

type layerContext struct {
	View  explorer.View
	Layer explorer.LayerView
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	r := &Renderer{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}

	funcs := template.FuncMap{
		"markdown":    r.Markdown,
		"join":        strings.Join,
		"bitRuler":    bitRuler,
		"sectionHref": sectionHref,
		"fieldHref":   fieldHref,
		"layerHref":   layerHref,
		"themeHref":   themeHref,
		"layerCtx": func(v explorer.View, l explorer.LayerView) layerContext {
			return layerContext{View: v, Layer: l}
		},
	}
	tmpl, err := template.New("ipxplorer").Funcs(funcs).ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}
	r.tmpl = tmpl
	return r, nil
}

// Page writes a complete HTML document for the view.
func (r *Renderer) Page(w io.Writer, view explorer.View) error {
	return errors.Wrap(r.tmpl.ExecuteTemplate(w, "page", view), "render page")
}

// Fragment writes the content region that replaces #app on the client.
func (r *Renderer) Fragment(w io.Writer, view explorer.View) error {
	return errors.Wrap(r.tmpl.ExecuteTemplate(w, "content", view), "render fragment")
}

// FragmentString is Fragment into a string.
func (r *Renderer) FragmentString(view explorer.View) (string, error) {
	var buf bytes.Buffer
	if err := r.Fragment(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Index writes the variant overview page.
func (r *Renderer) Index(w io.Writer, variants []models.VariantInfo) error {
	return errors.Wrap(r.tmpl.ExecuteTemplate(w, "index", variants), "render index")
}

// Markdown converts field details to HTML. The source is embedded reference
// data, never user input.
func (r *Renderer) Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		logrus.WithError(err).Warn("markdown conversion failed")
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

func bitRuler() []int {
	out := make([]int, explorer.RowBits)
	for i := range out {
		out[i] = i
	}
	return out
}

// StateQuery encodes st as the query string understood by the page handler.
func StateQuery(st explorer.State) url.Values {
	q := url.Values{}
	q.Set("section", st.Section.String())
	if st.HoveredField != "" {
		q.Set("field", st.HoveredField)
	}
	if st.HoveredLayer != 0 {
		q.Set("layer", strconv.Itoa(st.HoveredLayer))
	}
	if st.DarkTheme {
		q.Set("theme", "dark")
	} else {
		q.Set("theme", "light")
	}
	return q
}

func href(st explorer.State) string {
	return "?" + StateQuery(st).Encode()
}

func sectionHref(v explorer.View, s explorer.Section) string {
	st := v.State
	if s != st.Section {
		st.HoveredField = ""
		st.HoveredLayer = 0
	}
	st.Section = s
	return href(st)
}

func fieldHref(v explorer.View, name string) string {
	st := v.State
	st.HoveredField = name
	return href(st)
}

func layerHref(v explorer.View, n int) string {
	st := v.State
	st.HoveredLayer = n
	return href(st)
}

func themeHref(v explorer.View) string {
	st := v.State
	st.DarkTheme = !st.DarkTheme
	return href(st)
}
