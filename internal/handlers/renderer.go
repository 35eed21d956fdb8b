package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin/render"
	"github.com/shopspring/decimal"
)

// TemplateFuncs are available to every page.
var TemplateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date":  func(t time.Time) string { return t.Local().Format("02 Jan 2006, 15:04") },
	"add":   func(a, b int) int { return a + b },
	"year":  func() int { return time.Now().Year() },
}

// Page layouts. Each page is parsed into its own set together with its layout.
var pageLayouts = map[string]string{
	"home.html":          "base.html",
	"products.html":      "base.html",
	"product.html":       "base.html",
	"cart.html":          "base.html",
	"order_confirm.html": "base.html",
	"about.html":         "base.html",
	"contact.html":       "base.html",

	"admin_login.html":         "admin_base.html",
	"admin_dashboard.html":     "admin_base.html",
	"admin_product_form.html":  "admin_base.html",
	"admin_category_form.html": "admin_base.html",
	"admin_orders.html":        "admin_base.html",
	"admin_messages.html":      "admin_base.html",
	"reports.html":             "admin_base.html",

	// Printable, no layout.
	"admin_bill.html": "",
}

// HTMLRenderer keeps a separate template set per page.
type HTMLRenderer struct {
	Templates map[string]*template.Template
}

// NewHTMLRenderer parses every page from fsys.
func NewHTMLRenderer(fsys fs.FS) (*HTMLRenderer, error) {
	templates := make(map[string]*template.Template, len(pageLayouts))
	for name, layout := range pageLayouts {
		files := []string{name}
		if layout != "" {
			files = append(files, layout)
		}
		tmpl, err := template.New(name).Funcs(TemplateFuncs).ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return &HTMLRenderer{Templates: templates}, nil
}

// Instance implements gin's render.HTMLRender.
func (r *HTMLRenderer) Instance(name string, data any) render.Render {
	tmpl, ok := r.Templates[name]
	if !ok {
		return missingTemplate{name: name}
	}
	return render.HTML{
		Template: tmpl,
		Data:     data,
	}
}

type missingTemplate struct {
	name string
}

func (m missingTemplate) Render(w http.ResponseWriter) error {
	return fmt.Errorf("template %q is not registered", m.name)
}

func (m missingTemplate) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}
