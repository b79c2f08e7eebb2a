package handler

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/portfolio/internal/content"
	"github.com/portfolio/internal/web"
)

// PagesHandler renders the site's HTML views.
type PagesHandler struct {
	BaseHandler
	portfolio *content.Portfolio
	templates *template.Template
	nav       []web.NavItem
	now       func() time.Time
}

func NewPagesHandler(logger *slog.Logger, p *content.Portfolio, tmpl *template.Template, nav []web.NavItem) *PagesHandler {
	return &PagesHandler{
		BaseHandler: BaseHandler{Logger: logger},
		portfolio:   p,
		templates:   tmpl,
		nav:         nav,
		now:         time.Now,
	}
}

// Page returns the handler for a single navigation entry.
func (h *PagesHandler) Page(item web.NavItem) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := web.Page{
			Title:     item.Label,
			Path:      item.Path,
			Year:      h.now().Year(),
			Nav:       h.nav,
			Portfolio: h.portfolio,
		}

		// Render to a buffer so a template error never leaves a half-written page.
		var buf bytes.Buffer
		if err := h.templates.ExecuteTemplate(&buf, item.View, page); err != nil {
			h.Logger.Error("pages: template error", "view", item.View, "err", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}
