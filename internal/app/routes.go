package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/portfolio/internal/handler"
	"github.com/portfolio/internal/middleware"
	"github.com/portfolio/internal/web"
)

func (app *App) routes() http.Handler {
	clientKey := middleware.ClientKey(app.hasher)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(app.logger, clientKey))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)

	// Static files
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(web.StaticFS)))
	r.Get("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, web.StaticFS, "robots.txt")
	})

	// Health check
	r.Get("/api/health", handler.Health(app.transport))

	// Content API
	contentHandler := handler.NewContentHandler(app.logger, app.portfolio)
	r.Get("/api/content", contentHandler.All)
	r.Get("/api/content/{section}", contentHandler.Section)

	// Contact form
	contactHandler := handler.NewContactHandler(app.logger, app.contact, clientKey)
	r.With(middleware.RateLimit(app.config.RateLimitPerMinute, clientKey)).
		Post("/api/contact", contactHandler.Submit)

	// Pages
	pages := handler.NewPagesHandler(app.logger, app.portfolio, web.Templates, web.Nav)
	for _, item := range web.Nav {
		r.Get(item.Path, pages.Page(item))
	}

	return r
}
