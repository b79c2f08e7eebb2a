package web

import (
	"embed"
	"html/template"
	"io/fs"
	"log/slog"

	"github.com/portfolio/internal/content"
)

//go:embed static
var staticFiles embed.FS

//go:embed templates
var templateFiles embed.FS

// StaticFS is the embedded static file system with the "static/" prefix stripped.
var StaticFS fs.FS

// Templates is the compiled template set for all views.
var Templates *template.Template

// NavItem is one entry of the site navigation.
type NavItem struct {
	Path  string
	Label string
	View  string
}

// Nav lists every page in display order. View is the template that renders it.
var Nav = []NavItem{
	{Path: "/", Label: "Home", View: "home.html"},
	{Path: "/about", Label: "About", View: "about.html"},
	{Path: "/skills", Label: "Skills", View: "skills.html"},
	{Path: "/projects", Label: "Projects", View: "projects.html"},
	{Path: "/experience", Label: "Experience", View: "experience.html"},
	{Path: "/education", Label: "Education", View: "education.html"},
	{Path: "/contact", Label: "Contact", View: "contact.html"},
}

// Page is the data every view is rendered with.
type Page struct {
	Title     string
	Path      string
	Year      int
	Nav       []NavItem
	Portfolio *content.Portfolio
}

func init() {
	var err error

	StaticFS, err = fs.Sub(staticFiles, "static")
	if err != nil {
		slog.Error("web: failed to create static FS", "err", err)
		panic(err)
	}

	Templates, err = template.New("").ParseFS(templateFiles,
		"templates/*.html",
		"templates/partials/*.html",
	)
	if err != nil {
		slog.Error("web: failed to parse templates", "err", err)
		panic(err)
	}
}
