package web

import (
	"bytes"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolio/internal/content"
)

func TestEveryNavViewRenders(t *testing.T) {
	p, err := content.Load()
	require.NoError(t, err)

	for _, item := range Nav {
		t.Run(item.View, func(t *testing.T) {
			var buf bytes.Buffer
			err := Templates.ExecuteTemplate(&buf, item.View, Page{
				Title:     item.Label,
				Path:      item.Path,
				Year:      2026,
				Nav:       Nav,
				Portfolio: p,
			})
			require.NoError(t, err)

			out := buf.String()
			assert.Contains(t, out, "<title>"+item.Label+" | Ranvijay Singh</title>")
			assert.Contains(t, out, `href="`+item.Path+`" aria-current="page"`)
			assert.Contains(t, out, "</html>")
		})
	}
}

func TestViewsRenderTheirData(t *testing.T) {
	p, err := content.Load()
	require.NoError(t, err)

	render := func(view string) string {
		var buf bytes.Buffer
		require.NoError(t, Templates.ExecuteTemplate(&buf, view, Page{Nav: Nav, Portfolio: p}))
		return buf.String()
	}

	assert.Contains(t, render("projects.html"), "Sales &amp; Revenue Dashboard")
	assert.Contains(t, render("skills.html"), "Data Visualization &amp; BI")
	assert.Contains(t, render("experience.html"), "Brownwall Food Pvt Ltd")
	assert.Contains(t, render("education.html"), "Advanced Data Analytics Certification")
	assert.Contains(t, render("contact.html"), `id="contact-form"`)
}

func TestStaticFS(t *testing.T) {
	for _, name := range []string{"site.css", "contact.js", "robots.txt"} {
		_, err := fs.Stat(StaticFS, name)
		assert.NoError(t, err, name)
	}
}
