package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderPage(t *testing.T) {
	tpl, err := New("")
	require.NoError(t, err)

	out, err := tpl.RenderPage(PageData{
		Layout: Layout{
			Title:       "Second Page - Made Up",
			SiteTitle:   "Made Up",
			Root:        "../",
			Stylesheets: []string{"style.css"},
		},
		Content: "<h1 id=\"x\"> X</h1>\n<script>raw()</script>",
	})
	require.NoError(t, err)
	require.Contains(t, out, "<title>Second Page - Made Up</title>")
	require.Contains(t, out, `<link rel="stylesheet" href="../made-up.css">`)
	require.Contains(t, out, `<link rel="stylesheet" href="../style.css">`)
	require.Contains(t, out, `<script src="../highlight.js"></script>`)
	require.Contains(t, out, "<h1 id=\"x\"> X</h1>\n<script>raw()</script>")
}

func TestRenderPage_EscapesTitle(t *testing.T) {
	tpl, err := New("")
	require.NoError(t, err)

	out, err := tpl.RenderPage(PageData{Layout: Layout{Title: "a <b> & c"}})
	require.NoError(t, err)
	require.Contains(t, out, "<title>a &lt;b&gt; &amp; c</title>")
}

func TestRenderIndex_Embedded(t *testing.T) {
	tpl, err := New("")
	require.NoError(t, err)
	require.Equal(t, "embedded", tpl.IndexSource)

	out, err := tpl.RenderIndex(IndexData{
		Layout: Layout{Title: "Made Up - Home", SiteTitle: "Made Up"},
		Pages: []PageLink{
			{Name: "all_test", Href: "all_test.html"},
			{Name: "Second Page", Href: "second-page.html"},
		},
	})
	require.NoError(t, err)
	require.Contains(t, out, "<title>Made Up - Home</title>")
	require.Contains(t, out, `<li><a href="all_test.html">all_test</a></li>`)
	require.Contains(t, out, `<li><a href="second-page.html">Second Page</a></li>`)
}

func TestRenderIndex_UserTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte(
		`{{define "content"}}<ol>{{range .Pages}}<li>{{.Name}}</li>{{end}}</ol>{{end}}`), 0o600))

	tpl, err := New(path)
	require.NoError(t, err)
	require.Equal(t, path, tpl.IndexSource)

	out, err := tpl.RenderIndex(IndexData{Pages: []PageLink{{Name: "a", Href: "a.html"}}})
	require.NoError(t, err)
	require.Contains(t, out, "<ol><li>a</li></ol>")
	require.Contains(t, out, "made-up.css")
}

func TestNew_UserTemplateErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := New(filepath.Join(dir, "missing.html"))
	require.Error(t, err)

	noBlock := filepath.Join(dir, "noblock.html")
	require.NoError(t, os.WriteFile(noBlock, []byte(`<p>static</p>`), 0o600))
	_, err = New(noBlock)
	require.ErrorContains(t, err, `does not define a "content" block`)

	broken := filepath.Join(dir, "broken.html")
	require.NoError(t, os.WriteFile(broken, []byte(`{{define "content"}}{{.Pages`), 0o600))
	_, err = New(broken)
	require.ErrorContains(t, err, "parse index template")
}
