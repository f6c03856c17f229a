package render

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epandco/unthink/pkg/foundation"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(
			`{{define "base"}}<title>{{block "title" .}}unthink{{end}}</title>` +
				`<main>{{template "content" .}}</main><footer>{{.AppVersion}}</footer>{{end}}`)},
		"hello-world.html": {Data: []byte(
			`{{define "content"}}<h1>Hello, World</h1>{{end}}{{template "base" .}}`)},
		"version.html": {Data: []byte(
			`{{define "title"}}{{.Data.Name}}{{end}}{{define "content"}}<p>{{.Data.Version}}</p>{{end}}{{template "base" .}}`)},
		"errors/not-found.html": {Data: []byte(
			`{{define "content"}}{{default "Not found" .Data}}{{if .IsProduction}}!{{end}}{{end}}{{template "base" .}}`)},
		"README.md": {Data: []byte("ignored")},
	}
}

func TestLoadAndRender(t *testing.T) {
	e, err := Load(testFS(), WithAppVersion("1.0.0"))
	require.NoError(t, err)
	assert.Equal(t, []string{"errors/not-found.html", "hello-world.html", "version.html"}, e.Names())

	tests := []struct {
		name  string
		model any
		want  string
	}{
		{
			name: "hello-world.html",
			want: `<title>unthink</title><main><h1>Hello, World</h1></main><footer>1.0.0</footer>`,
		},
		{
			name:  "version.html",
			model: map[string]string{"Name": "my-app", "Version": "2.0.0"},
			want:  `<title>my-app</title><main><p>2.0.0</p></main><footer>1.0.0</footer>`,
		},
		{
			name: "errors/not-found.html",
			want: `<title>unthink</title><main>Not found</main><footer>1.0.0</footer>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, e.Render(&buf, tt.name, tt.model))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestRenderEscapesModel(t *testing.T) {
	e, err := Load(testFS())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, e.Render(&buf, "errors/not-found.html", "<script>"))
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

func TestRenderProductionFlag(t *testing.T) {
	e, err := Load(testFS(), WithProduction(true))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, e.Render(&buf, "errors/not-found.html", "gone"))
	assert.Contains(t, buf.String(), "gone!")
}

func TestRenderUnknownTemplate(t *testing.T) {
	e, err := Load(testFS())
	require.NoError(t, err)
	assert.False(t, e.Has("missing.html"))

	err = e.Render(&bytes.Buffer{}, "missing.html", nil)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestLoadWithoutLayouts(t *testing.T) {
	e, err := Load(fstest.MapFS{"plain.html": {Data: []byte(`<p>{{.Data}}</p>`)}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, e.Render(&buf, "plain.html", "hi"))
	assert.Equal(t, "<p>hi</p>", buf.String())
}

func TestLoadRejectsBrokenTemplate(t *testing.T) {
	_, err := Load(fstest.MapFS{"broken.html": {Data: []byte(`{{if}}`)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.html")
}

func TestEngineIsARenderer(t *testing.T) {
	var _ foundation.Renderer = (*Engine)(nil)
}
