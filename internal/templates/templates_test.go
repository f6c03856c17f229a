package templates

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testData = TemplateData{
	ProjectName:    "my-app",
	PascalName:     "MyApp",
	ModulePath:     "example.com/my-app",
	UnthinkVersion: "v0.1.0",
}

func TestEmbeddedStack(t *testing.T) {
	stack := Stack()

	for _, name := range []string{
		".stack-gitignore",
		".env.local",
		"README.md",
		"package.json",
		"go.mod.tmpl",
		"cmd/server/main.go.tmpl",
		"internal/resources/resources.go.tmpl",
		"templates/layouts/base.html",
		"templates/hello-world.html",
		"templates/version.html",
		"templates/not-found.html",
		"templates/error.html",
		"templates/fatal-error.html",
		"templates/unauthorized.html",
		"src/client/public/.gitkeep",
		"scripts/env-check.js",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := fs.Stat(stack, name)
			assert.NoError(t, err)
		})
	}
}

func TestEmbeddedFiles(t *testing.T) {
	for _, name := range []string{ReadmeFile, ChangelogFile} {
		content, err := File(name)
		require.NoError(t, err)
		assert.NotEmpty(t, content)
	}

	_, err := File("missing.tmpl")
	assert.Error(t, err)
}

func TestStackIgnore(t *testing.T) {
	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{path: ".env", want: true},
		{path: ".env.local", want: false},
		{path: "lib", isDir: true, want: true},
		{path: "public", isDir: true, want: true},
		{path: "node_modules", isDir: true, want: true},
		{path: "src/client/public", isDir: true, want: false},
		{path: "src/lib", isDir: true, want: false},
		{path: "templates", isDir: true, want: false},
		{path: "lib", isDir: false, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, StackIgnore(tt.path, tt.isDir))
		})
	}
}

func TestCopyTree(t *testing.T) {
	src := fstest.MapFS{
		"go.mod.tmpl":             {Data: []byte("module {{.ModulePath}}\n")},
		"README.md":               {Data: []byte("{{ not rendered }}")},
		"templates/page.html":     {Data: []byte(`{{define "content"}}{{.Data}}{{end}}`)},
		".env":                    {Data: []byte("SECRET=1")},
		"lib/client/app.js":       {Data: []byte("built")},
		"node_modules/x/index.js": {Data: []byte("dep")},
		"src/client/public/.keep": {Data: []byte("")},
		"cmd/server/main.go.tmpl": {Data: []byte("// {{.PascalName}}\npackage main\n")},
	}

	target := t.TempDir()
	created, err := NewRenderer(testData).CopyTree(src, target, StackIgnore)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"go.mod",
		"README.md",
		"templates/page.html",
		"src/client/public/.keep",
		"cmd/server/main.go",
	}, created)

	content, err := os.ReadFile(filepath.Join(target, "go.mod"))
	require.NoError(t, err)
	assert.Equal(t, "module example.com/my-app\n", string(content))

	content, err = os.ReadFile(filepath.Join(target, "cmd", "server", "main.go"))
	require.NoError(t, err)
	assert.Equal(t, "// MyApp\npackage main\n", string(content))

	content, err = os.ReadFile(filepath.Join(target, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "{{ not rendered }}", string(content))

	for _, skipped := range []string{".env", "lib", "node_modules", "go.mod.tmpl"} {
		assert.NoFileExists(t, filepath.Join(target, skipped))
		assert.NoDirExists(t, filepath.Join(target, skipped))
	}
}

func TestCopyTreeTemplateError(t *testing.T) {
	src := fstest.MapFS{"bad.txt.tmpl": {Data: []byte("{{.Missing}}")}}

	_, err := NewRenderer(testData).CopyTree(src, t.TempDir(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.txt.tmpl")
}

func TestCopyTreeEmbeddedStack(t *testing.T) {
	target := t.TempDir()
	created, err := NewRenderer(testData).CopyTree(Stack(), target, StackIgnore)
	require.NoError(t, err)

	assert.Contains(t, created, "go.mod")
	assert.Contains(t, created, "cmd/server/main.go")

	goMod, err := os.ReadFile(filepath.Join(target, "go.mod"))
	require.NoError(t, err)
	assert.Contains(t, string(goMod), "module example.com/my-app")
	assert.Contains(t, string(goMod), "github.com/epandco/unthink v0.1.0")

	main, err := os.ReadFile(filepath.Join(target, "cmd", "server", "main.go"))
	require.NoError(t, err)
	assert.Contains(t, string(main), `"example.com/my-app/internal/resources"`)

	page, err := os.ReadFile(filepath.Join(target, "templates", "version.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "{{.Data.Version}}")
}

func TestListFiles(t *testing.T) {
	files, err := ListFiles(Stack(), StackIgnore)
	require.NoError(t, err)

	assert.Contains(t, files, "go.mod")
	assert.Contains(t, files, "package.json")
	assert.NotContains(t, files, "go.mod.tmpl")
}

func TestRenderNamed(t *testing.T) {
	target := filepath.Join(t.TempDir(), "docs", "README.md")
	require.NoError(t, NewRenderer(testData).RenderNamed(ReadmeFile, target))

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# my-app")
	assert.Contains(t, string(content), "v0.1.0")
}

func TestStackDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0o644))

	fsys, err := StackDir(dir)
	require.NoError(t, err)
	_, err = fs.Stat(fsys, "package.json")
	assert.NoError(t, err)

	_, err = StackDir(filepath.Join(dir, "missing"))
	assert.Error(t, err)

	_, err = StackDir(filepath.Join(dir, "package.json"))
	assert.Error(t, err)
}
