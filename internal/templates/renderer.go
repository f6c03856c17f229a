package templates

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// TemplateSuffix marks files rendered with text/template. It is stripped
// from the written name.
const TemplateSuffix = ".tmpl"

// Renderer handles template rendering with data substitution.
type Renderer struct {
	data TemplateData
}

// NewRenderer creates a new renderer with the given template data.
func NewRenderer(data TemplateData) *Renderer {
	return &Renderer{data: data}
}

// RenderFile renders a single template file and returns the content.
func (r *Renderer) RenderFile(content []byte) ([]byte, error) {
	tmpl, err := template.New("file").Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	return buf.Bytes(), nil
}

// RenderNamed renders the single-file template name to target.
func (r *Renderer) RenderNamed(name, target string) error {
	content, err := File(name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	rendered, err := r.RenderFile(content)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", target, err)
	}
	return os.WriteFile(target, rendered, 0o644)
}

// CopyTree writes every file of fsys below targetDir. Files ending in .tmpl
// are rendered and lose the suffix; all others are copied byte for byte. It
// returns the written paths relative to targetDir, in walk order.
func (r *Renderer) CopyTree(fsys fs.FS, targetDir string, skip SkipFunc) ([]string, error) {
	var created []string

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}

		if skip != nil && skip(path, d.IsDir()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		targetPath := filepath.Join(targetDir, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(targetPath, 0o755)
		}

		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", path, err)
		}

		relPath := path
		if strings.HasSuffix(path, TemplateSuffix) {
			content, err = r.RenderFile(content)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", path, err)
			}
			relPath = strings.TrimSuffix(path, TemplateSuffix)
			targetPath = strings.TrimSuffix(targetPath, TemplateSuffix)
		}

		if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", targetPath, err)
		}
		if err := os.WriteFile(targetPath, content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", targetPath, err)
		}

		created = append(created, relPath)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// ListFiles returns the paths CopyTree would write, without writing them.
func ListFiles(fsys fs.FS, skip SkipFunc) ([]string, error) {
	var files []string

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}
		if skip != nil && skip(path, d.IsDir()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			files = append(files, strings.TrimSuffix(path, TemplateSuffix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	return files, nil
}
