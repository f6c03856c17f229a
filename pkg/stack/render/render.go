// Package render loads the stack's html/template pages and renders them for
// view routes.
//
// Files under layouts/ are parsed once and cloned into every page, so a page
// defines its blocks and invokes a layout:
//
//	{{define "content"}}<h1>{{.Data.Title}}</h1>{{end}}
//	{{template "base" .}}
package render

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
)

// LayoutDir holds templates shared by every page.
const LayoutDir = "layouts"

// ErrTemplateNotFound is returned by Render for names that were not loaded.
var ErrTemplateNotFound = errors.New("template not found")

// ViewData is the value every template executes with.
type ViewData struct {
	Data         any
	AppVersion   string
	IsProduction bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithAppVersion sets ViewData.AppVersion.
func WithAppVersion(v string) Option {
	return func(e *Engine) {
		e.appVersion = v
	}
}

// WithProduction sets ViewData.IsProduction.
func WithProduction(p bool) Option {
	return func(e *Engine) {
		e.isProduction = p
	}
}

// Engine holds pre-parsed pages keyed by their path relative to the template
// directory.
type Engine struct {
	pages        map[string]*template.Template
	appVersion   string
	isProduction bool
}

// Load parses every .html file in fsys. Pages are parsed at startup so a
// broken template fails before the server listens.
func Load(fsys fs.FS, opts ...Option) (*Engine, error) {
	var layouts, pages []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" {
			return nil
		}
		if strings.HasPrefix(p, LayoutDir+"/") {
			layouts = append(layouts, p)
		} else {
			pages = append(pages, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking templates: %w", err)
	}

	base := template.New("").Funcs(funcs())
	if len(layouts) > 0 {
		if base, err = base.ParseFS(fsys, layouts...); err != nil {
			return nil, fmt.Errorf("parsing layouts: %w", err)
		}
	}

	e := &Engine{pages: make(map[string]*template.Template, len(pages))}
	for _, opt := range opts {
		opt(e)
	}

	for _, p := range pages {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", p, err)
		}
		if _, err := t.ParseFS(fsys, p); err != nil {
			return nil, fmt.Errorf("parse template: %s: %w", p, err)
		}
		e.pages[p] = t
	}
	return e, nil
}

// Names returns the loaded page names in sorted order.
func (e *Engine) Names() []string {
	names := make([]string, 0, len(e.pages))
	for name := range e.pages {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Has reports whether name was loaded.
func (e *Engine) Has(name string) bool {
	_, ok := e.pages[name]
	return ok
}

// Render executes the page name with model wrapped in ViewData.
func (e *Engine) Render(w io.Writer, name string, model any) error {
	t, ok := e.pages[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	data := ViewData{Data: model, AppVersion: e.appVersion, IsProduction: e.isProduction}
	return t.ExecuteTemplate(w, path.Base(name), data)
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"default": func(fallback, v any) any {
			if v == nil {
				return fallback
			}
			if s, ok := v.(string); ok && s == "" {
				return fallback
			}
			return v
		},
	}
}
