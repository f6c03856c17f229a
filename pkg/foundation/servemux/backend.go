package servemux

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/epandco/unthink/pkg/foundation"
)

// DefaultBodyLimit caps request bodies read by data routes.
const DefaultBodyLimit int64 = 100 << 10

// ErrNoRenderer is returned when a view is rendered without a renderer.
var ErrNoRenderer = errors.New("no renderer configured")

// ErrRegister is returned when the mux rejects a pattern.
var ErrRegister = errors.New("cannot register route")

// Templates names the templates used when a view result leaves its
// template empty, and when a view route fails.
type Templates struct {
	NotFound     string
	Error        string
	Unauthorized string
	Fatal        string
}

func (t Templates) forStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return t.NotFound
	case http.StatusBadRequest:
		return t.Error
	case http.StatusUnauthorized:
		return t.Unauthorized
	default:
		return ""
	}
}

// Option configures a Backend.
type Option func(*Backend)

// WithRenderer sets the renderer view routes are written through.
func WithRenderer(r foundation.Renderer) Option {
	return func(b *Backend) {
		b.renderer = r
	}
}

// WithTemplates sets the default and fatal templates.
func WithTemplates(t Templates) Option {
	return func(b *Backend) {
		b.templates = t
	}
}

// WithBodyLimit sets the maximum request body size in bytes.
func WithBodyLimit(n int64) Option {
	return func(b *Backend) {
		if n > 0 {
			b.bodyLimit = n
		}
	}
}

// WithLogger sets the logger handler failures are reported to.
func WithLogger(l *log.Logger) Option {
	return func(b *Backend) {
		b.logger = l
	}
}

// Backend registers route table bindings on a ServeMux.
type Backend struct {
	mux       *http.ServeMux
	renderer  foundation.Renderer
	templates Templates
	bodyLimit int64
	logger    *log.Logger
	patterns  []string
}

// New returns a backend registering on mux.
func New(mux *http.ServeMux, opts ...Option) *Backend {
	b := &Backend{
		mux:       mux,
		bodyLimit: DefaultBodyLimit,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.renderer == nil {
		b.renderer = foundation.RendererFunc(func(io.Writer, string, any) error {
			return ErrNoRenderer
		})
	}
	return b
}

// Patterns returns the patterns registered so far, in order.
func (b *Backend) Patterns() []string {
	return append([]string(nil), b.patterns...)
}

// Generate registers one pattern per binding.
func (b *Backend) Generate(table RouteTable) error {
	for _, bind := range table.Bindings {
		var h http.Handler
		switch bind.Kind {
		case foundation.KindData:
			h = b.dataHandler(bind)
		case foundation.KindView:
			h = b.viewHandler(bind)
		default:
			return fmt.Errorf("%w: %s %s has unknown kind", ErrRegister, bind.Method, bind.FullPath)
		}

		pattern := Pattern(bind.Method, bind.FullPath)
		if err := b.handle(pattern, chain(h, bind.Middleware())); err != nil {
			return err
		}
		b.logger.Debug("bound route", "pattern", pattern, "kind", bind.Kind, "resource", bind.Resource)
	}
	return nil
}

func (b *Backend) handle(pattern string, h http.Handler) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %s: %v", ErrRegister, pattern, p)
		}
	}()
	b.mux.Handle(pattern, h)
	b.patterns = append(b.patterns, pattern)
	return nil
}

// Pattern returns the ServeMux pattern for a method and canonical full path.
// A path ending in "/" matches only itself.
func Pattern(method foundation.Method, fullPath string) string {
	p := fullPath
	if strings.HasSuffix(p, "/") {
		p += "{$}"
	}
	return string(method) + " " + p
}

func chain(h http.Handler, middleware []Middleware) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}
