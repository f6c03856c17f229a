// Package foundation declares resources as route trees whose handlers return
// tagged results instead of writing responses, and flattens them into a route
// table that a backend binds to a concrete HTTP framework.
package foundation

import (
	"errors"
	"io"
	"net/http"
	"reflect"
)

// Result is the part of a data or view result every backend reads.
type Result interface {
	Status() int
	Cookies() []*http.Cookie
	Header() http.Header
}

// ErrInvalidResult is returned when a handler produced a result no backend can write.
var ErrInvalidResult = errors.New("invalid result")

// Option adds cookies or headers to a result.
type Option func(*responseMeta)

// WithCookie sets a cookie on the response.
func WithCookie(c *http.Cookie) Option {
	return func(m *responseMeta) {
		m.cookies = append(m.cookies, c)
	}
}

// WithHeader adds a response header.
func WithHeader(key, value string) Option {
	return func(m *responseMeta) {
		if m.header == nil {
			m.header = make(http.Header)
		}
		m.header.Add(key, value)
	}
}

type responseMeta struct {
	cookies []*http.Cookie
	header  http.Header
}

func newMeta(opts []Option) responseMeta {
	var m responseMeta
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Cookies returns the cookies to set on the response.
func (m responseMeta) Cookies() []*http.Cookie {
	return m.cookies
}

// Header returns the headers to add to the response. It may be nil.
func (m responseMeta) Header() http.Header {
	return m.header
}

// Renderer renders a named template with a model. It is the render callback
// view routes are written through.
type Renderer interface {
	Render(w io.Writer, name string, model any) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(w io.Writer, name string, model any) error

// Render calls f.
func (f RendererFunc) Render(w io.Writer, name string, model any) error {
	return f(w, name, model)
}

// isEmpty reports whether v counts as no value: nil, a nil pointer, map,
// slice, interface, func or chan, or an empty string.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	case reflect.String:
		return rv.Len() == 0
	default:
		return false
	}
}
