package foundation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
)

// Method is an HTTP method a route can answer.
type Method string

// Supported methods.
const (
	MethodGet    Method = http.MethodGet
	MethodPut    Method = http.MethodPut
	MethodPost   Method = http.MethodPost
	MethodDelete Method = http.MethodDelete
	MethodPatch  Method = http.MethodPatch
)

// methodOrder fixes the order methods are bound and listed in.
var methodOrder = []Method{MethodGet, MethodPut, MethodPost, MethodDelete, MethodPatch}

// RouteKind distinguishes JSON data routes from HTML view routes.
type RouteKind int

const (
	// KindData routes return DataResult and respond with JSON.
	KindData RouteKind = iota + 1
	// KindView routes return ViewResult and respond with HTML or a redirect.
	KindView
)

// String returns "data" or "view".
func (k RouteKind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindView:
		return "view"
	default:
		return "unknown"
	}
}

// DefaultDataPrefix is the prefix data routes get when none is configured.
const DefaultDataPrefix = "/api"

// ErrEmptyBody is returned by RouteContext.Decode when the request had no body.
var ErrEmptyBody = errors.New("request body is empty")

// RouteContext is the request as handlers see it.
type RouteContext struct {
	Query   url.Values
	Params  map[string]string
	Body    []byte
	Header  http.Header
	Cookies []*http.Cookie
}

// Param returns the named path parameter, or "".
func (c *RouteContext) Param(name string) string {
	return c.Params[name]
}

// QueryValue returns the first value of the named query parameter, or "".
func (c *RouteContext) QueryValue(name string) string {
	return c.Query.Get(name)
}

// Cookie returns the named request cookie.
func (c *RouteContext) Cookie(name string) (*http.Cookie, bool) {
	for _, ck := range c.Cookies {
		if ck.Name == name {
			return ck, true
		}
	}
	return nil, false
}

// Decode unmarshals the JSON body into v.
func (c *RouteContext) Decode(v any) error {
	if len(c.Body) == 0 {
		return ErrEmptyBody
	}
	return json.Unmarshal(c.Body, v)
}

// DataFunc handles a data route. A returned error becomes a 500.
type DataFunc func(ctx context.Context, rc *RouteContext) (DataResult, error)

// ViewFunc handles a view route. A returned error becomes a 500.
type ViewFunc func(ctx context.Context, rc *RouteContext) (ViewResult, error)

// DataEndpoint is a data handler with the middleware that runs only for its method.
type DataEndpoint[M any] struct {
	Handler    DataFunc
	Middleware []M
}

// ViewEndpoint is a view handler with the middleware that runs only for its method.
type ViewEndpoint[M any] struct {
	Handler    ViewFunc
	Middleware []M
}

// Handle returns a data endpoint whose middleware runs only for its method.
func Handle[M any](handler DataFunc, middleware ...M) DataEndpoint[M] {
	return DataEndpoint[M]{Handler: handler, Middleware: middleware}
}

// HandleView returns a view endpoint whose middleware runs only for its method.
func HandleView[M any](handler ViewFunc, middleware ...M) ViewEndpoint[M] {
	return ViewEndpoint[M]{Handler: handler, Middleware: middleware}
}

// DataMethods maps methods to data endpoints.
type DataMethods[M any] map[Method]DataEndpoint[M]

// ViewMethods maps methods to view endpoints.
type ViewMethods[M any] map[Method]ViewEndpoint[M]

// RouteConfig carries optional route settings. Prefix "/" binds at the root.
type RouteConfig[M any] struct {
	Prefix     string
	Middleware []M
}

// Route is one path of a resource and the methods it answers. Exactly one of
// Data and View is populated, matching Kind.
type Route[M any] struct {
	Kind       RouteKind
	Path       string
	Prefix     string
	Middleware []M
	Data       DataMethods[M]
	View       ViewMethods[M]
}

// Methods returns the methods the route answers in binding order.
func (r Route[M]) Methods() []Method {
	var out []Method
	for _, m := range methodOrder {
		switch r.Kind {
		case KindData:
			if _, ok := r.Data[m]; ok {
				out = append(out, m)
			}
		case KindView:
			if _, ok := r.View[m]; ok {
				out = append(out, m)
			}
		}
	}
	return out
}

func firstConfig[M any](cfg []RouteConfig[M]) RouteConfig[M] {
	if len(cfg) == 0 {
		return RouteConfig[M]{}
	}
	return cfg[0]
}

// Data declares a data route. The prefix defaults to /api.
func Data[M any](path string, methods DataMethods[M], cfg ...RouteConfig[M]) Route[M] {
	c := firstConfig(cfg)
	prefix := c.Prefix
	if prefix == "" {
		prefix = DefaultDataPrefix
	}
	return Route[M]{
		Kind:       KindData,
		Path:       path,
		Prefix:     prefix,
		Middleware: c.Middleware,
		Data:       methods,
	}
}

// View declares a GET view route served by handler.
func View[M any](path string, handler ViewFunc, cfg ...RouteConfig[M]) Route[M] {
	return ViewRoute(path, ViewMethods[M]{MethodGet: {Handler: handler}}, cfg...)
}

// ViewRoute declares a view route answering several methods.
func ViewRoute[M any](path string, methods ViewMethods[M], cfg ...RouteConfig[M]) Route[M] {
	c := firstConfig(cfg)
	return Route[M]{
		Kind:       KindView,
		Path:       path,
		Prefix:     c.Prefix,
		Middleware: c.Middleware,
		View:       methods,
	}
}

// StaticView declares a GET view route that always renders template.
func StaticView[M any](path, template string, cfg ...RouteConfig[M]) Route[M] {
	return View(path, func(context.Context, *RouteContext) (ViewResult, error) {
		return ViewOk(template, nil), nil
	}, cfg...)
}

// Resource groups routes under a base path. Its middleware runs before the
// middleware of every route it contains.
type Resource[M any] struct {
	Name       string
	BasePath   string
	Middleware []M
	Routes     []Route[M]
}
