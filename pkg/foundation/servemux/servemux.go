// Package servemux binds foundation route tables to a net/http ServeMux.
//
// Middleware is the standard func(http.Handler) http.Handler. The aliases and
// builders here fix the middleware type so resources can be declared without
// type arguments:
//
//	servemux.Resource{
//		Name:     "hello-world",
//		BasePath: "/",
//		Routes: []servemux.Route{
//			servemux.StaticView("/", "hello-world.html"),
//			servemux.Data("/message", servemux.DataMethods{
//				foundation.MethodGet: {Handler: message},
//			}),
//		},
//	}
package servemux

import (
	"net/http"

	"github.com/epandco/unthink/pkg/foundation"
)

// Middleware wraps a handler. The first middleware in a list is the outermost.
type Middleware = func(http.Handler) http.Handler

// Aliases for the foundation types bound to Middleware.
type (
	Resource     = foundation.Resource[Middleware]
	Route        = foundation.Route[Middleware]
	RouteConfig  = foundation.RouteConfig[Middleware]
	DataMethods  = foundation.DataMethods[Middleware]
	ViewMethods  = foundation.ViewMethods[Middleware]
	DataEndpoint = foundation.DataEndpoint[Middleware]
	ViewEndpoint = foundation.ViewEndpoint[Middleware]
	Generator    = foundation.Generator[Middleware]
	RouteTable   = foundation.RouteTable[Middleware]
	Binding      = foundation.Binding[Middleware]
)

// Data declares a data route under /api unless cfg sets a prefix.
func Data(path string, methods DataMethods, cfg ...RouteConfig) Route {
	return foundation.Data(path, methods, cfg...)
}

// View declares a GET view route.
func View(path string, handler foundation.ViewFunc, cfg ...RouteConfig) Route {
	return foundation.View(path, handler, cfg...)
}

// ViewRoute declares a view route answering several methods.
func ViewRoute(path string, methods ViewMethods, cfg ...RouteConfig) Route {
	return foundation.ViewRoute(path, methods, cfg...)
}

// StaticView declares a GET view route that always renders template.
func StaticView(path, template string, cfg ...RouteConfig) Route {
	return foundation.StaticView(path, template, cfg...)
}

// Handle returns a data endpoint with method middleware.
func Handle(handler foundation.DataFunc, middleware ...Middleware) DataEndpoint {
	return foundation.Handle(handler, middleware...)
}

// HandleView returns a view endpoint with method middleware.
func HandleView(handler foundation.ViewFunc, middleware ...Middleware) ViewEndpoint {
	return foundation.HandleView(handler, middleware...)
}

// NewGenerator returns a generator bound to backend.
func NewGenerator(backend *Backend, opts ...foundation.GeneratorOption) *Generator {
	return foundation.NewGenerator[Middleware](backend, opts...)
}
