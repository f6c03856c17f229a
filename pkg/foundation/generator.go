package foundation

import (
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
)

// Generator errors.
var (
	ErrInvalidResource = errors.New("invalid resource")
	ErrDuplicateRoute  = errors.New("duplicate route")
)

// Backend binds a route table to a concrete HTTP framework.
type Backend[M any] interface {
	Generate(table RouteTable[M]) error
}

// Binding is one method of one route, flattened with everything a backend
// needs to register it.
type Binding[M any] struct {
	Resource string
	Kind     RouteKind
	Method   Method

	Prefix   string
	BasePath string
	Path     string

	// FullPath is prefix, base path and route path joined, with parameters
	// written as {name} and a trailing catch-all as {name...}.
	FullPath string
	Params   []string

	ResourceMiddleware []M
	RouteMiddleware    []M
	MethodMiddleware   []M

	Data DataFunc
	View ViewFunc
}

// Middleware returns resource, route and method middleware in the order
// they wrap the handler, outermost first.
func (b Binding[M]) Middleware() []M {
	out := make([]M, 0, len(b.ResourceMiddleware)+len(b.RouteMiddleware)+len(b.MethodMiddleware))
	out = append(out, b.ResourceMiddleware...)
	out = append(out, b.RouteMiddleware...)
	return append(out, b.MethodMiddleware...)
}

// RouteTable is the flattened form of all added resources. Bindings are
// grouped by prefix in the order prefixes were first seen.
type RouteTable[M any] struct {
	Prefixes []string
	Bindings []Binding[M]
}

// Rows returns one row per binding: method, kind, path and resource.
func (t RouteTable[M]) Rows() [][]string {
	rows := make([][]string, 0, len(t.Bindings))
	for _, b := range t.Bindings {
		rows = append(rows, []string{string(b.Method), b.Kind.String(), b.FullPath, b.Resource})
	}
	return rows
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*generatorConfig)

type generatorConfig struct {
	logger *log.Logger
}

// WithLogger sets the logger used while building the table.
func WithLogger(l *log.Logger) GeneratorOption {
	return func(c *generatorConfig) {
		c.logger = l
	}
}

// Generator collects resources and hands their route table to a backend.
type Generator[M any] struct {
	backend   Backend[M]
	resources []Resource[M]
	logger    *log.Logger
}

// NewGenerator returns a generator that binds through backend.
func NewGenerator[M any](backend Backend[M], opts ...GeneratorOption) *Generator[M] {
	cfg := generatorConfig{logger: log.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Generator[M]{backend: backend, logger: cfg.logger}
}

// Add records resources. An empty base path defaults to "/".
func (g *Generator[M]) Add(resources ...Resource[M]) *Generator[M] {
	for _, r := range resources {
		if r.BasePath == "" {
			g.logger.Debug("resource has no base path, defaulting to /", "resource", r.Name)
			r.BasePath = "/"
		}
		g.resources = append(g.resources, r)
	}
	return g
}

// Resources returns the added resources.
func (g *Generator[M]) Resources() []Resource[M] {
	return slices.Clone(g.resources)
}

// Table flattens the added resources into a route table.
func (g *Generator[M]) Table() (RouteTable[M], error) {
	var table RouteTable[M]
	groups := make(map[string][]Binding[M])
	seen := make(map[string]string)

	for _, res := range g.resources {
		if res.Name == "" {
			return RouteTable[M]{}, fmt.Errorf("%w: resource at %q has no name", ErrInvalidResource, res.BasePath)
		}

		for _, route := range res.Routes {
			bindings, err := bindRoute(res, route)
			if err != nil {
				return RouteTable[M]{}, fmt.Errorf("resource %q route %q: %w", res.Name, route.Path, err)
			}

			for _, b := range bindings {
				key := string(b.Method) + " " + routeShape(b.FullPath)
				if owner, ok := seen[key]; ok {
					return RouteTable[M]{}, fmt.Errorf("%w: %s %s in %q is already bound by %q",
						ErrDuplicateRoute, b.Method, b.FullPath, res.Name, owner)
				}
				seen[key] = res.Name

				if _, ok := groups[b.Prefix]; !ok {
					table.Prefixes = append(table.Prefixes, b.Prefix)
				}
				groups[b.Prefix] = append(groups[b.Prefix], b)
			}
		}
	}

	for _, prefix := range table.Prefixes {
		table.Bindings = append(table.Bindings, groups[prefix]...)
	}
	return table, nil
}

// Generate builds the route table and passes it to the backend.
func (g *Generator[M]) Generate() error {
	table, err := g.Table()
	if err != nil {
		return err
	}
	g.logger.Debug("binding routes", "routes", len(table.Bindings), "prefixes", len(table.Prefixes))
	return g.backend.Generate(table)
}

func bindRoute[M any](res Resource[M], route Route[M]) ([]Binding[M], error) {
	if route.Kind != KindData && route.Kind != KindView {
		return nil, fmt.Errorf("%w: unknown route kind", ErrInvalidResource)
	}

	full, params, err := canonicalPath(joinPath(route.Prefix, res.BasePath, route.Path))
	if err != nil {
		return nil, err
	}

	methods := route.Methods()
	if len(methods) == 0 {
		return nil, fmt.Errorf("%w: route has no supported methods", ErrInvalidResource)
	}
	if n := len(route.Data) + len(route.View); n != len(methods) {
		return nil, fmt.Errorf("%w: route declares an unsupported method", ErrInvalidResource)
	}

	bindings := make([]Binding[M], 0, len(methods))
	for _, m := range methods {
		b := Binding[M]{
			Resource:           res.Name,
			Kind:               route.Kind,
			Method:             m,
			Prefix:             route.Prefix,
			BasePath:           res.BasePath,
			Path:               route.Path,
			FullPath:           full,
			Params:             params,
			ResourceMiddleware: res.Middleware,
			RouteMiddleware:    route.Middleware,
		}

		if route.Kind == KindData {
			ep := route.Data[m]
			if ep.Handler == nil {
				return nil, fmt.Errorf("%w: %s has no handler", ErrInvalidResource, m)
			}
			b.Data, b.MethodMiddleware = ep.Handler, ep.Middleware
		} else {
			ep := route.View[m]
			if ep.Handler == nil {
				return nil, fmt.Errorf("%w: %s has no handler", ErrInvalidResource, m)
			}
			b.View, b.MethodMiddleware = ep.Handler, ep.Middleware
		}

		bindings = append(bindings, b)
	}
	return bindings, nil
}
