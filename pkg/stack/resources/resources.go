// Package resources declares the routes the stack server ships with.
package resources

import (
	"context"
	"time"

	"github.com/epandco/unthink/pkg/foundation"
	"github.com/epandco/unthink/pkg/foundation/servemux"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Message is the body of /api/message.
type Message struct {
	Message string `json:"message"`
}

// VersionModel is rendered by version.html.
type VersionModel struct {
	Name    string
	Version string
}

// Status is the body of the health routes.
type Status struct {
	Status string `json:"status"`
}

// ReadyTimeout bounds the readiness ping.
const ReadyTimeout = 2 * time.Second

// HelloWorld serves the starter page and its message.
func HelloWorld() servemux.Resource {
	return servemux.Resource{
		Name:     "hello-world",
		BasePath: "/",
		Routes: []servemux.Route{
			servemux.StaticView("/", "hello-world.html"),
			servemux.Data("/message", servemux.DataMethods{
				foundation.MethodGet: {Handler: message},
			}),
		},
	}
}

func message(context.Context, *foundation.RouteContext) (foundation.DataResult, error) {
	return foundation.ServiceOk(Message{Message: "Hello, World"}).Data(), nil
}

// Version renders the application name and version at /unthink/version.
func Version(name, version string) servemux.Resource {
	model := VersionModel{Name: name, Version: version}
	return servemux.Resource{
		Name:     "version",
		BasePath: "/unthink/version",
		Routes: []servemux.Route{
			servemux.View("/", func(context.Context, *foundation.RouteContext) (foundation.ViewResult, error) {
				return foundation.ViewOk("version.html", model), nil
			}),
		},
	}
}

// Health serves /api/healthz, which always succeeds, and /api/readyz, which
// pings db.
func Health(db Pinger) servemux.Resource {
	return servemux.Resource{
		Name:     "health",
		BasePath: "/",
		Routes: []servemux.Route{
			servemux.Data("/healthz", servemux.DataMethods{
				foundation.MethodGet: {Handler: func(context.Context, *foundation.RouteContext) (foundation.DataResult, error) {
					return foundation.DataOk(Status{Status: "ok"}), nil
				}},
			}),
			servemux.Data("/readyz", servemux.DataMethods{
				foundation.MethodGet: {Handler: func(ctx context.Context, _ *foundation.RouteContext) (foundation.DataResult, error) {
					return ready(ctx, db).Data(), nil
				}},
			}),
		},
	}
}

func ready(ctx context.Context, db Pinger) foundation.ServiceResult[Status] {
	ctx, cancel := context.WithTimeout(ctx, ReadyTimeout)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		return foundation.ServiceErr[Status](foundation.ErrorModel{Type: "unavailable", Message: err.Error()})
	}
	return foundation.ServiceOk(Status{Status: "ok"})
}

// MissingRoute answers every unmatched request: data routes under /api with an
// empty 404 and everything else with the not found template. It must be added
// last.
func MissingRoute(notFoundTemplate string) servemux.Resource {
	notFound := func(context.Context, *foundation.RouteContext) (foundation.DataResult, error) {
		return foundation.DataNotFound(), nil
	}
	return servemux.Resource{
		Name:     "missing-route",
		BasePath: "/",
		Routes: []servemux.Route{
			servemux.Data("*", servemux.DataMethods{
				foundation.MethodGet:    {Handler: notFound},
				foundation.MethodPut:    {Handler: notFound},
				foundation.MethodPost:   {Handler: notFound},
				foundation.MethodDelete: {Handler: notFound},
			}),
			servemux.View("*", func(context.Context, *foundation.RouteContext) (foundation.ViewResult, error) {
				return foundation.ViewNotFound(notFoundTemplate, nil), nil
			}),
		},
	}
}
