package servemux

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epandco/unthink/pkg/foundation"
)

type message struct {
	Message string `json:"message"`
}

// stubRenderer writes "<name>|<model>" and fails for names in fail.
type stubRenderer struct {
	fail map[string]bool
}

func (s stubRenderer) Render(w io.Writer, name string, model any) error {
	if s.fail[name] {
		return errors.New("template failed")
	}
	_, err := fmt.Fprintf(w, "%s|%v", name, model)
	return err
}

var testTemplates = Templates{
	NotFound:     "not-found.html",
	Error:        "error.html",
	Unauthorized: "unauthorized.html",
	Fatal:        "fatal-error.html",
}

func newServer(t *testing.T, renderer foundation.Renderer, resources ...Resource) (*http.ServeMux, *Backend) {
	t.Helper()
	mux := http.NewServeMux()
	backend := New(mux,
		WithRenderer(renderer),
		WithTemplates(testTemplates),
		WithBodyLimit(64),
		WithLogger(log.New(io.Discard)),
	)
	gen := NewGenerator(backend, foundation.WithLogger(log.New(io.Discard)))
	gen.Add(resources...)
	require.NoError(t, gen.Generate())
	return mux, backend
}

func serve(mux http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, body))
	return rec
}

func dataFunc(res foundation.DataResult, err error) foundation.DataFunc {
	return func(context.Context, *foundation.RouteContext) (foundation.DataResult, error) {
		return res, err
	}
}

func viewFunc(res foundation.ViewResult, err error) foundation.ViewFunc {
	return func(context.Context, *foundation.RouteContext) (foundation.ViewResult, error) {
		return res, err
	}
}

func TestDataResponses(t *testing.T) {
	tests := []struct {
		name        string
		handler     foundation.DataFunc
		wantStatus  int
		wantBody    string
		wantNoBody  bool
		wantCookie  string
		wantHeaders map[string]string
	}{
		{
			name:       "ok with value",
			handler:    dataFunc(foundation.DataOk(message{Message: "Hello, World"}), nil),
			wantStatus: http.StatusOK,
			wantBody:   `{"message":"Hello, World"}`,
		},
		{
			name:       "ok without value",
			handler:    dataFunc(foundation.DataOk(nil), nil),
			wantStatus: http.StatusNoContent,
			wantNoBody: true,
		},
		{
			name:       "error",
			handler:    dataFunc(foundation.DataError(foundation.ErrorModel{Type: "validation", Message: "bad"}), nil),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"type":"validation","message":"bad"}`,
		},
		{
			name:       "not found",
			handler:    dataFunc(foundation.DataNotFound(), nil),
			wantStatus: http.StatusNotFound,
			wantNoBody: true,
		},
		{
			name:       "unauthorized",
			handler:    dataFunc(foundation.DataUnauthorized(), nil),
			wantStatus: http.StatusUnauthorized,
			wantNoBody: true,
		},
		{
			name: "cookies and headers",
			handler: dataFunc(foundation.DataOk("x",
				foundation.WithCookie(&http.Cookie{Name: "session", Value: "abc"}),
				foundation.WithHeader("X-Request-Source", "test"),
			), nil),
			wantStatus:  http.StatusOK,
			wantBody:    `"x"`,
			wantCookie:  "session=abc",
			wantHeaders: map[string]string{"X-Request-Source": "test"},
		},
		{
			name:       "handler error",
			handler:    dataFunc(foundation.DataResult{}, errors.New("boom")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"type":"unknown","message":"unknown error"}`,
		},
		{
			name:       "zero result",
			handler:    dataFunc(foundation.DataResult{}, nil),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"type":"unknown","message":"unknown error"}`,
		},
		{
			name: "panic",
			handler: func(context.Context, *foundation.RouteContext) (foundation.DataResult, error) {
				panic("boom")
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"type":"unknown","message":"unknown error"}`,
		},
		{
			name:       "unencodable value",
			handler:    dataFunc(foundation.DataOk(func() {}), nil),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"type":"unknown","message":"unknown error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, _ := newServer(t, stubRenderer{}, Resource{
				Name: "test",
				Routes: []Route{
					Data("/thing", DataMethods{foundation.MethodGet: {Handler: tt.handler}}),
				},
			})

			rec := serve(mux, http.MethodGet, "/api/thing", nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tt.wantNoBody {
				assert.Empty(t, rec.Body.String())
			} else {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
			if tt.wantCookie != "" {
				assert.Contains(t, rec.Header().Get("Set-Cookie"), tt.wantCookie)
			}
			for k, v := range tt.wantHeaders {
				assert.Equal(t, v, rec.Header().Get(k))
			}
		})
	}
}

func TestDataRouteContext(t *testing.T) {
	var got *foundation.RouteContext
	capture := func(_ context.Context, rc *foundation.RouteContext) (foundation.DataResult, error) {
		got = rc
		return foundation.DataOk(nil), nil
	}

	mux, _ := newServer(t, stubRenderer{}, Resource{
		Name:     "users",
		BasePath: "/users",
		Routes: []Route{
			Data("/:id", DataMethods{foundation.MethodPost: {Handler: capture}}),
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/users/42?sort=name", strings.NewReader(`{"name":"a"}`))
	req.AddCookie(&http.Cookie{Name: "session", Value: "abc"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "42", got.Param("id"))
	assert.Equal(t, "name", got.QueryValue("sort"))
	assert.JSONEq(t, `{"name":"a"}`, string(got.Body))
	c, ok := got.Cookie("session")
	require.True(t, ok)
	assert.Equal(t, "abc", c.Value)
}

func TestDataBodyLimit(t *testing.T) {
	mux, _ := newServer(t, stubRenderer{}, Resource{
		Name: "upload",
		Routes: []Route{
			Data("/upload", DataMethods{foundation.MethodPost: {Handler: dataFunc(foundation.DataOk(nil), nil)}}),
		},
	})

	rec := serve(mux, http.MethodPost, "/api/upload", strings.NewReader(strings.Repeat("x", 65)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = serve(mux, http.MethodPost, "/api/upload", strings.NewReader(strings.Repeat("x", 64)))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestViewResponses(t *testing.T) {
	tests := []struct {
		name         string
		renderer     stubRenderer
		handler      foundation.ViewFunc
		wantStatus   int
		wantBody     string
		wantType     string
		wantLocation string
	}{
		{
			name:       "view",
			handler:    viewFunc(foundation.ViewOk("hello-world.html", "model"), nil),
			wantStatus: http.StatusOK,
			wantBody:   "hello-world.html|model",
			wantType:   "text/html; charset=utf-8",
		},
		{
			name:         "redirect",
			handler:      viewFunc(foundation.Redirect("/login"), nil),
			wantStatus:   http.StatusFound,
			wantLocation: "/login",
		},
		{
			name:         "permanent redirect",
			handler:      viewFunc(foundation.RedirectPermanent("/new"), nil),
			wantStatus:   http.StatusMovedPermanently,
			wantLocation: "/new",
		},
		{
			name:       "not found default template",
			handler:    viewFunc(foundation.ViewNotFound("", nil), nil),
			wantStatus: http.StatusNotFound,
			wantBody:   "not-found.html|<nil>",
			wantType:   "text/html; charset=utf-8",
		},
		{
			name:       "not found custom template",
			handler:    viewFunc(foundation.ViewNotFound("missing-user.html", "7"), nil),
			wantStatus: http.StatusNotFound,
			wantBody:   "missing-user.html|7",
			wantType:   "text/html; charset=utf-8",
		},
		{
			name:       "error default template",
			handler:    viewFunc(foundation.ViewError("", "bad"), nil),
			wantStatus: http.StatusBadRequest,
			wantBody:   "error.html|bad",
			wantType:   "text/html; charset=utf-8",
		},
		{
			name:       "unauthorized default template",
			handler:    viewFunc(foundation.ViewUnauthorized("", nil), nil),
			wantStatus: http.StatusUnauthorized,
			wantBody:   "unauthorized.html|<nil>",
			wantType:   "text/html; charset=utf-8",
		},
		{
			name:       "handler error renders fatal",
			handler:    viewFunc(foundation.ViewResult{}, errors.New("boom")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "fatal-error.html|<nil>",
			wantType:   "text/html; charset=utf-8",
		},
		{
			name: "panic renders fatal",
			handler: func(context.Context, *foundation.RouteContext) (foundation.ViewResult, error) {
				panic("boom")
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "fatal-error.html|<nil>",
			wantType:   "text/html; charset=utf-8",
		},
		{
			name:       "invalid result renders fatal",
			handler:    viewFunc(foundation.ViewOk("", nil), nil),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "fatal-error.html|<nil>",
			wantType:   "text/html; charset=utf-8",
		},
		{
			name:       "render failure renders fatal",
			renderer:   stubRenderer{fail: map[string]bool{"broken.html": true}},
			handler:    viewFunc(foundation.ViewOk("broken.html", nil), nil),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "fatal-error.html|<nil>",
			wantType:   "text/html; charset=utf-8",
		},
		{
			name:       "fatal template failure falls back to text",
			renderer:   stubRenderer{fail: map[string]bool{"broken.html": true, "fatal-error.html": true}},
			handler:    viewFunc(foundation.ViewOk("broken.html", nil), nil),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "unknown error",
			wantType:   "text/plain; charset=utf-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, _ := newServer(t, tt.renderer, Resource{
				Name:   "test",
				Routes: []Route{View("/page", tt.handler)},
			})

			rec := serve(mux, http.MethodGet, "/page", nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
				return
			}
			assert.Equal(t, tt.wantType, rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestViewWithoutRenderer(t *testing.T) {
	mux := http.NewServeMux()
	backend := New(mux, WithLogger(log.New(io.Discard)))
	gen := NewGenerator(backend, foundation.WithLogger(log.New(io.Discard)))
	gen.Add(Resource{Name: "home", Routes: []Route{StaticView("/", "home.html")}})
	require.NoError(t, gen.Generate())

	rec := serve(mux, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "unknown error", rec.Body.String())
}

func TestMiddlewareOrder(t *testing.T) {
	var calls []string
	trace := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls = append(calls, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	handler := func(context.Context, *foundation.RouteContext) (foundation.DataResult, error) {
		calls = append(calls, "handler")
		return foundation.DataOk(nil), nil
	}

	mux, _ := newServer(t, stubRenderer{}, Resource{
		Name:       "ordered",
		Middleware: []Middleware{trace("resource")},
		Routes: []Route{
			Data("/ordered", DataMethods{
				foundation.MethodGet:  Handle(handler, trace("get-1"), trace("get-2")),
				foundation.MethodPost: {Handler: handler},
			}, RouteConfig{Middleware: []Middleware{trace("route")}}),
		},
	})

	serve(mux, http.MethodGet, "/api/ordered", nil)
	assert.Equal(t, []string{"resource", "route", "get-1", "get-2", "handler"}, calls)

	calls = nil
	serve(mux, http.MethodPost, "/api/ordered", nil)
	assert.Equal(t, []string{"resource", "route", "handler"}, calls)
}

func TestMiddlewareCanShortCircuit(t *testing.T) {
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})
	}

	mux, _ := newServer(t, stubRenderer{}, Resource{
		Name:       "admin",
		BasePath:   "/admin",
		Middleware: []Middleware{deny},
		Routes:     []Route{StaticView("/", "admin.html")},
	})

	rec := serve(mux, http.MethodGet, "/admin", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCatchAllDoesNotShadow(t *testing.T) {
	mux, _ := newServer(t, stubRenderer{},
		Resource{
			Name:     "hello-world",
			BasePath: "/",
			Routes: []Route{
				StaticView("/", "hello-world.html"),
				Data("/message", DataMethods{
					foundation.MethodGet: {Handler: dataFunc(foundation.DataOk(message{Message: "Hello, World"}), nil)},
				}),
			},
		},
		Resource{
			Name:     "missing-route",
			BasePath: "/",
			Routes: []Route{
				Data("*", DataMethods{
					foundation.MethodGet:    {Handler: dataFunc(foundation.DataNotFound(), nil)},
					foundation.MethodPost:   {Handler: dataFunc(foundation.DataNotFound(), nil)},
					foundation.MethodPut:    {Handler: dataFunc(foundation.DataNotFound(), nil)},
					foundation.MethodDelete: {Handler: dataFunc(foundation.DataNotFound(), nil)},
				}),
				StaticView("*", "not-found.html"),
			},
		},
	)

	tests := []struct {
		method     string
		target     string
		wantStatus int
		wantBody   string
	}{
		{method: http.MethodGet, target: "/", wantStatus: 200, wantBody: "hello-world.html|<nil>"},
		{method: http.MethodGet, target: "/api/message", wantStatus: 200, wantBody: `{"message":"Hello, World"}`},
		{method: http.MethodGet, target: "/api/nope", wantStatus: 404},
		{method: http.MethodDelete, target: "/api/nope/deeper", wantStatus: 404},
		{method: http.MethodGet, target: "/nope", wantStatus: 200, wantBody: "not-found.html|<nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := serve(mux, tt.method, tt.target, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestPattern(t *testing.T) {
	tests := []struct {
		method foundation.Method
		path   string
		want   string
	}{
		{method: foundation.MethodGet, path: "/", want: "GET /{$}"},
		{method: foundation.MethodGet, path: "/docs/", want: "GET /docs/{$}"},
		{method: foundation.MethodPost, path: "/api/users/{id}", want: "POST /api/users/{id}"},
		{method: foundation.MethodGet, path: "/{wildcard...}", want: "GET /{wildcard...}"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Pattern(tt.method, tt.path))
		})
	}
}

func TestGenerateRecordsPatterns(t *testing.T) {
	_, backend := newServer(t, stubRenderer{}, Resource{
		Name: "home",
		Routes: []Route{
			StaticView("/", "home.html"),
			Data("/items/{id}", DataMethods{
				foundation.MethodGet:    {Handler: dataFunc(foundation.DataNotFound(), nil)},
				foundation.MethodDelete: {Handler: dataFunc(foundation.DataNotFound(), nil)},
			}),
		},
	})

	assert.Equal(t, []string{"GET /{$}", "GET /api/items/{id}", "DELETE /api/items/{id}"}, backend.Patterns())
}

func TestGenerateReportsMuxConflicts(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("GET /taken", http.NotFoundHandler())

	backend := New(mux, WithLogger(log.New(io.Discard)))
	gen := NewGenerator(backend, foundation.WithLogger(log.New(io.Discard)))
	gen.Add(Resource{Name: "clash", Routes: []Route{StaticView("/taken", "x.html")}})

	err := gen.Generate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRegister)
}
