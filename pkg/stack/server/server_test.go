package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epandco/unthink/pkg/foundation"
	"github.com/epandco/unthink/pkg/foundation/servemux"
	"github.com/epandco/unthink/pkg/stack/config"
	"github.com/epandco/unthink/pkg/stack/metrics"
	"github.com/epandco/unthink/pkg/stack/mongodb"
	"github.com/epandco/unthink/pkg/stack/resources"
)

var stubRenderer = foundation.RendererFunc(func(w io.Writer, name string, model any) error {
	_, err := fmt.Fprintf(w, "%s|%v", name, model)
	return err
})

func testRuntime(t *testing.T, mutate func(*config.Config)) *Runtime {
	t.Helper()
	content := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(content, "app.js"), []byte("console.log(1)"), 0o644))

	cfg := &config.Config{
		ServerPort:      0,
		ContentBasePath: content,
		BodyLimit:       1024,
		LogLevel:        log.DebugLevel,
		Templates: config.Templates{
			NotFound:     "not-found.html",
			Error:        "error.html",
			FatalError:   "fatal-error.html",
			Unauthorized: "unauthorized.html",
		},
	}
	if mutate != nil {
		mutate(cfg)
	}
	return &Runtime{
		Config:  cfg,
		Logger:  log.New(io.Discard),
		Mongo:   mongodb.New("", "", ""),
		Metrics: metrics.NewManager(),
	}
}

func defaultResources(rt *Runtime) []servemux.Resource {
	return []servemux.Resource{
		resources.HelloWorld(),
		resources.Version("my-app", "1.0.0"),
		resources.MissingRoute(rt.Config.Templates.NotFound),
	}
}

func get(t *testing.T, h http.Handler, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServerRoutes(t *testing.T) {
	rt := testRuntime(t, nil)
	srv, err := New(rt, stubRenderer, defaultResources(rt)...)
	require.NoError(t, err)
	h := srv.Handler()

	tests := []struct {
		target     string
		wantStatus int
		wantBody   string
	}{
		{target: "/", wantStatus: 200, wantBody: "hello-world.html|<nil>"},
		{target: "/api/message", wantStatus: 200, wantBody: `{"message":"Hello, World"}`},
		{target: "/unthink/version", wantStatus: 200, wantBody: "version.html|{my-app 1.0.0}"},
		{target: "/public/app.js", wantStatus: 200, wantBody: "console.log(1)"},
		{target: "/somewhere/else", wantStatus: 404, wantBody: "not-found.html|<nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, tt.target, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestRequestID(t *testing.T) {
	rt := testRuntime(t, nil)
	srv, err := New(rt, stubRenderer, defaultResources(rt)...)
	require.NoError(t, err)

	rec := get(t, srv.Handler(), "/api/message", nil)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	rec = get(t, srv.Handler(), "/api/message", map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRequestIDInContext(t *testing.T) {
	var seen string
	h := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))
	get(t, h, "/", map[string]string{RequestIDHeader: "from-client"})
	assert.Equal(t, "from-client", seen)
	assert.Equal(t, "", RequestID(context.Background()))
}

func TestMetricsEndpoint(t *testing.T) {
	rt := testRuntime(t, nil)
	srv, err := New(rt, stubRenderer, defaultResources(rt)...)
	require.NoError(t, err)
	h := srv.Handler()

	get(t, h, "/api/message", nil)
	get(t, h, "/api/message", nil)

	rec := get(t, h, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(),
		`unthink_http_requests_total{method="GET",route="GET /api/message",status_code="200"} 2`)
}

func TestRecoveryMiddleware(t *testing.T) {
	rt := testRuntime(t, nil)
	explode := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("middleware exploded")
		})
	}
	srv, err := New(rt, stubRenderer, servemux.Resource{
		Name:       "fragile",
		Middleware: []servemux.Middleware{explode},
		Routes:     []servemux.Route{servemux.StaticView("/fragile", "fragile.html")},
	})
	require.NoError(t, err)

	rec := get(t, srv.Handler(), "/fragile", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDevProxy(t *testing.T) {
	webpack := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "webpack:"+r.URL.Path)
	}))
	t.Cleanup(webpack.Close)

	u, err := url.Parse(webpack.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	rt := testRuntime(t, func(c *config.Config) { c.WebpackDevPort = port })
	srv, err := New(rt, stubRenderer, defaultResources(rt)...)
	require.NoError(t, err)

	rec := get(t, srv.Handler(), "/public/main.js", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "webpack:/public/main.js", rec.Body.String())
}

func TestNewRejectsDuplicateRoutes(t *testing.T) {
	rt := testRuntime(t, nil)
	_, err := New(rt, stubRenderer, resources.HelloWorld(), resources.HelloWorld())
	require.Error(t, err)
	assert.ErrorIs(t, err, foundation.ErrDuplicateRoute)
}

func TestRoutesTable(t *testing.T) {
	rt := testRuntime(t, nil)
	srv, err := New(rt, stubRenderer, defaultResources(rt)...)
	require.NoError(t, err)

	table := srv.Routes()
	for _, want := range []string{"Method", "/api/message", "/unthink/version", "/api/{wildcard...}", "/public/", "/metrics"} {
		assert.Contains(t, table, want)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	rt := testRuntime(t, nil)
	srv, err := New(rt, stubRenderer, defaultResources(rt)...)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/message")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "Hello, World"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNewLogger(t *testing.T) {
	var buf strings.Builder
	logger := NewLogger(&buf, &config.Config{LogLevel: log.InfoLevel, IsProduction: true})
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
}
