package server

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/epandco/unthink/pkg/stack/config"
)

// PublicPrefix is where built client assets are served.
const PublicPrefix = "/public/"

// publicHandler serves CONTENT_BASE_PATH, or proxies to the webpack dev
// server when one is configured outside production.
func publicHandler(cfg *config.Config) (http.Handler, error) {
	if cfg.UseDevProxy() {
		target, err := url.Parse(fmt.Sprintf("http://localhost:%d", cfg.WebpackDevPort))
		if err != nil {
			return nil, fmt.Errorf("webpack dev server url: %w", err)
		}
		return httputil.NewSingleHostReverseProxy(target), nil
	}
	return http.StripPrefix(PublicPrefix, http.FileServer(http.Dir(cfg.ContentBasePath))), nil
}
