// Package main runs the starter stack server from the current directory.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/epandco/unthink/pkg/stack/config"
	"github.com/epandco/unthink/pkg/stack/render"
	"github.com/epandco/unthink/pkg/stack/resources"
	"github.com/epandco/unthink/pkg/stack/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}

	rt := server.NewRuntime(cfg)

	renderer, err := render.Load(os.DirFS(cfg.Templates.BasePath),
		render.WithAppVersion(cfg.AppVersion),
		render.WithProduction(cfg.IsProduction),
	)
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}

	srv, err := server.New(rt, renderer,
		resources.HelloWorld(),
		resources.Version(cfg.AppName, cfg.AppVersion),
		resources.Health(rt.Mongo),
		resources.MissingRoute(cfg.Templates.NotFound),
	)
	if err != nil {
		return err
	}

	if !cfg.IsProduction {
		fmt.Println(srv.Routes())
	}
	return srv.Run(context.Background())
}
