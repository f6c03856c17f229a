// Package server assembles the stack's HTTP server: global middleware, the
// generated routes, static content and graceful shutdown.
package server

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/epandco/unthink/pkg/stack/config"
	"github.com/epandco/unthink/pkg/stack/metrics"
	"github.com/epandco/unthink/pkg/stack/mongodb"
)

// Runtime holds the shared services handed to resources and middleware.
type Runtime struct {
	Config  *config.Config
	Logger  *log.Logger
	Mongo   *mongodb.Service
	Metrics *metrics.Manager
}

// NewRuntime builds the services described by cfg. Nothing connects until
// first use.
func NewRuntime(cfg *config.Config) *Runtime {
	return &Runtime{
		Config:  cfg,
		Logger:  NewLogger(os.Stderr, cfg),
		Mongo:   mongodb.New(cfg.MongoURL, cfg.MongoDefaultDB, cfg.MongoDefaultCollection),
		Metrics: metrics.NewManager(metrics.WithRuntimeCollectors()),
	}
}

// NewLogger returns a logger at cfg.LogLevel. Production logs are JSON.
func NewLogger(w io.Writer, cfg *config.Config) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Level:           cfg.LogLevel,
		ReportTimestamp: true,
		Prefix:          "unthink",
	})
	if cfg.IsProduction {
		logger.SetFormatter(log.JSONFormatter)
	}
	return logger
}
