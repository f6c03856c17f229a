// Package config loads the stack server settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	units "github.com/docker/go-units"
	"github.com/spf13/viper"

	"github.com/epandco/unthink/internal/pkgjson"
)

// Environment variable names.
const (
	EnvMongoURL               = "MONGO_DB_URL"
	EnvMongoDefaultDB         = "MONGO_DB_DEFAULT_DB"
	EnvMongoDefaultCollection = "MONGO_DB_DEFAULT_COLLECTION"
	EnvServerPort             = "SERVER_PORT"
	EnvWebpackDevPort         = "WEBPACK_DEV_PORT"
	EnvAppEnv                 = "APP_ENV"
	EnvTemplateBasePath       = "TEMPLATE_BASE_PATH"
	EnvTemplateNotFound       = "TEMPLATE_NOT_FOUND"
	EnvTemplateError          = "TEMPLATE_ERROR"
	EnvTemplateFatalError     = "TEMPLATE_FATAL_ERROR"
	EnvTemplateUnauthorized   = "TEMPLATE_UNAUTHORIZED"
	EnvContentBasePath        = "CONTENT_BASE_PATH"
	EnvLogLevel               = "LOG_LEVEL"
	EnvBodyLimit              = "BODY_LIMIT"
	EnvTLSCertFile            = "TLS_CERT_FILE"
	EnvTLSKeyFile             = "TLS_KEY_FILE"
	EnvAppVersion             = "APP_VERSION"
)

// Required lists the variables Load fails without, in the order they are
// reported.
var Required = []string{
	EnvMongoURL,
	EnvMongoDefaultDB,
	EnvMongoDefaultCollection,
	EnvServerPort,
	EnvTemplateBasePath,
	EnvTemplateNotFound,
	EnvTemplateError,
	EnvTemplateFatalError,
	EnvTemplateUnauthorized,
	EnvContentBasePath,
	EnvLogLevel,
}

// Defaults for optional settings.
const (
	DefaultBodyLimit   = "100kb"
	DefaultTLSCertFile = "certs/localhost.crt"
	DefaultTLSKeyFile  = "certs/localhost.key"
	productionEnv      = "production"
)

// MissingEnvError reports a required variable with no value.
type MissingEnvError struct {
	Name string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("Environment variable: %s is not set. If using .env please check your .env file", e.Name)
}

// ErrInvalidValue is wrapped by errors for variables that are set but unusable.
var ErrInvalidValue = errors.New("invalid environment value")

// Templates names the template directory and the templates the backend falls
// back to.
type Templates struct {
	BasePath     string
	NotFound     string
	Error        string
	FatalError   string
	Unauthorized string
}

// Config is the resolved server configuration.
type Config struct {
	MongoURL               string
	MongoDefaultDB         string
	MongoDefaultCollection string

	ServerPort     int
	WebpackDevPort int

	AppEnv       string
	IsProduction bool
	AppName      string
	AppVersion   string

	Templates       Templates
	ContentBasePath string

	LogLevel  log.Level
	BodyLimit int64

	TLSCertFile string
	TLSKeyFile  string
}

// TLSEnabled reports whether both certificate files are configured.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// UseDevProxy reports whether /public/ should be proxied to the webpack dev
// server.
func (c *Config) UseDevProxy() bool {
	return !c.IsProduction && c.WebpackDevPort > 0
}

// Load reads dir/.env when present and the process environment. Environment
// values win over the file. Every missing required variable is reported in
// the returned error, one per line.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	envFile := filepath.Join(dir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", envFile, err)
		}
	}

	get := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	var errs []error
	for _, key := range Required {
		if get(key) == "" {
			errs = append(errs, &MissingEnvError{Name: key})
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	cfg := &Config{
		MongoURL:               get(EnvMongoURL),
		MongoDefaultDB:         get(EnvMongoDefaultDB),
		MongoDefaultCollection: get(EnvMongoDefaultCollection),
		AppEnv:                 get(EnvAppEnv),
		Templates: Templates{
			BasePath:     resolve(dir, get(EnvTemplateBasePath)),
			NotFound:     get(EnvTemplateNotFound),
			Error:        get(EnvTemplateError),
			FatalError:   get(EnvTemplateFatalError),
			Unauthorized: get(EnvTemplateUnauthorized),
		},
		ContentBasePath: resolve(dir, get(EnvContentBasePath)),
		AppVersion:      get(EnvAppVersion),
	}
	cfg.IsProduction = cfg.AppEnv == productionEnv

	var err error
	if cfg.ServerPort, err = parsePort(EnvServerPort, get(EnvServerPort)); err != nil {
		errs = append(errs, err)
	}
	if raw := get(EnvWebpackDevPort); raw != "" {
		if cfg.WebpackDevPort, err = parsePort(EnvWebpackDevPort, raw); err != nil {
			errs = append(errs, err)
		}
	}
	if cfg.LogLevel, err = log.ParseLevel(get(EnvLogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("%w: %s: %w", ErrInvalidValue, EnvLogLevel, err))
	}

	limit := get(EnvBodyLimit)
	if limit == "" {
		limit = DefaultBodyLimit
	}
	if cfg.BodyLimit, err = units.RAMInBytes(limit); err != nil {
		errs = append(errs, fmt.Errorf("%w: %s: %w", ErrInvalidValue, EnvBodyLimit, err))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	cfg.TLSCertFile, cfg.TLSKeyFile = tlsFiles(dir, get(EnvTLSCertFile), get(EnvTLSKeyFile), cfg.IsProduction)

	if doc, err := pkgjson.Load(filepath.Join(dir, "package.json")); err == nil {
		cfg.AppName = doc.String("name")
		if cfg.AppVersion == "" {
			cfg.AppVersion = doc.String("version")
		}
	}

	return cfg, nil
}

func parsePort(key, raw string) (int, error) {
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("%w: %s must be a port number, got %q", ErrInvalidValue, key, raw)
	}
	return port, nil
}

func tlsFiles(dir, cert, key string, production bool) (string, string) {
	if cert != "" && key != "" {
		return resolve(dir, cert), resolve(dir, key)
	}
	if production {
		return "", ""
	}
	cert, key = filepath.Join(dir, DefaultTLSCertFile), filepath.Join(dir, DefaultTLSKeyFile)
	if fileExists(cert) && fileExists(key) {
		return cert, key
	}
	return "", ""
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
