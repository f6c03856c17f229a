package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable prefix for unthink configuration.
const envPrefix = "UNTHINK"

// Loader handles loading and merging configuration from the config file and
// environment variables.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("stackDir", "UNTHINK_STACK_DIR")
	_ = v.BindEnv("skipInstall", "UNTHINK_SKIP_INSTALL")
	_ = v.BindEnv("npm", "UNTHINK_NPM")
	_ = v.BindEnv("log.timestamps", "UNTHINK_LOG_TIMESTAMPS")

	v.SetDefault("npm", DefaultNPM)
	v.SetDefault("skipInstall", false)

	return &Loader{v: v}
}

// Load loads configuration from configFile, or from the default location
// when configFile is empty. A missing file is not an error. Environment
// variables take precedence over file values.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg.WithDefaults(), nil
}

// ConfigFileUsed returns the path the last Load read from.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Load is a convenience wrapper around NewLoader().Load.
func Load(configFile string) (*Config, error) {
	return NewLoader().Load(configFile)
}
