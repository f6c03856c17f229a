// Package config provides loading of the unthink CLI configuration file.
package config

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Env: UNTHINK_LOG_TIMESTAMPS
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty"`
}

// Config represents the unthink CLI configuration.
// Loaded from ~/.unthink/config.yaml.
type Config struct {
	// StackDir replaces the embedded starter stack with a directory on disk.
	// Env: UNTHINK_STACK_DIR
	StackDir string `mapstructure:"stackDir" yaml:"stackDir,omitempty"`

	// SkipInstall disables `npm install` after init.
	// Env: UNTHINK_SKIP_INSTALL
	SkipInstall bool `mapstructure:"skipInstall" yaml:"skipInstall"`

	// NPM is the npm executable used to install dependencies.
	// Env: UNTHINK_NPM, Default: npm
	NPM string `mapstructure:"npm" yaml:"npm"`

	// Log contains logging-related settings.
	Log LogConfig `mapstructure:"log" yaml:"log,omitempty"`
}

// DefaultNPM is the npm executable used when none is configured.
const DefaultNPM = "npm"

// DefaultConfig returns a Config with all default values populated.
// Used by `unthink config init` to generate the initial config file.
func DefaultConfig() *Config {
	timestamps := false
	return &Config{
		NPM: DefaultNPM,
		Log: LogConfig{Timestamps: &timestamps},
	}
}

// WithDefaults returns a copy of c with empty fields set to their defaults.
func (c *Config) WithDefaults() *Config {
	out := *c
	if out.NPM == "" {
		out.NPM = DefaultNPM
	}
	return &out
}
