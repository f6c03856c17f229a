package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/epandco/unthink/internal/config"
	oerrors "github.com/epandco/unthink/internal/errors"
	"github.com/epandco/unthink/internal/output"
)

var configInitForce bool

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: `Initialize the unthink CLI configuration.

Creates ~/.unthink/config.yaml (or the file named by --config / UNTHINK_CONFIG)
with the default settings:
  stackDir       Directory used instead of the embedded stack
  skipInstall    Skip npm install after init
  npm            npm executable
  log.timestamps Show timestamps in log output

Examples:
  # Initialize configuration
  unthink config init

  # Overwrite existing configuration
  unthink config init --force`,
		RunE: runConfigInit,
	}

	cmd.Flags().BoolVarP(&configInitForce, "force", "f", false,
		"Overwrite existing configuration")

	return cmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile := configFlag
	if configFile == "" {
		var err error
		configFile, err = config.GetConfigFile()
		if err != nil {
			return withExitCode(oerrors.Wrap(oerrors.ErrNotFound, "could not determine home directory"))
		}
	}
	configFile, err := config.ExpandPath(configFile)
	if err != nil {
		return withExitCode(oerrors.Wrap(oerrors.ErrNotFound, "could not expand "+configFile))
	}

	if _, err := os.Stat(configFile); err == nil && !configInitForce {
		return withExitCode(&oerrors.DetailError{
			Type:     "validation failed",
			Message:  "configuration already exists",
			Location: configFile,
			Hint:     "Use --force to overwrite existing configuration.",
			Cause:    oerrors.ErrValidation,
		})
	}

	// Create directories with secure permissions (0700)
	if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
		return withExitCode(oerrors.Wrap(oerrors.ErrPermission, "could not create "+filepath.Dir(configFile)))
	}

	content, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return err
	}

	// Write config.yaml with secure permissions (0600)
	if err := os.WriteFile(configFile, content, 0o600); err != nil {
		return withExitCode(oerrors.Wrap(oerrors.ErrPermission, "could not write "+configFile))
	}

	output.Println("Configuration initialized at " + configFile)
	output.Println("Show the resolved configuration with: unthink config show")

	return nil
}
