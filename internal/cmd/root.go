// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/epandco/unthink/internal/config"
	"github.com/epandco/unthink/internal/output"
)

var (
	// Global flags
	configFlag     string
	verboseFlag    bool
	timestampsFlag bool

	// Loaded configuration (set during PersistentPreRunE)
	cliConfig *config.Config
)

// NewRootCmd creates the root command for the unthink CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "unthink",
		Short: "Scaffold and generate unthink web projects",
		Long: `unthink creates new projects from the unthink starter stack and generates
files inside existing ones.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to config file (env: UNTHINK_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", false, "Show timestamps in log output")

	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals loads configuration and sets up logging.
func initializeGlobals(cmd *cobra.Command) error {
	loaded, err := config.Load(configFlag)
	if err != nil {
		// Commands still run with defaults; config show reports the problem.
		output.Debug("config load error", "error", err)
		loaded = config.DefaultConfig()
	}
	cliConfig = loaded

	// Timestamps: flag (if explicitly set) > config > off
	logCfg := output.LogConfig{Verbose: verboseFlag}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestampsFlag)
	} else {
		logCfg.Timestamps = cliConfig.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	output.Debug("initializing CLI",
		"config", configFlag,
		"stackDir", cliConfig.StackDir,
		"skipInstall", cliConfig.SkipInstall,
		"npm", cliConfig.NPM,
	)

	return nil
}

// GetConfig returns the loaded configuration, or the defaults before
// initialization.
func GetConfig() *config.Config {
	if cliConfig != nil {
		return cliConfig
	}
	return config.DefaultConfig()
}

// GetConfigPath returns the raw --config flag value.
func GetConfigPath() string {
	return configFlag
}
