package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/epandco/unthink/internal/config"
	"github.com/epandco/unthink/internal/output"
)

// NewConfigShowCmd creates the config show command.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		Long: `Show the configuration after merging the config file, UNTHINK_*
environment variables and defaults.`,
		Args: cobra.NoArgs,
		RunE: runConfigShow,
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(configFlag)
	if err != nil {
		return withExitCode(err)
	}

	w := cmd.OutOrStdout()
	if used := loader.ConfigFileUsed(); used != "" {
		fmt.Fprintf(w, "# %s\n", used)
	}
	return output.WriteStructured(w, output.FormatYAML, cfg)
}
