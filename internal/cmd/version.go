package cmd

import (
	"github.com/spf13/cobra"

	"github.com/epandco/unthink/internal/output"
	"github.com/epandco/unthink/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show unthink CLI version information.

Displays the CLI version, commit, build date and Go version. The version is
also recorded as unthink.version in the package.json of projects created by
init.`,
		RunE: runVersion,
	}
}

func runVersion(cmd *cobra.Command, args []string) error {
	output.Println(version.GetInfo().String())
	return nil
}
