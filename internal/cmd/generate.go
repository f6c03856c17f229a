package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	oerrors "github.com/epandco/unthink/internal/errors"
	"github.com/epandco/unthink/internal/generators"
	"github.com/epandco/unthink/internal/output"
)

var generateOutputFlag string

// NewGenerateCmd creates the generate command with one subcommand per
// registered generator.
func NewGenerateCmd() *cobra.Command {
	return newGenerateCmd(generators.Default())
}

func newGenerateCmd(registry *generators.Registry) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"g", "gen"},
		Short:   "Generate files from templates",
		Long: `Generate files from templates.

Without a generator name, lists the available generators.

Examples:
  # List generators
  unthink generate

  # List generators as JSON
  unthink g -o json

  # Write CHANGELOG.md into ./docs
  unthink generate changelog docs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateList(cmd, registry)
		},
	}

	cmd.Flags().StringVarP(&generateOutputFlag, "output", "o", "table",
		"Output format: "+strings.Join(output.ValidFormats(), ", "))

	for _, g := range registry.All() {
		cmd.AddCommand(newGeneratorCmd(g))
	}

	return cmd
}

func newGeneratorCmd(g *generators.Generator) *cobra.Command {
	use := g.Name
	if g.Usage != "" {
		use += " " + g.Usage
	}

	return &cobra.Command{
		Use:     use,
		Aliases: g.Aliases,
		Short:   g.Description,
		Args:    cobra.MaximumNArgs(g.MaxArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return withExitCode(oerrors.Wrap(oerrors.ErrNotFound, "could not determine working directory"))
			}

			output.Debug("running generator", "name", g.Name, "args", args, "dir", dir)
			return withExitCode(g.Run(&generators.Context{
				Dir:  dir,
				Args: args,
				Out:  cmd.OutOrStdout(),
			}))
		},
	}
}

func runGenerateList(cmd *cobra.Command, registry *generators.Registry) error {
	format, ok := output.ParseOutputFormat(generateOutputFlag)
	if !ok {
		return withExitCode(oerrors.NewValidationError(
			fmt.Sprintf("unknown output format %q", generateOutputFlag),
			"",
			"Valid formats: "+strings.Join(output.ValidFormats(), ", "),
		))
	}

	all := registry.All()
	if format != output.FormatTable {
		return output.WriteStructured(cmd.OutOrStdout(), format, all)
	}

	tbl := output.NewTable("Generator", "Description")
	for _, g := range all {
		name := g.Name
		if len(g.Aliases) > 0 {
			name += " (" + strings.Join(g.Aliases, ", ") + ")"
		}
		tbl.Row(name, g.Description)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tbl.String())
	return nil
}
