package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	oerrors "github.com/epandco/unthink/internal/errors"
	"github.com/epandco/unthink/internal/output"
	"github.com/epandco/unthink/internal/pkgjson"
	"github.com/epandco/unthink/internal/scaffold"
	"github.com/epandco/unthink/internal/version"
)

// ForceConfirmation is the question asked before a forced init.
const ForceConfirmation = "Are you sure you want to force initialization? (overwrites files in destination)"

var (
	initForce       bool
	initYes         bool
	initSkipInstall bool
	initStackDir    string
	initNPM         string
	initModule      string
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "init <path>",
		Aliases: []string{"initialize", "i"},
		Short:   "Create a new project from the unthink stack",
		Long: `Create a new project from the unthink starter stack.

The project name is the last element of <path>. It must be lower case and
contain only letters (a-z), numbers (0-9) and dashes (-).

The command copies the stack, rewrites package.json for the new project,
creates .env from .env.local and runs npm install.

Examples:
  # Create a project in ./my-app
  unthink init my-app

  # Create a project in a nested directory with a Go module path
  unthink init projects/acme-site --module github.com/acme/acme-site

  # Overwrite files in an existing directory without prompting
  unthink init my-app --force --yes

  # Skip npm install
  unthink init my-app --skip-install`,
		Args: cobra.ExactArgs(1),
		RunE: runInit,
	}

	cmd.Flags().BoolVarP(&initForce, "force", "f", false,
		"Initialize into an existing directory, overwriting files")
	cmd.Flags().BoolVarP(&initYes, "yes", "y", false,
		"Do not ask for confirmation when forcing")
	cmd.Flags().BoolVar(&initSkipInstall, "skip-install", false,
		"Do not run npm install (env: UNTHINK_SKIP_INSTALL)")
	cmd.Flags().StringVar(&initStackDir, "stack-dir", "",
		"Copy the stack from this directory instead of the embedded one (env: UNTHINK_STACK_DIR)")
	cmd.Flags().StringVar(&initNPM, "npm", "",
		"npm executable used to install dependencies (env: UNTHINK_NPM)")
	cmd.Flags().StringVar(&initModule, "module", "",
		"Go module path of the new project (default: the project name)")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	opts := scaffold.Options{
		Path:        args[0],
		ModulePath:  initModule,
		Force:       initForce,
		SkipInstall: initSkipInstall || cfg.SkipInstall,
		StackDir:    firstNonEmpty(initStackDir, cfg.StackDir),
		NPM:         firstNonEmpty(initNPM, cfg.NPM),
		Version:     version.GetInfo().Semver(),
	}

	// Fail fast on the name and destination before prompting.
	if _, _, err := scaffold.Validate(opts); err != nil {
		return withExitCode(err)
	}

	if opts.Force && !initYes {
		if err := confirmForce(); err != nil {
			return withExitCode(err)
		}
	}

	var result *scaffold.Result
	err := output.RunWithSpinner(cmd.Context(), func() error {
		var err error
		result, err = scaffold.New().Init(cmd.Context(), opts)
		return err
	}, output.WithTitle("Creating project at "+opts.Path))
	if err != nil {
		return withExitCode(err)
	}

	if verboseFlag && result.Package != nil {
		printPackageDiff(result.Package)
	}

	output.Println(output.FormatCheckmark("Initialized project"))
	output.Println("")
	output.Println(output.RenderFileTree(result.ProjectName, result.FileTree()))

	return nil
}

func confirmForce() error {
	ok, err := output.Confirm(ForceConfirmation)
	if errors.Is(err, output.ErrNotInteractive) {
		return oerrors.NewValidationError(
			"refusing to force initialization without confirmation",
			"",
			"Pass --yes to confirm in a non-interactive terminal.",
		)
	}
	if err != nil {
		return fmt.Errorf("confirmation prompt: %w", err)
	}
	if !ok {
		return oerrors.Wrap(oerrors.ErrAborted, "initialization cancelled")
	}
	return nil
}

func printPackageDiff(change *pkgjson.Change) {
	diff, err := pkgjson.Diff(change.Before, change.After, output.IsTTY())
	if err != nil {
		output.Warn("could not diff package.json", "error", err)
		return
	}
	if diff == "" {
		return
	}
	output.Println("package.json changes:")
	output.Println(diff)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
