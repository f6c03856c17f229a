// Package scaffold creates a new project from the starter stack.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	oerrors "github.com/epandco/unthink/internal/errors"
	"github.com/epandco/unthink/internal/naming"
	"github.com/epandco/unthink/internal/output"
	"github.com/epandco/unthink/internal/pkgjson"
	"github.com/epandco/unthink/internal/templates"
)

// Names of the files init moves or creates after copying the stack.
const (
	StackGitignore = ".stack-gitignore"
	Gitignore      = ".gitignore"
	PackageJSON    = "package.json"
	Readme         = "README.md"
	StackReadme    = "UNTHINK.md"
	EnvLocal       = ".env.local"
	Env            = ".env"
)

// ProjectVersion is the version written to a new project's package.json.
const ProjectVersion = "1.0.0"

// Options configures a single init run.
type Options struct {
	// Path is the destination directory. Its last element is the project name.
	Path string

	// ModulePath is the Go module path. Defaults to the project name.
	ModulePath string

	// Force allows initializing into an existing directory.
	Force bool

	// SkipInstall disables the npm install step.
	SkipInstall bool

	// StackDir replaces the embedded stack with a directory on disk.
	StackDir string

	// NPM is the npm executable. Defaults to "npm".
	NPM string

	// Version is the CLI version recorded in package.json (e.g., "0.3.0").
	Version string
}

// Result describes a created project.
type Result struct {
	// ProjectName is the validated project name.
	ProjectName string

	// Dir is the absolute project directory.
	Dir string

	// Files are the created files relative to Dir.
	Files []string

	// Package holds package.json before and after the rewrite.
	Package *pkgjson.Change
}

// FileTree maps each created file to a short description, for
// output.RenderFileTree.
func (r *Result) FileTree() map[string]string {
	tree := make(map[string]string, len(r.Files))
	for _, f := range r.Files {
		tree[f] = describe(f)
	}
	return tree
}

// Installer installs the project's JavaScript dependencies in dir.
type Installer func(ctx context.Context, dir, npm string) error

// Option configures a Scaffolder.
type Option func(*Scaffolder)

// WithInstaller replaces the npm install step.
func WithInstaller(install Installer) Option {
	return func(s *Scaffolder) {
		s.install = install
	}
}

// Scaffolder runs the init steps.
type Scaffolder struct {
	install Installer
}

// New creates a Scaffolder that installs with NPMInstall.
func New(opts ...Option) *Scaffolder {
	s := &Scaffolder{install: NPMInstall}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks the project name and the destination without writing
// anything. It returns the project name and the absolute destination.
func Validate(opts Options) (string, string, error) {
	name, err := naming.ValidateProjectName(opts.Path)
	if err != nil {
		return "", "", err
	}

	dir, err := filepath.Abs(opts.Path)
	if err != nil {
		return "", "", oerrors.Wrap(oerrors.ErrValidation, "could not resolve "+opts.Path)
	}

	if !opts.Force {
		if _, err := os.Stat(dir); err == nil {
			return "", "", oerrors.NewValidationError(
				opts.Path+" already exists.",
				dir,
				"Use --force to initialize into an existing directory.",
			)
		}
	}

	return name, dir, nil
}

// Init creates the project described by opts. When it fails after creating
// the destination, the destination is removed.
func (s *Scaffolder) Init(ctx context.Context, opts Options) (result *Result, err error) {
	name, dir, err := Validate(opts)
	if err != nil {
		return nil, err
	}

	stack, err := stackFS(opts.StackDir)
	if err != nil {
		return nil, err
	}

	_, statErr := os.Stat(dir)
	created := errors.Is(statErr, fs.ErrNotExist)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, oerrors.Wrap(oerrors.ErrPermission, "could not create "+dir)
	}
	defer func() {
		if err != nil && created {
			if rmErr := os.RemoveAll(dir); rmErr != nil {
				output.Warn("could not remove partially created project", "dir", dir, "err", rmErr)
			}
		}
	}()

	modulePath := opts.ModulePath
	if modulePath == "" {
		modulePath = name
	}
	renderer := templates.NewRenderer(templates.TemplateData{
		ProjectName:    name,
		PascalName:     naming.ToPascalCase(name),
		ModulePath:     modulePath,
		UnthinkVersion: ModuleVersion(opts.Version),
	})

	output.Debug("copying stack", "dir", dir)
	files, err := renderer.CopyTree(stack, dir, templates.StackIgnore)
	if err != nil {
		return nil, fmt.Errorf("copying stack: %w", err)
	}

	if err := move(dir, StackGitignore, Gitignore); err != nil {
		return nil, err
	}
	files = rename(files, StackGitignore, Gitignore)

	change, err := pkgjson.LoadAndUpdate(filepath.Join(dir, PackageJSON), PackageUpdates(name, opts.Version))
	if err != nil {
		return nil, fmt.Errorf("updating %s: %w", PackageJSON, err)
	}

	if err := move(dir, Readme, StackReadme); err != nil {
		return nil, err
	}
	files = rename(files, Readme, StackReadme)

	if err := copyFile(filepath.Join(dir, EnvLocal), filepath.Join(dir, Env)); err != nil {
		return nil, err
	}
	files = append(files, Env)

	if err := renderer.RenderNamed(templates.ReadmeFile, filepath.Join(dir, Readme)); err != nil {
		return nil, err
	}
	files = append(files, Readme)

	if !opts.SkipInstall {
		npm := opts.NPM
		if npm == "" {
			npm = "npm"
		}
		output.Debug("installing dependencies", "npm", npm, "dir", dir)
		if err := s.install(ctx, dir, npm); err != nil {
			return nil, err
		}
	}

	return &Result{
		ProjectName: name,
		Dir:         dir,
		Files:       files,
		Package:     change,
	}, nil
}

// PackageUpdates returns the package.json changes applied to a new project.
// Nil values delete their key.
func PackageUpdates(name, version string) map[string]any {
	return map[string]any{
		"name":         name,
		"version":      ProjectVersion,
		"license":      "UNLICENSED",
		"author":       "",
		"contributors": []string{},
		"private":      true,
		"description":  "",
		"repository":   nil,
		"homepage":     nil,
		"unthink":      map[string]string{"version": version},
	}
}

// ModuleVersion returns the Go module version a project built by this CLI
// requires. Development builds fall back to v0.0.0.
func ModuleVersion(version string) string {
	v := strings.TrimPrefix(version, "v")
	if v == "" || v[0] < '0' || v[0] > '9' {
		return "v0.0.0"
	}
	return "v" + v
}

// NPMInstall runs `<npm> install` in dir.
func NPMInstall(ctx context.Context, dir, npm string) error {
	cmd := exec.CommandContext(ctx, npm, "install")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			err = fmt.Errorf("%w\n%s", err, msg)
		}
		return oerrors.NewExternalError(npm+" install", err,
			"Fix the error above and run '"+npm+" install' in "+dir+".")
	}
	return nil
}

func stackFS(dir string) (fs.FS, error) {
	if dir == "" {
		return templates.Stack(), nil
	}
	stack, err := templates.StackDir(dir)
	if err != nil {
		return nil, oerrors.NewNotFoundError(err.Error(), dir, "Check the --stack-dir flag or the stackDir config value.")
	}
	return stack, nil
}

func move(dir, from, to string) error {
	src := filepath.Join(dir, from)
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := os.Rename(src, filepath.Join(dir, to)); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", from, to, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	content, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(src), err)
	}
	if err := os.WriteFile(dst, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(dst), err)
	}
	return nil
}

func rename(files []string, from, to string) []string {
	for i, f := range files {
		if f == from {
			files[i] = to
		}
	}
	return files
}

func describe(file string) string {
	switch file {
	case PackageJSON:
		return "npm manifest"
	case Readme:
		return "project readme"
	case StackReadme:
		return "stack documentation"
	case Env:
		return "local environment"
	case "go.mod":
		return "Go module"
	case "cmd/server/main.go":
		return "server entry point"
	case "internal/resources/resources.go":
		return "resource list"
	}
	return ""
}
