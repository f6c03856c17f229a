package generators

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	oerrors "github.com/epandco/unthink/internal/errors"
	"github.com/epandco/unthink/internal/naming"
	"github.com/epandco/unthink/internal/output"
	"github.com/epandco/unthink/internal/templates"
)

// ChangelogName is the file the changelog generator writes.
const ChangelogName = "CHANGELOG.md"

// DefaultFaviconDir is where favicons are written when no output is given,
// relative to the working directory.
var DefaultFaviconDir = filepath.Join("src", "client", "public", "favicons")

// Changelog writes CHANGELOG.md into the given directory, default ".".
func Changelog() *Generator {
	return &Generator{
		Name:        "changelog",
		Description: "CHANGELOG.md template",
		Usage:       "[path]",
		MaxArgs:     1,
		Run: func(ctx *Context) error {
			target := filepath.Join(resolve(ctx.Dir, ctx.Arg(0)), ChangelogName)
			if exists(target) {
				return oerrors.NewValidationError("CHANGELOG.md file already exists.", target, "")
			}

			if err := templates.NewRenderer(templates.TemplateData{}).RenderNamed(templates.ChangelogFile, target); err != nil {
				return oerrors.Wrap(oerrors.ErrPermission, fmt.Sprintf("could not write %s: %v", target, err))
			}

			fmt.Fprintln(ctx.Out, output.FormatCheckmark(fmt.Sprintf("Changelog created at %q.", target)))
			return nil
		},
	}
}

// Favicon validates a source image and an output directory. Image
// processing itself is not implemented.
func Favicon() *Generator {
	return &Generator{
		Name:        "favicon",
		Aliases:     []string{"fav"},
		Description: "Create favicon set",
		Usage:       "<source> [output]",
		MaxArgs:     2,
		Run: func(ctx *Context) error {
			source := ctx.Arg(0)
			if source == "" {
				return oerrors.NewValidationError("You must provide a path to the source image!", "", "")
			}
			sourcePath := resolve(ctx.Dir, source)
			if !exists(sourcePath) {
				return oerrors.NewNotFoundError("Could not find the provided source image.", sourcePath, "")
			}

			outputDir := ctx.Arg(1)
			if outputDir != "" {
				outputDir = resolve(ctx.Dir, outputDir)
			} else {
				publicDir := filepath.Dir(filepath.Join(ctx.Dir, DefaultFaviconDir))
				if !exists(publicDir) {
					return oerrors.NewNotFoundError(
						`Could not find the public directory. Please ensure "./src/client/public" exists.`,
						publicDir, "")
				}
				outputDir = filepath.Join(ctx.Dir, DefaultFaviconDir)
			}

			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return oerrors.Wrap(oerrors.ErrPermission, "could not create "+outputDir)
			}

			fmt.Fprintln(ctx.Out, output.FormatTODO("favicon image processing is not implemented; output directory is "+outputDir))
			return nil
		},
	}
}

// Entry validates a client entry name.
func Entry() *Generator {
	return &Generator{
		Name:        "entry",
		Description: "Create a new client entry",
		Usage:       "<name>",
		MaxArgs:     1,
		Run: func(ctx *Context) error {
			name := naming.ToPascalCase(ctx.Arg(0))
			if name == "" {
				return oerrors.NewValidationError("You must provide an entry name!", "", "example: unthink generate entry hello-world")
			}

			fmt.Fprintln(ctx.Out, output.FormatTODO("entry generator should make entries! ("+name+")"))
			return nil
		},
	}
}

// Riot validates a custom element tag name.
func Riot() *Generator {
	return &Generator{
		Name:        "riot",
		Aliases:     []string{"r"},
		Description: "Create a new Riot Component",
		Usage:       "<tag>",
		MaxArgs:     1,
		Run: func(ctx *Context) error {
			tag := ctx.Arg(0)
			if !naming.IsValidTagName(tag) {
				return oerrors.NewValidationError(
					"Riot component tag names must be lower case and contain at least one dash (-).",
					tag,
					"example: my-component")
			}

			fmt.Fprintln(ctx.Out, output.FormatTODO("Riot component generator needs to be implemented!"))
			return nil
		},
	}
}

// Resource is a placeholder for a server resource generator.
func Resource() *Generator {
	return &Generator{
		Name:        "resource",
		Aliases:     []string{"res"},
		Description: "Create a new server Resource",
		Usage:       "<name>",
		MaxArgs:     1,
		Run: func(ctx *Context) error {
			fmt.Fprintln(ctx.Out, output.FormatTODO("Resource generator needs to be implemented!"))
			return nil
		},
	}
}

func resolve(dir, path string) string {
	if path == "" {
		return dir
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
