// Package templates holds the embedded starter stack and the single-file
// templates the generators write, and renders them to disk.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
)

//go:embed all:stack
var stackFS embed.FS

//go:embed files/*
var filesFS embed.FS

// File names under files/.
const (
	ReadmeFile    = "README.md.tmpl"
	ChangelogFile = "CHANGELOG.md.tmpl"
)

// Stack returns the embedded starter stack rooted at its top directory.
func Stack() fs.FS {
	sub, err := fs.Sub(stackFS, "stack")
	if err != nil {
		// fs.Sub only fails on an invalid path.
		panic(err)
	}
	return sub
}

// StackDir returns a stack read from dir on disk, used in place of the
// embedded one.
func StackDir(dir string) (fs.FS, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stack directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("stack directory %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}

// File returns the raw content of a single-file template.
func File(name string) ([]byte, error) {
	return fs.ReadFile(filesFS, "files/"+name)
}
