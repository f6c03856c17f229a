// Package generators implements the `unthink generate` sub-generators.
package generators

import (
	"cmp"
	"fmt"
	"io"
	"slices"
)

// Context is passed to a generator run.
type Context struct {
	// Dir is the working directory relative paths are resolved against.
	Dir string

	// Args are the positional arguments after the generator name.
	Args []string

	// Out receives user-facing messages.
	Out io.Writer
}

// Arg returns the i-th argument, or "" when absent.
func (c *Context) Arg(i int) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return ""
}

// Generator describes one sub-generator.
type Generator struct {
	Name        string   `json:"name" yaml:"name"`
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Description string   `json:"description" yaml:"description"`

	// Usage is the argument synopsis shown after the name (e.g., "[path]").
	Usage string `json:"usage,omitempty" yaml:"usage,omitempty"`

	// MaxArgs bounds the positional arguments.
	MaxArgs int `json:"-" yaml:"-"`

	Run func(ctx *Context) error `json:"-" yaml:"-"`
}

// Registry holds generators by name and alias.
type Registry struct {
	generators []*Generator
	index      map[string]*Generator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]*Generator)}
}

// Register adds g. Names and aliases must be unique across the registry.
func (r *Registry) Register(g *Generator) error {
	if g.Name == "" {
		return fmt.Errorf("generator name is required")
	}
	if g.Run == nil {
		return fmt.Errorf("generator %q has no run function", g.Name)
	}

	keys := append([]string{g.Name}, g.Aliases...)
	for _, key := range keys {
		if existing, ok := r.index[key]; ok {
			return fmt.Errorf("generator %q: name %q already used by %q", g.Name, key, existing.Name)
		}
	}
	for _, key := range keys {
		r.index[key] = g
	}
	r.generators = append(r.generators, g)
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(g *Generator) {
	if err := r.Register(g); err != nil {
		panic(err)
	}
}

// Get returns the generator registered under name or alias.
func (r *Registry) Get(name string) (*Generator, bool) {
	g, ok := r.index[name]
	return g, ok
}

// All returns the generators sorted by name.
func (r *Registry) All() []*Generator {
	all := slices.Clone(r.generators)
	slices.SortFunc(all, func(a, b *Generator) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return all
}

// Default returns a registry with every built-in generator.
func Default() *Registry {
	r := NewRegistry()
	r.MustRegister(Changelog())
	r.MustRegister(Entry())
	r.MustRegister(Favicon())
	r.MustRegister(Resource())
	r.MustRegister(Riot())
	return r
}
