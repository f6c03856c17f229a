package templates

// TemplateData holds the values .tmpl files are rendered with.
type TemplateData struct {
	// ProjectName is the kebab-case project name (e.g., "my-app").
	ProjectName string

	// PascalName is ProjectName in PascalCase (e.g., "MyApp").
	PascalName string

	// ModulePath is the Go module path of the new project.
	ModulePath string

	// UnthinkVersion is the unthink module version the project requires (e.g., "v0.3.0").
	UnthinkVersion string
}

// SkipFunc reports whether a path, relative to the template root, is left
// out. Returning true for a directory skips everything below it.
type SkipFunc func(path string, isDir bool) bool

// StackIgnore skips the files at the stack root that belong to a working copy
// rather than to the template: .env, lib/, public/ and node_modules/.
func StackIgnore(path string, isDir bool) bool {
	if isDir {
		switch path {
		case "lib", "public", "node_modules":
			return true
		}
		return false
	}
	return path == ".env"
}
