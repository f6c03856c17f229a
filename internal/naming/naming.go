// Package naming validates and formats project, tag and entry names.
package naming

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	oerrors "github.com/epandco/unthink/internal/errors"
)

var (
	projectNameRegex = regexp.MustCompile(`^[a-z0-9-]+$`)
	tagNameRegex     = regexp.MustCompile(`^[a-z][a-z-]+[a-z]+$`)
)

// Project name error lines shown when init receives an invalid name.
const (
	ProjectNameRule    = "Project name must be lower case containing only letters (a-z), numbers (0-9) and dashes (-)."
	ProjectNamePathTip = "The name can contain the full path to the destination folder which will be the project name rules still apply."
	ProjectNameExample = "example: foo/bar/my-new-project."
)

// ProjectName returns the project name for a destination path: its last element.
func ProjectName(path string) string {
	return filepath.Base(filepath.Clean(path))
}

// IsValidProjectName reports whether name contains only lowercase letters,
// digits and dashes.
func IsValidProjectName(name string) bool {
	return projectNameRegex.MatchString(name)
}

// ValidateProjectName derives the project name from path and validates it.
func ValidateProjectName(path string) (string, error) {
	name := ProjectName(path)
	if !IsValidProjectName(name) {
		return "", &oerrors.DetailError{
			Type:     "validation failed",
			Message:  ProjectNameRule,
			Location: path,
			Hint:     ProjectNamePathTip + "\n" + ProjectNameExample,
			Cause:    oerrors.ErrValidation,
		}
	}
	return name, nil
}

// IsValidTagName reports whether name is a valid custom element tag: at least
// two dash separated words of lowercase letters.
func IsValidTagName(name string) bool {
	return len(strings.Split(name, "-")) >= 2 && tagNameRegex.MatchString(name)
}

// ToPascalCase converts dash, underscore or space separated words to
// PascalCase. Characters other than letters, digits and separators are
// dropped. The first word keeps its inner casing; later words are lowercased
// after their first letter.
func ToPascalCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})

	var b strings.Builder
	for i, word := range words {
		word = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, word)
		if word == "" {
			continue
		}

		runes := []rune(word)
		b.WriteRune(unicode.ToUpper(runes[0]))
		rest := string(runes[1:])
		if i > 0 {
			rest = strings.ToLower(rest)
		}
		b.WriteString(rest)
	}
	return b.String()
}
