package foundation

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrInvalidPath is returned for route paths the generator cannot bind.
var ErrInvalidPath = errors.New("invalid route path")

// CatchAllParam is the parameter a bare "*" segment binds to.
const CatchAllParam = "wildcard"

// joinPath joins prefix, base path and route path into a rooted path. A
// trailing slash on a route path other than "/" is kept so "/docs/" stays
// distinct from "/docs".
func joinPath(prefix, basePath, routePath string) string {
	joined := path.Join("/", prefix, basePath, routePath)
	if len(routePath) > 1 && strings.HasSuffix(routePath, "/") && joined != "/" {
		joined += "/"
	}
	return joined
}

// canonicalPath rewrites the segments of p to {name} parameters and a final
// {name...} catch-all. It accepts ":name" and "*" as alternate spellings and
// returns the parameter names in order.
func canonicalPath(p string) (string, []string, error) {
	if p == "/" {
		return p, nil, nil
	}

	trailing := strings.HasSuffix(p, "/")
	segments := strings.Split(strings.Trim(p, "/"), "/")
	params := make([]string, 0)
	seen := make(map[string]bool)

	for i, seg := range segments {
		last := i == len(segments)-1
		name := ""
		catchAll := false

		switch {
		case seg == "":
			return "", nil, fmt.Errorf("%w: %q has an empty segment", ErrInvalidPath, p)
		case seg == "*":
			name, catchAll = CatchAllParam, true
		case strings.HasPrefix(seg, ":"):
			name = seg[1:]
		case strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "...}"):
			name, catchAll = seg[1:len(seg)-4], true
		case strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}"):
			name = seg[1 : len(seg)-1]
		case strings.ContainsAny(seg, "{}*"):
			return "", nil, fmt.Errorf("%w: %q has a malformed segment %q", ErrInvalidPath, p, seg)
		default:
			continue
		}

		if name == "" {
			return "", nil, fmt.Errorf("%w: %q has an unnamed parameter", ErrInvalidPath, p)
		}
		if catchAll && (!last || trailing) {
			return "", nil, fmt.Errorf("%w: catch-all in %q must be the last segment", ErrInvalidPath, p)
		}
		if seen[name] {
			return "", nil, fmt.Errorf("%w: %q repeats parameter %q", ErrInvalidPath, p, name)
		}
		seen[name] = true
		params = append(params, name)

		if catchAll {
			segments[i] = "{" + name + "...}"
		} else {
			segments[i] = "{" + name + "}"
		}
	}

	out := "/" + strings.Join(segments, "/")
	if trailing {
		out += "/"
	}
	return out, params, nil
}

// routeShape replaces parameter names so paths that match the same requests
// compare equal.
func routeShape(canonical string) string {
	segments := strings.Split(canonical, "/")
	for i, seg := range segments {
		switch {
		case strings.HasSuffix(seg, "...}"):
			segments[i] = "{...}"
		case strings.HasPrefix(seg, "{"):
			segments[i] = "{}"
		}
	}
	return strings.Join(segments, "/")
}
