package guard

import (
	"net/http"
	"strings"
)

// Guard decides which request paths need the basic auth check
type Guard struct {
	// PathPrefix is stripped from the path before matching SkipPaths
	PathPrefix string
	// SkipPaths bypass authentication, matched exactly
	SkipPaths map[string]bool
}

// New creates a Guard. A prefix without a trailing slash gets one.
func New(prefix string, skipPaths []string) *Guard {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix = prefix + "/"
	}

	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}
	return &Guard{PathPrefix: prefix, SkipPaths: skip}
}

// RequestPath returns the request's own URL path, prefix stripped
func (g *Guard) RequestPath(r *http.Request) string {
	return g.normalize(r.URL.Path)
}

// ForwardedPath returns the path a forward-auth proxy asks about, passed in
// the "path" query parameter, falling back to the request path. Only the
// forward-auth endpoint may use it: the query is client controlled.
func (g *Guard) ForwardedPath(r *http.Request) string {
	if queryPath := r.URL.Query().Get("path"); queryPath != "" {
		return g.normalize(queryPath)
	}
	return g.RequestPath(r)
}

func (g *Guard) normalize(path string) string {
	// Strip any query parameters from the path
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}

	// If path prefix is configured, strip it for matching
	if g.PathPrefix != "" && strings.HasPrefix(path, g.PathPrefix) {
		path = strings.TrimPrefix(path, g.PathPrefix)
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
	}
	return path
}

// Protected reports whether a request for path must pass the check
func (g *Guard) Protected(path string) bool {
	return !g.SkipPaths[path]
}
