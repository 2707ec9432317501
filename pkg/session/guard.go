package session

import (
	"context"
	"strings"
)

// HomePath is where authenticated users land when they open a public route.
const HomePath = "/"

// PublicRoutes are reachable without a session.
var PublicRoutes = []string{"/login", "/register", "/forgot-password"}

// IsPublic reports whether path needs no session.
func IsPublic(path string) bool {
	for _, p := range PublicRoutes {
		if p == path {
			return true
		}
	}
	return false
}

// Guard decides route access. It restores a persisted session first when
// anonymous, then returns the redirect target, or "" to allow the route.
func (s *Store) Guard(ctx context.Context, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = HomePath
	}
	if !s.IsAuthenticated() {
		s.CheckAuth(ctx)
	}
	authed := s.IsAuthenticated()
	public := IsPublic(path) || path == s.loginPath
	switch {
	case !public && !authed:
		return s.loginPath
	case public && authed:
		return HomePath
	default:
		return ""
	}
}
