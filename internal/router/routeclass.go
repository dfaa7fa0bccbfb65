// internal/router/routeclass.go
//
// Static route classification.
//
// Context
// -------
// Each request path (locale prefix already stripped) falls into one access
// class.  The classification is static configuration in code: the path
// families are part of the platform's URL contract, not per-tenant data,
// so a table here beats a database round-trip on every request.
//
// Asset paths are checked first and bypass the whole session router, so a
// missing stylesheet can never trigger a login redirect.

package router

import (
	"path"
	"strings"
)

// Class is the access class of a request path.
type Class int

const (
	// ClassPublic requires nothing.
	ClassPublic Class = iota
	// ClassAuthRoute is the login/registration family; authenticated
	// users are redirected away from it.
	ClassAuthRoute
	// ClassProtected requires an authenticated session.
	ClassProtected
	// ClassOperatorOnly additionally requires the platform-operator role.
	ClassOperatorOnly
	// ClassAsset is framework-internal or static content.
	ClassAsset
)

// Route-path families.  The application layer serves these under the
// locale prefix; classification sees them with the prefix stripped.
const (
	LoginPath      = "/login"
	JoinPath       = "/join"
	OnboardingPath = "/onboarding"
	OperatorPath   = "/operator"
	DashboardPath  = "/dashboard"
)

var protectedPrefixes = []string{
	DashboardPath,
	OnboardingPath,
	"/settings",
	"/profile",
}

var assetPrefixes = []string{
	"/assets/",
	"/static/",
	"/_edge/", // framework-internal
}

// Extensions served verbatim from the static layer.  Extension-less paths
// and .html stay in the routing pipeline.
var assetExtensions = map[string]struct{}{
	".css": {}, ".js": {}, ".map": {}, ".ico": {}, ".png": {}, ".jpg": {},
	".jpeg": {}, ".gif": {}, ".svg": {}, ".webp": {}, ".avif": {},
	".woff": {}, ".woff2": {}, ".ttf": {}, ".otf": {}, ".txt": {}, ".xml": {},
	".webmanifest": {},
}

// ClassifyRoute maps a locale-stripped path to its access class.  It is a
// pure function and never fails; unknown paths are public.
func ClassifyRoute(p string) Class {
	if p == "" {
		p = "/"
	}

	for _, pre := range assetPrefixes {
		if strings.HasPrefix(p, pre) {
			return ClassAsset
		}
	}
	if ext := path.Ext(p); ext != "" {
		if _, ok := assetExtensions[strings.ToLower(ext)]; ok {
			return ClassAsset
		}
	}

	if matchesFamily(p, LoginPath) || matchesFamily(p, JoinPath) {
		return ClassAuthRoute
	}
	if matchesFamily(p, OperatorPath) {
		return ClassOperatorOnly
	}
	for _, pre := range protectedPrefixes {
		if matchesFamily(p, pre) {
			return ClassProtected
		}
	}
	return ClassPublic
}

// matchesFamily reports whether p equals prefix or lives under it.  It
// will not match sibling paths that merely share the leading characters
// ("/dashboards" is not in the "/dashboard" family).
func matchesFamily(p, prefix string) bool {
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}
