// internal/locale/locale.go
//
// Locale negotiation and path-prefix helpers.
//
// Context
// -------
// The platform serves every page under a /{locale}/ prefix.  Negotiation is
// deliberately minimal: a persisted preference cookie wins when it names a
// supported locale, otherwise the fixed platform default applies.  There is
// no Accept-Language sniffing; first-time visitors always land on the
// default locale.  That is a product decision, not an omission.
//
// Requests whose path lacks a prefix are redirected once to the prefixed
// form, and the preference cookie is set on that response so the choice is
// stable on the next request.
//
// Notes
// -----
//   • Split guarantees the remainder keeps its leading slash, so joining
//     never produces a double prefix.
//   • Oxford commas, two spaces after periods.
package locale

import (
	"net/http"
	"strings"
	"time"
)

// CookieName is the locale-preference cookie shared with the application
// layer.
const CookieName = "locale"

// cookieMaxAge keeps the preference for one year.
const cookieMaxAge = int((365 * 24 * time.Hour) / time.Second)

// Negotiate returns the locale to serve: the cookie value when it names a
// supported locale, else the platform default.  It never fails.
func Negotiate(cookieLocale string, supported []string, def string) string {
	if cookieLocale != "" {
		for _, s := range supported {
			if cookieLocale == s {
				return cookieLocale
			}
		}
	}
	return def
}

// Split checks path for a leading /{locale}/ prefix matching one of the
// supported locales.  On a match it returns the locale and the remainder
// (always starting with "/"); ok is false when no prefix is present.
func Split(path string, supported []string) (loc, rest string, ok bool) {
	if len(path) < 2 || path[0] != '/' {
		return "", path, false
	}
	seg := path[1:]
	if i := strings.IndexByte(seg, '/'); i != -1 {
		seg = seg[:i]
	}
	for _, s := range supported {
		if seg == s {
			rest = path[1+len(seg):]
			if rest == "" {
				rest = "/"
			}
			return seg, rest, true
		}
	}
	return "", path, false
}

// Prefix joins a locale and a path that starts with "/".  The root path
// becomes "/{locale}" with no trailing slash.
func Prefix(loc, path string) string {
	if path == "/" || path == "" {
		return "/" + loc
	}
	return "/" + loc + path
}

// PreferenceCookie builds the one-year locale cookie.  Secure is set only
// in production builds; SameSite stays Lax so top-level navigations from
// the marketing host still carry it.
func PreferenceCookie(loc string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    loc,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
}
