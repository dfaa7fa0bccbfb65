// internal/router/router.go
//
// Session router: the routing decision table.
//
// Context
// -------
// Given the host classification, the negotiated locale, and the session
// snapshot, Route walks an ordered rule list and returns exactly one
// Decision.  First match wins, and the order is load-bearing: a new rule
// must be placed consciously, not appended, or it will shadow or be
// shadowed.
//
// The tenant-directory lookup is the only fallible, latency-bearing step.
// Every call site declares its fallback (marketing home or onboarding), so
// a directory outage degrades to a known-safe page and never surfaces an
// error to the client.  One pass produces at most one redirect; a caller
// that follows it re-enters the pipeline as a fresh request.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.
package router

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/databayt/edge/internal/directory"
	"github.com/databayt/edge/internal/host"
	"github.com/databayt/edge/internal/locale"
	"github.com/databayt/edge/internal/session"
)

// CallbackParam carries the post-login destination on login redirects.
const CallbackParam = "callbackUrl"

// Config holds the host names the router builds absolute redirect targets
// from.
type Config struct {
	Scheme        string // https in production, http in local dev
	MarketingHost string // me.databayt.org
	RootDomain    string // databayt.org
	DefaultLocale string
}

// Input is the per-request view the composer hands to Route.  All fields
// are resolved before routing starts; Route mutates none of them.
type Input struct {
	Class        host.Classification
	Session      session.State
	Locale       string // resolved locale, immutable from here on
	LocaleInPath bool
	Path         string // original path, including locale prefix if present
	PathNoLocale string // path with locale prefix stripped, leading "/"
	RawQuery     string
	RequestID    string
}

// Router evaluates the decision table.  Stateless; safe for concurrent
// use.
type Router struct {
	dir directory.Directory
	cfg Config
}

// New returns a Router over the given tenant directory.
func New(dir directory.Directory, cfg Config) *Router {
	if cfg.Scheme == "" {
		cfg.Scheme = "https"
	}
	return &Router{dir: dir, cfg: cfg}
}

// Route reduces the request to a single Decision.  Rules are evaluated in
// order; each comment names the rule it implements.
func (rt *Router) Route(ctx context.Context, in Input) Decision {
	class := ClassifyRoute(in.PathNoLocale)

	// 1. Legacy host migration: permanent redirect to the canonical
	// marketing host, same path and query.
	if in.Class.Kind == host.LegacyMarketing {
		target := rt.cfg.Scheme + "://" + rt.cfg.MarketingHost + in.Path + appendQuery(in.RawQuery)
		return redirectTo(target, http.StatusMovedPermanently)
	}

	// 2. Assets and framework-internal paths bypass every later rule.
	if class == ClassAsset {
		return passThrough()
	}

	// 3. Auth route while unauthenticated: only the locale prefix may
	// still be missing.
	if class == ClassAuthRoute && !in.Session.Authenticated {
		if !in.LocaleInPath {
			return rt.addLocalePrefix(in)
		}
		return passThrough()
	}

	// 4. Protected or operator-only route while unauthenticated: to login,
	// preserving the original destination.
	if (class == ClassProtected || class == ClassOperatorOnly) && !in.Session.Authenticated {
		cb := in.Path + appendQuery(in.RawQuery)
		target := locale.Prefix(in.Locale, LoginPath) +
			"?" + CallbackParam + "=" + url.QueryEscape(cb)
		return redirectTo(target, http.StatusFound)
	}

	// 5. Operator-only route by an authenticated non-operator: send the
	// user where they belong instead of a 403 dead end.
	if class == ClassOperatorOnly && !in.Session.Role.IsOperator() {
		if in.Session.TenantID == "" {
			return redirectTo(locale.Prefix(in.Locale, OnboardingPath), http.StatusFound)
		}
		return rt.tenantDashboard(ctx, in)
	}

	// 6. Protected route, authenticated, no tenant yet, non-operator, and
	// not already inside onboarding: finish onboarding first.
	if class == ClassProtected && in.Session.TenantID == "" && !in.Session.Role.IsOperator() &&
		!strings.HasPrefix(in.PathNoLocale, OnboardingPath) {
		return redirectTo(locale.Prefix(in.Locale, OnboardingPath), http.StatusFound)
	}

	// 7. Auth route while already authenticated: honour an explicit
	// destination, else branch on role and tenant binding.
	if class == ClassAuthRoute && in.Session.Authenticated {
		if cb := callbackDestination(in.RawQuery); cb != "" {
			return redirectTo(cb, http.StatusFound)
		}
		switch {
		case in.Session.Role.IsOperator():
			return redirectTo(locale.Prefix(in.Locale, OperatorPath), http.StatusFound)
		case in.Session.TenantID == "":
			return redirectTo(locale.Prefix(in.Locale, OnboardingPath), http.StatusFound)
		default:
			return rt.tenantDashboard(ctx, in)
		}
	}

	// 8. Tenant-scoped host: verify the slug against the directory, then
	// rewrite into the tenant namespace.  An unknown slug is terminal;
	// redirecting it anywhere on the same host would loop.
	if in.Class.HasSlug() {
		if !in.LocaleInPath {
			return rt.addLocalePrefix(in)
		}
		rec, err := rt.dir.BySlug(ctx, in.Class.Slug)
		if err != nil {
			if errors.Is(err, directory.ErrNotFound) {
				return Decision{Kind: TenantNotFound}
			}
			zap.S().Errorw("tenant lookup failed, falling back to marketing home",
				"request_id", in.RequestID, "slug", in.Class.Slug, "err", err)
			return redirectTo(rt.marketingHome(in.Locale), http.StatusFound)
		}
		return rewriteTo("/" + in.Locale + "/s/" + rec.CanonicalSlug + in.PathNoLocale)
	}

	// 9. Default: marketing and unrecognized hosts pass through once the
	// locale prefix is in place.
	if !in.LocaleInPath {
		return rt.addLocalePrefix(in)
	}
	return passThrough()
}

//
// helpers
//

// addLocalePrefix redirects to the same path with the negotiated locale
// prepended, persisting the choice in the preference cookie.  307 keeps
// the method for non-GET requests to unprefixed paths.
func (rt *Router) addLocalePrefix(in Input) Decision {
	d := redirectTo(locale.Prefix(in.Locale, in.PathNoLocale)+appendQuery(in.RawQuery),
		http.StatusTemporaryRedirect)
	d.SetLocale = in.Locale
	return d
}

// tenantDashboard resolves the session's tenant binding and redirects to
// that tenant's subdomain dashboard.  Lookup failure falls back to the
// marketing home; a record without a canonical slug falls back to
// onboarding (the binding exists but provisioning has not finished).
func (rt *Router) tenantDashboard(ctx context.Context, in Input) Decision {
	rec, err := rt.dir.ByID(ctx, in.Session.TenantID)
	if err != nil {
		zap.S().Errorw("tenant lookup failed, falling back to marketing home",
			"request_id", in.RequestID, "tenant_id", in.Session.TenantID, "err", err)
		return redirectTo(rt.marketingHome(in.Locale), http.StatusFound)
	}
	if rec.CanonicalSlug == "" {
		return redirectTo(locale.Prefix(in.Locale, OnboardingPath), http.StatusFound)
	}
	target := rt.cfg.Scheme + "://" + rec.CanonicalSlug + "." + rt.cfg.RootDomain +
		locale.Prefix(in.Locale, DashboardPath)
	return redirectTo(target, http.StatusFound)
}

// marketingHome is the declared fallback for directory failures.
func (rt *Router) marketingHome(loc string) string {
	return rt.cfg.Scheme + "://" + rt.cfg.MarketingHost + "/" + loc
}

// callbackDestination extracts a safe post-login destination from the
// query.  Only relative paths are honoured; anything else would be an
// open redirect.
func callbackDestination(rawQuery string) string {
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return ""
	}
	cb := q.Get(CallbackParam)
	if cb == "" || cb[0] != '/' || strings.HasPrefix(cb, "//") {
		return ""
	}
	return cb
}

func appendQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	return "?" + rawQuery
}
