// internal/host/classify.go
//
// Host Classifier.
//
// Context
// -------
// Every inbound request starts here: the raw Host header is parsed into one
// of six mutually exclusive classifications, extracting a tenant slug where
// applicable.  The platform serves four topologies from one binary:
//
//   • marketing host           – me.databayt.org (and the legacy ed. host),
//   • tenant subdomains        – {slug}.databayt.org,
//   • preview deployments      – {slug}---{branch}.vercel.app,
//   • local dev subdomains     – {slug}.localhost:3000.
//
// Classification is a pure string computation: it never touches the network,
// never errors, and degrades every malformed input to Unrecognized, which
// downstream treats like the marketing host (fail open, not closed).
//
// Notes
// -----
//   • Hosts are lower-cased and the :port suffix is stripped before any
//     comparison.
//   • Reserved labels (www, platform-internal names) still classify as
//     ordinary tenant slugs; reservation is a provisioning concern, and the
//     directory miss that follows is handled by the router.
//   • Oxford commas, two spaces after periods.
package host

import "strings"

// previewDelimiter separates the tenant slug from the branch label in
// preview-deployment host names, e.g. "acme---feature-x.vercel.app".
const previewDelimiter = "---"

//
// Classification
//

// Kind enumerates the host topologies the classifier can report.
type Kind int

const (
	// Unrecognized is the fail-open default; downstream treats it like
	// Marketing.
	Unrecognized Kind = iota
	// Marketing is the canonical non-tenant public host.
	Marketing
	// LegacyMarketing is the retired marketing host; the composer answers
	// it with a permanent redirect to the canonical host.
	LegacyMarketing
	// Tenant is a production subdomain of the root domain.
	Tenant
	// Preview is an ephemeral CI deployment host.
	Preview
	// Dev is a dotted localhost host used in local development.
	Dev
)

// String returns a short label for logging.
func (k Kind) String() string {
	switch k {
	case Marketing:
		return "marketing"
	case LegacyMarketing:
		return "legacy-marketing"
	case Tenant:
		return "tenant"
	case Preview:
		return "preview"
	case Dev:
		return "dev"
	default:
		return "unrecognized"
	}
}

// Classification is the classifier's result.  Slug is non-empty only for
// Tenant, Preview, and Dev kinds.
type Classification struct {
	Kind Kind
	Slug string
}

// HasSlug reports whether the host names a tenant.
func (c Classification) HasSlug() bool { return c.Slug != "" }

//
// Platform
//

// Platform carries the host-name configuration the classifier compares
// against.  All fields are plain host names without scheme or port.
type Platform struct {
	MarketingHost       string // me.databayt.org
	LegacyMarketingHost string // ed.databayt.org, optional
	RootDomain          string // databayt.org
	PreviewSuffix       string // .vercel.app, optional
}

//
// Classify
//

// Classify parses rawHost against the platform configuration.  It never
// returns an error; malformed or unmatched input yields Unrecognized.
func Classify(rawHost string, p Platform) Classification {
	h := strings.ToLower(StripPort(rawHost))
	root := strings.ToLower(StripPort(p.RootDomain))

	// Missing host or unset root domain: fail open.
	if h == "" || root == "" {
		return Classification{Kind: Unrecognized}
	}

	if h == strings.ToLower(StripPort(p.MarketingHost)) {
		return Classification{Kind: Marketing}
	}
	if legacy := strings.ToLower(StripPort(p.LegacyMarketingHost)); legacy != "" && h == legacy {
		return Classification{Kind: LegacyMarketing}
	}

	// Bare root domain carries no slug and serves marketing pages.
	if h == root {
		return Classification{Kind: Marketing}
	}

	// {slug}.{root} – the slug may span multiple labels (api.v2.databayt.org).
	if strings.HasSuffix(h, "."+root) {
		if slug := strings.TrimSuffix(h, "."+root); slug != "" {
			return Classification{Kind: Tenant, Slug: slug}
		}
		return Classification{Kind: Unrecognized}
	}

	// {slug}---{branch}{previewSuffix} – ephemeral preview deployments.
	if suffix := strings.ToLower(p.PreviewSuffix); suffix != "" && strings.HasSuffix(h, suffix) {
		if i := strings.Index(h, previewDelimiter); i > 0 {
			return Classification{Kind: Preview, Slug: h[:i]}
		}
	}

	// {slug}.localhost – local development convention.
	if strings.Contains(h, "localhost") {
		if i := strings.IndexByte(h, '.'); i > 0 {
			if prefix := h[:i]; prefix != "www" && prefix != "localhost" {
				return Classification{Kind: Dev, Slug: prefix}
			}
		}
	}

	return Classification{Kind: Unrecognized}
}

// StripPort removes the :port suffix from a host header when present.
func StripPort(h string) string {
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}
