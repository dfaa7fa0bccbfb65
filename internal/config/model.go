// internal/config/model.go
//
// Typed configuration model for the edge router.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                        – dotenv values,
//   • `conf/edge.yaml`                      – primary static file,
//   • `EDGE_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client during boot, so the rest of the app only ever
// sees plain strings.
//
// Validation happens immediately after unmarshal; the binary fails fast
// on missing required fields.  The per-request path stays defensive
// regardless: an unset root domain classifies hosts as unrecognized
// instead of crashing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml`
//     tags unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.  UpstreamURL is the application origin
// that pass-through and rewritten requests are proxied to; empty runs the
// edge standalone with a stub origin (development only).
type HTTP struct {
	ListenAddr  string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS  bool   `koanf:"force_https"`
	UpstreamURL string `koanf:"upstream_url" validate:"omitempty,url"`
}

//
// Platform section
//

// Platform names the hosts and domains the classifier compares against.
// LegacyMarketingHost and PreviewSuffix are optional; empty disables the
// corresponding classification.
type Platform struct {
	MarketingHost       string   `koanf:"marketing_host" validate:"required,fqdn"`
	LegacyMarketingHost string   `koanf:"legacy_marketing_host"`
	RootDomain          string   `koanf:"root_domain" validate:"required,fqdn"`
	PreviewSuffix       string   `koanf:"preview_suffix"`
	ReservedLabels      []string `koanf:"reserved_labels"`
	// Env is "production" or "development"; it gates the Secure cookie
	// flag and the redirect scheme.
	Env string `koanf:"env" validate:"required,oneof=production development"`
}

// Production reports whether the platform runs in production mode.
func (p Platform) Production() bool { return p.Env == "production" }

//
// Locales section
//

// Locales is the fixed locale surface.  Default must appear in Supported.
type Locales struct {
	Supported []string `koanf:"supported" validate:"required,min=1"`
	Default   string   `koanf:"default"   validate:"required"`
}

//
// Database section
//

// Database holds the platform DSN.  The password may be a `vault:` URI
// resolved at boot, keeping credentials out of flat files and git
// history.
type Database struct {
	DSN      string `koanf:"dsn"      validate:"required"`
	Password string `koanf:"password"`
}

//
// Session section
//

// Session configures verification of the identity provider's tokens.
// SigningKey is typically a `vault:` URI.
type Session struct {
	CookieName string `koanf:"cookie_name"`
	SigningKey string `koanf:"signing_key" validate:"required"`
}

//
// GeoIP section (optional)
//

// GeoIP points at a MaxMind database; empty disables geolocation.
type GeoIP struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or EDGE_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // EDGE_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Platform Platform `koanf:"platform"`
	Locales  Locales  `koanf:"locales"`
	Database Database `koanf:"database"`
	Session  Session  `koanf:"session"`
	GeoIP    GeoIP    `koanf:"geoip"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
