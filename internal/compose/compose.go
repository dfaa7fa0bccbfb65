// internal/compose/compose.go
//
// Response Composer: the terminal stage of the edge pipeline.
//
// Context
// -------
// Handler resolves the per-request context (host classification, locale,
// session snapshot), asks the session router for its one Decision, and
// translates that Decision into HTTP:
//
//   • PassThrough      – forward to the application handler unchanged.
//   • Rewrite          – swap r.URL.Path for the internal tenant-scoped
//                        path, then forward; the visible URL is untouched.
//   • Redirect         – emit the status the router chose, setting the
//                        locale cookie when the decision establishes one.
//   • TenantNotFound   – a plain 404; redirecting an unknown tenant host
//                        anywhere on the same host would loop.
//
// The correlation id and security headers are applied by the middleware
// in this package, so every branch above carries them.
//
// Notes
// -----
//   • Pipeline stages run in strict order: classify, negotiate, session,
//     route, compose.  Each may short-circuit only through the Decision.
//   • Oxford commas, two spaces after periods.
package compose

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/databayt/edge/internal/host"
	"github.com/databayt/edge/internal/locale"
	"github.com/databayt/edge/internal/metrics"
	"github.com/databayt/edge/internal/requestid"
	"github.com/databayt/edge/internal/router"
	"github.com/databayt/edge/internal/session"
)

// Config carries the pipeline's request-time settings.
type Config struct {
	Platform         host.Platform
	SupportedLocales []string
	DefaultLocale    string
	// SecureCookies marks the locale cookie Secure; true in production.
	SecureCookies bool
}

// Handler is the edge pipeline.  next receives requests that survived
// routing (pass-through and rewrite decisions).
type Handler struct {
	cfg      Config
	sessions *session.Verifier
	router   *router.Router
	next     http.Handler
}

// NewHandler wires the pipeline stages together.
func NewHandler(cfg Config, sessions *session.Verifier, rt *router.Router, next http.Handler) *Handler {
	return &Handler{cfg: cfg, sessions: sessions, router: rt, next: next}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reqID := requestid.FromContext(r.Context())

	// Host Classifier.
	class := host.Classify(r.Host, h.cfg.Platform)

	// Locale Negotiator: a locale already in the path is authoritative;
	// otherwise the preference cookie or the platform default decides.
	var cookieLocale string
	if c, err := r.Cookie(locale.CookieName); err == nil {
		cookieLocale = c.Value
	}
	loc := locale.Negotiate(cookieLocale, h.cfg.SupportedLocales, h.cfg.DefaultLocale)
	pathLoc, pathNoLocale, localeInPath := locale.Split(r.URL.Path, h.cfg.SupportedLocales)
	if localeInPath {
		loc = pathLoc
	}

	// Session Router.
	dec := h.router.Route(r.Context(), router.Input{
		Class:        class,
		Session:      h.sessions.FromRequest(r),
		Locale:       loc,
		LocaleInPath: localeInPath,
		Path:         r.URL.Path,
		PathNoLocale: pathNoLocale,
		RawQuery:     r.URL.RawQuery,
		RequestID:    reqID,
	})
	metrics.RoutingDecisionsTotal.WithLabelValues(dec.Kind.String()).Inc()

	zap.S().Debugw("routing decision",
		"request_id", reqID,
		"host", r.Host,
		"host_kind", class.Kind.String(),
		"slug", class.Slug,
		"path", r.URL.Path,
		"locale", loc,
		"decision", dec.Kind.String(),
	)

	switch dec.Kind {
	case router.Rewrite:
		r.URL.Path = dec.Path
		r.RequestURI = r.URL.RequestURI()
		h.next.ServeHTTP(w, r)
	case router.Redirect:
		if dec.SetLocale != "" {
			http.SetCookie(w, locale.PreferenceCookie(dec.SetLocale, h.cfg.SecureCookies))
		}
		http.Redirect(w, r, dec.Location, dec.Status)
	case router.TenantNotFound:
		http.Error(w, "tenant not found", http.StatusNotFound)
	default:
		h.next.ServeHTTP(w, r)
	}
}

//
// access log
//

// statusRecorder captures the status code for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// AccessLog emits one structured INFO line per request.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		zap.S().Infow("request",
			"request_id", requestid.FromContext(r.Context()),
			"method", r.Method,
			"host", r.Host,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
