// internal/compose/https.go
//
// HTTPS-upgrade middleware.

package compose

import (
	"net/http"
	"strings"

	"github.com/databayt/edge/internal/host"
)

// ForceHTTPS wraps h.  If the request is plain HTTP and the host is a
// recognized platform host, the wrapper issues a 308 Permanent Redirect to
// the HTTPS version of the same URL.  Dev hosts and unrecognized hosts
// continue unchanged, so local work and health probes keep flowing.
func ForceHTTPS(p host.Platform, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Already HTTPS or local development → continue.
		if r.TLS != nil || strings.Contains(host.StripPort(r.Host), "localhost") {
			h.ServeHTTP(w, r)
			return
		}

		// Only upgrade hosts the classifier recognizes.
		if c := host.Classify(r.Host, p); c.Kind != host.Unrecognized && c.Kind != host.Dev {
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
			return
		}

		// Unknown host → keep normal flow.
		h.ServeHTTP(w, r)
	})
}
