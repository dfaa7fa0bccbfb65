// internal/router/decision.go
//
// Routing decision type.
//
// Context
// -------
// The session router reduces every request to exactly one Decision.  The
// set is closed on purpose: the composer switches over Kind, and adding a
// variant is a deliberate, compile-visible change rather than a new branch
// buried in middleware.

package router

// Kind enumerates the terminal outcomes of the session router.
type Kind int

const (
	// PassThrough forwards the request to the application unchanged.
	PassThrough Kind = iota
	// Rewrite forwards the request under an internal tenant-scoped path
	// without changing the externally visible URL.
	Rewrite
	// Redirect answers with an HTTP redirect.
	Redirect
	// TenantNotFound marks a tenant host whose slug has no live directory
	// entry.  It is terminal; redirecting here would loop.
	TenantNotFound
)

// String returns the metrics label for the kind.
func (k Kind) String() string {
	switch k {
	case Rewrite:
		return "rewrite"
	case Redirect:
		return "redirect"
	case TenantNotFound:
		return "tenant_not_found"
	default:
		return "pass_through"
	}
}

// Decision is the single output of Route.  Only the fields matching Kind
// are meaningful.
type Decision struct {
	Kind     Kind
	Path     string // Rewrite: internal path
	Location string // Redirect: target URL
	Status   int    // Redirect: HTTP status
	// SetLocale names a locale to persist in the preference cookie on a
	// Redirect response; empty means no cookie.
	SetLocale string
}

func passThrough() Decision { return Decision{Kind: PassThrough} }

func rewriteTo(path string) Decision { return Decision{Kind: Rewrite, Path: path} }

func redirectTo(location string, status int) Decision {
	return Decision{Kind: Redirect, Location: location, Status: status}
}
