// internal/session/session.go
//
// Read-only session snapshot for the request pipeline.
//
// Context
// -------
// The identity provider issues an HS256-signed JWT in the session cookie
// with the user id, role, and current tenant binding as claims.  The edge
// router only *reads* that token: FromRequest verifies the signature and
// expiry locally and returns a State snapshot.  A missing, malformed, or
// expired token is not an error; it simply yields the well-formed
// unauthenticated State, so callers never branch on error.
//
// The router never issues or refreshes sessions.  That stays with the
// identity provider.
//
// Notes
// -----
//   • Verification is local, so the session fetch adds no network hop to
//     the hot path.
//   • Oxford commas, two spaces after periods.
package session

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// DefaultCookieName is the session-token cookie issued by the identity
// provider.
const DefaultCookieName = "session_token"

//
// Roles
//

// Role enumerates the platform roles the router cares about.  Staff-level
// roles beyond these exist in the identity provider but route identically
// to RoleUser here.
type Role string

const (
	RoleUser     Role = "user"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
)

// IsOperator reports whether the role carries platform-operator privileges.
func (r Role) IsOperator() bool { return r == RoleOperator }

//
// State
//

// State is the per-request snapshot consumed by the session router.  The
// zero value is the canonical unauthenticated state.
type State struct {
	Authenticated bool
	UserID        string
	Role          Role
	TenantID      string // empty until onboarding binds the user to a tenant
}

// claims is the token payload shape agreed with the identity provider.
type claims struct {
	Role     string `json:"role"`
	TenantID string `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

//
// Verifier
//

// Verifier checks session tokens against the shared signing key.  Safe for
// concurrent use; construct once at startup.
type Verifier struct {
	cookieName string
	key        []byte
	parser     *jwt.Parser
}

// NewVerifier returns a Verifier bound to cookieName and signingKey.  An
// empty cookieName falls back to DefaultCookieName.
func NewVerifier(cookieName, signingKey string) *Verifier {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Verifier{
		cookieName: cookieName,
		key:        []byte(signingKey),
		parser:     jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})),
	}
}

// FromRequest returns the session State for the request.  It never fails;
// any verification problem degrades to the unauthenticated State and is
// logged at DEBUG so token issues are diagnosable without leaking them to
// callers.
func (v *Verifier) FromRequest(r *http.Request) State {
	c, err := r.Cookie(v.cookieName)
	if err != nil || c.Value == "" {
		return State{}
	}

	var cl claims
	tok, err := v.parser.ParseWithClaims(c.Value, &cl, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil || !tok.Valid {
		zap.S().Debugw("session token rejected", "err", err)
		return State{}
	}
	if cl.Subject == "" {
		return State{}
	}

	role := Role(cl.Role)
	if role == "" {
		role = RoleUser
	}
	return State{
		Authenticated: true,
		UserID:        cl.Subject,
		Role:          role,
		TenantID:      cl.TenantID,
	}
}
