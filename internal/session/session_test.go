// internal/session/session_test.go
//
// Unit-tests for session-token verification.
//
// Context
// -------
// Every failure mode must collapse to the unauthenticated zero State; the
// router has no error branch for sessions.
//
// Run: go test ./internal/session -v

package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testKey = "edge-test-signing-key"

// mint builds a signed token the way the identity provider does.
func mint(t *testing.T, key string, cl claims) string {
	t.Helper()
	if cl.ExpiresAt == nil {
		cl.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func request(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: token})
	}
	return r
}

func TestFromRequest_ValidToken(t *testing.T) {
	v := NewVerifier("", testKey)
	tok := mint(t, testKey, claims{
		Role:             "admin",
		TenantID:         "t-100",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u-42"},
	})

	st := v.FromRequest(request(tok))
	if !st.Authenticated {
		t.Fatal("expected authenticated state")
	}
	if st.UserID != "u-42" || st.Role != RoleAdmin || st.TenantID != "t-100" {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestFromRequest_DefaultsRoleToUser(t *testing.T) {
	v := NewVerifier("", testKey)
	tok := mint(t, testKey, claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1"}})

	st := v.FromRequest(request(tok))
	if st.Role != RoleUser {
		t.Fatalf("role = %q, want %q", st.Role, RoleUser)
	}
}

func TestFromRequest_Degrades(t *testing.T) {
	v := NewVerifier("", testKey)

	cases := []struct {
		name  string
		token string
	}{
		{"no cookie", ""},
		{"garbage token", "not-a-jwt"},
		{"wrong signing key", mint(t, "other-key", claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1"},
		})},
		{"expired token", mint(t, testKey, claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "u-1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		})},
		{"missing subject", mint(t, testKey, claims{Role: "user"})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := v.FromRequest(request(tc.token))
			if st != (State{}) {
				t.Fatalf("expected zero State, got %+v", st)
			}
		})
	}
}

func TestRoleIsOperator(t *testing.T) {
	if !RoleOperator.IsOperator() {
		t.Fatal("operator role must report operator")
	}
	for _, r := range []Role{RoleUser, RoleStaff, RoleAdmin} {
		if r.IsOperator() {
			t.Fatalf("role %q must not report operator", r)
		}
	}
}
