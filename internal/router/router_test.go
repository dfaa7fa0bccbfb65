// internal/router/router_test.go
//
// Unit-tests for the session-router decision table.
//
// Context
// -------
// fakeDirectory stands in for the tenant directory so each rule can be
// exercised against found, not-found, and failing lookups without a
// database.  Inputs are built by a small helper that mirrors what the
// composer resolves per request.
//
// Run: go test ./internal/router -v

package router

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/databayt/edge/internal/directory"
	"github.com/databayt/edge/internal/host"
	"github.com/databayt/edge/internal/locale"
	"github.com/databayt/edge/internal/session"
)

var testPlatform = host.Platform{
	MarketingHost:       "me.databayt.org",
	LegacyMarketingHost: "ed.databayt.org",
	RootDomain:          "databayt.org",
	PreviewSuffix:       ".vercel.app",
}

var testConfig = Config{
	Scheme:        "https",
	MarketingHost: "me.databayt.org",
	RootDomain:    "databayt.org",
	DefaultLocale: "en",
}

var supported = []string{"en", "ar"}

type fakeDirectory struct {
	bySlug map[string]*directory.Record
	byID   map[string]*directory.Record
	err    error
}

func (f *fakeDirectory) BySlug(_ context.Context, slug string) (*directory.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	if rec, ok := f.bySlug[slug]; ok {
		return rec, nil
	}
	return nil, directory.ErrNotFound
}

func (f *fakeDirectory) ByID(_ context.Context, id string) (*directory.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	if rec, ok := f.byID[id]; ok {
		return rec, nil
	}
	return nil, directory.ErrNotFound
}

func demoDirectory() *fakeDirectory {
	rec := &directory.Record{ID: "t-100", CanonicalSlug: "demo"}
	return &fakeDirectory{
		bySlug: map[string]*directory.Record{"demo": rec},
		byID:   map[string]*directory.Record{"t-100": rec},
	}
}

// input resolves hostHeader and fullPath (with query) the way the composer
// does before calling Route.
func input(t *testing.T, hostHeader, fullPath string, sess session.State) Input {
	t.Helper()
	u, err := url.Parse(fullPath)
	if err != nil {
		t.Fatalf("parse %q: %v", fullPath, err)
	}
	loc := "en"
	pathLoc, rest, ok := locale.Split(u.Path, supported)
	if ok {
		loc = pathLoc
	}
	return Input{
		Class:        host.Classify(hostHeader, testPlatform),
		Session:      sess,
		Locale:       loc,
		LocaleInPath: ok,
		Path:         u.Path,
		PathNoLocale: rest,
		RawQuery:     u.RawQuery,
		RequestID:    "test-request",
	}
}

func route(t *testing.T, dir directory.Directory, hostHeader, fullPath string, sess session.State) Decision {
	t.Helper()
	return New(dir, testConfig).Route(context.Background(), input(t, hostHeader, fullPath, sess))
}

func wantRedirect(t *testing.T, d Decision, location string, status int) {
	t.Helper()
	if d.Kind != Redirect {
		t.Fatalf("kind = %v, want Redirect (decision %+v)", d.Kind, d)
	}
	if d.Location != location {
		t.Fatalf("location = %q, want %q", d.Location, location)
	}
	if d.Status != status {
		t.Fatalf("status = %d, want %d", d.Status, status)
	}
}

//
// Rule 1: legacy host migration
//

func TestRoute_LegacyHostPermanentRedirect(t *testing.T) {
	d := route(t, demoDirectory(), "ed.databayt.org", "/en/docs/pricing?ref=mail", session.State{})
	wantRedirect(t, d, "https://me.databayt.org/en/docs/pricing?ref=mail", http.StatusMovedPermanently)
}

//
// Rule 2: assets bypass everything
//

func TestRoute_AssetsPassThrough(t *testing.T) {
	for _, p := range []string{"/assets/app.css", "/static/logo.png", "/favicon.ico", "/_edge/ping"} {
		d := route(t, demoDirectory(), "demo.databayt.org", p, session.State{})
		if d.Kind != PassThrough {
			t.Fatalf("asset %q: kind = %v, want PassThrough", p, d.Kind)
		}
	}
}

//
// Rules 3 and 4: unauthenticated traffic
//

func TestRoute_AuthRouteUnauthenticated(t *testing.T) {
	d := route(t, demoDirectory(), "me.databayt.org", "/en/login", session.State{})
	if d.Kind != PassThrough {
		t.Fatalf("kind = %v, want PassThrough", d.Kind)
	}

	// Missing locale prefix still gets the one locale redirect.
	d = route(t, demoDirectory(), "me.databayt.org", "/login", session.State{})
	wantRedirect(t, d, "/en/login", http.StatusTemporaryRedirect)
	if d.SetLocale != "en" {
		t.Fatalf("SetLocale = %q, want en", d.SetLocale)
	}
}

func TestRoute_ProtectedUnauthenticatedToLogin(t *testing.T) {
	d := route(t, demoDirectory(), "demo.databayt.org", "/en/dashboard", session.State{})
	if d.Kind != Redirect || d.Status != http.StatusFound {
		t.Fatalf("decision = %+v, want 302 redirect", d)
	}
	u, err := url.Parse(d.Location)
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if u.Path != "/en/login" {
		t.Fatalf("path = %q, want /en/login", u.Path)
	}
	if cb := u.Query().Get(CallbackParam); cb != "/en/dashboard" {
		t.Fatalf("callbackUrl = %q, want /en/dashboard", cb)
	}
}

// The decoded callback must equal the original path+query byte-for-byte.
func TestRoute_CallbackPreservesQuery(t *testing.T) {
	d := route(t, demoDirectory(), "demo.databayt.org", "/en/dashboard/students?tab=grades&year=2026", session.State{})
	u, err := url.Parse(d.Location)
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	want := "/en/dashboard/students?tab=grades&year=2026"
	if cb := u.Query().Get(CallbackParam); cb != want {
		t.Fatalf("callbackUrl = %q, want %q", cb, want)
	}
}

func TestRoute_OperatorRouteUnauthenticatedToLogin(t *testing.T) {
	d := route(t, demoDirectory(), "me.databayt.org", "/en/operator", session.State{})
	u, err := url.Parse(d.Location)
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if u.Path != "/en/login" || u.Query().Get(CallbackParam) != "/en/operator" {
		t.Fatalf("unexpected redirect: %q", d.Location)
	}
}

//
// Rule 5: operator-only route by authenticated non-operator
//

func TestRoute_OperatorRouteNonOperator(t *testing.T) {
	noTenant := session.State{Authenticated: true, UserID: "u-1", Role: session.RoleUser}
	d := route(t, demoDirectory(), "me.databayt.org", "/en/operator", noTenant)
	wantRedirect(t, d, "/en/onboarding", http.StatusFound)

	bound := session.State{Authenticated: true, UserID: "u-1", Role: session.RoleAdmin, TenantID: "t-100"}
	d = route(t, demoDirectory(), "me.databayt.org", "/en/operator", bound)
	wantRedirect(t, d, "https://demo.databayt.org/en/dashboard", http.StatusFound)
}

//
// Rule 6: protected route without a tenant binding
//

func TestRoute_ProtectedNoTenantToOnboarding(t *testing.T) {
	sess := session.State{Authenticated: true, UserID: "u-1", Role: session.RoleUser}
	d := route(t, demoDirectory(), "me.databayt.org", "/en/dashboard", sess)
	wantRedirect(t, d, "/en/onboarding", http.StatusFound)
}

func TestRoute_OnboardingItselfDoesNotLoop(t *testing.T) {
	sess := session.State{Authenticated: true, UserID: "u-1", Role: session.RoleUser}
	d := route(t, demoDirectory(), "me.databayt.org", "/en/onboarding/school", sess)
	if d.Kind != PassThrough {
		t.Fatalf("kind = %v, want PassThrough (no redirect loop)", d.Kind)
	}
}

//
// Rule 7: auth route while already authenticated
//

func TestRoute_LoginAuthenticatedWithCallback(t *testing.T) {
	sess := session.State{Authenticated: true, UserID: "u-1", Role: session.RoleUser, TenantID: "t-100"}
	d := route(t, demoDirectory(), "me.databayt.org", "/en/login?callbackUrl=%2Fen%2Fdashboard%2Fstudents", sess)
	wantRedirect(t, d, "/en/dashboard/students", http.StatusFound)
}

func TestRoute_LoginAuthenticatedRejectsAbsoluteCallback(t *testing.T) {
	// An absolute or protocol-relative callback would be an open redirect;
	// the role branch must win instead.
	op := session.State{Authenticated: true, UserID: "u-1", Role: session.RoleOperator}
	for _, cb := range []string{"https%3A%2F%2Fevil.example", "%2F%2Fevil.example"} {
		d := route(t, demoDirectory(), "me.databayt.org", "/en/login?callbackUrl="+cb, op)
		wantRedirect(t, d, "/en/operator", http.StatusFound)
	}
}

func TestRoute_LoginAuthenticatedOperator(t *testing.T) {
	op := session.State{Authenticated: true, UserID: "u-1", Role: session.RoleOperator}
	d := route(t, demoDirectory(), "me.databayt.org", "/en/login", op)
	// Operators go to the operator dashboard, never onboarding.
	wantRedirect(t, d, "/en/operator", http.StatusFound)
}

func TestRoute_LoginAuthenticatedNoTenant(t *testing.T) {
	sess := session.State{Authenticated: true, UserID: "u-1", Role: session.RoleUser}
	d := route(t, demoDirectory(), "me.databayt.org", "/en/login", sess)
	wantRedirect(t, d, "/en/onboarding", http.StatusFound)
}

func TestRoute_LoginAuthenticatedWithTenant(t *testing.T) {
	sess := session.State{Authenticated: true, UserID: "u-1", Role: session.RoleUser, TenantID: "t-100"}
	d := route(t, demoDirectory(), "me.databayt.org", "/en/login", sess)
	wantRedirect(t, d, "https://demo.databayt.org/en/dashboard", http.StatusFound)
}

func TestRoute_LoginTenantLookupFailureFallsBackHome(t *testing.T) {
	dir := demoDirectory()
	dir.err = errors.New("directory unavailable")
	sess := session.State{Authenticated: true, UserID: "u-1", Role: session.RoleUser, TenantID: "t-100"}
	d := route(t, dir, "me.databayt.org", "/en/login", sess)
	wantRedirect(t, d, "https://me.databayt.org/en", http.StatusFound)
}

func TestRoute_TenantWithoutCanonicalSlugToOnboarding(t *testing.T) {
	dir := demoDirectory()
	dir.byID["t-100"] = &directory.Record{ID: "t-100"} // provisioning unfinished
	sess := session.State{Authenticated: true, UserID: "u-1", Role: session.RoleUser, TenantID: "t-100"}
	d := route(t, dir, "me.databayt.org", "/en/login", sess)
	wantRedirect(t, d, "/en/onboarding", http.StatusFound)
}

//
// Rule 8: tenant-scoped hosts
//

func TestRoute_TenantHostRewrite(t *testing.T) {
	d := route(t, demoDirectory(), "demo.databayt.org", "/en/docs", session.State{})
	if d.Kind != Rewrite {
		t.Fatalf("kind = %v, want Rewrite", d.Kind)
	}
	if d.Path != "/en/s/demo/docs" {
		t.Fatalf("path = %q, want /en/s/demo/docs", d.Path)
	}
}

func TestRoute_TenantHostRootRewrite(t *testing.T) {
	d := route(t, demoDirectory(), "demo.databayt.org", "/ar", session.State{})
	if d.Kind != Rewrite || d.Path != "/ar/s/demo/" {
		t.Fatalf("decision = %+v, want rewrite to /ar/s/demo/", d)
	}
}

func TestRoute_PreviewHostRewritesToCanonicalSlug(t *testing.T) {
	d := route(t, demoDirectory(), "demo---feature-x.vercel.app", "/en/docs", session.State{})
	if d.Kind != Rewrite || d.Path != "/en/s/demo/docs" {
		t.Fatalf("decision = %+v", d)
	}
}

func TestRoute_TenantHostMissingLocale(t *testing.T) {
	d := route(t, demoDirectory(), "demo.databayt.org", "/docs?page=2", session.State{})
	wantRedirect(t, d, "/en/docs?page=2", http.StatusTemporaryRedirect)
	if d.SetLocale != "en" {
		t.Fatalf("SetLocale = %q, want en", d.SetLocale)
	}
}

func TestRoute_UnknownTenantIsTerminal(t *testing.T) {
	d := route(t, demoDirectory(), "ghost.databayt.org", "/en", session.State{})
	if d.Kind != TenantNotFound {
		t.Fatalf("kind = %v, want TenantNotFound", d.Kind)
	}
}

func TestRoute_TenantLookupFailureFallsBackHome(t *testing.T) {
	dir := demoDirectory()
	dir.err = errors.New("directory unavailable")
	d := route(t, dir, "demo.databayt.org", "/en/docs", session.State{})
	wantRedirect(t, d, "https://me.databayt.org/en", http.StatusFound)
}

//
// Rule 9: default
//

func TestRoute_MarketingRootLocaleRedirect(t *testing.T) {
	d := route(t, demoDirectory(), "me.databayt.org", "/", session.State{})
	wantRedirect(t, d, "/en", http.StatusTemporaryRedirect)
	if d.SetLocale != "en" {
		t.Fatalf("SetLocale = %q, want en", d.SetLocale)
	}
}

func TestRoute_MarketingPrefixedPassThrough(t *testing.T) {
	d := route(t, demoDirectory(), "me.databayt.org", "/ar/docs", session.State{})
	if d.Kind != PassThrough {
		t.Fatalf("kind = %v, want PassThrough", d.Kind)
	}
}

func TestRoute_UnrecognizedHostRoutesLikeMarketing(t *testing.T) {
	d := route(t, demoDirectory(), "example.com", "/en/docs", session.State{})
	if d.Kind != PassThrough {
		t.Fatalf("kind = %v, want PassThrough", d.Kind)
	}
}
