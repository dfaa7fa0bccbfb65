// internal/router/routeclass_test.go
//
// Unit-tests for static route classification.
//
// Run: go test ./internal/router -v

package router

import "testing"

func TestClassifyRoute(t *testing.T) {
	cases := []struct {
		path string
		want Class
	}{
		{"/", ClassPublic},
		{"/docs/pricing", ClassPublic},
		{"/login", ClassAuthRoute},
		{"/login/reset", ClassAuthRoute},
		{"/join", ClassAuthRoute},
		{"/dashboard", ClassProtected},
		{"/dashboard/students", ClassProtected},
		{"/onboarding", ClassProtected},
		{"/settings/billing", ClassProtected},
		{"/profile", ClassProtected},
		{"/operator", ClassOperatorOnly},
		{"/operator/tenants", ClassOperatorOnly},
		{"/assets/app.css", ClassAsset},
		{"/static/logo.png", ClassAsset},
		{"/_edge/ping", ClassAsset},
		{"/favicon.ico", ClassAsset},
		{"/robots.txt", ClassAsset},
		{"/fonts/Inter.WOFF2", ClassAsset},
		// Sibling paths must not inherit a family's class.
		{"/dashboards", ClassPublic},
		{"/loginhelp", ClassPublic},
		{"/operators", ClassPublic},
		// Empty path behaves like root.
		{"", ClassPublic},
	}
	for _, tc := range cases {
		if got := ClassifyRoute(tc.path); got != tc.want {
			t.Fatalf("ClassifyRoute(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
