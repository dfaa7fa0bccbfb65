// cmd/edge/main.go
//
// Edge router – HTTP entry point.
//
// Request life-cycle
// ------------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Load and validate the layered config; resolve `vault:` secrets.
//
//  4. Open the platform DB and log the active-tenant count.
//
//  5. Build the directory cache (read-through, idle-TTL + LRU evictor).
//
//  6. Assemble the pipeline: request id → security headers → request
//     enrichment → access log → classify/negotiate/route/compose, then
//     proxy survivors to the upstream origin.
//
//  7. Expose /metrics and /healthz beside the catch-all pipeline,
//     optionally wrap everything in ForceHTTPS, and serve with hardened
//     timeouts until SIGINT/SIGTERM triggers a graceful drain.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/databayt/edge/internal/compose"
	"github.com/databayt/edge/internal/config"
	"github.com/databayt/edge/internal/database"
	"github.com/databayt/edge/internal/directory"
	"github.com/databayt/edge/internal/host"
	"github.com/databayt/edge/internal/logger"
	"github.com/databayt/edge/internal/requestid"
	"github.com/databayt/edge/internal/requestinfo"
	"github.com/databayt/edge/internal/router"
	"github.com/databayt/edge/internal/server"
	"github.com/databayt/edge/internal/session"
	"github.com/databayt/edge/internal/vault"
)

const serverEnvPath = "/usr/local/etc/edge/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Config + logger ─────────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	//
	// ── 2.  Secret resolution (vault: URIs) ─────────────────────────────
	//
	var vc *vault.Client
	if os.Getenv("VAULT_ADDR") != "" {
		vc, err = vault.New(ctx, logOut.Infof)
		if err != nil {
			logOut.Fatalf("vault client: %v", err)
		}
	}

	signingKey, err := vault.MaybeResolve(ctx, vc, cfg.Session.SigningKey)
	if err != nil {
		logOut.Fatalf("resolve session signing key: %v", err)
	}
	dbPassword, err := vault.MaybeResolve(ctx, vc, cfg.Database.Password)
	if err != nil {
		logOut.Fatalf("resolve database password: %v", err)
	}

	//
	// ── 3.  Platform DB + tenant directory ──────────────────────────────
	//
	logOut.Info("connecting to platform DB …")
	db, err := database.Open(database.ExpandDSN(cfg.Database.DSN, dbPassword))
	if err != nil {
		logOut.Fatalf("connect platform DB: %v", err)
	}
	defer db.Close()
	logOut.Info("platform DB online")

	// Log active-tenant count as an early sanity check.
	var active int
	_ = db.Get(&active, `
	    SELECT COUNT(*) FROM tenant
	    WHERE suspended_at IS NULL AND deleted_at IS NULL`)
	logOut.Infof("%d active tenant(s) found", active)

	repo := directory.NewRepository(db)
	dir := directory.NewCache(repo, directory.DefaultTTL, directory.MaxEntries)
	defer dir.Close()

	//
	// ── 4.  Optional GeoIP enrichment ───────────────────────────────────
	//
	if cfg.GeoIP.DBPath != "" {
		if err := requestinfo.InitGeo(cfg.GeoIP.DBPath); err != nil {
			logOut.Warnf("geoip disabled: %v", err)
		}
	}

	//
	// ── 5.  Pipeline assembly ───────────────────────────────────────────
	//
	platform := host.Platform{
		MarketingHost:       cfg.Platform.MarketingHost,
		LegacyMarketingHost: cfg.Platform.LegacyMarketingHost,
		RootDomain:          cfg.Platform.RootDomain,
		PreviewSuffix:       cfg.Platform.PreviewSuffix,
	}

	scheme := "https"
	if !cfg.Platform.Production() {
		scheme = "http"
	}

	rt := router.New(dir, router.Config{
		Scheme:        scheme,
		MarketingHost: cfg.Platform.MarketingHost,
		RootDomain:    cfg.Platform.RootDomain,
		DefaultLocale: cfg.Locales.Default,
	})

	sessions := session.NewVerifier(cfg.Session.CookieName, signingKey)

	pipeline := compose.NewHandler(compose.Config{
		Platform:         platform,
		SupportedLocales: cfg.Locales.Supported,
		DefaultLocale:    cfg.Locales.Default,
		SecureCookies:    cfg.Platform.Production(),
	}, sessions, rt, upstream(cfg.HTTP.UpstreamURL, logOut.Errorf))

	//
	// ── 6.  Routes + middleware ─────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(requestid.Middleware, compose.Security, requestinfo.Enrich, compose.AccessLog)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := repo.Ping(req.Context()); err != nil {
			http.Error(w, "directory unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/*", pipeline)

	var root http.Handler = r
	if cfg.HTTP.ForceHTTPS {
		root = compose.ForceHTTPS(platform, root)
	}

	//
	// ── 7.  Serve until signalled ───────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, root)

	go func() {
		logOut.Infof("listening on %s", cfg.HTTP.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logOut.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logOut.Info("shutting down …")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logOut.Errorf("shutdown: %v", err)
	}
	logOut.Info("bye")
}

// upstream returns the origin handler that receives pass-through and
// rewritten requests.  With no origin configured the edge runs
// standalone, which only makes sense in local development.
func upstream(rawURL string, errFn func(string, ...any)) http.Handler {
	if rawURL == "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte("edge: no upstream configured\n"))
		})
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		log.Fatalf("parse upstream url: %v", err)
	}

	proxy := httputil.NewSingleHostReverseProxy(u)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		errFn("upstream proxy: %v", err)
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}
	return proxy
}
