package web

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"diylab/internal/adapters/backend"
	"diylab/internal/adapters/http/middleware"
	"diylab/internal/adapters/http/perf"
	"diylab/internal/application/orchestrators"
	"diylab/internal/domain/submission"
)

// Deps holds the wired dependencies of the HTTP layer.
type Deps struct {
	Backend  *backend.Client
	Sessions *middleware.SessionManager
	Forms    *submission.Registry
}

// Global deps instance (set by NewMux)
var deps *Deps

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 20

// adminVerifier adapts the verify-admin orchestrator to the gate's
// interface, folding its outcomes into the two redirect classes.
type adminVerifier struct {
	d *Deps
}

func (v adminVerifier) VerifyAdmin(ctx context.Context, token string) error {
	err := orchestrators.ExecuteVerifyAdmin(ctx, token, orchestrators.VerifyAdminDeps{
		Backend:  v.d.Backend,
		Sessions: v.d.Sessions,
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, orchestrators.ErrNotAdmin):
		return middleware.ErrVerifyForbidden
	default:
		// No session, a stale backend cookie, or an unreachable backend
		// all funnel to the admin login page.
		return middleware.ErrVerifyUnauthorized
	}
}

// NewMux wires HTTP handlers for the gateway.
func NewMux(staticDir string, d *Deps, collector *perf.Collector, csrfKey []byte, trustedOrigins []string) http.Handler {
	deps = d
	perfCollector = collector
	middleware.SecureCookies = os.Getenv("DIYLAB_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux, d)

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, trustedOrigins),
		middleware.Auth(d.Sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
