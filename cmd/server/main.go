package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"time"

	_ "modernc.org/sqlite"

	"diylab/internal/adapters/backend"
	web "diylab/internal/adapters/http"
	"diylab/internal/adapters/http/middleware"
	"diylab/internal/adapters/http/perf"
	"diylab/internal/adapters/storage"
	sessionStore "diylab/internal/adapters/storage/session"
	"diylab/internal/config"
	"diylab/internal/domain/submission"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	csrfKey := mustKey(cfg, cfg.CSRFKey, "DIYLAB_CSRF_KEY")
	sessionKey := mustKey(cfg, cfg.SessionKey, "DIYLAB_SESSION_KEY")

	// Session database with WAL mode, foreign keys, and busy timeout
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.MigrateDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	client := backend.New(cfg.BackendURL).WithCollector(collector)
	sessions := middleware.NewSessionManager(sessionStore.NewSQLiteStore(timedDB), sessionKey)
	deps := &web.Deps{
		Backend:  client,
		Sessions: sessions,
		Forms:    submission.NewRegistry(),
	}

	// Expired durable sessions and stale form machines are swept in the
	// background; reads already treat expired sessions as anonymous, this
	// keeps the table and the registry small.
	sweepStop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sessions.SweepExpired(context.Background())
				deps.Forms.SweepExpired(time.Now().Add(-submission.MaxAge))
			case <-sweepStop:
				return
			}
		}
	}()
	defer close(sweepStop)

	mux := web.NewMux(cfg.StaticDir, deps, collector, csrfKey, nil)

	slog.Info("gateway_start",
		"version", version,
		"addr", cfg.Addr,
		"env", cfg.Env,
		"backend", cfg.BackendURL,
		"schema", storage.LatestSchemaVersion())
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// mustKey decodes a configured signing key. Production requires one;
// development falls back to a random per-process key, which invalidates
// cookies on restart.
func mustKey(cfg config.Config, keyHex, name string) []byte {
	if keyHex == "" {
		if cfg.IsProduction() {
			log.Fatalf("%s is required in production", name)
		}
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			log.Fatalf("failed to generate %s: %v", name, err)
		}
		log.Printf("WARNING: %s is not set — using a random key, cookies reset on restart", name)
		return key
	}
	key, err := config.DecodeKey(keyHex)
	if err != nil {
		log.Fatalf("invalid %s: %v", name, err)
	}
	return key
}
