package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	emailPkg "idcard/internal/adapters/email"
	web "idcard/internal/adapters/http"
	"idcard/internal/adapters/http/perf"
	"idcard/internal/adapters/render"
	"idcard/internal/adapters/storage"
	accountStore "idcard/internal/adapters/storage/account"
	auditStorePkg "idcard/internal/adapters/storage/audit"
	profileStore "idcard/internal/adapters/storage/profile"
	"idcard/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("IDCARD_DB", "idcard.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	audStore := auditStorePkg.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore: acctStore,
		ProfileStore: profileStore.NewSQLiteStore(timedDB),
		AuditStore:   audStore,
	}

	// Audit retention: drop events past the configured age once a day.
	retentionDays := 365
	if v := os.Getenv("IDCARD_AUDIT_RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			retentionDays = n
		}
	}
	go func() {
		for {
			cutoff := time.Now().AddDate(0, 0, -retentionDays)
			if purged, err := audStore.Purge(context.Background(), cutoff); err != nil {
				slog.Error("audit_purge_failed", "error", err)
			} else if purged > 0 {
				slog.Info("audit_purged", "events", purged, "retention_days", retentionDays)
			}
			time.Sleep(24 * time.Hour)
		}
	}()

	// Seed default admin account if no accounts exist
	adminEmail := envOrDefault("IDCARD_ADMIN_EMAIL", "admin@diocese.org")
	adminPassword := envOrDefault("IDCARD_ADMIN_PASSWORD", "change me on first login")
	seedDeps := orchestrators.CreateAccountDeps{AccountStore: acctStore}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Card assets: backgrounds and fonts. Export endpoints degrade when
	// the directory is missing; the rest of the app still works.
	assetsDir := envOrDefault("IDCARD_ASSETS_DIR", "assets")
	assets, err := render.LoadAssets(assetsDir)
	if err != nil {
		log.Printf("WARNING: card assets failed to load from %s: %v — cards render with fallbacks", assetsDir, err)
		assets, _ = render.LoadAssets("")
	}
	web.SetRenderer(render.NewRenderer(assets))

	// Configure email sender
	resendKey := os.Getenv("IDCARD_RESEND_KEY")
	emailFrom := envOrDefault("IDCARD_RESEND_FROM", "ID Card Admin <noreply@diocese.org>")
	emailReply := envOrDefault("IDCARD_REPLY_TO", "admin@diocese.org")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom, emailReply)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, emailReply)
		if os.Getenv("IDCARD_ENV") == "production" {
			log.Println("WARNING: IDCARD_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set IDCARD_RESEND_KEY for real delivery)")
		}
	}

	// Create HTTP handler with middleware (pass collector for timing)
	mux := web.NewMux("static", stores, collector)

	// Start server
	addr := envOrDefault("IDCARD_ADDR", ":8080")
	log.Printf("ID card admin %s starting on %s (env=%s)", version, addr, envOrDefault("IDCARD_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
