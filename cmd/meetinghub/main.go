package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	geminiadapter "github.com/ericfisherdev/meetinghub/internal/adapter/driven/gemini"
	jiraadapter "github.com/ericfisherdev/meetinghub/internal/adapter/driven/jira"
	mailadapter "github.com/ericfisherdev/meetinghub/internal/adapter/driven/mail"
	slackadapter "github.com/ericfisherdev/meetinghub/internal/adapter/driven/slack"
	sqliteadapter "github.com/ericfisherdev/meetinghub/internal/adapter/driven/sqlite"
	trelloadapter "github.com/ericfisherdev/meetinghub/internal/adapter/driven/trello"
	httphandler "github.com/ericfisherdev/meetinghub/internal/adapter/driving/http"
	"github.com/ericfisherdev/meetinghub/internal/application"
	"github.com/ericfisherdev/meetinghub/internal/config"
	"github.com/ericfisherdev/meetinghub/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on malformed env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"trello_configured", cfg.HasTrelloCredentials(),
		"smtp_configured", cfg.HasSMTPCredentials(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire stores.
	userStore := sqliteadapter.NewUserRepo(db)
	teamStore := sqliteadapter.NewTeamRepo(db)
	sessionStore := sqliteadapter.NewSessionRepo(db)
	cardStore := sqliteadapter.NewCardRepo(db)
	trelloCredStore := sqliteadapter.NewTrelloCredentialRepo(db, cfg.SecretKey)
	jiraCredStore := sqliteadapter.NewJiraCredentialRepo(db, cfg.SecretKey)

	// 6. Wire remote adapters. The Gemini analyzer is optional; without an
	// API key the analyze endpoint reports the feature as unconfigured.
	trelloFactory := trelloadapter.NewFactory(cfg.TrelloAPIKey, cfg.TrelloAPISecret)
	jiraFactory := jiraadapter.NewFactory()
	mailer := mailadapter.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SenderEmail)
	slackNotifier := slackadapter.NewNotifier()

	var analyzer driven.TranscriptAnalyzer
	if cfg.GeminiAPIKey != "" {
		a, err := geminiadapter.NewAnalyzer(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return err
		}
		analyzer = a
		slog.Info("gemini analyzer ready")
	} else {
		slog.Warn("MEETINGHUB_GEMINI_API_KEY not set, transcript analysis disabled")
	}

	// 7. Wire services.
	authSvc := application.NewAuthService(userStore, sessionStore, mailer)
	teamSvc := application.NewTeamService(teamStore, userStore)
	integrationSvc := application.NewIntegrationService(
		trelloCredStore, jiraCredStore, cardStore, teamStore,
		trelloFactory, jiraFactory, mailer,
	)
	analyzeSvc := application.NewAnalyzeService(
		analyzer, mailer, slackNotifier,
		trelloCredStore, jiraCredStore, cardStore, teamStore, userStore,
		trelloFactory, jiraFactory,
	)

	// 8. Expired-session sweeper.
	go sweepSessions(ctx, sessionStore)

	// 9. HTTP server.
	apiHandler := httphandler.NewHandler(authSvc, teamSvc, analyzeSvc, integrationSvc, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("meetinghub started", "listen_addr", cfg.ListenAddr)

	// 10. Wait for shutdown signal, then drain.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// sweepSessions deletes expired sessions hourly.
func sweepSessions(ctx context.Context, sessions driven.SessionStore) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.DeleteExpired(ctx)
			if err != nil {
				slog.Error("session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("expired sessions removed", "count", n)
			}
		}
	}
}
