// Command accountability runs the Trello reconciliation worker. It polls the
// tracked cards of every connected user on a fixed interval and reports which
// cards moved out of their recorded list. It never writes to Trello.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	sqliteadapter "github.com/ericfisherdev/meetinghub/internal/adapter/driven/sqlite"
	trelloadapter "github.com/ericfisherdev/meetinghub/internal/adapter/driven/trello"
	"github.com/ericfisherdev/meetinghub/internal/application"
	"github.com/ericfisherdev/meetinghub/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"db_path", cfg.DBPath,
		"check_interval", cfg.CheckInterval,
		"remote_timeout", cfg.RemoteTimeout,
		"trello_configured", cfg.HasTrelloCredentials(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	// The API server owns the schema; running migrations here too keeps the
	// worker usable standalone against a fresh database.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}

	userStore := sqliteadapter.NewUserRepo(db)
	cardStore := sqliteadapter.NewCardRepo(db)
	trelloCredStore := sqliteadapter.NewTrelloCredentialRepo(db, cfg.SecretKey)
	trelloFactory := trelloadapter.NewFactory(cfg.TrelloAPIKey, cfg.TrelloAPISecret)

	svc := application.NewAccountabilityService(
		trelloCredStore,
		userStore,
		cardStore,
		trelloFactory,
		cfg.CheckInterval,
		cfg.RemoteTimeout,
	)

	slog.Info("accountability worker started", "interval", cfg.CheckInterval)
	svc.Start(ctx)
	return nil
}
