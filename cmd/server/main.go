// Command server runs the academic record-keeping API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vida-academica/backend/auth"
	"github.com/vida-academica/backend/auth/ledger"
	"github.com/vida-academica/backend/auth/password"
	"github.com/vida-academica/backend/auth/token"
	"github.com/vida-academica/backend/config"
	"github.com/vida-academica/backend/database"
	"github.com/vida-academica/backend/logger"
	"github.com/vida-academica/backend/observability"
	"github.com/vida-academica/backend/server"
	"github.com/vida-academica/backend/server/handlers"
	"github.com/vida-academica/backend/server/middleware"
	"github.com/vida-academica/backend/store"
)

func main() {
	if err := run(); err != nil {
		logger.Error("Service failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadApp()
	if err != nil {
		return err
	}

	log := logger.New(&cfg.Logging, cfg.Base.Name)
	logger.SetGlobalLogger(log)
	log.Info("Starting service", map[string]interface{}{
		"environment": cfg.Base.Environment,
		"version":     cfg.Base.Version,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		models := append(store.Models(), &ledger.Record{})
		if err := db.AutoMigrate(models...); err != nil {
			return err
		}
	}

	var metrics *observability.AuthMetrics
	if cfg.Metrics.Enabled {
		provider, meterErr := observability.InitMeter(ctx, cfg.Metrics)
		if meterErr != nil {
			return meterErr
		}
		defer func() { _ = provider.Shutdown(context.Background()) }()

		metrics, meterErr = observability.NewAuthMetrics()
		if meterErr != nil {
			return meterErr
		}
	}

	codec, err := token.NewCodec(cfg.Auth.Token)
	if err != nil {
		return err
	}
	hasher := password.NewHasher(cfg.Auth.Password)
	tokenLedger := ledger.NewGormLedger(db.GormDB, cfg.Auth.Token.RefreshTokenTTL)
	credentials := store.NewCredentialStore(db.GormDB)

	authOpts := []auth.AuthenticatorOption{}
	if metrics != nil {
		authOpts = append(authOpts, auth.WithAuthMetrics(metrics))
	}
	if cfg.Auth.RevokeChainOnReplay {
		authOpts = append(authOpts, auth.WithReplayRevocation())
	}
	authenticator := auth.NewAuthenticator(credentials, hasher, codec, tokenLedger, log, authOpts...)
	guard := auth.NewGuard(codec, credentials)

	repo := store.New(db.GormDB)

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()

	registry := &handlers.Registry{
		Auth:        handlers.NewAuthHandler(authenticator),
		Usuarios:    handlers.NewUsuarioHandler(repo, hasher, authenticator),
		Records:     handlers.NewRecordHandler(repo, guard),
		Catalog:     handlers.NewCatalogHandler(repo),
		Health:      handlers.Health(cfg.Base.Name, db),
		RequireAuth: middleware.RequireAuth(guard),
	}
	registry.Register(srv.GinEngine())

	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("Shutdown signal received")
	return srv.Stop(context.Background())
}
