// @title Denti Directory API
// @version 1.0
// @description Directorio de clínicas dentales y blog.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"denti-directory/internal/adapters/revocation"
	pg "denti-directory/internal/adapters/storage/postgres"
	"denti-directory/internal/config"
	"denti-directory/internal/geocoding"
	"denti-directory/internal/platform/logger"
	"denti-directory/internal/ports/auth"
	"denti-directory/internal/router"

	"github.com/jmoiron/sqlx"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logger.NewFromEnv().Error("server stopped", map[string]any{"err": err})
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sqlx.DB
	if cfg.DBDSN != "" {
		db, err = pg.Open(cfg.DBDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := pg.Migrate(ctx, db); err != nil {
			return err
		}
		log.Info("using postgres storage", nil)
	} else {
		log.Warn("DB_DSN not set, using in-memory storage", nil)
	}

	var revocations auth.RevocationStore
	if cfg.RedisAddr != "" {
		client, err := revocation.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer client.Close()
		revocations = revocation.NewRedis(client)
		log.Info("using redis token revocation", map[string]any{"addr": cfg.RedisAddr})
	}

	var geo geocoding.Geocoder = geocoding.Static{}
	if cfg.Geocoder == "nominatim" {
		n, err := geocoding.NewNominatim(cfg.NominatimURL, cfg.AppName, 5*time.Second)
		if err != nil {
			return err
		}
		geo = n
	}

	if cfg.DevAuth {
		log.Warn("DEV_AUTH enabled: API trusts X-Debug-User-ID", nil)
	}

	h, closeSessions, err := router.NewRouter(router.Options{
		Logger:       log,
		DB:           db,
		Revocations:  revocations,
		Geocoder:     geo,
		DevAuth:      cfg.DevAuth,
		JWTSecret:    []byte(cfg.JWTSecret),
		TokenTTL:     cfg.TokenTTL,
		SignInRate:   cfg.SignInRate,
		SignInBurst:  cfg.SignInBurst,
		SessionWait:  cfg.SessionResolveWait,
		SecureCookie: cfg.CookieSecure,
	})
	if err != nil {
		return err
	}
	defer closeSessions()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
