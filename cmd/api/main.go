package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/httpapi"
	memaccountrepo "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/memory/accountrepo"
	memcatalog "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/memory/catalog"
	memsignalrepo "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/memory/signalrepo"
	memvehiclerepo "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/memory/vehiclerepo"
	postgres "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/postgres"
	pgaccountrepo "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/postgres/accountrepo"
	pgcatalog "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/postgres/catalog"
	pgsignalrepo "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/postgres/signalrepo"
	pgvehiclerepo "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/postgres/vehiclerepo"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/sqlite"
	sqliteaccountrepo "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/sqlite/accountrepo"
	sqlitecatalog "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/sqlite/catalog"
	sqlitesignalrepo "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/sqlite/signalrepo"
	sqlitevehiclerepo "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/sqlite/vehiclerepo"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/accounts"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/diagnostics"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/signals"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/vehicles"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/platform/auth/password"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/platform/auth/token"
	platformclock "github.com/Overland-East-Bay/traffic-manager-api/internal/platform/clock"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/platform/config"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/platform/logging"
	accountrepoport "github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/accountrepo"
	catalogport "github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/catalog"
	signalrepoport "github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/signalrepo"
	vehiclerepoport "github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/vehiclerepo"
)

type stores struct {
	accounts accountrepoport.Repository
	vehicles vehiclerepoport.Repository
	signals  signalrepoport.Repository
	catalog  catalogport.Catalog
	close    func()
}

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("invalid config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("api exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()
	logger.Info("store ready", slog.String("backend", cfg.StorageBackend))

	tokens, err := token.NewWithOptions(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, platformclock.NewSystemClock())
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}
	hasher := password.NewHasher(cfg.Auth.BcryptCost)

	accountSvc := accounts.NewService(st.accounts, hasher, tokens)
	api := httpapi.NewServer(
		accountSvc,
		vehicles.NewService(st.accounts, st.vehicles, hasher),
		signals.NewService(st.signals),
		diagnostics.NewService(st.catalog),
		logger,
	)
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		AuthMiddleware: httpapi.NewAuthMiddleware(tokens),
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database.DSN(), postgres.PoolOptions{
			MaxConns:       cfg.Database.MaxConns,
			ConnectTimeout: cfg.Database.ConnectTimeout,
		})
		if err != nil {
			return stores{}, fmt.Errorf("open postgres: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return stores{}, fmt.Errorf("postgres schema: %w", err)
		}
		return stores{
			accounts: pgaccountrepo.NewRepo(pool),
			vehicles: pgvehiclerepo.NewRepo(pool),
			signals:  pgsignalrepo.NewRepo(pool),
			catalog:  pgcatalog.New(pool),
			close:    pool.Close,
		}, nil
	case config.StorageSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return stores{}, fmt.Errorf("open sqlite: %w", err)
		}
		return stores{
			accounts: sqliteaccountrepo.NewRepo(db),
			vehicles: sqlitevehiclerepo.NewRepo(db),
			signals:  sqlitesignalrepo.NewRepo(db),
			catalog:  sqlitecatalog.New(db),
			close:    func() { _ = db.Close() },
		}, nil
	default:
		accts := memaccountrepo.NewRepo()
		return stores{
			accounts: accts,
			vehicles: memvehiclerepo.NewRepo(accts),
			signals:  memsignalrepo.NewRepo(),
			catalog:  memcatalog.New(),
			close:    func() {},
		}, nil
	}
}
