package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	grpchandler "github.com/ogurasousui/hrsync/internal/adapters/grpc/handler"
	httphandler "github.com/ogurasousui/hrsync/internal/adapters/http/handler"
	"github.com/ogurasousui/hrsync/internal/adapters/proxy"
	"github.com/ogurasousui/hrsync/internal/adapters/repository/postgres"
	"github.com/ogurasousui/hrsync/internal/adapters/sheets"
	"github.com/ogurasousui/hrsync/internal/core/cache"
	"github.com/ogurasousui/hrsync/internal/core/hrsync"
	"github.com/ogurasousui/hrsync/internal/core/kv"
	"github.com/ogurasousui/hrsync/internal/core/settings"
	"github.com/ogurasousui/hrsync/internal/platform/config"
	pg "github.com/ogurasousui/hrsync/internal/platform/db/postgres"
	"github.com/ogurasousui/hrsync/internal/platform/logging"
	"github.com/ogurasousui/hrsync/internal/platform/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("skip .env: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	out := logging.NewOutput(cfg.Log, os.Stderr)
	defer out.Close()

	if err := run(ctx, cfg, out); err != nil {
		out.New("server").Fatalf("server stopped with error: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, out *logging.Output) error {
	logger := out.New("server")

	store, tx, closeStore, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	cfgStore := settings.NewStore(store)
	appStore := settings.NewAppStore(store)
	svc := hrsync.NewService(
		cfgStore,
		cache.New(store, tx, out.New("cache")),
		sheets.NewReader(cfg.Sheets.ReadEndpoint, cfg.Sheets.RequestTimeout),
		proxy.NewTimeoutWriter(cfg.Proxy.RequestTimeout, out.New("proxy")),
		hrsync.WithLogger(out.New("hrsync")),
	)
	snapshot := hrsync.NewSnapshot(svc)

	grpcServer := server.New(cfg.Server.ListenAddr, grpchandler.NewHRSyncGrpcHandler(svc, snapshot, cfgStore, appStore))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Printf("gRPC server listening on %s", cfg.Server.ListenAddr)
		return grpcServer.Run(gctx)
	})

	if cfg.Server.HTTPAddr != "" {
		router := httphandler.NewRouter(httphandler.NewHRSyncHTTPHandler(svc, snapshot, cfgStore, appStore), out.New("http"))
		httpServer := server.NewHTTP(cfg.Server.HTTPAddr, router)
		g.Go(func() error {
			logger.Printf("HTTP server listening on %s", cfg.Server.HTTPAddr)
			return httpServer.Run(gctx)
		})
	}

	g.Go(func() error {
		result := snapshot.Refresh(gctx)
		logger.Printf("initial sync: %d employee(s), %d attendance record(s)", len(result.Employees), len(result.Attendance))
		return nil
	})

	return g.Wait()
}

func openStorage(ctx context.Context, cfg *config.Config) (kv.Store, cache.TransactionManager, func(), error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendMemory:
		return kv.NewMemoryStore(), nil, func() {}, nil
	case config.StorageBackendPostgres:
		pool, err := pg.Open(ctx, cfg.Database)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		return postgres.NewKVStore(pool), pg.NewTxManager(pool), pool.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
}
