package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/desk/internal/config"
	"github.com/MrSnakeDoc/desk/internal/domain"
	"github.com/MrSnakeDoc/desk/internal/httpserver"
	"github.com/MrSnakeDoc/desk/internal/httpserver/deps"
	"github.com/MrSnakeDoc/desk/internal/logger"
	"github.com/MrSnakeDoc/desk/internal/redis"
	"github.com/MrSnakeDoc/desk/internal/scheduler"
	"github.com/MrSnakeDoc/desk/internal/store"
	"github.com/MrSnakeDoc/desk/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/desk/internal/store/redis"
	"github.com/MrSnakeDoc/desk/internal/store/sqlite"
	"github.com/MrSnakeDoc/desk/internal/utils"
	"github.com/MrSnakeDoc/desk/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	server   *httpserver.Server
	store    *store.Service
	reloader *scheduler.SeedReloader
	backups  *scheduler.BackupWriter
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Open the storage backend early - fail fast if unavailable
	repo, err := openRepository(context.Background(), cfg, loggerClient)
	if err != nil {
		return nil, err
	}
	loggerClient.Info("storage initialized", logger.String("backend", repo.Name()))

	// With a seed file the services come from the file, not from the built-in set.
	var opts []store.Option
	if cfg.SeedFile != "" {
		opts = append(opts, store.WithSeed(domain.Empty))
	} else {
		opts = append(opts, store.WithSeed(func() *domain.Configuration {
			return store.DefaultConfiguration(cfg.ViewportHeight)
		}))
	}
	configStore := store.NewService(repo, loggerClient, opts...)

	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		AllowedHosts:    cfg.AllowedHosts,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
		Store:           configStore,
	}

	a := &App{
		cfg:    cfg,
		logger: loggerClient,
		store:  configStore,
	}

	// Initialize seed reloader (if a services file is configured)
	if cfg.SeedFile != "" {
		loggerClient.Info("seed file configured, initializing seed reloader",
			logger.String("file", cfg.SeedFile))
		reloadTrigger := make(chan struct{}, 1)
		a.reloader = scheduler.NewSeedReloader(
			cfg.SeedFile,
			configStore,
			loggerClient,
			cfg.SeedInterval,
			cfg.ViewportHeight,
			reloadTrigger,
		)
		d.ReloadTrigger = reloadTrigger
		d.SeedStatus = a.reloader.Status
	}

	if cfg.BackupDir != "" {
		a.backups = scheduler.NewBackupWriter(configStore, cfg.BackupDir, cfg.BackupInterval, cfg.BackupKeep, loggerClient)
	}

	a.server = httpserver.New(cfg, loggerClient, d)
	return a, nil
}

// openRepository selects the backend named by DESK_STORE.
func openRepository(ctx context.Context, cfg *config.Config, log logger.Logger) (store.Repository, error) {
	switch cfg.Store {
	case config.StoreRedis:
		client, err := redis.Connect(ctx, redis.OptionsFromConfig(cfg), log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return redisstore.NewRepository(client), nil
	case config.StoreMemory:
		log.Warn("memory storage selected, the desktop is lost on restart")
		return memory.New(), nil
	default:
		repo, err := sqlite.Open(ctx, cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database in %s: %w", cfg.DataDir, err)
		}
		return repo, nil
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Desk v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Desk %s", version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer utils.CloseLogged(a.store, a.logger, "storage")

	// Start seed reloader (merges services and starts periodic refresh)
	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start seed reloader: %w", err)
		}
		a.logger.Info("seed reloader started",
			logger.Duration("interval", a.cfg.SeedInterval))
	}

	if a.backups != nil {
		if err := a.backups.Start(ctx); err != nil {
			return fmt.Errorf("failed to start backup writer: %w", err)
		}
		a.logger.Info("backup writer started",
			logger.Duration("interval", a.cfg.BackupInterval),
			logger.Int("keep", a.cfg.BackupKeep))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.reloader != nil {
		a.reloader.Stop()
	}
	if a.backups != nil {
		a.backups.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ Desk stopped cleanly")
	return nil
}
