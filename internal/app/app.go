package app

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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/gospec/internal/config"
	"github.com/simp-lee/gospec/internal/domain"
	"github.com/simp-lee/gospec/internal/middleware"
	"github.com/simp-lee/gospec/internal/module/contact"
	"github.com/simp-lee/gospec/internal/querycache"
)

// defaultShutdownTimeout bounds graceful shutdown when server.timeout is unset.
const defaultShutdownTimeout = 5 * time.Second

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine *gin.Engine
	db     *gorm.DB
	redis  *redis.Client
	memory *querycache.MemoryStore
	logger *logger.Logger
	cfg    *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New creates and wires a fully configured App from the given Config.
//
// It sets up logging, the database, the optional result cache, the entity
// modules, middleware and routes.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}

	success := false

	// 1. Setup logger.
	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	// 2. Setup database.
	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if success {
			return
		}
		closeDatabase(db, log.Logger)
	}()

	// 3. AutoMigrate in debug mode only.
	if cfg.Server.Mode == gin.DebugMode {
		if err := db.AutoMigrate(&domain.Company{}, &domain.Contact{}, &domain.Note{}); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		log.Info("auto migration completed")
	}

	// 4. Result cache, when enabled: redis when an address is set, in-memory
	// otherwise.
	deps := contact.Deps{DB: db, Logger: log.Logger}
	var (
		rdb *redis.Client
		mem *querycache.MemoryStore
	)
	switch {
	case cfg.Cache.Enabled && cfg.Cache.Redis.Addr != "":
		rdb, err = config.SetupRedis(context.Background(), &cfg.Cache.Redis, log.Logger)
		if err != nil {
			return nil, fmt.Errorf("setup redis: %w", err)
		}
		defer func() {
			if success {
				return
			}
			_ = rdb.Close()
		}()
		deps.Cache = querycache.NewRedisStore(rdb)
	case cfg.Cache.Enabled:
		mem = querycache.NewMemoryStore(cfg.Cache.MaxSize)
		defer func() {
			if success {
				return
			}
			mem.Close()
		}()
		deps.Cache = mem
		log.Info("using in-memory result cache", slog.Int("max_size", cfg.Cache.MaxSize))
	}
	if deps.Cache != nil {
		deps.CacheTTL = cfg.Cache.TTLDuration()
		deps.Namespace = cfg.Cache.Namespace
	}

	// 5. Modules: executor → cache → repository → service → handler.
	contacts, err := contact.New(deps)
	if err != nil {
		return nil, fmt.Errorf("setup contact module: %w", err)
	}

	// 6. Create Gin engine with custom middleware (not gin.Default()).
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	engine.Use(
		middleware.Recovery(log.Logger),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			TrustUpstream: false,
		}),
		middleware.Logger(log.Logger),
	)

	// 7. Register all routes.
	routeDeps := &RouteDeps{Modules: []Module{contacts}, DB: db}
	if rdb != nil {
		routeDeps.Redis = rdb
	}
	if err := RegisterRoutes(engine, routeDeps); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine: engine,
		db:     db,
		redis:  rdb,
		memory: mem,
		logger: log,
		cfg:    cfg,
	}, nil
}

// Handler returns the HTTP handler of the application.
func (a *App) Handler() http.Handler {
	return a.engine
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

// shutdownTimeout returns server.timeout, or the default when it is unset or
// unparsable.
func shutdownTimeout(cfg *config.ServerConfig) time.Duration {
	if d, err := time.ParseDuration(cfg.Timeout); err == nil && d > 0 {
		return d
	}
	return defaultShutdownTimeout
}

// Run starts the HTTP server and blocks until a shutdown signal is received.
// It shuts the server down gracefully and closes the cache and database
// connections.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	log := slog.Default()
	if a.logger != nil {
		log = a.logger.Logger
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine)

	// Listen for SIGINT / SIGTERM.
	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if runErr == nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(&a.cfg.Server))
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Error("redis close error", slog.Any("error", err))
		} else {
			log.Info("redis connection closed")
		}
	}
	if a.memory != nil {
		a.memory.Close()
	}
	closeDatabase(a.db, log)

	log.Info("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}

	return runErr
}

func closeDatabase(db *gorm.DB, log *slog.Logger) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("database close error", slog.Any("error", err))
		return
	}
	log.Info("database connection closed")
}
