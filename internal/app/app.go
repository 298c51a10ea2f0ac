package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/rlfeatures/internal/config"
	"github.com/MrSnakeDoc/rlfeatures/internal/contextual"
	"github.com/MrSnakeDoc/rlfeatures/internal/domain"
	"github.com/MrSnakeDoc/rlfeatures/internal/httpserver"
	"github.com/MrSnakeDoc/rlfeatures/internal/httpserver/deps"
	"github.com/MrSnakeDoc/rlfeatures/internal/index"
	"github.com/MrSnakeDoc/rlfeatures/internal/logger"
	"github.com/MrSnakeDoc/rlfeatures/internal/metrics"
	"github.com/MrSnakeDoc/rlfeatures/internal/redis"
	"github.com/MrSnakeDoc/rlfeatures/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/rlfeatures/internal/store/redis"
	"github.com/MrSnakeDoc/rlfeatures/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	reloader    *scheduler.ConditionsReloader
	gc          *scheduler.GarbageCollector
}

func New() (*App, error) {
	cfg := config.Load()

	log := logger.NewWithOptions(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.PrettyLog,
		File:   cfg.LogFile,
	})

	host, err := domain.ParseHostName(cfg.PersonalizerEndpoint)
	if err != nil {
		return nil, fmt.Errorf("RLF_PERSONALIZER_ENDPOINT: %w", err)
	}
	if host.IsPlaceholder() {
		log.Warn("personalization endpoint not configured, records will carry the placeholder",
			logger.Stringer("hostname", host))
	}

	defaultWeather, err := domain.ParseWeather(cfg.DefaultWeather)
	if err != nil {
		return nil, fmt.Errorf("RLF_DEFAULT_WEATHER: %w", err)
	}

	tz, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("RLF_TIMEZONE: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	idx := index.NewLocationIndex(defaultWeather)

	// Redis is optional at runtime: without it the resolution cache and
	// persisted lookup counters are disabled.
	var (
		redisClient *goredis.Client
		store       *redisstore.Store
	)
	switch {
	case !cfg.RedisEnabled():
		log.Info("RLF_REDIS_ADDR not set, running without redis")
	default:
		redisClient, err = redis.New(context.Background(), redis.OptionsFromConfig(cfg), log)
		if err != nil {
			log.Warn("running without redis", logger.Error(err))
			break
		}
		store = redisstore.NewStore(redisClient)
		if err := scheduler.NewRedisSyncer(store, idx, log).Sync(context.Background()); err != nil {
			log.Warn("failed to sync from redis on startup, will load from conditions file",
				logger.Error(err))
		}
	}

	providerOpts := []contextual.Option{
		contextual.WithTimezone(tz),
		contextual.WithMaxCandidates(cfg.MaxCandidates),
		contextual.WithMetrics(m),
	}
	if store != nil {
		providerOpts = append(providerOpts, contextual.WithCache(store))
	}
	provider, err := contextual.NewProvider(host, idx, log, providerOpts...)
	if err != nil {
		return nil, err
	}

	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewConditionsReloader(
		cfg.ConditionsFile,
		store,
		idx,
		m,
		log,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	gc := scheduler.NewGarbageCollector(
		store,
		idx,
		log,
		cfg.GCInterval,
		scheduler.DefaultGCThreshold,
	)

	d := deps.Deps{
		Logger:          log,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		AllowedHosts:    cfg.AllowedHosts,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
		ConditionsFile:  cfg.ConditionsFile,
		RedisClient:     redisClient,
		Index:           idx,
		Provider:        provider,
		Gatherer:        reg,
		ReloadTrigger:   reloadTrigger,
	}

	return &App{
		cfg:         cfg,
		logger:      log,
		server:      httpserver.New(cfg, log, d),
		redisClient: redisClient,
		reloader:    reloader,
		gc:          gc,
	}, nil
}

func (a *App) Run() error {
	defer func() { _ = a.logger.Sync() }()

	a.logger.Infof("🚀 Starting rlfeatures %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info("build", logger.String("version", version.String()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start conditions reloader: %w", err)
	}
	a.logger.Info("conditions reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	a.gc.Start(ctx)
	a.logger.Info("garbage collector started",
		logger.Duration("interval", a.cfg.GCInterval))

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

	a.reloader.Stop()
	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", logger.Error(err))
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ rlfeatures stopped cleanly")
	return nil
}
