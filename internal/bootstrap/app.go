package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"resumelink/internal/analytics"
	googleauth "resumelink/internal/auth"
	"resumelink/internal/queue"
	"resumelink/internal/resumes"
	"resumelink/internal/services/health"
	"resumelink/internal/shared/config"
	"resumelink/internal/shared/server"
	"resumelink/internal/shared/server/middleware"
	"resumelink/internal/shared/server/respond"
	"resumelink/internal/shared/storage/db"
	"resumelink/internal/shared/storage/object"
	localstore "resumelink/internal/shared/storage/object/local"
	s3store "resumelink/internal/shared/storage/object/s3"
	"resumelink/internal/shared/telemetry"
	"resumelink/internal/shortid"
	"resumelink/internal/tracking"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Redis  *redis.Client
	Store  object.ObjectStore
	Queue  queue.Client

	ResumesRepo resumes.Repo
	EventsRepo  analytics.Repo

	ResumesService *resumes.Service
	Aggregator     *analytics.Aggregator
	Resolver       *tracking.Resolver
	Downloads      *tracking.DownloadTracker
	// Sink applies tracking jobs directly. Queue consumers use it.
	Sink       *tracking.Sink
	Dispatcher tracking.Dispatcher

	closers []func(context.Context) error
}

// Options adjusts Build for a specific binary.
type Options struct {
	// SkipMigrations leaves the schema alone, for binaries that do not own it.
	SkipMigrations bool
	// ApplyInline runs tracking jobs on the request goroutine instead of a pool.
	ApplyInline bool
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	return BuildWithOptions(context.Background(), cfg, Options{})
}

// BuildWithOptions is Build with binary specific options.
func BuildWithOptions(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	app := &App{Config: cfg}

	sqlDB, err := buildDB(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB
	if sqlDB != nil && !db.IsLambdaRuntime() {
		app.closers = append(app.closers, func(context.Context) error { return sqlDB.Close() })
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Store = store

	app.Redis = buildRedis(ctx, cfg)
	if app.Redis != nil {
		client := app.Redis
		app.closers = append(app.closers, func(context.Context) error { return client.Close() })
	}

	if cfg.TrackingSQSQueueURL != "" {
		q, err := queue.NewSQSClient(ctx, cfg.TrackingSQSQueueURL, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		app.Queue = q
	}

	if err := buildServices(app, opts); err != nil {
		return nil, err
	}
	app.Router = buildRouter(app)
	return app, nil
}

// Close drains tracking jobs and releases connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultLambdaOptions()))
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	}
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	if !opts.SkipMigrations {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, s3store.Options{
			Region:        cfg.AWSRegion,
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			KMSKeyID:      cfg.SSEKMSKeyID,
			PublicBaseURL: cfg.S3PublicBaseURL,
			Endpoint:      cfg.S3Endpoint,
			AccessKeyID:   cfg.S3AccessKeyID,
			SecretKey:     cfg.S3SecretAccessKey,
		})
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL+"/files"), nil
	}
}

// buildRedis returns nil when Redis is not configured or unreachable;
// callers fall back to in-process state.
func buildRedis(ctx context.Context, cfg config.Config) *redis.Client {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil
	}
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		telemetry.Error("bootstrap.redis_invalid_url", map[string]any{"error": err.Error()})
		return nil
	}
	client := redis.NewClient(redisOpts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		telemetry.Warn("bootstrap.redis_unavailable", map[string]any{"error": err.Error()})
		_ = client.Close()
		return nil
	}
	return client
}

func buildServices(app *App, opts Options) error {
	cfg := app.Config

	length := cfg.ShortIDLength
	if length == 0 {
		length = shortid.DefaultLength
	}
	ids, err := shortid.New(length)
	if err != nil {
		return fmt.Errorf("short id generator: %w", err)
	}

	if app.DB != nil {
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
		app.EventsRepo = &analytics.PGRepo{DB: app.DB}
	} else {
		app.ResumesRepo = resumes.NewMemoryRepo()
		app.EventsRepo = analytics.NewMemoryRepo()
	}

	app.ResumesService = &resumes.Service{
		Repo:           app.ResumesRepo,
		Store:          app.Store,
		IDs:            ids,
		Events:         app.EventsRepo,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}
	app.Aggregator = &analytics.Aggregator{
		Resumes:    app.ResumesRepo,
		Events:     app.EventsRepo,
		WindowDays: cfg.AnalyticsWindowDays,
		TopLimit:   cfg.TopResumesLimit,
	}

	app.Sink = &tracking.Sink{
		Events:   app.EventsRepo,
		Counters: app.ResumesRepo,
		Mode:     cfg.CounterMode,
	}
	var applier tracking.Applier = app.Sink
	if app.Queue != nil {
		applier = &tracking.Publisher{Client: app.Queue}
	}
	if opts.ApplyInline {
		app.Dispatcher = tracking.Inline{Applier: applier, Timeout: cfg.TrackingJobTimeout}
	} else {
		pool := tracking.NewPool(applier, tracking.PoolOptions{
			Workers:    cfg.TrackingWorkers,
			QueueSize:  cfg.TrackingQueueSize,
			JobTimeout: cfg.TrackingJobTimeout,
		})
		app.Dispatcher = pool
		// Closers run in reverse, so queued jobs drain before connections close.
		app.closers = append(app.closers, pool.Close)
	}

	app.Resolver = &tracking.Resolver{Resumes: app.ResumesRepo, Dispatcher: app.Dispatcher}
	app.Downloads = &tracking.DownloadTracker{Dispatcher: app.Dispatcher}
	return nil
}

func buildRouter(app *App) *gin.Engine {
	cfg := app.Config

	var limiter middleware.Limiter
	var states googleauth.StateStore
	if app.Redis != nil {
		limiter = middleware.NewRedisRateLimiter(app.Redis)
		states = googleauth.NewRedisStateStore(app.Redis)
	}

	deps := server.RouterDeps{
		Config:       cfg,
		Links:        tracking.NewHandler(app.Resolver, app.Downloads, cfg.OpenDelay, cfg.PublicBaseURL),
		Resumes:      resumes.NewHandler(app.ResumesService, cfg.PublicBaseURL),
		Analytics:    analytics.NewHandler(app.Aggregator),
		GoogleAuth:   googleauth.NewGoogleService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.UIRedirectURL, states),
		ResolveLimit: limiter,
		Health:       app.health,
	}
	if local, ok := app.Store.(*localstore.Store); ok {
		deps.Files = local
	}
	return server.NewRouter(deps)
}

func (a *App) health(c *gin.Context) {
	checks := health.NewService()
	if a.DB != nil {
		checks.Register("database", a.DB.PingContext)
	} else {
		checks.Register("database", nil)
	}
	if a.Redis != nil {
		checks.Register("redis", func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() })
	} else {
		checks.Register("redis", nil)
	}

	report, ok := checks.Status(c.Request.Context())
	status := gin.H{"ok": ok}
	for name, state := range report {
		status[name] = state
	}
	if !ok {
		respond.JSON(c, http.StatusServiceUnavailable, status)
		return
	}
	respond.OK(c, status)
}
