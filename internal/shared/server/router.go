package server

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"resumelink/internal/shared/config"
	"resumelink/internal/shared/metrics"
	"resumelink/internal/shared/server/middleware"
	"resumelink/internal/shared/server/respond"
	"resumelink/internal/shared/storage/object"
)

// Rate limit groups.
const (
	GroupResolve = "RESOLVE"
)

// Routes is implemented by feature handlers that mount on a router group.
type Routes interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// LinkRoutes is implemented by the short link handler.
type LinkRoutes interface {
	RegisterPageRoutes(rg *gin.RouterGroup)
	RegisterAPIRoutes(rg *gin.RouterGroup)
}

// FilePather maps an object key to a local file, for stores served by this process.
type FilePather interface {
	Path(key string) (string, error)
}

// RouterDeps holds what NewRouter mounts. Nil handlers are skipped.
type RouterDeps struct {
	Config       config.Config
	Links        LinkRoutes
	Resumes      Routes
	Analytics    Routes
	GoogleAuth   Routes
	Files        FilePather
	ResolveLimit middleware.Limiter
	Health       gin.HandlerFunc
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	cfg := deps.Config
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	resolveLimit := middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			GroupResolve: {Rate: cfg.ResolveRatePerSec, Burst: cfg.ResolveBurst},
		},
		DefaultGroup: GroupResolve,
		Limiter:      deps.ResolveLimit,
	})

	if deps.Links != nil {
		deps.Links.RegisterPageRoutes(r.Group("/r", resolveLimit))
	}
	if deps.Files != nil {
		r.GET("/files/*key", serveFile(deps.Files))
	}

	api := r.Group("/api/v1")
	health := deps.Health
	if health == nil {
		health = func(c *gin.Context) { respond.OK(c, gin.H{"ok": true}) }
	}
	api.GET("/health", health)
	if deps.Links != nil {
		deps.Links.RegisterAPIRoutes(api.Group("", resolveLimit))
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}

	protected := api.Group("", middleware.Auth(cfg.Env))
	registerMeRoutes(protected)
	if deps.Resumes != nil {
		deps.Resumes.RegisterRoutes(protected)
	}
	if deps.Analytics != nil {
		deps.Analytics.RegisterRoutes(protected)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	return r
}

func serveFile(files FilePather) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")
		path, err := files.Path(key)
		if err != nil {
			if errors.Is(err, object.ErrInvalidKey) {
				respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open file", nil)
			return
		}
		// Only regular files are served. Directories are never listed.
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
			return
		}
		c.Header("Content-Type", "application/pdf")
		c.Header("X-Content-Type-Options", "nosniff")
		c.File(path)
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
