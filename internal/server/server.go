// Package server wires configuration, backing services and HTTP routes into
// the dashboard API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sitedash/sitedash/handlers"
	"github.com/sitedash/sitedash/internal/config"
	"github.com/sitedash/sitedash/internal/content/repository"
	"github.com/sitedash/sitedash/internal/content/service"
	"github.com/sitedash/sitedash/internal/content/store"
	"github.com/sitedash/sitedash/internal/database"
	"github.com/sitedash/sitedash/internal/mirror"
	"github.com/sitedash/sitedash/internal/storage"
	"github.com/sitedash/sitedash/pkg/logger"
	"github.com/sitedash/sitedash/pkg/metrics"
	"github.com/sitedash/sitedash/pkg/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

// Deps are the backing services a router is built from. Only Content is
// required.
type Deps struct {
	Content *service.Service
	// Mirror is the degraded-mode read cache; nil means none.
	Mirror store.Mirror
	// Redis, when set, backs the rate limiter (if configured) and is
	// checked by /ready.
	Redis *redis.Client
	// Media enables the /api/media routes.
	Media handlers.MediaStore
}

// NewRouter builds the gin engine with every route and middleware.
func NewRouter(cfg *config.Config, d Deps) *gin.Engine {
	startTime := time.Now()
	if d.Mirror == nil {
		d.Mirror = mirror.Discard{}
	}

	r := gin.New()
	r.Use(middleware.CORS(), middleware.RequestLogger(), middleware.Recovery())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && d.Redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(d.Redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	api := r.Group("/api")
	handlers.NewComponentsHandler(store.New(d.Content, d.Mirror, store.AdvisoryMirror())).Register(api)
	handlers.RegisterHealth(api, d.Content)
	if d.Media != nil {
		handlers.NewMediaHandler(d.Media, cfg.Media.MaxBytes, cfg.Media.PublicBaseURL, cfg.Media.URLTTL).Register(api)
	}
	handlers.RegisterSwagger(r)

	// readiness: 200 only when the database (and Redis, when configured) answer
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		deps := map[string]bool{
			"database": d.Content.Ping(ctx) == nil,
			"media":    d.Media != nil,
		}
		ready := deps["database"]
		if cfg.Redis.Host != "" {
			deps["redis"] = d.Redis != nil && d.Redis.Ping(ctx).Err() == nil
			ready = ready && deps["redis"]
		}
		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	reg := prometheus.NewRegistry()
	metrics.RegisterCollectors(reg)
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	r.NoRoute(middleware.NotFound)
	return r
}

// Server owns the connections opened by Open.
type Server struct {
	HTTP  *http.Server
	mongo *mongo.Client
	redis *redis.Client
}

// Open connects to the configured backing services and builds the HTTP
// server. Optional services degrade: without a MongoDB URI the content lives
// in memory, without Redis there is no read cache, without MinIO there are no
// media routes.
func Open(ctx context.Context, cfg *config.Config) (*Server, error) {
	s := &Server{}
	d := Deps{}

	if cfg.Redis.Host != "" {
		rc := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rc.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", cfg.Redis.Addr(), err)
		} else {
			logger.Infof("connected to Redis %s; content cache key %q", cfg.Redis.Addr(), cfg.Redis.MirrorKey)
			d.Mirror = mirror.NewRedisMirror(rc, cfg.Redis.MirrorKey, cfg.Redis.MirrorTTL)
		}
		// kept even when the first ping fails so /ready can report it and the
		// client reconnects on its own
		d.Redis = rc
		s.redis = rc
	}

	if cfg.MongoDB.URI != "" {
		svc, err := s.openContent(ctx, cfg.MongoDB)
		if err != nil {
			s.Close(context.Background())
			return nil, err
		}
		d.Content = svc
	} else {
		logger.Warnf("MONGODB_URI not set: content is kept in memory only")
		d.Content = service.NewMemoryService()
	}

	if cfg.Media.MinIO.Enabled() {
		ms, err := storage.NewMinIOStorage(cfg.Media.MinIO)
		if err != nil {
			logger.Warnf("media uploads disabled: %v", err)
		} else {
			logger.Infof("media uploads enabled (bucket %s)", cfg.Media.MinIO.Bucket)
			d.Media = ms
		}
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	s.HTTP = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      NewRouter(cfg, d),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s, nil
}

// openContent connects the MongoDB-backed content service. When the server
// stays unreachable through every attempt the service is still backed by
// MongoDB: health reports the outage, reads fall back to the cache and saves
// are reported as local-only until the driver reconnects.
func (s *Server) openContent(ctx context.Context, mc config.MongoDBConfig) (*service.Service, error) {
	client, err := database.ConnectWithRetry(ctx, mc.URI, mc.Timeout, mc.ConnectAttempts, mc.ConnectBackoff)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		logger.Errorf("%v; content is served from the cache until MongoDB is reachable", err)
		client, err = database.DialMongo(ctx, mc.URI, mc.Timeout)
		if err != nil {
			return nil, err
		}
		s.mongo = client
		return service.New(repository.WrapMongo(client.Database(mc.Database).Collection(mc.Collection))), nil
	}
	s.mongo = client

	col := client.Database(mc.Database).Collection(mc.Collection)
	ictx, cancel := context.WithTimeout(ctx, mc.Timeout)
	defer cancel()
	svc, err := service.NewMongoService(ictx, col)
	if err != nil {
		return nil, fmt.Errorf("init content collection: %w", err)
	}
	logger.Infof("connected to MongoDB database=%s collection=%s", mc.Database, mc.Collection)
	return svc, nil
}

// Close releases database and cache connections.
func (s *Server) Close(ctx context.Context) {
	if s.mongo != nil {
		if err := s.mongo.Disconnect(ctx); err != nil {
			logger.Warnf("mongo disconnect: %v", err)
		}
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
}
