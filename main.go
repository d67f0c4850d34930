package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/realestate/rems-frontend/handlers"
	"github.com/realestate/rems-frontend/internal/api"
	"github.com/realestate/rems-frontend/internal/config"
	"github.com/realestate/rems-frontend/internal/database"
	"github.com/realestate/rems-frontend/internal/sessions"
	"github.com/realestate/rems-frontend/pkg/logger"
	"github.com/realestate/rems-frontend/pkg/metrics"
	"github.com/realestate/rems-frontend/pkg/middleware"
)

func main() {
	// LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: api=%s sessions=%s redis=%v mongo=%v", cfg.API.BaseURL, cfg.Session.Backend, cfg.Redis.Host != "", cfg.MongoDB.URI != "")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	ctx := context.Background()

	// Redis serves the session backend and the shared rate limiter
	var redisClient *redis.Client
	if addr := cfg.RedisAddr(); addr != "" {
		c := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := c.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
			_ = c.Close()
		} else {
			logger.Infof("connected to Redis: %s", addr)
			redisClient = c
			defer redisClient.Close()
		}
	}

	var mongoClient *mongo.Client
	if cfg.Session.Backend == config.SessionBackendMongo && cfg.MongoDB.URI != "" {
		c, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second)
		if err != nil {
			logger.Warnf("%v", err)
		} else {
			mongoClient = c
			defer func() { _ = mongoClient.Disconnect(ctx) }()
		}
	}

	repo, backend := sessionRepository(cfg, redisClient, mongoClient)
	logger.Infof("session storage: %s", backend)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	handlers.RegisterOps(r, func(ctx context.Context) map[string]bool {
		deps := map[string]bool{"sessions": true}
		if backend != cfg.Session.Backend {
			deps["sessions"] = false
		}
		if redisClient != nil {
			deps["redis"] = redisClient.Ping(ctx).Err() == nil
		}
		if mongoClient != nil {
			deps["mongo"] = mongoClient.Ping(ctx, nil) == nil
		}
		return deps
	})
	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var limit gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			limit = middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win)
		} else {
			limit = middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		}
	}

	pages := r.Group("/")
	pages.Use(middleware.SessionMiddleware(repo, middleware.CookieOptions{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.Session.TTL,
		Secure: cfg.Server.Environment == "production",
	}))
	pages.Use(middleware.ServicesMiddleware(cfg.API.BaseURL, cfg.Upload.MaxBytes, api.WithImageBaseURL(cfg.API.ImageBaseURL)))
	handlers.RegisterRoutes(pages, handlers.RouteOptions{Limit: limit, MaxUploadBytes: cfg.Upload.MaxBytes})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting rems-web on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}

// sessionRepository picks the configured backend, falling back to memory when
// it is unavailable. It returns the backend actually in use.
func sessionRepository(cfg *config.Config, rc *redis.Client, mc *mongo.Client) (sessions.Repository, string) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		if rc != nil {
			return sessions.NewRedisRepository(rc, cfg.Session.Prefix, cfg.Session.TTL), config.SessionBackendRedis
		}
	case config.SessionBackendMongo:
		if mc != nil {
			col, err := database.Sessions(context.Background(), mc.Database(cfg.MongoDB.Database), cfg.Session.TTL)
			if err == nil {
				return sessions.NewMongoRepository(col), config.SessionBackendMongo
			}
			logger.Warnf("%v", err)
		}
	case config.SessionBackendFile:
		return sessions.NewFileRepository(cfg.Session.Dir), config.SessionBackendFile
	case config.SessionBackendMemory:
		return sessions.NewMemoryRepository(), config.SessionBackendMemory
	}
	logger.Warnf("session backend %q unavailable; sessions are kept in memory", cfg.Session.Backend)
	return sessions.NewMemoryRepository(), config.SessionBackendMemory
}
