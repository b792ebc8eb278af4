// Package app wires configuration, ledger backends, services and the HTTP
// surface into one runnable unit.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/actadigital/registry/handlers"
	"github.com/actadigital/registry/internal/config"
	"github.com/actadigital/registry/internal/database"
	dochandler "github.com/actadigital/registry/internal/document/handler"
	docservice "github.com/actadigital/registry/internal/document/service"
	"github.com/actadigital/registry/internal/ledger"
	"github.com/actadigital/registry/internal/storage"
	votehandler "github.com/actadigital/registry/internal/vote/handler"
	voteservice "github.com/actadigital/registry/internal/vote/service"
	"github.com/actadigital/registry/pkg/logger"
	"github.com/actadigital/registry/pkg/metrics"
	"github.com/actadigital/registry/pkg/middleware"
)

// App is the assembled registry process.
type App struct {
	Config    *config.Config
	Engine    *gin.Engine
	Documents docservice.Service
	Votes     voteservice.Service

	DocumentsLog ledger.Log
	VotesLog     ledger.Log

	started time.Time
	redis   *redis.Client
	mongo   *mongo.Client
	checks  map[string]handlers.Check
}

// New connects the configured backends and builds the router.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, started: time.Now(), checks: map[string]handlers.Check{}}
	if err := a.connect(ctx); err != nil {
		a.Close(context.Background())
		return nil, err
	}
	if err := a.openLogs(ctx); err != nil {
		a.Close(context.Background())
		return nil, err
	}
	a.Documents = docservice.NewService(a.DocumentsLog, docservice.WithPreviewLength(cfg.Ledger.PreviewLength))
	a.Votes = voteservice.NewService(a.VotesLog)
	a.Engine = a.router(ctx)
	return a, nil
}

func (a *App) connect(ctx context.Context) error {
	cfg := a.Config
	if cfg.Redis.Host != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			if cfg.Ledger.Backend == config.BackendRedis {
				return fmt.Errorf("redis %s: %w", cfg.Redis.Addr(), err)
			}
			logger.Warnf("failed to connect to Redis (%s), continuing without it: %v", cfg.Redis.Addr(), err)
		} else {
			a.redis = client
			a.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
			logger.Infof("connected to Redis at %s", cfg.Redis.Addr())
		}
	}
	if cfg.Ledger.Backend == config.BackendMongo {
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
		if err != nil {
			return err
		}
		a.mongo = client
		a.checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		logger.Infof("connected to MongoDB database %s", cfg.MongoDB.Database)
	}
	return nil
}

func (a *App) openLogs(ctx context.Context) error {
	cfg := a.Config.Ledger
	switch cfg.Backend {
	case config.BackendFile:
		docs, err := ledger.NewFileLog("documents", filepath.Join(cfg.Dir, cfg.DocumentsLog))
		if err != nil {
			return err
		}
		votes, err := ledger.NewFileLog("votes", filepath.Join(cfg.Dir, cfg.VotesLog))
		if err != nil {
			return err
		}
		a.DocumentsLog, a.VotesLog = docs, votes
		dir := cfg.Dir
		a.checks["ledger"] = func(ctx context.Context) error { return os.MkdirAll(dir, 0o755) }
		logger.Infof("file ledgers: %s, %s", docs.Path(), votes.Path())
	case config.BackendMemory:
		a.DocumentsLog, a.VotesLog = ledger.NewMemoryLog("documents"), ledger.NewMemoryLog("votes")
		logger.Warnf("memory ledgers selected: records are lost on exit")
	case config.BackendRedis:
		prefix := a.Config.Redis.KeyPrefix
		a.DocumentsLog = ledger.NewRedisLog(a.redis, prefix, "documents")
		a.VotesLog = ledger.NewRedisLog(a.redis, prefix, "votes")
	case config.BackendMongo:
		db := a.mongo.Database(a.Config.MongoDB.Database)
		docs, err := ledger.NewMongoLog(ctx, db, "documents")
		if err != nil {
			return err
		}
		votes, err := ledger.NewMongoLog(ctx, db, "votes")
		if err != nil {
			return err
		}
		a.DocumentsLog, a.VotesLog = docs, votes
	default:
		return fmt.Errorf("unknown ledger backend %q", cfg.Backend)
	}
	return nil
}

func (a *App) router(ctx context.Context) *gin.Engine {
	cfg := a.Config
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())

	// permissive CORS for the browser front-end
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, "+middleware.RequestIDHeader)
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && a.redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(a.redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// snapshots add the minio readiness check
	if cfg.MinIO.Endpoint != "" {
		st, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("snapshots disabled: %v", err)
		} else {
			a.checks["minio"] = st.Ping
			handlers.RegisterSnapshotRoutes(r, storage.NewSnapshotArchiver(st), a.DocumentsLog, a.VotesLog)
			logger.Infof("snapshots enabled to bucket %s", st.Bucket())
		}
	}

	handlers.RegisterHealth(r, a.started, a.checks)
	handlers.RegisterSwagger(r)
	dochandler.RegisterDocumentRoutes(r, a.Documents)
	votehandler.RegisterVoteRoutes(r, a.Votes)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterCollectors(reg)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	return r
}

// Close releases backend connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.mongo != nil {
		errs = append(errs, a.mongo.Disconnect(ctx))
	}
	return errors.Join(errs...)
}
