// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/campushub/internal/app/backend"
	"github.com/dalemusser/campushub/internal/app/system/indexes"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectDB opens MongoDB, the optional Redis cache and the backend client.
// Mongo and a configured Redis must answer a ping; the backend is only
// checked by /health, so the portal can start while it is down.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	var deps DBDeps

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(appCfg.MongoURI).
		SetServerSelectionTimeout(10*time.Second))
	if err != nil {
		return deps, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return deps, fmt.Errorf("ping mongo: %w", err)
	}
	deps.MongoClient = client
	deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	if appCfg.RedisURL != "" {
		opt, err := redis.ParseURL(appCfg.RedisURL)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return deps, fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			_ = client.Disconnect(context.Background())
			return deps, fmt.Errorf("ping redis: %w", err)
		}
		deps.Redis = rdb
		logger.Info("connected to Redis", zap.String("addr", opt.Addr))
	} else {
		logger.Info("redis_url not set; taxonomy cache disabled")
	}

	api, err := backend.New(appCfg.APIBaseURL, &http.Client{Timeout: timeouts.Upload()}, logger)
	if err != nil {
		_ = deps.closeStores()
		return deps, err
	}
	deps.API = api
	logger.Info("backend client ready", zap.String("api_base_url", api.BaseURL()))
	return deps, nil
}

// EnsureSchema sets up indexes for the visitor preferences collection.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return indexes.EnsureAll(ctx, deps.MongoDatabase, logger)
}

// closeStores releases Redis and Mongo, returning the first error.
func (d DBDeps) closeStores() error {
	var first error
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			first = err
		}
	}
	if d.MongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.MongoClient.Disconnect(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
