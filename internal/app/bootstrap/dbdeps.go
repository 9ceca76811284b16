// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/campushub/internal/app/backend"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Redis is nil when no redis_url is configured.
	Redis *redis.Client

	API *backend.Client
}
