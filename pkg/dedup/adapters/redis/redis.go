// Package redis provides a dedup.Guard backed by Redis, using SET NX EX so
// the "mark seen" check-and-set is a single atomic round trip shared safely
// across consumer processes.
package redis

import (
	"context"
	"time"

	"github.com/brightside-go/brightside/pkg/errors"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Config holds the connection parameters for the Redis-backed guard.
type Config struct {
	Addr     string `env:"DEDUP_REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"DEDUP_REDIS_PASSWORD"`
	DB       int    `env:"DEDUP_REDIS_DB" env-default:"0"`
	KeyPrefix string `env:"DEDUP_REDIS_PREFIX" env-default:"brightside:dedup:"`
}

// Guard is a Redis-backed dedup.Guard.
type Guard struct {
	client *goredis.Client
	prefix string
}

// New constructs a Guard connected to the configured Redis instance.
func New(cfg Config) *Guard {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Guard{client: client, prefix: cfg.KeyPrefix}
}

func (g *Guard) key(id uuid.UUID) string {
	return g.prefix + id.String()
}

// Seen reports whether id is currently marked processed.
func (g *Guard) Seen(ctx context.Context, id uuid.UUID) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(id)).Result()
	if err != nil {
		return false, errors.Wrap(err, "failed to check dedup guard")
	}
	return n > 0, nil
}

// MarkSeen atomically records id as processed for ttl using SET NX EX, so
// two consumers racing to mark the same id only one wins the write.
func (g *Guard) MarkSeen(ctx context.Context, id uuid.UUID, ttl time.Duration) error {
	if err := g.client.SetNX(ctx, g.key(id), 1, ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to mark message seen")
	}
	return nil
}

// Close releases the underlying Redis connection.
func (g *Guard) Close() error {
	return g.client.Close()
}
