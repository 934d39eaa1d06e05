package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/SmartDevNG/smartdev_api/internal/config"
)

const (
	redisDialTimeout = 5 * time.Second
	redisIOTimeout   = 2 * time.Second
	redisClientName  = "smartdev-api"
)

// RedisClient is the pub/sub side of Redis the purchase API uses: it only
// ever publishes built transactions and answers health pings.
type RedisClient struct {
	client *redis.Client
	addr   string
}

// NewRedisClient connects and pings once so a bad REDIS_HOST fails startup
// rather than the first publish.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*RedisClient, error) {
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ClientName:   redisClientName,
		DialTimeout:  redisDialTimeout,
		ReadTimeout:  redisIOTimeout,
		WriteTimeout: redisIOTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}

	log.Info().Str("addr", addr).Int("db", cfg.DB).Msg("Connected to Redis")
	return &RedisClient{client: client, addr: addr}, nil
}

// Publish sends payload on channel and returns how many subscribers got it.
func (r *RedisClient) Publish(ctx context.Context, channel string, payload []byte) (int64, error) {
	receivers, err := r.client.Publish(ctx, channel, payload).Result()
	if err != nil {
		return 0, fmt.Errorf("publish to %s on %s: %w", channel, r.addr, err)
	}
	return receivers, nil
}

func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
