package l2

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"go-content-cache/internal/config"
	"go-content-cache/internal/interfaces"
)

// Ensure RedisKeyDbClient implements interfaces.KeyDbClient
var _ interfaces.KeyDbClient = (*RedisKeyDbClient)(nil)

// RedisKeyDbClient is a go-redis client connected to KeyDB
type RedisKeyDbClient struct {
	*redis.Client
}

// NewRedisKeyDbClient connects to keydbURL and verifies the connection with a ping
func NewRedisKeyDbClient(keydbCfg *config.KeyDBConfig, keydbURL string, logger *zap.Logger) (*RedisKeyDbClient, error) {
	opts, err := keyDBOptions(keydbCfg, keydbURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), keydbCfg.GetConnectTimeout())
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to KeyDB at %s: %w", opts.Addr, err)
	}

	logger.Info("Connected to KeyDB",
		zap.String("address", opts.Addr),
		zap.Int("db", opts.DB),
		zap.Bool("tls", opts.TLSConfig != nil),
		zap.Int("pool_size", opts.PoolSize))

	return &RedisKeyDbClient{Client: client}, nil
}

// keyDBOptions parses a redis:// or rediss:// URL; timeouts and pool settings come from the config
func keyDBOptions(cfg *config.KeyDBConfig, keydbURL string) (*redis.Options, error) {
	opts, err := redis.ParseURL(keydbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse KeyDB URL: %w", err)
	}

	opts.DialTimeout = cfg.GetConnectTimeout()
	opts.ReadTimeout = cfg.GetReadTimeout()
	opts.WriteTimeout = cfg.GetSendTimeout()
	if cfg.Keepalive.PoolSize > 0 {
		opts.PoolSize = cfg.Keepalive.PoolSize
	}
	if cfg.Keepalive.MaxIdleTimeout > 0 {
		opts.IdleTimeout = cfg.Keepalive.MaxIdleTimeout
	}
	if opts.TLSConfig != nil {
		opts.TLSConfig.MinVersion = tls.VersionTLS12
	}

	return opts, nil
}
