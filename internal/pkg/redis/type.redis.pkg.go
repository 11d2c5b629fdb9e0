package redis

import (
	"context"
	"time"

	_redis "github.com/redis/go-redis/v9"
)

// NilType is the sentinel go-redis returns when a key does not exist.
const NilType = _redis.Nil

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	PoolSize int
}

type Client struct {
	Client *_redis.Client
	config *Config
	ctx    context.Context
	cancel context.CancelFunc
}

// IRedis is the surface the rest of the application depends on; tests swap in an
// in-memory implementation.
type IRedis interface {
	Set(key string, value any, expiration time.Duration) error
	Get(key string) (string, error)
	Del(key string) error
	Expire(key string, expiration time.Duration) error
	Close() error
}
