package config

import (
	"github.com/redis/go-redis/v9"
)

// RedisOptions translates the redis section into client options.
func (c RedisConfig) RedisOptions() *redis.Options {
	return &redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	}
}
