package config

// Redis backs the shared lockout counters and the response cache.  When it
// is unreachable at startup both degrade: the limiter falls back to memory
// and caching is switched off.

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions builds client options from the environment.
//
//	REDIS_URL – redis:// or rediss:// URL, takes precedence over the rest
//	REDIS_HOST and REDIS_PORT, or REDIS_ADDR as host:port shorthand
//	REDIS_PASSWORD, REDIS_DB, REDIS_TLS
//
// ok is false when nothing Redis-related is set.
func RedisOptions() (opts *redis.Options, ok bool, err error) {
	if u := os.Getenv("REDIS_URL"); u != "" {
		opts, err := redis.ParseURL(u)
		if err != nil {
			return nil, false, fmt.Errorf("REDIS_URL: %w", err)
		}
		return opts, true, nil
	}
	host := os.Getenv("REDIS_HOST")
	port := os.Getenv("REDIS_PORT")
	addr := os.Getenv("REDIS_ADDR")
	if host != "" && port != "" {
		addr = host + ":" + port
	}
	if addr == "" {
		return nil, false, nil
	}
	dbNum := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		n, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, false, fmt.Errorf("REDIS_DB: %w", err)
		}
		dbNum = n
	}
	var tlsConf *tls.Config
	if tlsEnv := os.Getenv("REDIS_TLS"); strings.EqualFold(tlsEnv, "true") || tlsEnv == "1" {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return &redis.Options{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASSWORD"),
		DB:        dbNum,
		TLSConfig: tlsConf,
	}, true, nil
}

// NewRedisClient connects using RedisOptions.  It returns nil when Redis is
// not configured or does not answer a ping.
func NewRedisClient(ctx context.Context) *redis.Client {
	opts, ok, err := RedisOptions()
	if err != nil {
		log.Printf("redis: %v", err)
		return nil
	}
	if !ok {
		return nil
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis: ping %s failed: %v", opts.Addr, err)
		_ = client.Close()
		return nil
	}
	return client
}
