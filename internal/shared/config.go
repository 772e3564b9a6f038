package shared

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	MySQLDSN       string // empty: bookings stay in the in-memory store
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	Currency       string
	CacheTTL       time.Duration
	GatewayLatency time.Duration
	GatewayRPS     int
	OccupancySeed  uint64
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	return Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		MySQLDSN:       env("MYSQL_DSN", ""),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisDB:        atoi("REDIS_DB", 0),
		RedisPass:      env("REDIS_PASSWORD", ""),
		Currency:       env("CURRENCY", "CAD"),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 120)) * time.Second,
		GatewayLatency: time.Duration(atoi("GATEWAY_LATENCY_MS", 1000)) * time.Millisecond,
		GatewayRPS:     atoi("GATEWAY_RPS", 5),
		OccupancySeed:  uint64(atoi("OCCUPANCY_SEED", 1)),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
