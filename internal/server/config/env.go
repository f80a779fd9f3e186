package config

import (
	"strconv"
	"strings"
	"time"
)

// parseEnv overlays values from the environment. lookup is os.LookupEnv in
// production. Variable names follow the deployment the service replaced
// (TOKEN_SECRETKEY, TOKEN_ISSUER, TOKEN_AUDIENCE, RefreshTokenLifeTime in days).
// Unparseable numeric values are ignored and the previous value kept.
func parseEnv(config *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	// durations for which 0 is meaningful accept it; the rest must be positive
	durMin := func(key string, dst *time.Duration, floor time.Duration) {
		if v, ok := lookup(key); ok {
			if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil && d >= floor {
				*dst = d
			}
		}
	}
	dur := func(key string, dst *time.Duration) { durMin(key, dst, time.Nanosecond) }
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok {
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				*dst = b
			}
		}
	}

	str("HTTP_ADDR", &config.EndpointAddrHTTP)
	str("GRPC_ADDR", &config.EndpointAddrGRPC)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("TOKEN_SECRETKEY", &config.SecretKey)
	str("TOKEN_ISSUER", &config.Issuer)
	str("TOKEN_AUDIENCE", &config.Audience)
	dur("ACCESS_TOKEN_TTL", &config.AccessTokenValidityDuration)
	durMin("ROTATION_HORIZON", &config.RotationHorizon, 0)
	dur("REQUEST_TIMEOUT", &config.RequestTimeout)
	durMin("PURGE_INTERVAL", &config.PurgeInterval, 0)
	boolean("REVOKE_ON_ROTATE", &config.RevokeOnRotate)
	boolean("REDIS_CACHE_ENABLED", &config.RedisCacheEnabled)
	str("REDIS_ADDR", &config.RedisAddr)
	str("REDIS_PASSWORD", &config.RedisPassword)
	str("LOG_LEVEL", &config.LogLevel)

	if v, ok := lookup("RefreshTokenLifeTime"); ok {
		if days, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && days > 0 {
			config.RefreshTokenValidityDuration = time.Duration(days * float64(24*time.Hour))
		}
	}
	if v, ok := lookup("REDIS_DB"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			config.RedisDB = n
		}
	}
}
