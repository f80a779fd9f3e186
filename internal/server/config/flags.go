package config

import (
	"flag"

	"github.com/dmitrijs2005/tokenprovider/internal/flagx"
)

var knownFlags = []string{
	"-a", "-g", "-d", "-s", "-i", "-u", "-t", "-r",
	"-rotation-horizon", "-request-timeout", "-revoke-on-rotate",
	"-purge-interval", "-redis", "-log-level",
}

// Flags lists every command-line flag LoadConfig consumes, including the
// config file flags, so other parsers can skip them.
func Flags() []string {
	return append([]string{"-c", "-config", "--config"}, knownFlags...)
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string              HTTP bind address (e.g., ":8080")
//	-g string              gRPC bind address (e.g., ":50051")
//	-d string              PostgreSQL DSN
//	-s string              JWT HMAC secret key
//	-i string              token issuer
//	-u string              token audience
//	-t duration            access token validity (e.g., "5m")
//	-r duration            refresh token validity (e.g., "168h")
//	-rotation-horizon      remaining lifetime below which renewal tokens rotate
//	-request-timeout       per-request deadline
//	-revoke-on-rotate      delete the old renewal record on rotation
//	-purge-interval        expired renewal purge interval, 0 disables
//	-redis string          Redis address; enables the renewal cache
//	-log-level string      debug, info, warn or error
//
// args are filtered with flagx.FilterArgs first so flags owned by other
// components (such as -c) do not break parsing. Boolean flags should be
// given in the -flag=value form.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.Issuer, "i", config.Issuer, "token issuer")
	fs.StringVar(&config.Audience, "u", config.Audience, "token audience")
	fs.DurationVar(&config.AccessTokenValidityDuration, "t", config.AccessTokenValidityDuration, "access token validity")
	fs.DurationVar(&config.RefreshTokenValidityDuration, "r", config.RefreshTokenValidityDuration, "refresh token validity")
	fs.DurationVar(&config.RotationHorizon, "rotation-horizon", config.RotationHorizon, "renewal rotation horizon")
	fs.DurationVar(&config.RequestTimeout, "request-timeout", config.RequestTimeout, "per-request deadline")
	fs.BoolVar(&config.RevokeOnRotate, "revoke-on-rotate", config.RevokeOnRotate, "delete rotated renewal records")
	fs.DurationVar(&config.PurgeInterval, "purge-interval", config.PurgeInterval, "expired renewal purge interval")
	redis := fs.String("redis", "", "Redis address for the renewal cache")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *redis != "" {
		config.RedisAddr = *redis
		config.RedisCacheEnabled = true
	}
}
