package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/tokenprovider/internal/flagx"
	"github.com/dmitrijs2005/tokenprovider/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of the config file. Zero values and nil
// pointers leave the corresponding Config field untouched.
type fileConfig struct {
	HTTPAddress       string          `json:"http_address" yaml:"http_address"`
	GRPCAddress       string          `json:"grpc_address" yaml:"grpc_address"`
	DatabaseDSN       string          `json:"database_dsn" yaml:"database_dsn"`
	SecretKey         string          `json:"secret_key" yaml:"secret_key"`
	Issuer            string          `json:"issuer" yaml:"issuer"`
	Audience          string          `json:"audience" yaml:"audience"`
	AccessTokenTTL    timex.Duration  `json:"access_token_ttl" yaml:"access_token_ttl"`
	RefreshTokenTTL   timex.Duration  `json:"refresh_token_ttl" yaml:"refresh_token_ttl"`
	RotationHorizon   *timex.Duration `json:"rotation_horizon" yaml:"rotation_horizon"`
	RequestTimeout    timex.Duration  `json:"request_timeout" yaml:"request_timeout"`
	StoreWriteTimeout timex.Duration  `json:"store_write_timeout" yaml:"store_write_timeout"`
	RevokeOnRotate    *bool           `json:"revoke_on_rotate" yaml:"revoke_on_rotate"`
	PurgeInterval     *timex.Duration `json:"purge_interval" yaml:"purge_interval"`
	Redis             struct {
		Enabled  *bool          `json:"enabled" yaml:"enabled"`
		Address  string         `json:"address" yaml:"address"`
		Password string         `json:"password" yaml:"password"`
		DB       int            `json:"db" yaml:"db"`
		TTL      timex.Duration `json:"ttl" yaml:"ttl"`
	} `json:"redis" yaml:"redis"`
	Cookie struct {
		Name   string `json:"name" yaml:"name"`
		Domain string `json:"domain" yaml:"domain"`
		Secure *bool  `json:"secure" yaml:"secure"`
	} `json:"cookie" yaml:"cookie"`
	MetricsEnabled *bool  `json:"metrics_enabled" yaml:"metrics_enabled"`
	LogLevel       string `json:"log_level" yaml:"log_level"`
}

// parseFile overlays the config file named by -c/-config, if any. The file
// is decoded as YAML for .yaml/.yml extensions and as JSON otherwise.
func parseFile(config *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Errorf("reading config file: %w", err))
	}

	fc, err := decodeFile(path, data)
	if err != nil {
		panic(fmt.Errorf("parsing config file %s: %w", path, err))
	}

	fc.apply(config)
}

func decodeFile(path string, data []byte) (*fileConfig, error) {
	fc := &fileConfig{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, fc); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, fc); err != nil {
			return nil, err
		}
	}

	return fc, nil
}

func (fc *fileConfig) apply(c *Config) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setDuration := func(dst *time.Duration, v timex.Duration) {
		if v.Duration != 0 {
			*dst = v.Duration
		}
	}
	// set when present, so an explicit 0 is kept
	setOptionalDuration := func(dst *time.Duration, v *timex.Duration) {
		if v != nil {
			*dst = v.Duration
		}
	}
	setBool := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}

	setString(&c.EndpointAddrHTTP, fc.HTTPAddress)
	setString(&c.EndpointAddrGRPC, fc.GRPCAddress)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.SecretKey, fc.SecretKey)
	setString(&c.Issuer, fc.Issuer)
	setString(&c.Audience, fc.Audience)
	setDuration(&c.AccessTokenValidityDuration, fc.AccessTokenTTL)
	setDuration(&c.RefreshTokenValidityDuration, fc.RefreshTokenTTL)
	setOptionalDuration(&c.RotationHorizon, fc.RotationHorizon)
	setDuration(&c.RequestTimeout, fc.RequestTimeout)
	setDuration(&c.StoreWriteTimeout, fc.StoreWriteTimeout)
	setBool(&c.RevokeOnRotate, fc.RevokeOnRotate)
	setOptionalDuration(&c.PurgeInterval, fc.PurgeInterval)

	setBool(&c.RedisCacheEnabled, fc.Redis.Enabled)
	setString(&c.RedisAddr, fc.Redis.Address)
	setString(&c.RedisPassword, fc.Redis.Password)
	if fc.Redis.DB > 0 {
		c.RedisDB = fc.Redis.DB
	}
	setDuration(&c.RedisCacheTTL, fc.Redis.TTL)

	setString(&c.CookieName, fc.Cookie.Name)
	setString(&c.CookieDomain, fc.Cookie.Domain)
	setBool(&c.CookieSecure, fc.Cookie.Secure)

	setBool(&c.MetricsEnabled, fc.MetricsEnabled)
	setString(&c.LogLevel, fc.LogLevel)
}
