package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Empty(t, c.SecretKey)
	assert.Equal(t, 5*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 7*24*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, 24*time.Hour, c.RotationHorizon)
	assert.Equal(t, 3*time.Second, c.RequestTimeout)
	assert.False(t, c.RevokeOnRotate)
	assert.Equal(t, "refreshToken", c.CookieName)
	assert.True(t, c.CookieSecure)
	assert.False(t, c.RedisCacheEnabled)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.LoadDefaults()
		c.SecretKey = "secret"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults with secret", mutate: func(c *Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.SecretKey = "" }, wantErr: true},
		{name: "zero access ttl", mutate: func(c *Config) { c.AccessTokenValidityDuration = 0 }, wantErr: true},
		{name: "negative refresh ttl", mutate: func(c *Config) { c.RefreshTokenValidityDuration = -time.Hour }, wantErr: true},
		{name: "horizon equals lifetime", mutate: func(c *Config) { c.RotationHorizon = c.RefreshTokenValidityDuration }, wantErr: true},
		{name: "zero horizon", mutate: func(c *Config) { c.RotationHorizon = 0 }},
		{name: "zero request timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }, wantErr: true},
		{name: "purge disabled", mutate: func(c *Config) { c.PurgeInterval = 0 }},
		{name: "empty cookie name", mutate: func(c *Config) { c.CookieName = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_MissingSecretIsDetectable(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.ErrorIs(t, c.Validate(), ErrMissingSecret)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tokenprovider.yaml")
	require.NoError(t, os.WriteFile(path, []byte("issuer: file-issuer\naudience: file-audience\nsecret_key: file-secret\n"), 0o600))

	t.Setenv("TOKEN_SECRETKEY", "env-secret")
	t.Setenv("TOKEN_ISSUER", "env-issuer")
	t.Setenv("TOKEN_AUDIENCE", "env-audience")
	t.Setenv("RefreshTokenLifeTime", "14")

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cmd", "-c", path, "-s", "flag-secret"}

	c := LoadConfig()
	require.NotNil(t, c)

	assert.Equal(t, "flag-secret", c.SecretKey)
	assert.Equal(t, "file-issuer", c.Issuer)
	assert.Equal(t, "file-audience", c.Audience)
	assert.Equal(t, 14*24*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, 5*time.Minute, c.AccessTokenValidityDuration)
}
