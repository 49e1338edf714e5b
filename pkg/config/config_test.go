package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, int64(2*1024*1024), cfg.MaxPayloadBytes)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "academics-api", cfg.JWT.Issuer)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 2, cfg.Snapshots.Workers)
	assert.Equal(t, 3, cfg.Snapshots.Retries)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "./exports", cfg.Exports.StorageDir)
	assert.Equal(t, 30*time.Minute, cfg.Exports.SignedURLTTL)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestOverridesAndFallbacks(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("ENV", EnvProduction)
	v.Set("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	v.Set("DECODE_CACHE_TTL", "not-a-duration")
	v.Set("SNAPSHOT_WORKERS", 0)
	v.Set("SNAPSHOT_RETRIES", -2)
	v.Set("MAX_PAYLOAD_BYTES", -1)

	cfg := fromViper(v)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 1, cfg.Snapshots.Workers)
	assert.Equal(t, 0, cfg.Snapshots.Retries)
	assert.Equal(t, int64(2*1024*1024), cfg.MaxPayloadBytes)
}
