package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/axiomgfx-dili/internal/config"
)

func TestNewDefaultConfig_Valid(t *testing.T) {
	t.Parallel()
	cfg := config.NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, config.DefaultPubChemBaseURL, cfg.Upstream.PubChem.BaseURL)
	assert.Equal(t, config.DefaultOPSINBaseURL, cfg.Upstream.OPSIN.BaseURL)
	assert.Equal(t, config.DefaultCIRBaseURL, cfg.Upstream.CIR.BaseURL)
	assert.Zero(t, cfg.Upstream.Timeout)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 50, cfg.Batch.MaxNames)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"port zero", func(c *config.Config) { c.Server.Port = 0 }, "server.port"},
		{"port too large", func(c *config.Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad mode", func(c *config.Config) { c.Server.Mode = "prod" }, "server.mode"},
		{"grpc same port", func(c *config.Config) { c.GRPC.Enabled = true; c.GRPC.Port = c.Server.Port }, "grpc.port"},
		{"pubchem scheme", func(c *config.Config) { c.Upstream.PubChem.BaseURL = "ftp://x" }, "upstream.pubchem"},
		{"cir host", func(c *config.Config) { c.Upstream.CIR.BaseURL = "http://" }, "upstream.cir"},
		{"negative timeout", func(c *config.Config) { c.Upstream.Timeout = -1 }, "upstream.timeout"},
		{"ratelimit backend", func(c *config.Config) { c.RateLimit.Enabled = true; c.RateLimit.Backend = "etcd" }, "ratelimit.backend"},
		{"ratelimit rps", func(c *config.Config) { c.RateLimit.Enabled = true; c.RateLimit.RequestsPerSecond = 0 }, "requests_per_second"},
		{"redis addr", func(c *config.Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.Backend = "redis"
			c.Redis.Addr = ""
		}, "redis.addr"},
		{"batch workers", func(c *config.Config) { c.Batch.Workers = 0 }, "batch.workers"},
		{"log format", func(c *config.Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.NewDefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{}
	cfg.Server.Port = 9999
	cfg.Upstream.OPSIN.BaseURL = "http://opsin.local"
	config.ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "http://opsin.local", cfg.Upstream.OPSIN.BaseURL)
	assert.Equal(t, config.DefaultPubChemBaseURL, cfg.Upstream.PubChem.BaseURL)
}

func TestApplyDefaults_Nil(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() { config.ApplyDefaults(nil) })
}

func TestServerConfig_Addr(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "127.0.0.1:8081", config.ServerConfig{Host: "127.0.0.1", Port: 8081}.Addr())
}

//Personal.AI order the ending
