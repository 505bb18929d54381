package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/creditrisk/internal/domain/valueobject"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8095", cfg.GRPCAddress())
	assert.Equal(t, ":9095", cfg.HTTPAddress())
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "creditrisk.events", cfg.KafkaEventsTopic)
	assert.Empty(t, cfg.KafkaApplicationsTopic)
	assert.Equal(t, valueobject.CategoryPolicyStrict, cfg.CategoryPolicy)
	assert.False(t, cfg.AuthEnabled())
	assert.Zero(t, cfg.Retention())
	assert.Equal(t, 100, cfg.HTTPRateLimit)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("GRPC_PORT", "7000")
	t.Setenv("KAFKA_BROKER", "k1:9092, k2:9092,")
	t.Setenv("CATEGORY_POLICY", "fallback")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ASSESSMENT_RETENTION_DAYS", "30")
	t.Setenv("RETENTION_SCHEDULE", "0 3 * * *")
	t.Setenv("GRPC_REFLECTION", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.GRPCAddress())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, valueobject.CategoryPolicyFallback, cfg.CategoryPolicy)
	assert.True(t, cfg.AuthEnabled())
	assert.True(t, cfg.GRPCReflection)
	assert.Equal(t, 30*24*time.Hour, cfg.Retention())
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("category policy", func(t *testing.T) {
		t.Setenv("CATEGORY_POLICY", "lenient")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("rate limit", func(t *testing.T) {
		t.Setenv("HTTP_RATE_LIMIT", "fast")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("retention days", func(t *testing.T) {
		t.Setenv("ASSESSMENT_RETENTION_DAYS", "a month")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{ScalerPath: "s.yaml", ModelPath: "m.yaml", RetentionSchedule: "@daily"}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "missing artifacts", mutate: func(c *Config) { c.ModelPath = "" }, want: "MODEL_PATH"},
		{name: "half tls", mutate: func(c *Config) { c.GRPCTLSCertFile = "cert.pem" }, want: "GRPC_TLS"},
		{name: "sasl without user", mutate: func(c *Config) { c.KafkaSASLMechanism = "PLAIN" }, want: "KAFKA_SASL_USERNAME"},
		{name: "negative rate limit", mutate: func(c *Config) { c.HTTPRateLimit = -5 }, want: "HTTP_RATE_LIMIT"},
		{name: "negative retention", mutate: func(c *Config) { c.RetentionDays = -1 }, want: "ASSESSMENT_RETENTION_DAYS"},
		{name: "bad schedule", mutate: func(c *Config) { c.RetentionDays = 7; c.RetentionSchedule = "every day" }, want: "RETENTION_SCHEDULE"},
		{name: "production without auth", mutate: func(c *Config) { c.Environment = "production" }, want: "JWT_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
