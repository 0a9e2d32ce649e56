package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "data.json", c.DataFile)
	assert.Equal(t, "", c.DatabaseDSN)
	assert.Empty(t, c.KafkaBrokers)
	assert.Equal(t, "transaction_completed", c.KafkaTopic)
	assert.Equal(t, 60*time.Minute, c.TokenTTL)
	assert.Equal(t, "admin@zenith.bank", c.AdminEmail)
	assert.Equal(t, 5, c.AccountNumberAttempts)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("DATABASE_DSN", "postgres://u:p@db/zenith?sslmode=disable")
	t.Setenv("KAFKA_BROKERS", "k1:9092, ,k2:9092")
	t.Setenv("TOKEN_TTL_MINUTES", "15")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("ACCOUNT_NUMBER_ATTEMPTS", "3")
	t.Setenv("ADMIN_EMAIL", "root@bank.test")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9999", c.HTTPAddr)
	assert.Equal(t, "postgres://u:p@db/zenith?sslmode=disable", c.DatabaseDSN)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.KafkaBrokers)
	assert.Equal(t, 15*time.Minute, c.TokenTTL)
	assert.Equal(t, 4, c.BcryptCost)
	assert.Equal(t, 3, c.AccountNumberAttempts)
	assert.Equal(t, "root@bank.test", c.AdminEmail)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad ttl", "TOKEN_TTL_MINUTES", "soon"},
		{"bad cost", "BCRYPT_COST", "x"},
		{"zero attempts", "ACCOUNT_NUMBER_ATTEMPTS", "0"},
		{"empty secret", "JWT_SECRET", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestString_MasksSecrets(t *testing.T) {
	var c Config
	c.LoadDefaults()
	c.JWTSecret = "super-secret"
	c.AdminPassword = "hunter2"

	s := c.String()
	assert.NotContains(t, s, "super-secret")
	assert.NotContains(t, s, "hunter2")
	assert.Contains(t, s, "file:data.json")

	c.DatabaseDSN = "postgres://x"
	assert.Contains(t, c.String(), "Store: postgres")
}
