package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"STORE_BACKEND", "SESSION_BACKEND", "ORDERS_FILE", "USERS_FILE", "SESSION_TIMEOUT", "ADMIN_USERNAME", "ADMIN_PASSWORD", "SESSION_SECRET", "WHATSAPP_API_URL", "STORE_OWNER_PHONE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendJSON, cfg.StoreBackend)
	assert.Equal(t, SessionMemory, cfg.SessionBackend)
	assert.Equal(t, "orders.json", cfg.OrdersFile)
	assert.Equal(t, "users.json", cfg.UsersFile)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, 48*time.Hour, cfg.SessionTTL())
	assert.False(t, cfg.NotificationsEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("SESSION_TIMEOUT", "60")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("WHATSAPP_API_URL", "http://wa.local")
	t.Setenv("STORE_OWNER_PHONE", "08123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, SessionRedis, cfg.SessionBackend)
	assert.Equal(t, time.Minute, cfg.SessionTTL())
	assert.Equal(t, "s3cret", cfg.AdminPassword)
	assert.True(t, cfg.NotificationsEnabled())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			StoreBackend:   BackendJSON,
			OrdersFile:     "orders.json",
			UsersFile:      "users.json",
			SessionBackend: SessionMemory,
			SessionSecret:  "secret",
			SessionTimeout: 10,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid json backend", mutate: func(c *Config) {}},
		{name: "unknown store backend", mutate: func(c *Config) { c.StoreBackend = "mongo" }, wantErr: true},
		{name: "postgres without url", mutate: func(c *Config) { c.StoreBackend = BackendPostgres }, wantErr: true},
		{name: "unknown session backend", mutate: func(c *Config) { c.SessionBackend = "cookie" }, wantErr: true},
		{name: "empty secret", mutate: func(c *Config) { c.SessionSecret = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.SessionTimeout = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
