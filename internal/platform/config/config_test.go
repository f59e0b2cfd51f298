package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_TestConfig(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = "9999"
	require.NoError(t, Load(cfg))

	assert.Same(t, cfg, Get())
	assert.Equal(t, "0.0.0.0:9999", GetServerAddr())
}

func TestLoad_FromFile(t *testing.T) {
	prevEnv := GetEnv()
	t.Cleanup(func() { SetEnv(prevEnv) })

	dir := t.TempDir()
	path := filepath.Join(dir, "staging.yaml")
	yaml := `
app:
  name: chat-sync
  debug: true
server:
  host: 127.0.0.1
  port: "7000"
  timeout: 5
limits:
  unread:
    window: 50
  profile:
    max_bio_length: 100
    max_nickname_length: 20
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("MONGO_PASSWORD", "secret")

	require.NoError(t, Load())
	cfg := Get()

	assert.Equal(t, "staging", GetEnv())
	assert.True(t, IsDebug())
	assert.Equal(t, "127.0.0.1:7000", GetServerAddr())
	assert.Equal(t, 50, cfg.Limits.Unread.Window)
	assert.Equal(t, 100, cfg.Limits.Profile.MaxBioLength)
	assert.Equal(t, "secret", cfg.Database.Mongo.Password)
	// 未出現在檔案中的欄位保留預設值
	assert.Equal(t, 10, cfg.Limits.Pagination.DefaultPageSize)
	assert.Equal(t, "chat", cfg.Database.Mongo.Database)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "預設值有效", mutate: func(*Config) {}},
		{name: "缺少端口", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: true},
		{name: "缺少 MongoDB URL", mutate: func(c *Config) { c.Database.Mongo.URL = "" }, wantErr: true},
		{name: "連接池大小顛倒", mutate: func(c *Config) { c.Database.Mongo.MinPoolSize = 500 }, wantErr: true},
		{name: "啟用加密但沒有金鑰", mutate: func(c *Config) { c.Security.Encryption.Enabled = true }, wantErr: true},
		{name: "分頁上限小於預設", mutate: func(c *Config) { c.Limits.Pagination.MaxPageSize = 5 }, wantErr: true},
		{name: "未讀視窗為 0", mutate: func(c *Config) { c.Limits.Unread.Window = 0 }, wantErr: true},
		{name: "啟用 Redis 但沒有地址", mutate: func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
