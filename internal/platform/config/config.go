package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用程式配置結構.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	GRPC     GRPCConfig     `mapstructure:"grpc"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Security SecurityConfig `mapstructure:"security"`
	Realtime RealtimeConfig `mapstructure:"realtime"`
	Limits   LimitsConfig   `mapstructure:"limits"`
}

// AppConfig 應用程式基本配置.
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Debug   bool   `mapstructure:"debug"`
}

// ServerConfig HTTP 伺服器配置.
type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            string `mapstructure:"port"`
	Timeout         int    `mapstructure:"timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

// GRPCConfig gRPC 健康檢查服務配置.
type GRPCConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Host       string `mapstructure:"host"`
	Port       string `mapstructure:"port"`
	TLSEnabled bool   `mapstructure:"tls_enabled"`
	CertFile   string `mapstructure:"cert_file"`
	KeyFile    string `mapstructure:"key_file"`
	CAFile     string `mapstructure:"ca_file"`
}

// DatabaseConfig 資料庫配置.
type DatabaseConfig struct {
	Mongo MongoConfig `mapstructure:"mongo"`
}

// MongoConfig MongoDB 配置.
type MongoConfig struct {
	URL                    string `mapstructure:"url"`
	Database               string `mapstructure:"database"`
	Username               string `mapstructure:"username"`
	Password               string `mapstructure:"password"`
	MaxPoolSize            uint64 `mapstructure:"max_pool_size"`
	MinPoolSize            uint64 `mapstructure:"min_pool_size"`
	MaxConnIdleTime        int    `mapstructure:"max_conn_idle_time"`
	ConnectTimeout         int    `mapstructure:"connect_timeout"`
	ServerSelectionTimeout int    `mapstructure:"server_selection_timeout"`
	TLSEnabled             bool   `mapstructure:"tls_enabled"`
	TLSCAFile              string `mapstructure:"tls_ca_file"`
	TLSInsecureSkipVerify  bool   `mapstructure:"tls_insecure_skip_verify"`
}

// RedisConfig Redis 配置（分散式限流）.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig 日誌配置.
type LogConfig struct {
	Level             string `mapstructure:"level"`               // debug / info / warning / error.
	Dir               string `mapstructure:"dir"`                 // LOG_PATH 環境變數優先.
	RotationTimeHours int    `mapstructure:"rotation_time_hours"` // 日誌輪轉時間 (小時).
	MaxAgeDays        int    `mapstructure:"max_age_days"`        // 日誌保留天數.
	MaxSizeMB         int    `mapstructure:"max_size_mb"`         // 單個日誌檔案最大大小 (MB).
}

// SecurityConfig 安全配置.
type SecurityConfig struct {
	Encryption EncryptionConfig `mapstructure:"encryption"`
	Audit      AuditConfig      `mapstructure:"audit"`
}

// EncryptionConfig 訊息內容加密配置.
type EncryptionConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	MasterKey string `mapstructure:"master_key"` // base64, 32 bytes
}

// AuditConfig 審計配置.
type AuditConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// RealtimeConfig WebSocket 即時通道配置.
type RealtimeConfig struct {
	AllowedOrigins      []string `mapstructure:"allowed_origins"`
	WriteWaitSeconds    int      `mapstructure:"write_wait_seconds"`
	PongWaitSeconds     int      `mapstructure:"pong_wait_seconds"`
	MaxMessageBytes     int64    `mapstructure:"max_message_bytes"`
	SendBuffer          int      `mapstructure:"send_buffer"`
	ActionsPerSecond    int      `mapstructure:"actions_per_second"`
	MaxConnectionsPerIP int      `mapstructure:"max_connections_per_ip"`
	MaxTotalConnections int      `mapstructure:"max_total_connections"`
	UpgradesPerMinute   int      `mapstructure:"upgrades_per_minute"` // 每個 IP 的升級請求數，0 為不限制
}

// LimitsConfig 限制配置.
type LimitsConfig struct {
	Pagination   PaginationLimitsConfig `mapstructure:"pagination"`
	Unread       UnreadLimitsConfig     `mapstructure:"unread"`
	Profile      ProfileLimitsConfig    `mapstructure:"profile"`
	Channel      ChannelLimitsConfig    `mapstructure:"channel"`
	Message      MessageLimitsConfig    `mapstructure:"message"`
	RateLimiting RateLimitingConfig     `mapstructure:"rate_limiting"`
}

// PaginationLimitsConfig 分頁限制配置.
type PaginationLimitsConfig struct {
	DefaultPageSize  int `mapstructure:"default_page_size"`
	MaxPageSize      int `mapstructure:"max_page_size"`
	RecentPerChannel int `mapstructure:"recent_per_channel"`
}

// UnreadLimitsConfig 未讀計算視窗.
type UnreadLimitsConfig struct {
	Window int `mapstructure:"window"`
}

// ProfileLimitsConfig 個人資料欄位限制.
type ProfileLimitsConfig struct {
	MaxBioLength      int `mapstructure:"max_bio_length"`
	MaxNicknameLength int `mapstructure:"max_nickname_length"`
}

// ChannelLimitsConfig 頻道限制配置.
type ChannelLimitsConfig struct {
	MaxMembers    int `mapstructure:"max_members"`
	MaxNameLength int `mapstructure:"max_name_length"`
}

// MessageLimitsConfig 訊息限制配置.
type MessageLimitsConfig struct {
	MaxLength int `mapstructure:"max_length"`
}

// RateLimitingConfig 每位使用者動作限流.
type RateLimitingConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	ActionsPerMin   int  `mapstructure:"actions_per_minute"`
	MessagesPerMin  int  `mapstructure:"messages_per_minute"`
	CleanupInterval int  `mapstructure:"cleanup_interval_minutes"`
}

var (
	config *Config
	// ENV 當前環境變數.
	ENV string = "local"
)

// Load 載入設定檔.
func Load(testCfg ...*Config) error {
	// 如果直接傳入配置（主要用於測試），設定並驗證
	if len(testCfg) > 0 && testCfg[0] != nil {
		if err := validateConfig(testCfg[0]); err != nil {
			return fmt.Errorf("配置驗證失敗: %w", err)
		}
		config = testCfg[0]
		return nil
	}

	// 本地 .env 為選用
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("讀取 .env 失敗: %w", err)
	}

	v := viper.New()
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		v.SetConfigFile(configPath)
		baseName := filepath.Base(configPath)
		ENV = strings.TrimSuffix(baseName, filepath.Ext(baseName))
	} else {
		v.SetConfigName(ENV)
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix("CHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("讀取配置檔案失敗: %w", err)
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("解析配置失敗: %w", err)
	}
	applySecretEnv(cfg)

	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("配置驗證失敗: %w", err)
	}

	config = cfg
	return nil
}

// applySecretEnv 機密值只從環境變數覆蓋
func applySecretEnv(cfg *Config) {
	if v := os.Getenv("MONGO_USERNAME"); v != "" {
		cfg.Database.Mongo.Username = v
	}
	if v := os.Getenv("MONGO_PASSWORD"); v != "" {
		cfg.Database.Mongo.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("CHANNEL_MASTER_KEY"); v != "" {
		cfg.Security.Encryption.MasterKey = v
	}
}

// Default 回傳完整預設值的配置.
func Default() *Config {
	return &Config{
		App: AppConfig{Name: "chat-sync", Version: "dev"},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			Timeout:         15,
			ShutdownTimeout: 10,
		},
		GRPC: GRPCConfig{Enabled: true, Host: "0.0.0.0", Port: "8081"},
		Database: DatabaseConfig{Mongo: MongoConfig{
			URL:                    "mongodb://localhost:27017/?replicaSet=rs0",
			Database:               "chat",
			MaxPoolSize:            100,
			MinPoolSize:            5,
			MaxConnIdleTime:        300,
			ConnectTimeout:         10,
			ServerSelectionTimeout: 5,
		}},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Log:   LogConfig{Level: "info", Dir: "./logs", RotationTimeHours: 24, MaxAgeDays: 30, MaxSizeMB: 100},
		Security: SecurityConfig{
			Audit: AuditConfig{Enabled: true},
		},
		Realtime: RealtimeConfig{
			AllowedOrigins:      []string{"http://localhost:3000"},
			WriteWaitSeconds:    10,
			PongWaitSeconds:     60,
			MaxMessageBytes:     64 * 1024,
			SendBuffer:          256,
			ActionsPerSecond:    20,
			MaxConnectionsPerIP: 20,
			MaxTotalConnections: 10000,
			UpgradesPerMinute:   60,
		},
		Limits: LimitsConfig{
			Pagination: PaginationLimitsConfig{DefaultPageSize: 10, MaxPageSize: 100, RecentPerChannel: 10},
			Unread:     UnreadLimitsConfig{Window: 100},
			Profile:    ProfileLimitsConfig{MaxBioLength: 190, MaxNicknameLength: 63},
			Channel:    ChannelLimitsConfig{MaxMembers: 100, MaxNameLength: 100},
			Message:    MessageLimitsConfig{MaxLength: 4000},
			RateLimiting: RateLimitingConfig{
				Enabled:         true,
				ActionsPerMin:   300,
				MessagesPerMin:  120,
				CleanupInterval: 5,
			},
		},
	}
}

// Get 取得設定.
func Get() *Config {
	return config
}

// SetEnv 設定環境.
func SetEnv(env string) {
	ENV = env
}

// GetEnv 取得當前環境.
func GetEnv() string {
	return ENV
}

// validateConfig 驗證配置的有效性
func validateConfig(cfg *Config) error {
	if cfg.App.Name == "" {
		return fmt.Errorf("應用程式名稱不能為空")
	}

	if cfg.Server.Host == "" {
		return fmt.Errorf("伺服器主機不能為空")
	}
	if cfg.Server.Port == "" {
		return fmt.Errorf("伺服器端口不能為空")
	}
	if cfg.Server.Timeout <= 0 {
		return fmt.Errorf("伺服器超時時間必須大於 0")
	}
	if cfg.GRPC.Enabled && cfg.GRPC.Port == "" {
		return fmt.Errorf("gRPC 端口不能為空")
	}
	if cfg.GRPC.TLSEnabled && (cfg.GRPC.CertFile == "" || cfg.GRPC.KeyFile == "") {
		return fmt.Errorf("啟用 gRPC TLS 時必須提供憑證與私鑰")
	}

	if cfg.Database.Mongo.URL == "" {
		return fmt.Errorf("MongoDB URL 不能為空")
	}
	if cfg.Database.Mongo.Database == "" {
		return fmt.Errorf("MongoDB 資料庫名稱不能為空")
	}
	if cfg.Database.Mongo.MaxPoolSize == 0 {
		return fmt.Errorf("MongoDB 最大連接池大小必須大於 0")
	}
	if cfg.Database.Mongo.MinPoolSize > cfg.Database.Mongo.MaxPoolSize {
		return fmt.Errorf("MongoDB 最小連接池大小不能大於最大連接池大小")
	}

	if cfg.Redis.Enabled && cfg.Redis.Addr == "" {
		return fmt.Errorf("Redis 地址不能為空")
	}

	if cfg.Log.RotationTimeHours <= 0 {
		return fmt.Errorf("日誌輪轉時間必須大於 0")
	}
	if cfg.Log.MaxAgeDays <= 0 {
		return fmt.Errorf("日誌保留天數必須大於 0")
	}
	if cfg.Log.MaxSizeMB <= 0 {
		return fmt.Errorf("日誌檔案最大大小必須大於 0")
	}

	if cfg.Security.Encryption.Enabled && cfg.Security.Encryption.MasterKey == "" {
		return fmt.Errorf("啟用加密時主金鑰不能為空")
	}

	p := cfg.Limits.Pagination
	if p.DefaultPageSize <= 0 || p.MaxPageSize < p.DefaultPageSize {
		return fmt.Errorf("分頁大小設定無效")
	}
	if cfg.Limits.Unread.Window <= 0 {
		return fmt.Errorf("未讀計算視窗必須大於 0")
	}
	if cfg.Limits.Profile.MaxBioLength <= 0 || cfg.Limits.Profile.MaxNicknameLength <= 0 {
		return fmt.Errorf("個人資料長度限制必須大於 0")
	}
	if cfg.Realtime.SendBuffer <= 0 {
		return fmt.Errorf("WebSocket 發送緩衝必須大於 0")
	}

	return nil
}

// IsDebug 檢查是否為除錯模式
func IsDebug() bool {
	if config != nil {
		return config.App.Debug
	}
	return false
}

// GetServerAddr 取得 HTTP 伺服器地址
func GetServerAddr() string {
	if config != nil {
		return fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)
	}
	return "localhost:8080"
}

// GetGRPCAddr 取得 gRPC 伺服器地址
func GetGRPCAddr() string {
	if config != nil {
		return fmt.Sprintf("%s:%s", config.GRPC.Host, config.GRPC.Port)
	}
	return "localhost:8081"
}
