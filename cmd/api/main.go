package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-sync/internal/chat"
	"chat-sync/internal/idgen"
	"chat-sync/internal/platform/config"
	"chat-sync/internal/platform/driver"
	"chat-sync/internal/platform/health"
	"chat-sync/internal/platform/logger"
	"chat-sync/internal/platform/middleware"
	"chat-sync/internal/platform/server"
	"chat-sync/internal/presence"
	"chat-sync/internal/realtime"
	"chat-sync/internal/security/audit"
	"chat-sync/internal/security/encryption"
	"chat-sync/internal/storage/database"

	"github.com/redis/go-redis/v9"
)

func main() {
	if err := mainNoExit(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// mainNoExit 分離主要邏輯以避免 exitAfterDefer 問題，確保 defer 函數正常執行.
func mainNoExit() error {
	if err := config.Load(); err != nil {
		return err
	}
	cfg := config.Get()

	if err := logger.InitLogger(cfg.Log); err != nil {
		return err
	}
	defer logger.CloseLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "正在啟動 chat-sync", logger.WithDetails(map[string]interface{}{
		"env":     config.GetEnv(),
		"version": cfg.App.Version,
	}))

	if err := driver.ConnectMongo(ctx); err != nil {
		return err
	}
	defer func() {
		if err := driver.CloseMongo(); err != nil {
			logger.Errorf(ctx, "關閉 MongoDB 連接失敗: %v", err)
		}
	}()

	cipher, err := encryption.NewChannelCipher(cfg.Security.Encryption)
	if err != nil {
		logger.Error(ctx, "訊息加密初始化失敗", logger.WithError(err))
		return fmt.Errorf("encryption initialization failed")
	}
	if !cipher.Enabled() {
		logger.Warning(ctx, "訊息內容未加密儲存")
	}

	store, err := database.NewRepositories(ctx, driver.GetMongoDatabase(), cipher)
	if err != nil {
		return err
	}

	// 序號必須接續已持久化的最大值，否則新訊息會與舊訊息衝突
	ids, err := idgen.Seed(ctx, store)
	if err != nil {
		logger.Critical(ctx, "訊息序號初始化失敗", logger.WithError(err))
		return err
	}
	logger.Info(ctx, "訊息序號初始化完成", logger.WithMessageID(ids.Peek()))

	actions, messages, cleanup := newLimiters(ctx, cfg)
	defer cleanup()

	auditSvc := audit.NewAuditService(cfg.Security.Audit.Enabled)
	svc := chat.NewService(store, ids, cfg.Limits,
		chat.WithAudit(auditSvc),
		chat.WithLimiters(actions, messages),
	)

	hub := realtime.NewHub(svc, presence.NewRegistry[*realtime.Client](), auditSvc, realtime.OptionsFromConfig(cfg.Realtime))
	connLimiter := middleware.NewConnectionLimiter(cfg.Realtime.MaxConnectionsPerIP, cfg.Realtime.MaxTotalConnections)

	deps := server.Deps{
		Health: health.NewHealthHandler(driver.Ping,
			health.WithApp(cfg.App.Name, cfg.Database.Mongo.Database, cfg.App.Debug),
			health.WithStats("realtime", hub.Stats),
			health.WithStats("connections", connLimiter.Stats),
		),
		Hub:         hub,
		ConnLimiter: connLimiter,
	}
	if n := cfg.Realtime.UpgradesPerMinute; n > 0 {
		upgrades := middleware.NewRateLimiter(n, time.Minute, time.Minute)
		defer upgrades.Stop()
		deps.IPLimiter = upgrades
	}

	srv, err := server.New(cfg, deps)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

// newLimiters 建立使用者動作限流；啟用 Redis 時多個實例共用計數
func newLimiters(ctx context.Context, cfg *config.Config) (actions, messages chat.Limiter, cleanup func()) {
	rl := cfg.Limits.RateLimiting
	if !rl.Enabled {
		return nil, nil, func() {}
	}

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warning(ctx, "Redis 無法連線，改用本機限流", logger.WithError(err))
			_ = rdb.Close()
		} else {
			logger.Info(ctx, "使用 Redis 分散式限流", logger.WithDetails(map[string]interface{}{"addr": cfg.Redis.Addr}))
			return middleware.NewRedisRateLimiter(rdb, "chat:rl:action:", rl.ActionsPerMin, time.Minute),
				middleware.NewRedisRateLimiter(rdb, "chat:rl:message:", rl.MessagesPerMin, time.Minute),
				func() { _ = rdb.Close() }
		}
	}

	interval := time.Duration(rl.CleanupInterval) * time.Minute
	a := middleware.NewRateLimiter(rl.ActionsPerMin, time.Minute, interval)
	m := middleware.NewRateLimiter(rl.MessagesPerMin, time.Minute, interval)
	return a, m, func() {
		a.Stop()
		m.Stop()
	}
}
