package driver

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"chat-sync/internal/platform/config"
	"chat-sync/internal/platform/logger"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

var (
	mongoClient *mongo.Client
	mongoDB     *mongo.Database
)

// ConnectMongo 依目前設定連接 MongoDB.
func ConnectMongo(ctx context.Context) error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("配置未載入")
	}
	return InitMongo(ctx, cfg.Database.Mongo)
}

// InitMongo 初始化 MongoDB 連接；交易需要 replica set，URL 應帶 replicaSet 參數.
func InitMongo(ctx context.Context, cfg config.MongoConfig) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.ConnectTimeout)*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.URL)

	if cfg.Username != "" && cfg.Password != "" {
		clientOptions.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
		logger.Info(ctx, "MongoDB 使用認證連接")
	} else {
		logger.Info(ctx, "MongoDB 使用無認證連接（開發環境）")
	}

	if cfg.TLSEnabled {
		tlsConfig, err := loadMongoTLSConfig(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to load MongoDB TLS config: %w", err)
		}
		clientOptions.SetTLSConfig(tlsConfig)
	}

	clientOptions.SetMaxPoolSize(cfg.MaxPoolSize)
	clientOptions.SetMinPoolSize(cfg.MinPoolSize)
	clientOptions.SetMaxConnIdleTime(time.Duration(cfg.MaxConnIdleTime) * time.Second)
	clientOptions.SetServerSelectionTimeout(time.Duration(cfg.ServerSelectionTimeout) * time.Second)

	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	mongoClient = client
	mongoDB = client.Database(cfg.Database)

	logger.Info(ctx, "MongoDB connected successfully",
		logger.WithDetails(map[string]interface{}{"database": cfg.Database}),
	)
	return nil
}

// GetMongoDatabase 獲取 MongoDB 數據庫實例.
func GetMongoDatabase() *mongo.Database {
	return mongoDB
}

// GetMongoClient 獲取 MongoDB 客戶端實例.
func GetMongoClient() *mongo.Client {
	return mongoClient
}

// Ping 檢查主節點是否可用，供健康檢查使用.
func Ping(ctx context.Context) error {
	if mongoClient == nil {
		return fmt.Errorf("database connection not available")
	}
	return mongoClient.Ping(ctx, readpref.Primary())
}

// CloseMongo 關閉 MongoDB 連接.
func CloseMongo() error {
	if mongoClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := mongoClient.Disconnect(ctx)
	mongoClient = nil
	mongoDB = nil
	return err
}

// loadMongoTLSConfig 載入 MongoDB TLS 配置
func loadMongoTLSConfig(ctx context.Context, cfg config.MongoConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if cfg.TLSInsecureSkipVerify {
		// #nosec G402 -- 僅開發環境
		tlsConfig.InsecureSkipVerify = true
		logger.Warning(ctx, "MongoDB TLS 證書驗證已跳過（僅開發環境）")
		return tlsConfig, nil
	}

	if cfg.TLSCAFile != "" {
		caCert, err := os.ReadFile(cfg.TLSCAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if ok := pool.AppendCertsFromPEM(caCert); !ok {
			return nil, fmt.Errorf("failed to append CA certs")
		}
		tlsConfig.RootCAs = pool
	}

	return tlsConfig, nil
}
