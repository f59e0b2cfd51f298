package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"

	"chat-sync/internal/platform/config"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// GRPCClientConfig gRPC 客戶端配置
type GRPCClientConfig struct {
	Address    string
	TLSEnabled bool
	CAFile     string
	ServerName string
}

// ClientConfigFrom 由伺服器設定推導連線參數
func ClientConfigFrom(cfg config.GRPCConfig) GRPCClientConfig {
	host := cfg.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return GRPCClientConfig{
		Address:    host + ":" + cfg.Port,
		TLSEnabled: cfg.TLSEnabled,
		CAFile:     cfg.CAFile,
		ServerName: host,
	}
}

// NewGRPCClient 創建 gRPC 客戶端連接
func NewGRPCClient(cfg GRPCClientConfig) (*grpc.ClientConn, error) {
	var opts []grpc.DialOption

	if cfg.TLSEnabled {
		tlsConfig, err := loadTLSConfig(cfg.CAFile, cfg.ServerName)
		if err != nil {
			return nil, fmt.Errorf("加載 TLS 配置失敗: %w", err)
		}
		opts = append(opts, grpc.WithTransportCredentials(credentials.NewTLS(tlsConfig)))
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	conn, err := grpc.NewClient(cfg.Address, opts...)
	if err != nil {
		return nil, fmt.Errorf("連接 gRPC 服務失敗: %w", err)
	}
	return conn, nil
}

// loadTLSConfig 沒有 CA 檔時使用系統憑證
func loadTLSConfig(caFile, serverName string) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		ServerName: serverName,
		MinVersion: tls.VersionTLS12,
	}
	if caFile == "" {
		return tlsConfig, nil
	}

	caFile, err := filepath.Abs(filepath.Clean(caFile))
	if err != nil {
		return nil, fmt.Errorf("無法解析證書文件路徑: %w", err)
	}
	// #nosec G304 -- 路徑來自設定檔
	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("讀取證書文件失敗: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("添加證書到證書池失敗")
	}
	tlsConfig.RootCAs = pool
	return tlsConfig, nil
}
