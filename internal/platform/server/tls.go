package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"chat-sync/internal/platform/config"

	"google.golang.org/grpc/credentials"
)

// LoadTLSCredentials 載入 gRPC 伺服器憑證，未啟用時回傳 nil
func LoadTLSCredentials(cfg config.GRPCConfig) (credentials.TransportCredentials, error) {
	if !cfg.TLSEnabled {
		return nil, nil
	}

	serverCert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load server certificate: %w", err)
	}

	certPool := x509.NewCertPool()
	if cfg.CAFile != "" {
		ca, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate: %w", err)
		}
		if !certPool.AppendCertsFromPEM(ca) {
			return nil, fmt.Errorf("failed to append CA certificate")
		}
	}

	return credentials.NewTLS(&tls.Config{
		Certificates: []tls.Certificate{serverCert},
		ClientAuth:   tls.NoClientCert,
		MinVersion:   tls.VersionTLS13,
		ClientCAs:    certPool,
	}), nil
}
