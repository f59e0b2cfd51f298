package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"chat-sync/internal/platform/config"
	"chat-sync/internal/platform/logger"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const healthWatchInterval = 10 * time.Second

// Server HTTP/WebSocket 與 gRPC 健康檢查服務
type Server struct {
	cfg  *config.Config
	deps Deps
	http *http.Server
	grpc *grpc.Server
}

// New 建立伺服器，gRPC 未啟用時只提供 HTTP
func New(cfg *config.Config, deps Deps) (*Server, error) {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:  cfg,
		deps: deps,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler:           withCORS(Router(deps), cfg.Realtime.AllowedOrigins),
			ReadHeaderTimeout: time.Duration(cfg.Server.Timeout) * time.Second,
			WriteTimeout:      0, // WebSocket 長連接
			IdleTimeout:       120 * time.Second,
		},
	}

	if cfg.GRPC.Enabled {
		var opts []grpc.ServerOption
		creds, err := LoadTLSCredentials(cfg.GRPC)
		if err != nil {
			return nil, err
		}
		if creds != nil {
			opts = append(opts, grpc.Creds(creds))
		}
		s.grpc = grpc.NewServer(opts...)
		healthpb.RegisterHealthServer(s.grpc, deps.Health.GRPCServer())
	}

	return s, nil
}

// Run 啟動服務並阻塞到 ctx 結束，之後優雅關閉
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		logger.Infof(ctx, "HTTP 伺服器監聽: %s", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if s.grpc != nil {
		addr := net.JoinHostPort(s.cfg.GRPC.Host, s.cfg.GRPC.Port)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("grpc listen %s: %w", addr, err)
		}
		go func() {
			logger.Infof(ctx, "gRPC 健康檢查監聽: %s", addr)
			if err := s.grpc.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go s.deps.Health.Watch(watchCtx, healthWatchInterval)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info(context.Background(), "收到關閉信號，正在優雅關閉伺服器...")
	case runErr = <-errCh:
		logger.Error(context.Background(), "伺服器異常終止", logger.WithError(runErr))
	}
	stopWatch()

	return errors.Join(runErr, s.shutdown())
}

func (s *Server) shutdown() error {
	timeout := time.Duration(s.cfg.Server.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// 先斷開 WebSocket，Shutdown 不會等待已劫持的連線
	s.deps.Hub.Close()

	var err error
	if e := s.http.Shutdown(ctx); e != nil {
		err = fmt.Errorf("http shutdown: %w", e)
	}

	if s.grpc != nil {
		done := make(chan struct{})
		go func() {
			s.grpc.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			s.grpc.Stop()
		}
	}

	logger.Info(context.Background(), "伺服器已關閉")
	return err
}
