package main

import (
	"context"
	"fmt"
	"time"

	"chat-sync/internal/platform/config"
	"chat-sync/internal/platform/health"
	"chat-sync/internal/platform/server"

	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "以 gRPC 健康檢查協定探測服務",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		service, _ := cmd.Flags().GetString("service")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		if err := config.Load(); err != nil {
			return err
		}
		clientCfg := server.ClientConfigFrom(config.Get().GRPC)
		if addr != "" {
			clientCfg.Address = addr
		}

		conn, err := server.NewGRPCClient(clientCfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		if err != nil {
			return fmt.Errorf("health check %s: %w", clientCfg.Address, err)
		}

		out, err := protojson.MarshalOptions{Multiline: true}.Marshal(resp)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			return fmt.Errorf("service %q is %s", service, resp.GetStatus())
		}
		return nil
	},
}

func init() {
	healthCmd.Flags().String("addr", "", "gRPC 位址，預設取自設定檔")
	healthCmd.Flags().String("service", health.ServiceName, "服務名稱，空字串代表整體狀態")
	healthCmd.Flags().Duration("timeout", 3*time.Second, "探測逾時")
	rootCmd.AddCommand(healthCmd)
}
