package main

import (
	"encoding/json"
	"fmt"

	"chat-sync/internal/chat"
	"chat-sync/internal/idgen"
	"chat-sync/internal/platform/config"
	"chat-sync/internal/platform/driver"
	"chat-sync/internal/security/encryption"
	"chat-sync/internal/storage/database"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "帳號管理",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "建立使用者並輸出其 uid",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		username, _ := cmd.Flags().GetString("username")
		nickname, _ := cmd.Flags().GetString("nickname")
		ctx := cmd.Context()

		if err := config.Load(); err != nil {
			return err
		}
		cfg := config.Get()

		if err := driver.ConnectMongo(ctx); err != nil {
			return err
		}
		defer func() { _ = driver.CloseMongo() }()

		cipher, err := encryption.NewChannelCipher(cfg.Security.Encryption)
		if err != nil {
			return err
		}
		store, err := database.NewRepositories(ctx, driver.GetMongoDatabase(), cipher)
		if err != nil {
			return err
		}

		// 建立帳號不配發訊息序號
		svc := chat.NewService(store, idgen.NewAllocator(0), cfg.Limits)
		u, err := svc.CreateUser(ctx, username, nickname)
		if err != nil {
			return fmt.Errorf("create user %q: %w", username, err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(u)
	},
}

func init() {
	userCreateCmd.Flags().String("username", "", "登入名稱（必填）")
	userCreateCmd.Flags().String("nickname", "", "顯示名稱，預設與 username 相同")
	_ = userCreateCmd.MarkFlagRequired("username")

	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}
