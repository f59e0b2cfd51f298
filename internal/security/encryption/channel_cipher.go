package encryption

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"sync"

	"chat-sync/internal/platform/config"

	"golang.org/x/crypto/hkdf"
)

const channelKeyInfo = "chat-sync/channel-content/v1/"

// ChannelCipher 訊息內容的落地加密，每個頻道使用由主金鑰推導的獨立金鑰
type ChannelCipher struct {
	enabled bool
	master  []byte
	keys    sync.Map // channelID -> *AESCTR
}

// NewChannelCipher 依設定建立；停用時 Seal/Open 直接回傳原文
func NewChannelCipher(cfg config.EncryptionConfig) (*ChannelCipher, error) {
	if !cfg.Enabled {
		return &ChannelCipher{}, nil
	}
	master, err := base64.StdEncoding.DecodeString(cfg.MasterKey)
	if err != nil {
		return nil, fmt.Errorf("decode master key: %w", err)
	}
	return NewChannelCipherWithKey(master)
}

// NewChannelCipherWithKey 以原始主金鑰建立
func NewChannelCipherWithKey(master []byte) (*ChannelCipher, error) {
	if len(master) != 32 {
		return nil, fmt.Errorf("master key must be 32 bytes, got %d bytes", len(master))
	}
	key := make([]byte, len(master))
	copy(key, master)
	return &ChannelCipher{enabled: true, master: key}, nil
}

// Enabled 是否啟用加密
func (c *ChannelCipher) Enabled() bool {
	return c.enabled
}

// Seal 加密訊息內容，空內容（系統訊息）不加密
func (c *ChannelCipher) Seal(channelID, content string) (string, error) {
	if !c.enabled || content == "" {
		return content, nil
	}
	enc, err := c.channelKey(channelID)
	if err != nil {
		return "", err
	}
	return enc.Encrypt(content)
}

// Open 解密；未加密的舊資料原樣回傳
func (c *ChannelCipher) Open(channelID, stored string) (string, error) {
	if !IsEncrypted(stored) {
		return stored, nil
	}
	if !c.enabled {
		return "", fmt.Errorf("content of channel %s is encrypted but encryption is disabled", channelID)
	}
	enc, err := c.channelKey(channelID)
	if err != nil {
		return "", err
	}
	return enc.Decrypt(stored)
}

func (c *ChannelCipher) channelKey(channelID string) (*AESCTR, error) {
	if v, ok := c.keys.Load(channelID); ok {
		return v.(*AESCTR), nil
	}

	key := make([]byte, 32)
	r := hkdf.New(sha256.New, c.master, nil, []byte(channelKeyInfo+channelID))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive channel key: %w", err)
	}
	enc, err := NewAESCTR(key)
	if err != nil {
		return nil, err
	}

	v, _ := c.keys.LoadOrStore(channelID, enc)
	return v.(*AESCTR), nil
}
