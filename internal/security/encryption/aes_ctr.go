package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

const ctrPrefix = "aes256ctr:"

// AESCTR AES-256-CTR，輸出格式為 "aes256ctr:" + base64(IV + ciphertext)
type AESCTR struct {
	block cipher.Block
}

// NewAESCTR 建立加密器，key 必須為 32 bytes
func NewAESCTR(key []byte) (*AESCTR, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("key must be 32 bytes (256 bits), got %d bytes", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return &AESCTR{block: block}, nil
}

// Encrypt 加密，每次使用新的隨機 IV
func (e *AESCTR) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("plaintext cannot be empty")
	}

	out := make([]byte, aes.BlockSize+len(plaintext))
	iv := out[:aes.BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}
	cipher.NewCTR(e.block, iv).XORKeyStream(out[aes.BlockSize:], []byte(plaintext))

	return ctrPrefix + base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt 解密
func (e *AESCTR) Decrypt(encrypted string) (string, error) {
	if encrypted == "" {
		return "", fmt.Errorf("encrypted text cannot be empty")
	}
	if !IsEncrypted(encrypted) {
		return "", fmt.Errorf("invalid ciphertext format: missing %q prefix", ctrPrefix)
	}

	data, err := base64.StdEncoding.DecodeString(encrypted[len(ctrPrefix):])
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}
	if len(data) <= aes.BlockSize {
		return "", fmt.Errorf("ciphertext too short: must be more than %d bytes", aes.BlockSize)
	}

	plaintext := make([]byte, len(data)-aes.BlockSize)
	cipher.NewCTR(e.block, data[:aes.BlockSize]).XORKeyStream(plaintext, data[aes.BlockSize:])
	return string(plaintext), nil
}

// IsEncrypted 檢查文本是否為 AES-CTR 格式
func IsEncrypted(text string) bool {
	return strings.HasPrefix(text, ctrPrefix)
}
