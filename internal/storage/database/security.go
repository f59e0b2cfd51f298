package database

import (
	"regexp"

	"chat-sync/internal/apperror"
)

var objectIDPattern = regexp.MustCompile("^[a-fA-F0-9]{24}$")

// validateIDs 檢查 ID 格式；格式錯誤的 ID 不可能存在，以 NotFound 回報避免洩露細節
func validateIDs(op string, ids ...string) error {
	for _, id := range ids {
		if !objectIDPattern.MatchString(id) {
			return apperror.NotFound("%s: not found", op)
		}
	}
	return nil
}
