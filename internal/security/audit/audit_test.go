package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"chat-sync/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		wantLog bool
	}{
		{name: "啟用時寫入日誌", enabled: true, wantLog: true},
		{name: "停用時不寫入", enabled: false, wantLog: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			restore := logger.SetOutput(&buf)
			defer restore()

			a := NewAuditService(tt.enabled)
			a.LogChannelRenamed(context.Background(), "u1", "c1", "crew")

			if !tt.wantLog {
				assert.Zero(t, buf.Len())
				return
			}

			var entry logger.LogEntry
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, logger.SeverityNotice, entry.Severity)
			assert.Equal(t, EventChannelRenamed, entry.Action)
			assert.Equal(t, "u1", entry.UserID)
			assert.Equal(t, "c1", entry.ChannelID)
			assert.Equal(t, "audit", entry.Labels["type"])
			assert.Equal(t, "success", entry.Details["result"])
		})
	}
}

func TestAuditService_Nil(t *testing.T) {
	var a *AuditService
	assert.False(t, a.IsEnabled())
	assert.NotPanics(t, func() { a.LogChannelLeft(context.Background(), "u1", "c1") })
}
