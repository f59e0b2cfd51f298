package constants

// 分頁相關常數
const (
	DefaultPageSize         = 10
	DefaultMaxPageSize      = 100
	DefaultRecentPerChannel = 10
	MinPageSize             = 1
)

// 未讀計算視窗
const DefaultUnreadWindow = 100

// 個人資料相關常數
const (
	DefaultMaxBioLength      = 190
	DefaultMaxNicknameLength = 63
	MinNicknameLength        = 1
)

// 頻道相關常數
const (
	DefaultMaxChannelMembers    = 100
	DefaultMaxChannelNameLength = 100
	MinChannelNameLength        = 1
)

// 訊息相關常數
const (
	DefaultMaxMessageLength = 4000
)

// WebSocket 連線相關常數
const (
	DefaultWriteWaitSeconds      = 10
	DefaultPongWaitSeconds       = 60
	DefaultMaxMessageBytes       = 64 << 10
	DefaultSendBuffer            = 256
	DefaultActionsPerSecond      = 20
	DefaultMaxConnectionsPerIP   = 20
	DefaultMaxTotalConnections   = 10000
	ConnectionCleanupIntervalMin = 10 // 分鐘
)

// Rate Limiting 默認值
const (
	DefaultActionsPerMinute     = 300
	DefaultMessagesPerMinute    = 120
	RateLimitCleanupIntervalMin = 5 // 分鐘
)

// 用戶 ID 相關常數
const (
	MaxUserIDLength   = 100
	MaxUsernameLength = 63
)

// 加密相關常數
const (
	EncryptedPrefixLength = 10
	MasterKeyLength       = 32 // 256 bits
)
