// Package logger 輸出 GCP Cloud Logging 格式的結構化日誌。
package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"chat-sync/internal/platform/config"

	"github.com/google/uuid"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
)

// Severity GCP Cloud Logging 嚴重級別
type Severity string

const (
	SeverityDebug    Severity = "DEBUG"
	SeverityInfo     Severity = "INFO"
	SeverityNotice   Severity = "NOTICE"
	SeverityWarning  Severity = "WARNING"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

var severityRank = map[Severity]int{
	SeverityDebug:    0,
	SeverityInfo:     1,
	SeverityNotice:   2,
	SeverityWarning:  3,
	SeverityError:    4,
	SeverityCritical: 5,
}

// ParseSeverity 不分大小寫，無法辨識時回傳 INFO
func ParseSeverity(s string) Severity {
	sev := Severity(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := severityRank[sev]; ok {
		return sev
	}
	return SeverityInfo
}

// LogEntry 一筆日誌，欄位名稱對應 Cloud Logging 的特殊欄位
type LogEntry struct {
	Severity       Severity          `json:"severity"`
	Message        string            `json:"message"`
	Timestamp      string            `json:"timestamp"`
	TraceID        string            `json:"trace,omitempty"` // projects/[PROJECT_ID]/traces/[TRACE_ID]
	HTTPRequest    *HTTPRequest      `json:"httpRequest,omitempty"`
	SourceLocation *SourceLocation   `json:"sourceLocation,omitempty"`
	Labels         map[string]string `json:"labels,omitempty"`
	InsertID       string            `json:"insertId,omitempty"`

	UserID    string                 `json:"userId,omitempty"`
	ChannelID string                 `json:"channelId,omitempty"`
	ConnID    string                 `json:"connId,omitempty"`
	MessageID int64                  `json:"messageId,omitempty"`
	Event     string                 `json:"event,omitempty"`
	Action    string                 `json:"action,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// HTTPRequest HTTP 請求信息
type HTTPRequest struct {
	RequestMethod string `json:"requestMethod,omitempty"`
	RequestURL    string `json:"requestUrl,omitempty"`
	Status        int    `json:"status,omitempty"`
	UserAgent     string `json:"userAgent,omitempty"`
	RemoteIP      string `json:"remoteIp,omitempty"`
	Latency       string `json:"latency,omitempty"`
	Protocol      string `json:"protocol,omitempty"`
}

// SourceLocation 源代碼位置
type SourceLocation struct {
	File     string `json:"file,omitempty"`
	Line     int64  `json:"line,omitempty"`
	Function string `json:"function,omitempty"`
}

type (
	traceKey  struct{}
	fieldsKey struct{}
)

// sink 目前的輸出目標
type sink struct {
	mu       sync.Mutex
	file     io.Writer
	console  io.Writer
	minLevel Severity
	project  string
	service  string
}

var out = &sink{
	console:  os.Stdout,
	minLevel: SeverityDebug,
	project:  "local-dev",
	service:  "chat-sync",
}

// InitLogger 開啟輪轉日誌檔並套用級別；未呼叫時只寫 stdout
func InitLogger(cfg config.LogConfig) error {
	dir := cfg.Dir
	if v := os.Getenv("LOG_PATH"); v != "" {
		dir = v
	}
	if dir == "" {
		dir = "./logs"
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	rotation := orDefault(cfg.RotationTimeHours, 24)
	maxAge := orDefault(cfg.MaxAgeDays, 30)
	maxSize := orDefault(cfg.MaxSizeMB, 100)

	name := filepath.Join(dir, "chat-sync.log")
	w, err := rotatelogs.New(
		name+".%Y%m%d",
		rotatelogs.WithLinkName(name),
		rotatelogs.WithRotationTime(time.Duration(rotation)*time.Hour),
		rotatelogs.WithMaxAge(time.Duration(maxAge)*24*time.Hour),
		rotatelogs.WithRotationSize(int64(maxSize)<<20),
	)
	if err != nil {
		return err
	}

	out.mu.Lock()
	defer out.mu.Unlock()
	out.file = w
	out.minLevel = ParseSeverity(cfg.Level)
	if v := os.Getenv("GCP_PROJECT_ID"); v != "" {
		out.project = v
	}
	if v := os.Getenv("SERVICE_NAME"); v != "" {
		out.service = v
	}
	return nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// CloseLogger 關閉日誌檔案
func CloseLogger() {
	out.mu.Lock()
	defer out.mu.Unlock()
	if c, ok := out.file.(io.Closer); ok {
		if err := c.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to close logger: %v\n", err)
		}
	}
	out.file = nil
}

// SetOutput 替換控制台輸出，回傳還原函式
func SetOutput(w io.Writer) func() {
	out.mu.Lock()
	prev := out.console
	out.console = w
	out.mu.Unlock()
	return func() {
		out.mu.Lock()
		out.console = prev
		out.mu.Unlock()
	}
}

// SetLevel 設定最低輸出級別，回傳還原函式
func SetLevel(sev Severity) func() {
	out.mu.Lock()
	prev := out.minLevel
	out.minLevel = sev
	out.mu.Unlock()
	return func() {
		out.mu.Lock()
		out.minLevel = prev
		out.mu.Unlock()
	}
}

func (s *sink) enabled(sev Severity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return severityRank[sev] >= severityRank[s.minLevel]
}

func (s *sink) write(entry *LogEntry) {
	b, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to marshal log entry: %v\n", err)
		return
	}
	b = append(b, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file != nil {
		_, _ = s.file.Write(b)
	}
	_, _ = s.console.Write(b)
}

func caller(skip int) *SourceLocation {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return nil
	}
	fn := "unknown"
	if f := runtime.FuncForPC(pc); f != nil {
		fn = f.Name()
	}
	return &SourceLocation{File: filepath.Base(file), Line: int64(line), Function: fn}
}

// NewTraceID 生成新的 trace ID
func NewTraceID() string {
	return uuid.New().String()
}

// WithTraceID 將 trace ID 添加到 context
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// GetTraceID 從 context 獲取完整的 trace 資源名稱
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceKey{}).(string)
	if id == "" {
		return ""
	}
	out.mu.Lock()
	project := out.project
	out.mu.Unlock()
	return fmt.Sprintf("projects/%s/traces/%s", project, id)
}

// ContextWith 把欄位掛在 context 上，之後以此 context 寫的日誌都會帶上
func ContextWith(ctx context.Context, opts ...LogOption) context.Context {
	prev, _ := ctx.Value(fieldsKey{}).([]LogOption)
	merged := make([]LogOption, 0, len(prev)+len(opts))
	merged = append(merged, prev...)
	merged = append(merged, opts...)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// Log 通用日誌方法；context 上的欄位先套用，呼叫端傳入的選項可覆蓋
func Log(ctx context.Context, severity Severity, message string, opts ...LogOption) {
	if !out.enabled(severity) {
		return
	}
	entry := &LogEntry{
		Severity:       severity,
		Message:        message,
		Timestamp:      time.Now().UTC().Format(time.RFC3339Nano),
		TraceID:        GetTraceID(ctx),
		SourceLocation: caller(3),
		InsertID:       uuid.New().String(),
		Labels:         map[string]string{"service": out.service},
	}
	if ctx != nil {
		if fields, ok := ctx.Value(fieldsKey{}).([]LogOption); ok {
			for _, opt := range fields {
				opt(entry)
			}
		}
	}
	for _, opt := range opts {
		opt(entry)
	}
	out.write(entry)
}

// Debug 記錄 DEBUG 級別日誌
func Debug(ctx context.Context, message string, opts ...LogOption) {
	Log(ctx, SeverityDebug, message, opts...)
}

// Info 記錄 INFO 級別日誌
func Info(ctx context.Context, message string, opts ...LogOption) {
	Log(ctx, SeverityInfo, message, opts...)
}

func Notice(ctx context.Context, message string, opts ...LogOption) {
	Log(ctx, SeverityNotice, message, opts...)
}

// Warning 記錄 WARNING 級別日誌
func Warning(ctx context.Context, message string, opts ...LogOption) {
	Log(ctx, SeverityWarning, message, opts...)
}

// Error 記錄 ERROR 級別日誌
func Error(ctx context.Context, message string, opts ...LogOption) {
	Log(ctx, SeverityError, message, opts...)
}

// Critical 啟動失敗等無法繼續服務的情況
func Critical(ctx context.Context, message string, opts ...LogOption) {
	Log(ctx, SeverityCritical, message, opts...)
}

func Infof(ctx context.Context, format string, args ...interface{}) {
	Log(ctx, SeverityInfo, fmt.Sprintf(format, args...))
}

func Warningf(ctx context.Context, format string, args ...interface{}) {
	Log(ctx, SeverityWarning, fmt.Sprintf(format, args...))
}

func Errorf(ctx context.Context, format string, args ...interface{}) {
	Log(ctx, SeverityError, fmt.Sprintf(format, args...))
}
