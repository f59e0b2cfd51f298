package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebSocket 連線
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_sync_connections_active",
			Help: "Currently open websocket connections",
		},
	)

	ConnectionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_sync_connections_rejected_total",
			Help: "Websocket upgrades rejected before joining",
		},
		[]string{"reason"},
	)

	// 客戶端動作
	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_sync_actions_total",
			Help: "Client actions handled",
		},
		[]string{"action", "result"}, // result 為 ok 或錯誤代碼
	)

	ActionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_sync_action_duration_seconds",
			Help:    "Client action handling latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"action"},
	)

	// 推送
	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_sync_deliveries_total",
			Help: "Events pushed to connections",
		},
		[]string{"event"},
	)

	DeliveriesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_sync_deliveries_dropped_total",
			Help: "Events dropped because the connection send buffer was full",
		},
	)

	BootstrapFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_sync_bootstrap_failures_total",
			Help: "Bootstrap sub-fetches that failed",
		},
		[]string{"event"},
	)

	// 限流
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_sync_rate_limit_hits_total",
			Help: "Requests rejected by a rate limiter",
		},
		[]string{"scope"},
	)
)
