// Package metrics exposes the market service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RPCRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_rpc_requests_total",
			Help: "Total number of Connect requests",
		},
		[]string{"procedure", "code"},
	)

	RPCRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "market_rpc_request_duration_seconds",
			Help:    "Duration of Connect requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"procedure"},
	)
)

var (
	TradeOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_trade_operations_total",
			Help: "Total number of trade operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	TradeOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "market_trade_operation_duration_seconds",
			Help:    "Duration of trade operations including the time spent waiting on the item lock",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	ItemLockContentionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_item_lock_contention_total",
			Help: "Trade operations that failed on lock timeout, deadlock or serialization failure",
		},
		[]string{"operation"},
	)

	ItemTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_item_transitions_total",
			Help: "Committed item state transitions",
		},
		[]string{"from", "to"},
	)

	ItemsSoldTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "market_items_sold_total",
			Help: "Total number of items sold",
		},
	)

	SalesValueTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "market_sales_value_total",
			Help: "Sum of final prices of all sales, in the smallest currency unit",
		},
	)
)

var (
	DBConnectionsAcquired = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "market_db_connections_acquired",
			Help: "Number of pool connections currently in use",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "market_db_connections_idle",
			Help: "Number of idle pool connections",
		},
	)
)
