// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Batch metrics
	TransfersAttempted *prometheus.CounterVec
	TransfersSucceeded *prometheus.CounterVec
	TransfersFailed    *prometheus.CounterVec
	LamportsMoved      *prometheus.CounterVec
	BatchRunsTotal     *prometheus.CounterVec
	BatchDuration      *prometheus.HistogramVec
	WalletsSkipped     prometheus.Counter

	// Fleet metrics
	SlotsCreated          prometheus.Counter
	MainBalanceLamports   prometheus.Gauge
	FleetBalanceLamports  prometheus.Gauge
	DistributedSlotsTotal prometheus.Gauge

	// Chain metrics
	RPCCallLatency *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulBatch prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "wallet_fleet"
	}

	return &Metrics{
		// Batch metrics
		TransfersAttempted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "transfers_attempted_total",
			Help:      "Total number of transfers attempted by operation",
		}, []string{"operation"}),
		TransfersSucceeded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "transfers_succeeded_total",
			Help:      "Total number of transfers confirmed by operation",
		}, []string{"operation"}),
		TransfersFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "transfers_failed_total",
			Help:      "Total number of transfers failed by operation",
		}, []string{"operation"}),
		LamportsMoved: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "lamports_moved_total",
			Help:      "Total lamports moved by confirmed transfers by operation",
		}, []string{"operation"}),
		BatchRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "runs_total",
			Help:      "Total number of batch runs by operation and status",
		}, []string{"operation", "status"}),
		BatchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "duration_seconds",
			Help:      "Batch execution duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"operation"}),
		WalletsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "wallets_skipped_total",
			Help:      "Total number of wallets skipped during collection for insufficient balance",
		}),

		// Fleet metrics
		SlotsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fleet",
			Name:      "slots_created_total",
			Help:      "Total number of distributed wallet slots created",
		}),
		MainBalanceLamports: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "fleet",
			Name:      "main_balance_lamports",
			Help:      "Last observed main wallet balance in lamports",
		}),
		FleetBalanceLamports: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "fleet",
			Name:      "distributed_balance_lamports",
			Help:      "Last observed sum of distributed wallet balances in lamports",
		}),
		DistributedSlotsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "fleet",
			Name:      "distributed_slots",
			Help:      "Number of persisted distributed wallet slots",
		}),

		// Chain metrics
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulBatch: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_batch_timestamp",
			Help:      "Unix timestamp of last batch run with no failures",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTransferAttempt increments the attempted transfer counter.
func RecordTransferAttempt(operation string) {
	DefaultMetrics.TransfersAttempted.WithLabelValues(operation).Inc()
}

// RecordTransferOutcome records the result of one attempted transfer.
func RecordTransferOutcome(operation string, lamports uint64, err error) {
	if err != nil {
		DefaultMetrics.TransfersFailed.WithLabelValues(operation).Inc()
		return
	}
	DefaultMetrics.TransfersSucceeded.WithLabelValues(operation).Inc()
	DefaultMetrics.LamportsMoved.WithLabelValues(operation).Add(float64(lamports))
}

// RecordWalletSkipped increments the skipped wallet counter.
func RecordWalletSkipped() {
	DefaultMetrics.WalletsSkipped.Inc()
}

// RecordSlotCreated increments the created slots counter.
func RecordSlotCreated() {
	DefaultMetrics.SlotsCreated.Inc()
}

// RecordBatchRun records a completed batch run.
func RecordBatchRun(operation, status string, durationSeconds float64) {
	DefaultMetrics.BatchRunsTotal.WithLabelValues(operation, status).Inc()
	DefaultMetrics.BatchDuration.WithLabelValues(operation).Observe(durationSeconds)
	if status == "success" {
		DefaultMetrics.LastSuccessfulBatch.SetToCurrentTime()
	}
}

// UpdateFleetBalances updates the balance gauges from a status query.
func UpdateFleetBalances(mainLamports, distributedLamports uint64, slots int) {
	DefaultMetrics.MainBalanceLamports.Set(float64(mainLamports))
	DefaultMetrics.FleetBalanceLamports.Set(float64(distributedLamports))
	DefaultMetrics.DistributedSlotsTotal.Set(float64(slots))
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
