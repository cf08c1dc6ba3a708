package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

var (
	once                           sync.Once
	metricsRouter                  *chi.Mux
	clientRequestDurationHistogram *prometheus.HistogramVec
	pollerDurationHistogram        *prometheus.HistogramVec
	queueSendErrorCounter          prometheus.Counter
	eventProcessingDuration        *prometheus.HistogramVec
	eventsSkippedCounter           *prometheus.CounterVec
	lastProcessedBlockGauge        prometheus.Gauge
	priceSnapshotSizeGauge         prometheus.Gauge
	pointsAwardedCounter           *prometheus.CounterVec
	dbLatency                      *prometheus.HistogramVec
)

// Collectors are registered at package load so recorders are always safe to
// call; Init only exposes them over HTTP.
func init() {
	registerMetrics()
}

// Init starts the metrics server.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	// Create a custom server with timeout settings
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	// Start the server in a separate goroutine
	go func() {
		log.Printf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics initializes and register the Prometheus metrics.
func registerMetrics() {
	defaultHistogramBucketsSeconds := []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

	// client requests are the ones sending to other service
	clientRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "client_request_duration_seconds",
			Help:    "Histogram of outgoing client request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"baseurl", "method", "path", "status"},
	)

	pollerDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poller_duration_seconds",
			Help:    "Histogram of poller durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"type", "status"},
	)

	// add a counter for the number of errors from the fail to push message into queue
	queueSendErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_send_error_count",
			Help: "The total number of errors when sending messages to the queue",
		},
	)

	eventProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pool_event_processing_duration_seconds",
			Help:    "Pool event processing duration in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"event_type", "status"},
	)

	eventsSkippedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_events_skipped_count",
			Help: "The total number of pool events skipped, split by reason",
		},
		[]string{"event_type", "reason"},
	)

	lastProcessedBlockGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "last_processed_block_height",
			Help: "Block height of the ingestion cursor",
		},
	)

	priceSnapshotSizeGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "price_snapshot_token_count",
			Help: "Number of tokens priced in the current snapshot",
		},
	)

	pointsAwardedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "points_awarded_total",
			Help: "The total points awarded, split by kind",
		},
		[]string{"kind"},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "db_latency_seconds",
			Help: "DB latency in seconds splitted by method and execution status",
		},
		[]string{"method", "status"},
	)

	prometheus.MustRegister(
		clientRequestDurationHistogram,
		pollerDurationHistogram,
		queueSendErrorCounter,
		eventProcessingDuration,
		eventsSkippedCounter,
		lastProcessedBlockGauge,
		priceSnapshotSizeGauge,
		pointsAwardedCounter,
		dbLatency,
	)
}

func RecordDbLatency(d time.Duration, method string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	dbLatency.WithLabelValues(method, status.String()).Observe(d.Seconds())
}

func RecordEventProcessingDuration(d time.Duration, eventType string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	eventProcessingDuration.WithLabelValues(eventType, status.String()).Observe(d.Seconds())
}

func IncEventsSkipped(eventType, reason string) {
	eventsSkippedCounter.WithLabelValues(eventType, reason).Inc()
}

func RecordLastProcessedBlock(height uint64) {
	lastProcessedBlockGauge.Set(float64(height))
}

func RecordPriceSnapshotSize(count int) {
	priceSnapshotSizeGauge.Set(float64(count))
}

func AddPointsAwarded(kind string, points float64) {
	pointsAwardedCounter.WithLabelValues(kind).Add(points)
}

// StartClientRequestDurationTimer starts a timer to measure outgoing client request duration.
func StartClientRequestDurationTimer(baseUrl, method, path string) func(statusCode int) {
	startTime := time.Now()
	return func(statusCode int) {
		duration := time.Since(startTime).Seconds()
		clientRequestDurationHistogram.WithLabelValues(
			baseUrl,
			method,
			path,
			fmt.Sprintf("%d", statusCode),
		).Observe(duration)
	}
}

func RecordQueueSendError() {
	queueSendErrorCounter.Inc()
}
