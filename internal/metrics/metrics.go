package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus counters
var (
	FramesDecoded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thinkgear_frames_decoded_total",
		Help: "Total ThinkGear frames accepted by the frame decoder (checksum valid).",
	})
	MalformedFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thinkgear_malformed_frames_total",
		Help: "Total frames rejected due to invalid length or bad checksum (resync events).",
	})
	UnknownCodes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thinkgear_unknown_codes_total",
		Help: "Total payload data codes that were not recognized and skipped.",
	})
	RowsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rows_emitted_total",
		Help: "Total Sample rows appended to the row sink.",
	})
	RowsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rows_dropped_total",
		Help: "Total rows that failed to write to the sink and were dropped.",
	})
	RowsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rows_skipped_total",
		Help: "Total rows skipped by the row source due to a parse failure.",
	})
	EDFConversions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edf_conversions_total",
		Help: "Total successful CSV-to-EDF conversions.",
	})
	EDFConversionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edf_conversion_failures_total",
		Help: "Total failed CSV-to-EDF conversion attempts.",
	})
	HubDroppedSnapshots = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hub_dropped_snapshots_total",
		Help: "Total Sample snapshots dropped by the live status hub due to a slow subscriber.",
	})
	HubKickedSubscribers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hub_kicked_subscribers_total",
		Help: "Total subscribers disconnected due to the kick backpressure policy.",
	})
	HubActiveSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hub_active_subscribers",
		Help: "Current number of live status subscribers.",
	})
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "Build metadata (value is always 1).",
	}, []string{"version", "commit", "date"})
	Errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "errors_total",
		Help: "Error counters by subsystem.",
	}, []string{"where"})

	readinessMu sync.RWMutex
	readinessFn func() bool
)

// Error label constants (stable label values to bound cardinality).
const (
	ErrSerialRead  = "serial_read"
	ErrSinkWrite   = "sink_write"
	ErrSourceRead  = "source_read"
	ErrEDFWrite    = "edf_write"
	ErrStatusWrite = "status_write"
)

// StartHTTP serves Prometheus metrics at /metrics and a readiness probe at /ready.
func StartHTTP(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if IsReady() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready\n"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready\n"))
	})

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	go func() {
		logging.L().Info("metrics_listen", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.L().Error("metrics_http_error", "error", err)
		}
	}()
	return srv
}

// Local mirrored counters for easy logging (avoid Prometheus scraping in-process).
var (
	localFramesDecoded  uint64
	localMalformed      uint64
	localUnknownCodes   uint64
	localRowsEmitted    uint64
	localRowsDropped    uint64
	localRowsSkipped    uint64
	localEDFConversions uint64
	localEDFFailures    uint64
	localHubDrops       uint64
	localHubKicks       uint64
	localErrors         uint64
	localHubSubscribers uint64
)

// Snapshot is a cheap copy of local counters.
type Snapshot struct {
	FramesDecoded  uint64
	Malformed      uint64
	UnknownCodes   uint64
	RowsEmitted    uint64
	RowsDropped    uint64
	RowsSkipped    uint64
	EDFConversions uint64
	EDFFailures    uint64
	HubDrops       uint64
	HubKicks       uint64
	Errors         uint64
	HubSubscribers uint64
}

func Snap() Snapshot {
	return Snapshot{
		FramesDecoded:  atomic.LoadUint64(&localFramesDecoded),
		Malformed:      atomic.LoadUint64(&localMalformed),
		UnknownCodes:   atomic.LoadUint64(&localUnknownCodes),
		RowsEmitted:    atomic.LoadUint64(&localRowsEmitted),
		RowsDropped:    atomic.LoadUint64(&localRowsDropped),
		RowsSkipped:    atomic.LoadUint64(&localRowsSkipped),
		EDFConversions: atomic.LoadUint64(&localEDFConversions),
		EDFFailures:    atomic.LoadUint64(&localEDFFailures),
		HubDrops:       atomic.LoadUint64(&localHubDrops),
		HubKicks:       atomic.LoadUint64(&localHubKicks),
		Errors:         atomic.LoadUint64(&localErrors),
		HubSubscribers: atomic.LoadUint64(&localHubSubscribers),
	}
}

// Wrapper helpers to keep call sites simple.

func IncFramesDecoded() {
	FramesDecoded.Inc()
	atomic.AddUint64(&localFramesDecoded, 1)
}

func IncMalformed() {
	MalformedFrames.Inc()
	atomic.AddUint64(&localMalformed, 1)
}

func IncUnknownCode() {
	UnknownCodes.Inc()
	atomic.AddUint64(&localUnknownCodes, 1)
}

func IncRowsEmitted() {
	RowsEmitted.Inc()
	atomic.AddUint64(&localRowsEmitted, 1)
}

func IncRowsDropped() {
	RowsDropped.Inc()
	atomic.AddUint64(&localRowsDropped, 1)
}

func IncRowsSkipped() {
	RowsSkipped.Inc()
	atomic.AddUint64(&localRowsSkipped, 1)
}

func IncEDFConversion() {
	EDFConversions.Inc()
	atomic.AddUint64(&localEDFConversions, 1)
}

func IncEDFConversionFailure() {
	EDFConversionFailures.Inc()
	atomic.AddUint64(&localEDFFailures, 1)
}

func IncHubDrop() {
	HubDroppedSnapshots.Inc()
	atomic.AddUint64(&localHubDrops, 1)
}

func IncHubKick() {
	HubKickedSubscribers.Inc()
	atomic.AddUint64(&localHubKicks, 1)
}

func SetHubSubscribers(n int) {
	HubActiveSubscribers.Set(float64(n))
	atomic.StoreUint64(&localHubSubscribers, uint64(n))
}

func IncError(label string) {
	Errors.WithLabelValues(label).Inc()
	atomic.AddUint64(&localErrors, 1)
}

// InitBuildInfo sets the build info gauge (should be called once at startup).
func InitBuildInfo(version, commit, date string) {
	BuildInfo.WithLabelValues(version, commit, date).Set(1)
	for _, lbl := range []string{ErrSerialRead, ErrSinkWrite, ErrSourceRead, ErrEDFWrite, ErrStatusWrite} {
		Errors.WithLabelValues(lbl).Add(0)
	}
}

// SetReadinessFunc registers a function used by /ready and IsReady.
func SetReadinessFunc(fn func() bool) { readinessMu.Lock(); readinessFn = fn; readinessMu.Unlock() }

// IsReady invokes the registered readiness function if present.
func IsReady() bool {
	readinessMu.RLock()
	fn := readinessFn
	readinessMu.RUnlock()
	if fn == nil {
		return true
	}
	return fn()
}
