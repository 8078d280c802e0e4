package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "ayars_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	filesScanned  *prometheus.CounterVec
	scanLatency   *prometheus.HistogramVec
	devicesMapped prometheus.Counter
	probesFound   prometheus.Counter
)

// Init registers the scan metrics with the default registry. Until Init is
// called the Observe/Add helpers are no-ops.
func Init() {
	registerOnce.Do(func() {
		filesScanned = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "capture_files_scanned_total",
				Help: "Total capture files scanned by result",
			},
			[]string{"result"},
		)
		scanLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "capture_scan_seconds",
				Help:    "Time spent loading the devices of one capture file",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		devicesMapped = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "devices_mapped_total",
				Help: "Total device rows mapped to device records",
			},
		)
		probesFound = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "probed_ssids_total",
				Help: "Total probed SSIDs extracted",
			},
		)

		prometheus.MustRegister(
			filesScanned,
			scanLatency,
			devicesMapped,
			probesFound,
		)
	})
}

// ObserveScan records one capture file scan.
func ObserveScan(result string, duration time.Duration, devices int) {
	if result == "" {
		result = ResultSuccess
	}
	if filesScanned != nil {
		filesScanned.WithLabelValues(result).Inc()
	}
	if scanLatency != nil {
		scanLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
	if devicesMapped != nil && devices > 0 {
		devicesMapped.Add(float64(devices))
	}
}

// AddProbes counts extracted probed SSIDs.
func AddProbes(n int) {
	if probesFound != nil && n > 0 {
		probesFound.Add(float64(n))
	}
}
