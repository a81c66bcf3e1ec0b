package monitor

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HDMetrics 派生引擎业务指标
type HDMetrics struct {
	DerivationsTotal    *prometheus.CounterVec
	DerivationErrors    *prometheus.CounterVec
	DumpNodes           *prometheus.HistogramVec
	DumpDurationSeconds *prometheus.HistogramVec
}

var HD *HDMetrics

// InitHDMetrics 由 Init 调用，注册到默认 registry
func InitHDMetrics() {
	HD = &HDMetrics{
		DerivationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_hd_derivations_total",
			Help: "Total number of derived nodes",
		}, []string{"family", "scheme"}),
		DerivationErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_hd_derivation_errors_total",
			Help: "Total number of failed derivations by error code",
		}, []string{"family", "code"}),
		DumpNodes: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wallet_hd_dump_nodes",
			Help:    "Number of nodes returned per dump",
			Buckets: prometheus.ExponentialBuckets(1, 4, 6),
		}, []string{"family"}),
		DumpDurationSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wallet_hd_dump_duration_seconds",
			Help:    "Duration of dump requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"family"}),
	}
}

// ObserveDump 记录一次 dump。未 Init 时什么都不做，方便单元测试直接调用 service。
func ObserveDump(family, scheme string, nodes int, seconds float64) {
	if HD == nil {
		return
	}
	HD.DerivationsTotal.WithLabelValues(family, scheme).Add(float64(nodes))
	HD.DumpNodes.WithLabelValues(family).Observe(float64(nodes))
	HD.DumpDurationSeconds.WithLabelValues(family).Observe(seconds)
}

// ObserveError 按错误码计数
func ObserveError(family string, code int) {
	if HD == nil {
		return
	}
	HD.DerivationErrors.WithLabelValues(family, strconv.Itoa(code)).Inc()
}
