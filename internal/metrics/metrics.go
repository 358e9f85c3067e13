// Package metrics держит счётчики движка. Сами метрики отдаются наружу
// prometheus-сервером из pkg/metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gifts_detection_cycles_total",
		Help: "Completed detection cycles, including empty ones.",
	})

	CycleFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gifts_detection_cycle_failures_total",
		Help: "Cycles skipped because the catalog fetch failed.",
	})

	NewGiftsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gifts_detected_total",
		Help: "Newly listed gifts detected by the diff.",
	})

	ExclusionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gifts_excluded_total",
		Help: "Gifts excluded from purchase, by reason.",
	}, []string{"reason"})

	PurchasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gifts_purchases_total",
		Help: "Purchase attempts, by result.",
	}, []string{"result"})
)
