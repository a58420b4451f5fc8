// Package telemetry wires the tree up to the ambient observability stack:
// structured logging and Prometheus metrics. None of it is reachable from
// package exptree itself -- the core tree has no files, wire protocols, or
// metrics registries in its public surface -- it exists purely for the
// external callers that drive a tree (cmd/exptree-bench and friends).
package telemetry

import (
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	exptree "github.com/leroycep/exptree"
)

// Recorder bundles the counters and gauges a long-running driver samples
// while it exercises a tree, plus the logger it reports progress through.
type Recorder struct {
	Log zerolog.Logger

	GetTotal        prometheus.Counter
	GetHitTotal     prometheus.Counter
	PutTotal        prometheus.Counter
	PutReplacedTotal prometheus.Counter
	OutOfMemoryTotal prometheus.Counter

	BytesUsed    prometheus.Gauge
	BytesInCache prometheus.Gauge
}

// NewRecorder registers every metric against reg and returns a Recorder
// reporting through log. Passing prometheus.NewRegistry() keeps metrics
// scoped to a single run; passing prometheus.DefaultRegisterer registers
// directly against the default registry.
func NewRecorder(reg prometheus.Registerer, log zerolog.Logger) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		Log: log,

		GetTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "exptree_get_total",
			Help: "Number of Get calls.",
		}),
		GetHitTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "exptree_get_hit_total",
			Help: "Number of Get calls that found the key.",
		}),
		PutTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "exptree_put_total",
			Help: "Number of Put calls that succeeded.",
		}),
		PutReplacedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "exptree_put_replaced_total",
			Help: "Number of Put calls that replaced an existing key.",
		}),
		OutOfMemoryTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "exptree_out_of_memory_total",
			Help: "Number of Put calls that failed with ErrOutOfMemory.",
		}),
		BytesUsed: factory.NewGauge(prometheus.GaugeOpts{
			Name: "exptree_bytes_used",
			Help: "Bytes currently held by live nodes.",
		}),
		BytesInCache: factory.NewGauge(prometheus.GaugeOpts{
			Name: "exptree_bytes_in_cache",
			Help: "Bytes held by freed, not-yet-reused nodes in the size-class cache.",
		}),
	}
}

// NewDefaultRecorder is NewRecorder with a zerolog console writer on
// stderr, for drivers that don't need a custom logger.
func NewDefaultRecorder(reg prometheus.Registerer) *Recorder {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	return NewRecorder(reg, log)
}

// ObserveGet records the outcome of a Get call.
func (r *Recorder) ObserveGet(hit bool) {
	r.GetTotal.Inc()
	if hit {
		r.GetHitTotal.Inc()
	}
}

// ObservePut records the outcome of a Put call, including a failed one.
func (r *Recorder) ObservePut(existed bool, err error) {
	if err != nil {
		r.OutOfMemoryTotal.Inc()
		return
	}
	r.PutTotal.Inc()
	if existed {
		r.PutReplacedTotal.Inc()
	}
}

// Sample reads a tree's current byte accounting into the gauges. Callers
// are expected to invoke this periodically (e.g. once per batch), not on
// every Get/Put -- BytesUsed is an O(tree size) traversal.
func Sample[K exptree.Ordered, V any](r *Recorder, t *exptree.Tree[K, V]) {
	r.BytesUsed.Set(float64(t.BytesUsed()))
	r.BytesInCache.Set(float64(t.BytesInCache()))
}

// LogProgress reports throughput every `every` operations, in the style of
// core.go's "processed %s leaves in %s; %s leaves/s" progress line.
func LogProgress(log zerolog.Logger, op string, count int64, every int64, since *time.Time) {
	if count == 0 || count%every != 0 {
		return
	}
	elapsed := time.Since(*since)
	rate := float64(every) / elapsed.Seconds()
	log.Info().Msgf("%s: processed %s ops in %s; %s ops/s",
		op, humanize.Comma(count), elapsed, humanize.Comma(int64(rate)))
	*since = time.Now()
}
