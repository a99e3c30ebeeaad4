// Package metrics exposes the node's observable counters as Prometheus
// collectors: gas consumed, blocks confirmed/stabilized, and precompile
// invocations.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collectors bundles every metric the consensus and executor packages
// report into. A zero-value Collectors is unusable; construct one with
// NewCollectors and pass it to a registerer.
type Collectors struct {
	GasUsedTotal        prometheus.Counter
	BlocksConfirmed     prometheus.Counter
	BlocksStabilized    prometheus.Counter
	EpochsRotated       prometheus.Counter
	PrecompileCallTotal *prometheus.CounterVec
	TxPoolSize          *prometheus.GaugeVec
	ExecutionDuration   prometheus.Histogram
}

// NewCollectors builds the full set of collectors, unregistered.
func NewCollectors() *Collectors {
	return &Collectors{
		GasUsedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "olympus",
			Subsystem: "executor",
			Name:      "gas_used_total",
			Help:      "Cumulative gas consumed across all executed transactions.",
		}),
		BlocksConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "olympus",
			Subsystem: "consensus",
			Name:      "blocks_confirmed_total",
			Help:      "Number of blocks that reached the confirmation threshold.",
		}),
		BlocksStabilized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "olympus",
			Subsystem: "consensus",
			Name:      "blocks_stabilized_total",
			Help:      "Number of blocks promoted to stable.",
		}),
		EpochsRotated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "olympus",
			Subsystem: "consensus",
			Name:      "epochs_rotated_total",
			Help:      "Number of DAG epoch rotations.",
		}),
		PrecompileCallTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "olympus",
			Subsystem: "vm",
			Name:      "precompile_calls_total",
			Help:      "Precompile invocations by address.",
		}, []string{"address"}),
		TxPoolSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "olympus",
			Subsystem: "executor",
			Name:      "tx_pool_size",
			Help:      "Current transaction pool size by queue.",
		}, []string{"queue"}),
		ExecutionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "olympus",
			Subsystem: "executor",
			Name:      "execution_duration_seconds",
			Help:      "Wall time spent executing a single transaction.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// MustRegister registers every collector against reg, panicking on
// duplicate registration.
func (c *Collectors) MustRegister(reg *prometheus.Registry) {
	reg.MustRegister(
		c.GasUsedTotal,
		c.BlocksConfirmed,
		c.BlocksStabilized,
		c.EpochsRotated,
		c.PrecompileCallTotal,
		c.TxPoolSize,
		c.ExecutionDuration,
	)
}
