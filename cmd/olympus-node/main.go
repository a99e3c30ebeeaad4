// Command olympus-node is a minimal wiring entrypoint: it loads a
// NodeConfig, constructs the state backend, executive/executor pipeline
// and DAG consensus engine, and starts a Prometheus metrics listener. It
// does not grow into a CLI framework, JSON-RPC server or P2P gossip
// node; those remain out of scope.
package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olympus-protocol/olympus/config"
	"github.com/olympus-protocol/olympus/consensus"
	"github.com/olympus-protocol/olympus/executive"
	"github.com/olympus-protocol/olympus/executor"
	"github.com/olympus-protocol/olympus/metrics"
	"github.com/olympus-protocol/olympus/state"
)

func main() {
	configPath := flag.String("config", "", "path to an optional node config file")
	metricsAddr := flag.String("metrics-addr", ":9090", "address the Prometheus metrics endpoint listens on")
	flag.Parse()

	log.SetDefault(log.NewLogger(log.NewTerminalHandler(os.Stderr, false)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Crit("failed to load node config", "err", err)
	}

	backend, closeFn, err := newStateBackend(cfg)
	if err != nil {
		log.Crit("failed to open state backend", "err", err)
	}
	if closeFn != nil {
		defer closeFn()
	}
	stateManager := state.NewManager(backend)

	collectors := metrics.NewCollectors()
	registry := prometheus.NewRegistry()
	collectors.MustRegister(registry)

	exec := executor.New(executive.New(executive.SimpleVM{}).WithMetrics(collectors)).WithMetrics(collectors)
	pool := executor.NewTxPool(cfg.TxPoolMaxSize).WithMetrics(collectors)
	pool.SetPriceThreshold(cfg.TxPoolPriceThreshold)

	dagConsensus := consensus.NewDagConsensus(
		cfg.MinWitnesses,
		cfg.MaxWitnesses,
		cfg.ConfirmationThreshold,
		cfg.EpochDuration,
		cfg.MaxBlocks,
	).WithMetrics(collectors)

	log.Info("olympus node initialized",
		"chain_id", cfg.ChainID,
		"state_backend", cfg.StateBackend,
		"min_witnesses", dagConsensus.MinWitnesses,
		"max_witnesses", dagConsensus.MaxWitnesses,
	)
	_ = stateManager
	_ = exec
	_ = pool

	http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	log.Info("serving metrics", "addr", *metricsAddr)
	if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
		log.Crit("metrics server exited", "err", err)
	}
}

// newStateBackend opens the state.State backend selected by cfg, along
// with an optional close function for backends that own a resource
// (goleveldb's file handle).
func newStateBackend(cfg *config.NodeConfig) (state.State, func(), error) {
	switch cfg.StateBackend {
	case config.StateBackendPersistent:
		ps, err := state.OpenPersistentState(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return ps, func() { _ = ps.Close() }, nil
	default:
		return state.NewMemoryState(), nil, nil
	}
}
