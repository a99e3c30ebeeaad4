// Package config loads the in-core tunables every other package reads
// its defaults from: consensus constants, gas defaults, chain id, state
// backend selection and data directory. It is not a CLI front end; it
// only resolves a NodeConfig from built-in defaults plus an optional
// file/environment overlay.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/olympus-protocol/olympus/params"
)

// StateBackend selects which state.State implementation a node runs.
type StateBackend string

const (
	StateBackendMemory     StateBackend = "memory"
	StateBackendPersistent StateBackend = "persistent"
)

// NodeConfig is the full set of tunables read by the consensus, executor
// and state packages at construction time.
type NodeConfig struct {
	ChainID uint64

	DataDir      string
	StateBackend StateBackend

	DefaultGasLimit uint64
	DefaultGasPrice uint64

	MinWitnesses          int
	MaxWitnesses          int
	ConfirmationThreshold int
	EpochDuration         int
	MaxBlocks             int

	TxPoolPriceThreshold uint64
	TxPoolMaxSize        int
}

// Load resolves a NodeConfig from built-in defaults, then an optional
// configuration file at path (if non-empty), then environment variables
// prefixed OLYMPUS_.
func Load(path string) (*NodeConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("olympus")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &NodeConfig{
		ChainID:               v.GetUint64("chain_id"),
		DataDir:               v.GetString("data_dir"),
		StateBackend:          StateBackend(v.GetString("state_backend")),
		DefaultGasLimit:       v.GetUint64("default_gas_limit"),
		DefaultGasPrice:       v.GetUint64("default_gas_price"),
		MinWitnesses:          v.GetInt("min_witnesses"),
		MaxWitnesses:          v.GetInt("max_witnesses"),
		ConfirmationThreshold: v.GetInt("confirmation_threshold"),
		EpochDuration:         v.GetInt("epoch_duration"),
		MaxBlocks:             v.GetInt("max_blocks"),
		TxPoolPriceThreshold:  v.GetUint64("tx_pool_price_threshold"),
		TxPoolMaxSize:         v.GetInt("tx_pool_max_size"),
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("chain_id", params.ChainID)
	v.SetDefault("data_dir", "./data")
	v.SetDefault("state_backend", string(StateBackendMemory))
	v.SetDefault("default_gas_limit", params.DefaultGasLimit)
	v.SetDefault("default_gas_price", params.DefaultGasPrice)
	v.SetDefault("min_witnesses", params.DefaultMinWitnesses)
	v.SetDefault("max_witnesses", params.DefaultMaxWitnesses)
	v.SetDefault("confirmation_threshold", params.DefaultConfirmationThreshold)
	v.SetDefault("epoch_duration", params.DefaultEpochDuration)
	v.SetDefault("max_blocks", params.DefaultMaxBlocks)
	v.SetDefault("tx_pool_price_threshold", params.TxPoolDefaultPriceThreshold)
	v.SetDefault("tx_pool_max_size", 10_000)
}
