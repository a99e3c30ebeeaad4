// Package params holds the chain-wide constants: gas schedule, consensus
// defaults and the process-wide chain id.
package params

// ChainID is the process-wide chain identifier mixed into a transaction's
// signature v byte for replay protection.
const ChainID uint64 = 970

// Intrinsic gas: base cost of every transaction plus its data.
const (
	TxGas                 uint64 = 21000
	TxGasContractCreation uint64 = 32000
	TxDataZeroGas         uint64 = 4
	TxDataNonZeroGas      uint64 = 68
)

// Precompile gas schedule.
const (
	EcrecoverGas            uint64 = 3000
	Sha256BaseGas           uint64 = 60
	Sha256PerWordGas        uint64 = 12
	Ripemd160BaseGas        uint64 = 600
	Ripemd160PerWordGas     uint64 = 120
	IdentityBaseGas         uint64 = 15
	IdentityPerWordGas      uint64 = 3
	ModExpQuadDivisor       uint64 = 20
	Bn256AddGas             uint64 = 150
	Bn256ScalarMulGas       uint64 = 6000
	Bn256PairingBaseGas     uint64 = 45000
	Bn256PairingPerPointGas uint64 = 34000
)

// Execution limits.
const (
	MaxCallDepth              = 1024
	MaxTxSize                 = 128 * 1024 // 128 KiB
	FutureBlockMaxSkewSeconds int64 = 300
)

// Gas defaults.
const (
	DefaultGasLimit uint64 = 50_000_000
	DefaultGasPrice uint64 = 10_000_000
	DefaultBaseFee  uint64 = 1_000_000_000 // 1 gwei
)

// DAG consensus defaults.
const (
	DefaultMinWitnesses          = 3
	DefaultMaxWitnesses          = 21
	DefaultConfirmationThreshold = 2
	DefaultEpochDuration         = 100
	DefaultMaxBlocks             = 1000
)

// Precompile addresses.
const (
	PrecompileECRecover    byte = 0x01
	PrecompileSHA256       byte = 0x02
	PrecompileRipemd160    byte = 0x03
	PrecompileIdentity     byte = 0x04
	PrecompileModExp       byte = 0x05
	PrecompileBn256Add     byte = 0x06
	PrecompileBn256Mul     byte = 0x07
	PrecompileBn256Pairing byte = 0x08
	PrecompileBlake2F      byte = 0x09
)

// TxPoolDefaultPriceThreshold is the default gas price (in wei) strictly
// above which a pooled transaction is considered "pending" rather than
// "queued".
const TxPoolDefaultPriceThreshold uint64 = 1_000_000_000 // 1 gwei
