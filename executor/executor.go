// Package executor implements the transaction executor: pre-flight
// validation, nonce/balance checks, post-execution state mutation, and
// per-block batching.
package executor

import (
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/olympus-protocol/olympus/common"
	"github.com/olympus-protocol/olympus/core"
	"github.com/olympus-protocol/olympus/errs"
	"github.com/olympus-protocol/olympus/executive"
	"github.com/olympus-protocol/olympus/metrics"
	"github.com/olympus-protocol/olympus/params"
	"github.com/olympus-protocol/olympus/state"
	"github.com/olympus-protocol/olympus/vm"
)

// TxResult is the result bundle produced per transaction.
type TxResult struct {
	Hash            common.Hash
	GasUsed         uint64
	GasPrice        *common.UInt256
	Success         bool
	Output          []byte
	Logs            []executive.Log
	ContractAddress common.Address
	Err             error
}

// Executor runs transactions against a State.
type Executor struct {
	Executive *executive.Executive
	Metrics   *metrics.Collectors
}

func New(exec *executive.Executive) *Executor {
	return &Executor{Executive: exec}
}

// WithMetrics attaches a metrics.Collectors that Execute reports gas
// usage and timing into; nil (the default) disables reporting.
func (e *Executor) WithMetrics(m *metrics.Collectors) *Executor {
	e.Metrics = m
	return e
}

// Execute runs a single transaction end to end: pre-flight validation,
// nonce/balance checks, dispatch via the executive, then post-execution
// state mutation.
func (e *Executor) Execute(st state.State, env vm.Environment, tx *core.Transaction, blockGasLimit uint64, baseFee *common.UInt256) *TxResult {
	hash := tx.Hash()
	start := time.Now()
	if e.Metrics != nil {
		defer func() { e.Metrics.ExecutionDuration.Observe(time.Since(start).Seconds()) }()
	}

	if err := e.preflight(tx, blockGasLimit, baseFee); err != nil {
		log.Debug("transaction failed preflight", "hash", hash.Hex(), "err", err)
		return &TxResult{Hash: hash, Success: false, Err: err}
	}

	sender, err := tx.Sender()
	if err != nil {
		return &TxResult{Hash: hash, Success: false, Err: errs.Wrap(errs.InvalidTransaction, "sender recovery failed", err)}
	}

	senderNonce := st.GetNonce(sender)
	if tx.Nonce.Uint64() != senderNonce {
		return &TxResult{Hash: hash, Success: false, Err: errs.New(errs.InvalidTransaction, "nonce mismatch")}
	}

	cost := new(common.UInt256).Mul(tx.GasLimit, tx.GasPrice)
	cost.Add(cost, tx.Value)
	senderBalance := st.GetBalance(sender)
	if senderBalance.Lt(cost) {
		return &TxResult{Hash: hash, Success: false, Err: errs.New(errs.InvalidTransaction, "insufficient balance")}
	}

	gasMgr := vm.NewGasManager(tx.GasLimit.Uint64(), tx.GasPrice.Uint64())
	ctx := vm.NewExecutionContext(env, gasMgr)

	// Intrinsic gas is charged up front; the remainder is available to
	// the executive for precompile/EVM dispatch.
	if err := gasMgr.ConsumeGas(tx.BaseGasRequired()); err != nil {
		return e.finalizeFailed(st, sender, tx, hash, gasMgr)
	}

	result := e.Executive.Execute(st, ctx, sender, tx.ReceiveAddress, tx.Value, tx.Data, tx.IsContractCreation())

	if !result.Success {
		return e.finalizeFailed(st, sender, tx, hash, gasMgr)
	}

	// Success: advance nonce, debit gas, and ensure the recipient account
	// exists. The value was already moved to the recipient by the
	// executive (precompile dispatch or the EVM's Call/Create).
	st.SetNonce(sender, senderNonce+1)
	gasCost := new(common.UInt256).Mul(common.NewUInt256(gasMgr.Used()), tx.GasPrice)
	st.SetBalance(sender, new(common.UInt256).Sub(st.GetBalance(sender), gasCost))
	if !tx.IsContractCreation() && !st.Exists(tx.ReceiveAddress) {
		st.CreateAccount(tx.ReceiveAddress)
	}
	if e.Metrics != nil {
		e.Metrics.GasUsedTotal.Add(float64(gasMgr.Used()))
	}

	return &TxResult{
		Hash:            hash,
		GasUsed:         gasMgr.Used(),
		GasPrice:        tx.GasPrice,
		Success:         true,
		Output:          result.Output,
		Logs:            result.Logs,
		ContractAddress: result.ContractAddress,
	}
}

// finalizeFailed debits the gas consumed so far from the sender without
// advancing its nonce; the worst-case gas (gas_limit * gas_price) is
// reserved by the caller's balance check and only the consumed portion
// is charged here.
func (e *Executor) finalizeFailed(st state.State, sender common.Address, tx *core.Transaction, hash common.Hash, gasMgr *vm.GasManager) *TxResult {
	gasCost := new(common.UInt256).Mul(common.NewUInt256(gasMgr.Used()), tx.GasPrice)
	st.SetBalance(sender, new(common.UInt256).Sub(st.GetBalance(sender), gasCost))
	if e.Metrics != nil {
		e.Metrics.GasUsedTotal.Add(float64(gasMgr.Used()))
	}
	return &TxResult{
		Hash:    hash,
		GasUsed: gasMgr.Used(),
		Success: false,
		Err:     errs.Wrap(errs.EvmExecution, "execution failed", errs.ErrOutOfGas),
	}
}

// preflight checks: gas_limit <= block_gas_limit, gas_price >= base_fee,
// encoded size <= 128 KiB.
func (e *Executor) preflight(tx *core.Transaction, blockGasLimit uint64, baseFee *common.UInt256) error {
	if err := tx.Validate(core.ValidateCheap); err != nil {
		return err
	}
	if tx.GasLimit.Uint64() > blockGasLimit {
		return errs.New(errs.InvalidTransaction, "gas_limit exceeds block gas limit")
	}
	if baseFee != nil && tx.GasPrice.Lt(baseFee) {
		return errs.New(errs.InvalidTransaction, "gas_price below base fee")
	}
	encoded, err := tx.Encode()
	if err != nil {
		return errs.Wrap(errs.Serialization, "encode transaction", err)
	}
	if len(encoded) > params.MaxTxSize {
		return errs.New(errs.InvalidTransaction, "transaction exceeds max size")
	}
	return nil
}

// ExecuteBatch runs every transaction in source order against st,
// isolating failures: one failed transaction does not abort the batch.
// State mutations from succeeding transactions remain visible to later
// transactions in the same block.
func (e *Executor) ExecuteBatch(st state.State, env vm.Environment, txs []*core.Transaction, blockGasLimit uint64, baseFee *common.UInt256) []*TxResult {
	results := make([]*TxResult, 0, len(txs))
	for _, tx := range txs {
		results = append(results, e.Execute(st, env, tx, blockGasLimit, baseFee))
	}
	return results
}
