// Package executive implements the single-transaction dispatch entry
// point: precompile vs. general EVM, and contract-address derivation
// for creation transactions.
package executive

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/olympus-protocol/olympus/common"
	"github.com/olympus-protocol/olympus/crypto"
	"github.com/olympus-protocol/olympus/errs"
	"github.com/olympus-protocol/olympus/metrics"
	"github.com/olympus-protocol/olympus/state"
	"github.com/olympus-protocol/olympus/vm"
)

// CallKind distinguishes a message call from a contract-creation call,
// mirroring the underlying VM's call kind.
type CallKind int

const (
	Call CallKind = iota
	Create
)

// Result is the tagged outcome of a single execution.
type Result struct {
	Success         bool
	GasUsed         uint64
	Output          []byte
	Logs            []Log
	ContractAddress common.Address
	Err             error
}

// Log is a minimal event log entry; the embedded EVM is the sole
// producer of richer log data, which this core only threads through.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

// EVM is the capability the executive delegates non-precompile calls
// to; the core specifies only the executive's use of it, not an opcode
// interpreter.
type EVM interface {
	Call(st state.State, ctx *vm.ExecutionContext, caller, to common.Address, input []byte, value *common.UInt256) ([]byte, uint64, error)
	Create(st state.State, ctx *vm.ExecutionContext, caller common.Address, input []byte, value *common.UInt256) (common.Address, []byte, uint64, error)
}

// Executive dispatches a single transaction's execution.
type Executive struct {
	EVM     EVM
	Metrics *metrics.Collectors
}

func New(evm EVM) *Executive {
	return &Executive{EVM: evm}
}

// WithMetrics attaches a metrics.Collectors that precompile dispatch
// reports call counts into; nil (the default) disables reporting.
func (e *Executive) WithMetrics(m *metrics.Collectors) *Executive {
	e.Metrics = m
	return e
}

// ContractAddress derives the address of a to-be-created contract:
// keccak256(sender || big_endian_u64(nonce))[:20]. This is the core's
// documented deviation from Ethereum's RLP-based rule.
func ContractAddress(sender common.Address, nonce uint64) common.Address {
	buf := make([]byte, common.AddressLength+8)
	copy(buf, sender[:])
	binary.BigEndian.PutUint64(buf[common.AddressLength:], nonce)
	h := crypto.Keccak256(buf)
	return common.BytesToAddress(h[:common.AddressLength])
}

// Execute runs a single transaction against st within ctx:
//  1. if the destination is a precompile, consume its gas cost for this
//     input, invoke it directly and, on success, move value from sender
//     to the precompile address;
//  2. otherwise delegate to the general EVM, deriving a contract address
//     when the call is a creation.
func (e *Executive) Execute(st state.State, ctx *vm.ExecutionContext, sender, to common.Address, value *common.UInt256, input []byte, isCreate bool) *Result {
	if !isCreate {
		if p, ok := vm.PrecompiledContracts[to]; ok {
			if e.Metrics != nil {
				e.Metrics.PrecompileCallTotal.WithLabelValues(fmt.Sprintf("0x%02x", to[common.AddressLength-1])).Inc()
			}
			result := e.runPrecompile(p, input, ctx)
			if result.Success && value != nil && !value.IsZero() {
				st.SetBalance(sender, new(common.UInt256).Sub(st.GetBalance(sender), value))
				st.SetBalance(to, new(common.UInt256).Add(st.GetBalance(to), value))
			}
			return result
		}
	}
	if isCreate {
		return e.runCreate(st, ctx, sender, input, value)
	}
	return e.runCall(st, ctx, sender, to, input, value)
}

func (e *Executive) runPrecompile(p vm.PrecompiledContract, input []byte, ctx *vm.ExecutionContext) *Result {
	cost := p.RequiredGas(input)
	if ctx.Gas.RemainingGas() < cost {
		log.Debug("precompile call out of gas", "cost", cost, "remaining", ctx.Gas.RemainingGas())
		return &Result{Success: false, Err: errs.ErrOutOfGas}
	}
	if err := ctx.Gas.ConsumeGas(cost); err != nil {
		return &Result{Success: false, GasUsed: cost, Err: err}
	}
	out, err := p.Run(input)
	if err != nil {
		return &Result{Success: false, GasUsed: cost, Err: errs.Wrap(errs.EvmExecution, "precompile execution failed", err)}
	}
	return &Result{Success: true, GasUsed: cost, Output: out}
}

func (e *Executive) runCreate(st state.State, ctx *vm.ExecutionContext, sender common.Address, input []byte, value *common.UInt256) *Result {
	if err := ctx.PushFrame(vm.CallFrame{Caller: sender}); err != nil {
		return &Result{Success: false, Err: err}
	}
	defer ctx.PopFrame()

	addr, out, gasUsed, err := e.EVM.Create(st, ctx, sender, input, value)
	if err != nil {
		return &Result{Success: false, GasUsed: gasUsed, Err: errs.Wrap(errs.EvmExecution, "contract creation failed", err)}
	}
	return &Result{Success: true, GasUsed: gasUsed, Output: out, ContractAddress: addr}
}

func (e *Executive) runCall(st state.State, ctx *vm.ExecutionContext, sender, to common.Address, input []byte, value *common.UInt256) *Result {
	if err := ctx.PushFrame(vm.CallFrame{Caller: sender, Callee: to}); err != nil {
		return &Result{Success: false, Err: err}
	}
	defer ctx.PopFrame()

	out, gasUsed, err := e.EVM.Call(st, ctx, sender, to, input, value)
	if err != nil {
		return &Result{Success: false, GasUsed: gasUsed, Err: errs.Wrap(errs.EvmExecution, "evm call failed", err)}
	}
	return &Result{Success: true, GasUsed: gasUsed, Output: out}
}
