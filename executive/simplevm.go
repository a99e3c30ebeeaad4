package executive

import (
	"github.com/olympus-protocol/olympus/common"
	"github.com/olympus-protocol/olympus/state"
	"github.com/olympus-protocol/olympus/vm"
)

// SimpleVM is a minimal stand-in for the embedded general-purpose EVM
// this core treats as an external collaborator: no opcode interpreter
// is implemented here. It moves value and stores creation code without
// interpreting bytecode, just enough surface for the executive/executor
// pipeline to be exercised end-to-end in tests and by callers that have
// not yet wired in a real interpreter.
type SimpleVM struct{}

func (SimpleVM) Call(st state.State, ctx *vm.ExecutionContext, caller, to common.Address, input []byte, value *common.UInt256) ([]byte, uint64, error) {
	if value != nil && !value.IsZero() {
		st.SetBalance(caller, new(common.UInt256).Sub(st.GetBalance(caller), value))
		st.SetBalance(to, new(common.UInt256).Add(st.GetBalance(to), value))
	}
	return input, 0, nil
}

func (SimpleVM) Create(st state.State, ctx *vm.ExecutionContext, caller common.Address, input []byte, value *common.UInt256) (common.Address, []byte, uint64, error) {
	addr := ContractAddress(caller, st.GetNonce(caller))
	st.CreateAccount(addr)
	st.SetCode(addr, input)
	if value != nil && !value.IsZero() {
		st.SetBalance(caller, new(common.UInt256).Sub(st.GetBalance(caller), value))
		st.SetBalance(addr, new(common.UInt256).Add(st.GetBalance(addr), value))
	}
	return addr, nil, 0, nil
}
