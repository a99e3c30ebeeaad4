package vm

import (
	"github.com/olympus-protocol/olympus/common"
	"github.com/olympus-protocol/olympus/errs"
	"github.com/olympus-protocol/olympus/params"
)

// Environment is the block-level context exposed to an execution.
type Environment struct {
	BlockNumber   uint64
	Timestamp     int64
	BlockHash     common.Hash
	BlockGasLimit uint64
	BaseFee       *common.UInt256
	Coinbase      common.Address
	Difficulty    *common.UInt256
	ChainID       uint64
}

// CallFrame is a single entry in the call-depth stack.
type CallFrame struct {
	Caller common.Address
	Callee common.Address
}

// ExecutionContext bundles the environment, gas accounting, and a
// bounded call-frame stack (max depth 1024).
type ExecutionContext struct {
	Env    Environment
	Gas    *GasManager
	frames []CallFrame
}

func NewExecutionContext(env Environment, gas *GasManager) *ExecutionContext {
	return &ExecutionContext{Env: env, Gas: gas}
}

// Depth returns the current call-frame depth.
func (c *ExecutionContext) Depth() int { return len(c.frames) }

// PushFrame pushes a new call frame, failing if it would exceed the
// maximum call depth of 1024.
func (c *ExecutionContext) PushFrame(f CallFrame) error {
	if len(c.frames) >= params.MaxCallDepth {
		return errs.ErrMaxCallDepth
	}
	c.frames = append(c.frames, f)
	return nil
}

// PopFrame pops the most recent call frame; a no-op on an empty stack.
func (c *ExecutionContext) PopFrame() {
	if len(c.frames) == 0 {
		return
	}
	c.frames = c.frames[:len(c.frames)-1]
}
