package vm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olympus-protocol/olympus/errs"
	"github.com/olympus-protocol/olympus/params"
)

func TestExecutionContextFrameStack(t *testing.T) {
	ctx := NewExecutionContext(Environment{ChainID: 1}, NewGasManager(1000, 1))
	require.Equal(t, 0, ctx.Depth())

	require.NoError(t, ctx.PushFrame(CallFrame{}))
	require.Equal(t, 1, ctx.Depth())

	ctx.PopFrame()
	require.Equal(t, 0, ctx.Depth())

	ctx.PopFrame() // no-op on empty stack
	require.Equal(t, 0, ctx.Depth())
}

func TestExecutionContextMaxCallDepth(t *testing.T) {
	ctx := NewExecutionContext(Environment{}, NewGasManager(1000, 1))
	for i := 0; i < params.MaxCallDepth; i++ {
		require.NoError(t, ctx.PushFrame(CallFrame{}))
	}
	err := ctx.PushFrame(CallFrame{})
	require.ErrorIs(t, err, errs.ErrMaxCallDepth)
}
