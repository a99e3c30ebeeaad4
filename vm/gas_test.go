package vm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olympus-protocol/olympus/errs"
)

func TestGasManagerConsumeAndRemaining(t *testing.T) {
	g := NewGasManager(1000, 1)
	require.NoError(t, g.ConsumeGas(400))
	require.Equal(t, uint64(600), g.RemainingGas())
	require.Equal(t, uint64(400), g.Used())
}

func TestGasManagerOutOfGas(t *testing.T) {
	g := NewGasManager(100, 1)
	err := g.ConsumeGas(150)
	require.ErrorIs(t, err, errs.ErrOutOfGas)
	require.Equal(t, uint64(100), g.Used())
	require.Equal(t, uint64(0), g.RemainingGas())
}

func TestGasManagerRefund(t *testing.T) {
	g := NewGasManager(100, 1)
	g.RefundGas(10)
	g.RefundGas(5)
	require.Equal(t, uint64(15), g.Refunded())
}
