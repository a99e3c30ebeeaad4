package executor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olympus-protocol/olympus/common"
	"github.com/olympus-protocol/olympus/core"
	"github.com/olympus-protocol/olympus/crypto"
)

func newPoolTx(t *testing.T, gasPrice uint64) *core.Transaction {
	t.Helper()
	sk, err := crypto.GenerateKey()
	require.NoError(t, err)
	tx := core.NewTransaction(
		common.NewUInt256(0),
		common.NewUInt256(0),
		common.NewUInt256(gasPrice),
		common.NewUInt256(21000),
		common.BytesToAddress([]byte{0x01}),
		nil,
	)
	require.NoError(t, tx.SignWithSecret(sk))
	return tx
}

func TestTxPoolRoutesByPriceThreshold(t *testing.T) {
	pool := NewTxPool(100)
	pool.SetPriceThreshold(10)

	high := newPoolTx(t, 20)
	low := newPoolTx(t, 1)

	require.NoError(t, pool.Add(high))
	require.NoError(t, pool.Add(low))

	require.Len(t, pool.Pending(), 1)
	require.Len(t, pool.Queued(), 1)
}

func TestTxPoolRejectsDuplicate(t *testing.T) {
	pool := NewTxPool(100)
	tx := newPoolTx(t, 20)
	require.NoError(t, pool.Add(tx))
	require.Error(t, pool.Add(tx))
}

func TestTxPoolRejectsWhenFull(t *testing.T) {
	pool := NewTxPool(1)
	require.NoError(t, pool.Add(newPoolTx(t, 20)))
	require.Error(t, pool.Add(newPoolTx(t, 20)))
}

func TestTxPoolPromoteQueued(t *testing.T) {
	pool := NewTxPool(100)
	pool.SetPriceThreshold(50)

	tx := newPoolTx(t, 10)
	require.NoError(t, pool.Add(tx))
	require.Len(t, pool.Queued(), 1)

	pool.PromoteQueued(5)
	require.Len(t, pool.Pending(), 1)
	require.Len(t, pool.Queued(), 0)
}
