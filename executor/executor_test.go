package executor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olympus-protocol/olympus/common"
	"github.com/olympus-protocol/olympus/core"
	"github.com/olympus-protocol/olympus/crypto"
	"github.com/olympus-protocol/olympus/executive"
	"github.com/olympus-protocol/olympus/params"
	"github.com/olympus-protocol/olympus/state"
	"github.com/olympus-protocol/olympus/vm"
)

func newSignedTx(t *testing.T, nonce uint64, value, gasPrice, gasLimit uint64, dest common.Address) (*core.Transaction, common.Address) {
	t.Helper()
	sk, err := crypto.GenerateKey()
	require.NoError(t, err)
	sender := crypto.PrivateKeyToAddress(sk)

	tx := core.NewTransaction(
		common.NewUInt256(nonce),
		common.NewUInt256(value),
		common.NewUInt256(gasPrice),
		common.NewUInt256(gasLimit),
		dest,
		nil,
	)
	require.NoError(t, tx.SignWithSecret(sk))
	return tx, sender
}

func newTestExecutor() *Executor {
	return New(executive.New(executive.SimpleVM{}))
}

func testEnv() vm.Environment {
	return vm.Environment{ChainID: params.ChainID, BlockGasLimit: 10_000_000}
}

func TestExecuteSuccessAdvancesNonceAndDebitsGas(t *testing.T) {
	st := state.NewMemoryState()
	dest := common.BytesToAddress([]byte{0x02})
	tx, sender := newSignedTx(t, 0, 100, 10, 30_000, dest)
	st.SetBalance(sender, common.NewUInt256(1_000_000))

	e := newTestExecutor()
	result := e.Execute(st, testEnv(), tx, 10_000_000, nil)

	require.True(t, result.Success)
	require.Equal(t, uint64(1), st.GetNonce(sender))
	require.Equal(t, common.NewUInt256(1_000_000-100-result.GasUsed*10), st.GetBalance(sender))
	require.True(t, st.Exists(dest))
}

func TestExecuteRejectsNonceMismatch(t *testing.T) {
	st := state.NewMemoryState()
	dest := common.BytesToAddress([]byte{0x02})
	tx, sender := newSignedTx(t, 5, 0, 10, 30_000, dest)
	st.SetBalance(sender, common.NewUInt256(1_000_000))

	e := newTestExecutor()
	result := e.Execute(st, testEnv(), tx, 10_000_000, nil)
	require.False(t, result.Success)
}

func TestExecuteRejectsInsufficientBalance(t *testing.T) {
	st := state.NewMemoryState()
	dest := common.BytesToAddress([]byte{0x02})
	tx, sender := newSignedTx(t, 0, 1_000_000, 10, 30_000, dest)
	st.SetBalance(sender, common.NewUInt256(1))

	e := newTestExecutor()
	result := e.Execute(st, testEnv(), tx, 10_000_000, nil)
	require.False(t, result.Success)
}

func TestExecuteRejectsGasPriceBelowBaseFee(t *testing.T) {
	st := state.NewMemoryState()
	dest := common.BytesToAddress([]byte{0x02})
	tx, sender := newSignedTx(t, 0, 0, 5, 30_000, dest)
	st.SetBalance(sender, common.NewUInt256(1_000_000))

	e := newTestExecutor()
	result := e.Execute(st, testEnv(), tx, 10_000_000, common.NewUInt256(10))
	require.False(t, result.Success)
}

func TestExecuteBatchIsolatesFailures(t *testing.T) {
	st := state.NewMemoryState()
	dest := common.BytesToAddress([]byte{0x02})

	good, goodSender := newSignedTx(t, 0, 0, 10, 30_000, dest)
	st.SetBalance(goodSender, common.NewUInt256(1_000_000))

	bad, badSender := newSignedTx(t, 5, 0, 10, 30_000, dest) // nonce mismatch
	st.SetBalance(badSender, common.NewUInt256(1_000_000))

	e := newTestExecutor()
	results := e.ExecuteBatch(st, testEnv(), []*core.Transaction{good, bad}, 10_000_000, nil)
	require.Len(t, results, 2)
	require.True(t, results[0].Success)
	require.False(t, results[1].Success)
}
