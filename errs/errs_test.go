package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapUnwraps(t *testing.T) {
	inner := errors.New("boom")
	err := Wrap(Database, "open db", inner)
	require.ErrorIs(t, err, inner)
	require.Equal(t, "Database: open db: boom", err.Error())
}

func TestNewHasNoUnderlyingError(t *testing.T) {
	err := New(InvalidBlock, "bad block")
	require.Nil(t, err.Unwrap())
	require.Equal(t, "InvalidBlock: bad block", err.Error())
}

func TestIs(t *testing.T) {
	err := New(Consensus, "duplicate")
	require.True(t, Is(err, Consensus))
	require.False(t, Is(err, Database))
	require.False(t, Is(errors.New("plain"), Consensus))
}

func TestSentinelsCarryExpectedKind(t *testing.T) {
	require.True(t, Is(ErrOutOfGas, EvmExecution))
	require.True(t, Is(ErrMaxCallDepth, EvmExecution))
	require.True(t, Is(ErrDuplicateBlock, Consensus))
	require.True(t, Is(ErrMissingCheckpoint, Database))
	require.True(t, Is(ErrUnsignedTransaction, InvalidTransaction))
}
