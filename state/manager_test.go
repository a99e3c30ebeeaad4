package state

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/olympus-protocol/olympus/common"
)

func TestManagerCheckpointRevert(t *testing.T) {
	backend := NewMemoryState()
	mgr := NewManager(backend)
	addr := common.BytesToAddress([]byte{0x09})

	backend.SetBalance(addr, common.NewUInt256(10))
	handle := mgr.CreateCheckpoint(1)
	backend.SetBalance(addr, common.NewUInt256(20))

	require.NoError(t, mgr.RevertToCheckpoint(handle))
	require.Equal(t, common.NewUInt256(10), backend.GetBalance(addr))
}

func TestManagerRevertToUnknownHandleFails(t *testing.T) {
	mgr := NewManager(NewMemoryState())
	err := mgr.RevertToCheckpoint(uuid.New())
	require.Error(t, err)
}

func TestManagerCommitClearsCheckpoints(t *testing.T) {
	backend := NewMemoryState()
	mgr := NewManager(backend)
	handle := mgr.CreateCheckpoint(1)

	require.NoError(t, mgr.Commit())
	require.Error(t, mgr.RevertToCheckpoint(handle))
}
