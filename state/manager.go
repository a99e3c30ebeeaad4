package state

import (
	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"

	"github.com/olympus-protocol/olympus/errs"
)

// checkpointEntry pairs an externally-visible uuid handle with the
// backend's internal log-position id.
type checkpointEntry struct {
	handle      uuid.UUID
	blockNumber uint64
	internalID  int
}

// Manager layers checkpoint bookkeeping on top of a State backend:
// create_checkpoint(block_number) -> id, revert_to_checkpoint(id), and
// commit() which clears the checkpoint stack.
type Manager struct {
	backend     State
	checkpoints []checkpointEntry
}

func NewManager(backend State) *Manager {
	return &Manager{backend: backend}
}

func (m *Manager) State() State { return m.backend }

// CreateCheckpoint marks the current state and returns an opaque handle.
func (m *Manager) CreateCheckpoint(blockNumber uint64) uuid.UUID {
	handle := uuid.New()
	m.checkpoints = append(m.checkpoints, checkpointEntry{
		handle:      handle,
		blockNumber: blockNumber,
		internalID:  m.backend.Checkpoint(),
	})
	log.Debug("state checkpoint created", "handle", handle, "block", blockNumber)
	return handle
}

// RevertToCheckpoint restores the state to handle and discards every
// later checkpoint, in reverse insertion order only.
func (m *Manager) RevertToCheckpoint(handle uuid.UUID) error {
	idx := -1
	for i, c := range m.checkpoints {
		if c.handle == handle {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errs.ErrMissingCheckpoint
	}
	m.backend.RevertToCheckpoint(m.checkpoints[idx].internalID)
	m.checkpoints = m.checkpoints[:idx]
	log.Debug("state reverted to checkpoint", "handle", handle)
	return nil
}

// Commit finalizes the backend and clears the checkpoint stack.
func (m *Manager) Commit() error {
	if err := m.backend.Commit(); err != nil {
		return errs.Wrap(errs.Database, "commit state", err)
	}
	m.checkpoints = m.checkpoints[:0]
	return nil
}
