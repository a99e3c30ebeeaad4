// Package state specifies the state capability set and provides two
// implementations: an in-memory one used for tests and light nodes, and
// a goleveldb-backed persistent one.
package state

import "github.com/olympus-protocol/olympus/common"

// State is the capability set every backend implements: balance/nonce
// get-set, per-slot contract storage, existence, account
// creation/deletion, and checkpoint commit/revert.
type State interface {
	GetBalance(addr common.Address) *common.UInt256
	SetBalance(addr common.Address, balance *common.UInt256)

	GetNonce(addr common.Address) uint64
	SetNonce(addr common.Address, nonce uint64)

	GetStorage(addr common.Address, key common.Hash) common.Hash
	SetStorage(addr common.Address, key, value common.Hash)

	GetCodeHash(addr common.Address) common.Hash
	SetCode(addr common.Address, code []byte)
	GetCode(addr common.Address) []byte

	Exists(addr common.Address) bool
	CreateAccount(addr common.Address)
	DeleteAccount(addr common.Address)

	Commit() error
	Revert()

	// Checkpoint marks the current mutation log position and returns a
	// handle; RevertToCheckpoint restores to that mark and discards any
	// later checkpoints. Consumed by Manager.
	Checkpoint() int
	RevertToCheckpoint(id int)
}

// storageKey composites an address and a slot key for keyspace
// partitioning of per-account storage slots.
type storageKey struct {
	addr common.Address
	key  common.Hash
}
