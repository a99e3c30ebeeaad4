package state

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/olympus-protocol/olympus/common"
)

type account struct {
	balance    *common.UInt256
	nonce      uint64
	hasBalance bool
	hasNonce   bool
	code       []byte
	codeHash   common.Hash
}

// undoEntry restores a single mutated key to its value immediately
// before the mutation that appended this entry. The log is replayed in
// reverse on revert.
type undoEntry struct {
	restore func()
}

// MemoryState is the in-memory State implementation. Every mutation is
// logged so Revert/RevertToCheckpoint can restore exactly to a prior
// checkpoint without taking full snapshots.
type MemoryState struct {
	accounts map[common.Address]*account
	storage  map[storageKey]common.Hash

	log         []undoEntry
	checkpoints []int
}

func NewMemoryState() *MemoryState {
	return &MemoryState{
		accounts: make(map[common.Address]*account),
		storage:  make(map[storageKey]common.Hash),
	}
}

func (m *MemoryState) acct(addr common.Address) *account {
	a, ok := m.accounts[addr]
	if !ok {
		a = &account{}
		m.accounts[addr] = a
	}
	return a
}

func (m *MemoryState) record(restore func()) {
	m.log = append(m.log, undoEntry{restore: restore})
}

func (m *MemoryState) GetBalance(addr common.Address) *common.UInt256 {
	a, ok := m.accounts[addr]
	if !ok || !a.hasBalance {
		return common.NewUInt256(0)
	}
	return a.balance.Clone()
}

func (m *MemoryState) SetBalance(addr common.Address, balance *common.UInt256) {
	a := m.acct(addr)
	prevBal, prevHas := a.balance, a.hasBalance
	m.record(func() { a.balance, a.hasBalance = prevBal, prevHas })
	a.balance = balance.Clone()
	a.hasBalance = true
}

func (m *MemoryState) GetNonce(addr common.Address) uint64 {
	a, ok := m.accounts[addr]
	if !ok {
		return 0
	}
	return a.nonce
}

func (m *MemoryState) SetNonce(addr common.Address, nonce uint64) {
	a := m.acct(addr)
	prevNonce, prevHas := a.nonce, a.hasNonce
	m.record(func() { a.nonce, a.hasNonce = prevNonce, prevHas })
	a.nonce = nonce
	a.hasNonce = true
}

func (m *MemoryState) GetStorage(addr common.Address, key common.Hash) common.Hash {
	return m.storage[storageKey{addr, key}]
}

func (m *MemoryState) SetStorage(addr common.Address, key, value common.Hash) {
	sk := storageKey{addr, key}
	prev, had := m.storage[sk]
	m.record(func() {
		if had {
			m.storage[sk] = prev
		} else {
			delete(m.storage, sk)
		}
	})
	m.storage[sk] = value
}

func (m *MemoryState) GetCodeHash(addr common.Address) common.Hash {
	a, ok := m.accounts[addr]
	if !ok {
		return common.ZeroHash
	}
	return a.codeHash
}

func (m *MemoryState) GetCode(addr common.Address) []byte {
	a, ok := m.accounts[addr]
	if !ok {
		return nil
	}
	return a.code
}

func (m *MemoryState) SetCode(addr common.Address, code []byte) {
	a := m.acct(addr)
	prevCode, prevHash := a.code, a.codeHash
	m.record(func() { a.code, a.codeHash = prevCode, prevHash })
	a.code = append([]byte(nil), code...)
	a.codeHash = codeHash(code)
}

// Exists reports whether either a balance or a nonce has been recorded
// for addr.
func (m *MemoryState) Exists(addr common.Address) bool {
	a, ok := m.accounts[addr]
	return ok && (a.hasBalance || a.hasNonce)
}

func (m *MemoryState) CreateAccount(addr common.Address) {
	if _, ok := m.accounts[addr]; ok {
		return
	}
	m.record(func() { delete(m.accounts, addr) })
	m.accounts[addr] = &account{hasBalance: true, balance: common.NewUInt256(0)}
}

// DeleteAccount removes the account's balance, nonce, code and every
// storage slot keyed by addr.
func (m *MemoryState) DeleteAccount(addr common.Address) {
	prevAcct, had := m.accounts[addr], false
	if prevAcct != nil {
		had = true
	}
	removedStorage := make(map[common.Hash]common.Hash)
	for k, v := range m.storage {
		if k.addr == addr {
			removedStorage[k.key] = v
		}
	}
	m.record(func() {
		if had {
			m.accounts[addr] = prevAcct
		} else {
			delete(m.accounts, addr)
		}
		for k, v := range removedStorage {
			m.storage[storageKey{addr, k}] = v
		}
	})
	delete(m.accounts, addr)
	for k := range removedStorage {
		delete(m.storage, storageKey{addr, k})
	}
}

// Commit is a no-op for the memory variant.
func (m *MemoryState) Commit() error {
	log.Debug("memory state commit (no-op)")
	return nil
}

// Revert restores the most recently created checkpoint; with no
// checkpoint it is a no-op.
func (m *MemoryState) Revert() {
	if len(m.checkpoints) == 0 {
		return
	}
	mark := m.checkpoints[len(m.checkpoints)-1]
	m.checkpoints = m.checkpoints[:len(m.checkpoints)-1]
	m.replayFrom(mark)
}

// Checkpoint marks the current log position and returns a handle used
// by RevertToCheckpoint. Consumed internally by state.Manager.
func (m *MemoryState) Checkpoint() int {
	id := len(m.checkpoints)
	m.checkpoints = append(m.checkpoints, len(m.log))
	return id
}

// RevertToCheckpoint restores the state to the point Checkpoint(id) was
// taken and discards every later checkpoint.
func (m *MemoryState) RevertToCheckpoint(id int) {
	if id < 0 || id >= len(m.checkpoints) {
		return
	}
	mark := m.checkpoints[id]
	m.checkpoints = m.checkpoints[:id]
	m.replayFrom(mark)
}

func (m *MemoryState) replayFrom(mark int) {
	for i := len(m.log) - 1; i >= mark; i-- {
		m.log[i].restore()
	}
	m.log = m.log[:mark]
}
