package state

import (
	"github.com/VictoriaMetrics/fastcache"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/olympus-protocol/olympus/common"
	"github.com/olympus-protocol/olympus/errs"
)

// codeCacheBytes bounds the in-memory contract code cache. Code blobs
// are larger and longer-lived than account records, so they are fronted
// by fastcache's allocation-free ring buffer rather than the account
// LRU, which is sized for small fixed-shape records.
const codeCacheBytes = 32 * 1024 * 1024

// keyspace prefixes partition the single goleveldb namespace into three
// logical maps: accounts, storage, code.
const (
	prefixAccount byte = 'a'
	prefixStorage byte = 's'
	prefixCode    byte = 'c'
)

// accountRecord is the compact (balance, nonce, code_hash, storage_root)
// tuple persisted per address.
type accountRecord struct {
	Balance     *common.UInt256
	Nonce       uint64
	CodeHash    common.Hash
	StorageRoot common.Hash
}

// PersistentState is the goleveldb-backed State implementation. Reads
// go through a bounded LRU of decoded account records so repeated
// balance/nonce lookups inside a block don't re-hit disk.
type PersistentState struct {
	db        *leveldb.DB
	cache     *lru.Cache
	codeCache *fastcache.Cache

	log         []undoEntry
	checkpoints []int
}

// OpenPersistentState opens (or creates) a goleveldb database at dir.
func OpenPersistentState(dir string) (*PersistentState, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, errs.Wrap(errs.Database, "open leveldb", err)
	}
	cache, err := lru.New(4096)
	if err != nil {
		return nil, errs.Wrap(errs.Database, "allocate account cache", err)
	}
	return &PersistentState{db: db, cache: cache, codeCache: fastcache.New(codeCacheBytes)}, nil
}

func (p *PersistentState) Close() error {
	return p.db.Close()
}

func accountKey(addr common.Address) []byte {
	k := make([]byte, 0, 1+common.AddressLength)
	k = append(k, prefixAccount)
	return append(k, addr[:]...)
}

func storageDBKey(addr common.Address, slot common.Hash) []byte {
	k := make([]byte, 0, 1+common.AddressLength+common.HashLength)
	k = append(k, prefixStorage)
	k = append(k, addr[:]...)
	return append(k, slot[:]...)
}

func codeKey(addr common.Address) []byte {
	k := make([]byte, 0, 1+common.AddressLength)
	k = append(k, prefixCode)
	return append(k, addr[:]...)
}

func (p *PersistentState) loadAccount(addr common.Address) (*accountRecord, bool) {
	if v, ok := p.cache.Get(addr); ok {
		rec, _ := v.(*accountRecord)
		return rec, rec != nil
	}
	raw, err := p.db.Get(accountKey(addr), nil)
	if err != nil {
		p.cache.Add(addr, (*accountRecord)(nil))
		return nil, false
	}
	var rec accountRecord
	if err := rlp.DecodeBytes(raw, &rec); err != nil {
		log.Warn("corrupt account record", "addr", addr.Hex(), "err", err)
		return nil, false
	}
	p.cache.Add(addr, &rec)
	return &rec, true
}

func (p *PersistentState) storeAccount(addr common.Address, rec *accountRecord) {
	raw, err := rlp.EncodeToBytes(rec)
	if err != nil {
		log.Error("failed to encode account record", "addr", addr.Hex(), "err", err)
		return
	}
	if err := p.db.Put(accountKey(addr), raw, nil); err != nil {
		log.Error("failed to persist account record", "addr", addr.Hex(), "err", err)
		return
	}
	p.cache.Add(addr, rec)
}

func (p *PersistentState) removeAccount(addr common.Address) {
	_ = p.db.Delete(accountKey(addr), nil)
	p.cache.Remove(addr)
}

func (p *PersistentState) record(restore func()) {
	p.log = append(p.log, undoEntry{restore: restore})
}

func (p *PersistentState) GetBalance(addr common.Address) *common.UInt256 {
	rec, ok := p.loadAccount(addr)
	if !ok {
		return common.NewUInt256(0)
	}
	return rec.Balance.Clone()
}

func (p *PersistentState) withAccount(addr common.Address, mutate func(rec *accountRecord)) {
	rec, existed := p.loadAccount(addr)
	var prev accountRecord
	if existed {
		prev = *rec
	}
	next := accountRecord{Balance: common.NewUInt256(0)}
	if existed {
		next = prev
	}
	p.record(func() {
		if existed {
			p.storeAccount(addr, &prev)
		} else {
			p.removeAccount(addr)
		}
	})
	mutate(&next)
	p.storeAccount(addr, &next)
}

func (p *PersistentState) SetBalance(addr common.Address, balance *common.UInt256) {
	p.withAccount(addr, func(rec *accountRecord) { rec.Balance = balance.Clone() })
}

func (p *PersistentState) GetNonce(addr common.Address) uint64 {
	rec, ok := p.loadAccount(addr)
	if !ok {
		return 0
	}
	return rec.Nonce
}

func (p *PersistentState) SetNonce(addr common.Address, nonce uint64) {
	p.withAccount(addr, func(rec *accountRecord) { rec.Nonce = nonce })
}

func (p *PersistentState) GetCodeHash(addr common.Address) common.Hash {
	rec, ok := p.loadAccount(addr)
	if !ok {
		return common.ZeroHash
	}
	return rec.CodeHash
}

func (p *PersistentState) GetCode(addr common.Address) []byte {
	if cached, ok := p.codeCache.HasGet(nil, addr[:]); ok {
		return cached
	}
	raw, err := p.db.Get(codeKey(addr), nil)
	if err != nil {
		return nil
	}
	p.codeCache.Set(addr[:], raw)
	return raw
}

func (p *PersistentState) SetCode(addr common.Address, code []byte) {
	prev, err := p.db.Get(codeKey(addr), nil)
	hadPrev := err == nil
	p.record(func() {
		if hadPrev {
			_ = p.db.Put(codeKey(addr), prev, nil)
		} else {
			_ = p.db.Delete(codeKey(addr), nil)
		}
		p.codeCache.Del(addr[:])
	})
	_ = p.db.Put(codeKey(addr), code, nil)
	p.codeCache.Set(addr[:], code)
	p.withAccount(addr, func(rec *accountRecord) { rec.CodeHash = codeHash(code) })
}

func (p *PersistentState) GetStorage(addr common.Address, key common.Hash) common.Hash {
	raw, err := p.db.Get(storageDBKey(addr, key), nil)
	if err != nil {
		return common.ZeroHash
	}
	return common.BytesToHash(raw)
}

func (p *PersistentState) SetStorage(addr common.Address, key, value common.Hash) {
	dbKey := storageDBKey(addr, key)
	prev, err := p.db.Get(dbKey, nil)
	hadPrev := err == nil
	p.record(func() {
		if hadPrev {
			_ = p.db.Put(dbKey, prev, nil)
		} else {
			_ = p.db.Delete(dbKey, nil)
		}
	})
	_ = p.db.Put(dbKey, value[:], nil)
}

func (p *PersistentState) Exists(addr common.Address) bool {
	_, ok := p.loadAccount(addr)
	return ok
}

func (p *PersistentState) CreateAccount(addr common.Address) {
	if p.Exists(addr) {
		return
	}
	p.withAccount(addr, func(rec *accountRecord) {})
}

// DeleteAccount removes the account record, its code, and every
// storage slot under addr by range-iterating the storage keyspace
// partition.
func (p *PersistentState) DeleteAccount(addr common.Address) {
	rec, existed := p.loadAccount(addr)
	var prevRec accountRecord
	if existed {
		prevRec = *rec
	}
	prevCode, hadCode := p.db.Get(codeKey(addr), nil)

	prefix := append([]byte{prefixStorage}, addr[:]...)
	removed := make(map[common.Hash][]byte)
	iter := p.db.NewIterator(nil, nil)
	for iter.Next() {
		k := iter.Key()
		if len(k) < len(prefix) || string(k[:len(prefix)]) != string(prefix) {
			continue
		}
		slot := common.BytesToHash(k[len(prefix):])
		removed[slot] = append([]byte(nil), iter.Value()...)
	}
	iter.Release()

	p.record(func() {
		if existed {
			p.storeAccount(addr, &prevRec)
		} else {
			p.removeAccount(addr)
		}
		if hadCode == nil {
			_ = p.db.Put(codeKey(addr), prevCode, nil)
		} else {
			_ = p.db.Delete(codeKey(addr), nil)
		}
		for slot, v := range removed {
			_ = p.db.Put(storageDBKey(addr, slot), v, nil)
		}
	})

	p.removeAccount(addr)
	_ = p.db.Delete(codeKey(addr), nil)
	p.codeCache.Del(addr[:])
	for slot := range removed {
		_ = p.db.Delete(storageDBKey(addr, slot), nil)
	}
}

// Commit flushes the accumulated undo log, making all mutations durable
// and clearing the checkpoint stack. goleveldb writes are already
// durable as they land; Commit here finalizes the logical transaction
// boundary.
func (p *PersistentState) Commit() error {
	p.log = p.log[:0]
	p.checkpoints = p.checkpoints[:0]
	log.Debug("persistent state committed")
	return nil
}

func (p *PersistentState) Revert() {
	if len(p.checkpoints) == 0 {
		return
	}
	mark := p.checkpoints[len(p.checkpoints)-1]
	p.checkpoints = p.checkpoints[:len(p.checkpoints)-1]
	p.replayFrom(mark)
}

func (p *PersistentState) Checkpoint() int {
	id := len(p.checkpoints)
	p.checkpoints = append(p.checkpoints, len(p.log))
	return id
}

func (p *PersistentState) RevertToCheckpoint(id int) {
	if id < 0 || id >= len(p.checkpoints) {
		return
	}
	mark := p.checkpoints[id]
	p.checkpoints = p.checkpoints[:id]
	p.replayFrom(mark)
}

func (p *PersistentState) replayFrom(mark int) {
	for i := len(p.log) - 1; i >= mark; i-- {
		p.log[i].restore()
	}
	p.log = p.log[:mark]
}
